package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// RenderJSON serializes any report payload with stable indentation
func RenderJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

func writeJSON(v any, path string) error {
	data, err := RenderJSON(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
