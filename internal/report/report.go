// Package report renders analysis results to the supported output formats.
// Formatting only: every verdict is taken as-is from the resolver.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cbrunet/conforma/internal/model"
)

// Format identifies an output format
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatExcel    Format = "excel"
)

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported report extension: %s", filepath.Ext(path))
	}
}

// Renderer writes results and batch reports to files
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteResult renders a single-document result to path
func (r *Renderer) WriteResult(result *model.AnalysisResult, format Format, path string) error {
	switch format {
	case FormatJSON:
		return writeJSON(result, path)
	case FormatMarkdown:
		return r.writeMarkdown(resultMarkdown(result, r.includeFooter), path)
	case FormatCSV:
		return writeResultCSV(result, path)
	case FormatExcel:
		return writeResultExcel(result, path)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteBatch renders a consolidated batch report to path
func (r *Renderer) WriteBatch(batch *model.BatchResult, format Format, path string) error {
	switch format {
	case FormatJSON:
		return writeJSON(batch, path)
	case FormatMarkdown:
		return r.writeMarkdown(batchMarkdown(batch, r.includeFooter), path)
	case FormatCSV:
		return writeBatchCSV(batch, path)
	case FormatExcel:
		return writeBatchExcel(batch, path)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// statusSymbol maps a status to its display marker
func statusSymbol(s model.Status) string {
	switch s {
	case model.StatusConforme:
		return "✅"
	case model.StatusDouteux:
		return "⚠️"
	default:
		return "❌"
	}
}

func globalSymbol(s model.GlobalStatus) string {
	switch s {
	case model.GlobalConforme:
		return "✅"
	case model.GlobalPartialConform:
		return "⚠️"
	default:
		return "❌"
	}
}
