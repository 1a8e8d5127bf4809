package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractExtractor rasterizes PDF pages with pdftoppm and recognizes them
// with Tesseract. This is the path for scanned datasheets.
type TesseractExtractor struct {
	config        Config
	clientFactory func() *gosseract.Client
}

// NewTesseractExtractor constructs an OCR extractor with the given config
func NewTesseractExtractor(cfg Config) *TesseractExtractor {
	if cfg.Lang == "" {
		cfg.Lang = "fra"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &TesseractExtractor{
		config:        cfg,
		clientFactory: gosseract.NewClient,
	}
}

// ExtractText rasterizes every page and concatenates the recognized text
func (t *TesseractExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return "", fmt.Errorf("pdftoppm not found: %w", ErrUnavailable)
	}

	pages, cleanup, err := t.rasterize(ctx, data)
	if err != nil {
		return "", err
	}
	defer cleanup()

	if len(pages) == 0 {
		return "", &ExtractionError{Stage: "rasterize", Err: fmt.Errorf("no pages produced")}
	}

	var sb strings.Builder
	for _, page := range pages {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		text, err := t.recognizePage(page)
		if err != nil {
			return "", &ExtractionError{Stage: "tesseract", Err: err}
		}
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(text)
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}

// rasterize writes page images into a temp directory and returns them sorted
// by page number.
func (t *TesseractExtractor) rasterize(ctx context.Context, data []byte) ([]string, func(), error) {
	dir, err := os.MkdirTemp("", "conforma-ocr-*")
	if err != nil {
		return nil, nil, &ExtractionError{Stage: "rasterize", Err: err}
	}
	cleanup := func() { os.RemoveAll(dir) }

	pdfPath := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		cleanup()
		return nil, nil, &ExtractionError{Stage: "rasterize", Err: err}
	}

	args := []string{"-png", "-r", strconv.Itoa(t.config.DPI)}
	if t.config.Preprocess && t.config.Grayscale {
		args = append(args, "-gray")
	}
	args = append(args, pdfPath, filepath.Join(dir, "page"))

	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return nil, nil, &ExtractionError{Stage: "rasterize", Err: fmt.Errorf("pdftoppm: %v: %s", err, strings.TrimSpace(string(out)))}
	}

	pages, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		cleanup()
		return nil, nil, &ExtractionError{Stage: "rasterize", Err: err}
	}
	sort.Strings(pages)
	return pages, cleanup, nil
}

func (t *TesseractExtractor) recognizePage(path string) (string, error) {
	c := t.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(t.config.Lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(t.config.DPI)); err != nil {
		return "", fmt.Errorf("set dpi: %w", err)
	}
	if err := c.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
