// Package ocr is the text-extraction boundary: PDF bytes in, plain text out.
// The conformity engine never looks inside; it only consumes the text.
package ocr

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the OCR toolchain is not installed
var ErrUnavailable = errors.New("ocr engine unavailable")

// ErrNoText is returned when a document yields no usable text
var ErrNoText = errors.New("no text extracted from document")

// ExtractionError wraps a failure inside one extraction stage
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Config controls rasterization and recognition of scanned pages
type Config struct {
	Lang       string  // tesseract language code, e.g. "fra", "eng"
	DPI        int     // rasterization resolution
	Contrast   float64 // reserved for preprocessing pipelines
	Threshold  int     // binarization threshold, 0 disables
	Preprocess bool    // enable image preprocessing before recognition
	Grayscale  bool    // rasterize to grayscale
}

// DefaultConfig returns the recognition defaults for French datasheets
func DefaultConfig() Config {
	return Config{
		Lang:       "fra",
		DPI:        300,
		Contrast:   2.0,
		Threshold:  160,
		Preprocess: true,
		Grayscale:  true,
	}
}

// Extractor turns a PDF into plain text
type Extractor interface {
	// ExtractText extracts all text from the document
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// chainExtractor tries extractors in order until one yields text
type chainExtractor struct {
	extractors []Extractor
}

// NewExtractor builds the standard extraction chain: embedded PDF text first
// (fast, exact), Tesseract OCR as the fallback for scanned documents.
func NewExtractor(cfg Config) Extractor {
	return &chainExtractor{
		extractors: []Extractor{
			NewEmbeddedTextExtractor(),
			NewTesseractExtractor(cfg),
		},
	}
}

func (c *chainExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	var lastErr error
	for _, e := range c.extractors {
		text, err := e.ExtractText(ctx, pdf)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrNoText
}
