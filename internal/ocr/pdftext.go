package ocr

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
)

// EmbeddedTextExtractor reads the text layer embedded in a digital PDF.
// Scanned documents have no text layer and fall through to OCR.
type EmbeddedTextExtractor struct{}

// NewEmbeddedTextExtractor constructs the embedded-text extractor
func NewEmbeddedTextExtractor() *EmbeddedTextExtractor {
	return &EmbeddedTextExtractor{}
}

// ExtractText returns the document text layer, or ErrNoText when the PDF
// carries none worth analyzing.
func (e *EmbeddedTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Stage: "pdf", Err: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Stage: "pdf", Err: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &ExtractionError{Stage: "pdf", Err: err}
	}

	text := strings.TrimSpace(buf.String())
	if !usableText(text) {
		return "", ErrNoText
	}
	return text, nil
}

// usableText guards against PDFs whose text layer is only page furniture
// (a few stray glyphs from a scan with a watermark, for instance).
func usableText(text string) bool {
	letters := 0
	for _, r := range text {
		if r > ' ' {
			letters++
		}
		if letters >= 32 {
			return true
		}
	}
	return false
}
