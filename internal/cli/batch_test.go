package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbrunet/conforma/internal/model"
	"github.com/cbrunet/conforma/internal/report"
)

func TestReadListFile(t *testing.T) {
	content := `fiches/a.pdf
# commentaire
fiches/b.pdf

fiches/a.pdf
`
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := readListFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files: %v", len(files), files)
	}
	if files[0] != "fiches/a.pdf" || files[1] != "fiches/b.pdf" {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestCollectInput_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := collectInput(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files", len(files))
	}
}

func TestLoadDocuments_UnreadableFileBecomesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(good, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "disparu.pdf")

	now := func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	docs, indices, results := loadDocuments([]string{good, missing, good}, "agro", now)

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 2 {
		t.Errorf("indices: %v", indices)
	}

	placeholder := results[1]
	if placeholder == nil || !placeholder.IsError() {
		t.Fatal("unreadable file must produce an error placeholder")
	}
	if placeholder.Filename != "disparu.pdf" {
		t.Errorf("placeholder filename: %q", placeholder.Filename)
	}
	if placeholder.DocumentType != "agro" {
		t.Errorf("placeholder document type: %q", placeholder.DocumentType)
	}
	if placeholder.AnalysisDate != "2025-03-14" {
		t.Errorf("placeholder date: %q", placeholder.AnalysisDate)
	}
	if placeholder.GlobalStatus != model.GlobalNonConforme {
		t.Errorf("placeholder status: %q", placeholder.GlobalStatus)
	}

	// Loaded slots stay empty until processing fills them in
	if results[0] != nil || results[2] != nil {
		t.Error("readable files must not be pre-filled")
	}
}

func TestBatchOutput(t *testing.T) {
	outputDir = t.TempDir()

	format, path, err := batchOutput("xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if format != report.FormatExcel {
		t.Errorf("format: %q", format)
	}
	if filepath.Base(path) != "batch.xlsx" {
		t.Errorf("path: %q", path)
	}

	if _, _, err := batchOutput("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}
