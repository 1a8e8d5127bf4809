package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cbrunet/conforma/internal/model"
	"github.com/cbrunet/conforma/internal/pipeline"
)

// stubAnalyzer fails documents whose filename contains "broken"
type stubAnalyzer struct {
	delay time.Duration
}

func (s *stubAnalyzer) AnalyzeDocument(ctx context.Context, doc pipeline.Document) (*model.AnalysisResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if strings.Contains(doc.Filename, "broken") {
		return nil, errors.New("text extraction failed")
	}
	return &model.AnalysisResult{
		DocumentType:         "agro",
		GlobalStatus:         model.GlobalConforme,
		GlobalRecommendation: model.RecommendValidate,
		Filename:             doc.Filename,
	}, nil
}

func docs(names ...string) []pipeline.Document {
	out := make([]pipeline.Document, len(names))
	for i, n := range names {
		out[i] = pipeline.Document{Filename: n, PDF: []byte("%PDF " + n)}
	}
	return out
}

func TestBatchProcessor_PreservesInputOrder(t *testing.T) {
	b := NewBatchProcessor(&stubAnalyzer{delay: 5 * time.Millisecond}, 4, 0, "agro")

	names := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
	results := b.Process(context.Background(), docs(names...))

	if len(results) != len(names) {
		t.Fatalf("expected %d results, got %d", len(names), len(results))
	}
	for i, r := range results {
		if r.Filename != names[i] {
			t.Errorf("position %d: got %q, want %q", i, r.Filename, names[i])
		}
	}
}

func TestBatchProcessor_BatchLargerThanPoolBuffers(t *testing.T) {
	// The pool channels hold workers*2 entries each. A batch well beyond
	// that must still drain to completion instead of wedging on a full
	// results buffer.
	b := NewBatchProcessor(&stubAnalyzer{}, 1, 0, "agro")

	names := make([]string, 24)
	for i := range names {
		names[i] = fmt.Sprintf("fiche-%02d.pdf", i)
	}

	done := make(chan []*model.AnalysisResult, 1)
	go func() {
		done <- b.Process(context.Background(), docs(names...))
	}()

	var results []*model.AnalysisResult
	select {
	case results = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not complete, results were not drained during submission")
	}

	if len(results) != len(names) {
		t.Fatalf("expected %d results, got %d", len(names), len(results))
	}
	for i, r := range results {
		if r.Filename != names[i] {
			t.Errorf("position %d: got %q, want %q", i, r.Filename, names[i])
		}
		if r.IsError() {
			t.Errorf("position %d unexpectedly errored: %s", i, r.Error)
		}
	}
}

func TestBatchProcessor_FailureBecomesPlaceholder(t *testing.T) {
	b := NewBatchProcessor(&stubAnalyzer{}, 2, 0, "agro")

	results := b.Process(context.Background(), docs("ok.pdf", "broken.pdf", "fine.pdf"))
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	placeholder := results[1]
	if !placeholder.IsError() {
		t.Fatal("failed document must produce an error placeholder")
	}
	if placeholder.Filename != "broken.pdf" {
		t.Errorf("placeholder filename: got %q", placeholder.Filename)
	}
	if placeholder.GlobalStatus != model.GlobalNonConforme {
		t.Errorf("placeholder status: got %q", placeholder.GlobalStatus)
	}
	if placeholder.GlobalRecommendation != model.RecommendMoreInfo {
		t.Errorf("placeholder recommendation: got %q", placeholder.GlobalRecommendation)
	}
	if len(placeholder.Points) != 0 {
		t.Errorf("placeholder must carry no points, got %d", len(placeholder.Points))
	}

	// The other documents are unaffected
	if results[0].IsError() || results[2].IsError() {
		t.Error("healthy documents must not be marked as errors")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := NewBatchProcessor(&stubAnalyzer{}, 2, 0, "agro")
	results := b.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestAggregate_CountsAndRate(t *testing.T) {
	results := []*model.AnalysisResult{
		{Filename: "a.pdf", GlobalStatus: model.GlobalConforme},
		{Filename: "b.pdf", GlobalStatus: model.GlobalConforme},
		{Filename: "c.pdf", GlobalStatus: model.GlobalPartialConform},
		{Filename: "d.pdf", GlobalStatus: model.GlobalConforme},
	}

	batch := Aggregate(results)
	if batch.Summary.TotalDocuments != 4 {
		t.Errorf("total: got %d", batch.Summary.TotalDocuments)
	}
	if batch.Summary.Conforme != 3 || batch.Summary.PartiellementConforme != 1 || batch.Summary.NonConforme != 0 {
		t.Errorf("counts: %+v", batch.Summary)
	}
	if batch.Summary.ConformityRate != 75.0 {
		t.Errorf("rate: got %v, want 75.0", batch.Summary.ConformityRate)
	}
}

func TestAggregate_EmptyBatch(t *testing.T) {
	batch := Aggregate(nil)
	if batch.Summary.TotalDocuments != 0 {
		t.Errorf("total: got %d", batch.Summary.TotalDocuments)
	}
	if batch.Summary.ConformityRate != 0 {
		t.Errorf("rate of empty batch must be 0, got %v", batch.Summary.ConformityRate)
	}
}

func TestAggregate_CriticalIssuesDeduplicatedAndSorted(t *testing.T) {
	results := []*model.AnalysisResult{
		{
			Filename:     "b.pdf",
			GlobalStatus: model.GlobalNonConforme,
			Summary:      model.Summary{CriticalIssues: []string{"Corps étrangers: présence détectée"}},
		},
		{
			Filename:     "a.pdf",
			GlobalStatus: model.GlobalNonConforme,
			Summary:      model.Summary{CriticalIssues: []string{"Corps étrangers: présence détectée", "Corps étrangers: présence détectée"}},
		},
	}

	batch := Aggregate(results)
	want := []string{
		"a.pdf: Corps étrangers: présence détectée",
		"b.pdf: Corps étrangers: présence détectée",
	}
	if len(batch.CriticalIssues) != len(want) {
		t.Fatalf("got %d issues: %v", len(batch.CriticalIssues), batch.CriticalIssues)
	}
	for i := range want {
		if batch.CriticalIssues[i] != want[i] {
			t.Errorf("issue %d: got %q, want %q", i, batch.CriticalIssues[i], want[i])
		}
	}
}

func TestCollectPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := CollectPDFs([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.PDF" || filepath.Base(files[1]) != "b.pdf" {
		t.Errorf("unexpected order: %v", files)
	}
}

func TestCollectPDFs_MissingPath(t *testing.T) {
	if _, err := CollectPDFs([]string{"/does/not/exist"}); err == nil {
		t.Error("expected error for missing path")
	}
}
