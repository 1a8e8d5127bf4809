package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cbrunet/conforma/internal/model"
	"github.com/cbrunet/conforma/internal/pipeline"
)

// Analyzer defines the interface for analyzing one document
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, doc pipeline.Document) (*model.AnalysisResult, error)
}

// AnalyzeJob checks one document against its template
type AnalyzeJob struct {
	Index    int
	Document pipeline.Document
	Analyzer Analyzer
	Timeout  time.Duration
	Now      func() time.Time
	Category string
}

// Execute runs the analysis. A failure never fails the batch: it becomes an
// error placeholder result for that document.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	result, err := j.Analyzer.AnalyzeDocument(ctx, j.Document)
	if err != nil {
		placeholder := model.ErrorResult(j.Category, j.Now().Format("2006-01-02"), err.Error())
		placeholder.Filename = j.Document.Filename
		return &AnalyzeResult{Index: j.Index, Analysis: placeholder, Err: err}
	}
	return &AnalyzeResult{Index: j.Index, Analysis: result}
}

// AnalyzeResult carries the outcome of one job plus its input position
type AnalyzeResult struct {
	Index    int
	Analysis *model.AnalysisResult
	Err      error
}

// GetError returns the error from the analysis job
func (r *AnalyzeResult) GetError() error {
	return r.Err
}

// BatchProcessor analyzes multiple documents concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	timeout     time.Duration
	category    string
	now         func() time.Time
}

// NewBatchProcessor creates a batch processor. The category is recorded on
// error placeholders so every batch entry names its template.
func NewBatchProcessor(analyzer Analyzer, concurrency int, timeout time.Duration, category string) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		timeout:     timeout,
		category:    category,
		now:         time.Now,
	}
}

// Process analyzes all documents and returns results in input order.
// Failed documents appear as error placeholders, never as gaps.
func (b *BatchProcessor) Process(ctx context.Context, docs []pipeline.Document) []*model.AnalysisResult {
	if len(docs) == 0 {
		return []*model.AnalysisResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	// Submit from a goroutine and drain here: both pool channels are
	// bounded, so submitting a large batch before collecting would wedge
	// once the results buffer fills.
	go func() {
		defer pool.Close()
		for i, doc := range docs {
			pool.Submit(&AnalyzeJob{
				Index:    i,
				Document: doc,
				Analyzer: b.analyzer,
				Timeout:  b.timeout,
				Now:      b.now,
				Category: b.category,
			})
		}
	}()

	ordered := make([]*model.AnalysisResult, len(docs))
	for r := range pool.Results() {
		ar := r.(*AnalyzeResult)
		ordered[ar.Index] = ar.Analysis
	}
	// Jobs dropped by cancellation still need placeholders
	for i, r := range ordered {
		if r == nil {
			placeholder := model.ErrorResult(b.category, b.now().Format("2006-01-02"), "analysis cancelled")
			placeholder.Filename = docs[i].Filename
			ordered[i] = placeholder
		}
	}

	return ordered
}

// Aggregate consolidates per-document results into a batch report
func Aggregate(results []*model.AnalysisResult) *model.BatchResult {
	batch := &model.BatchResult{
		Documents: results,
	}
	batch.Summary.TotalDocuments = len(results)

	seen := make(map[string]bool)
	for _, r := range results {
		switch r.GlobalStatus {
		case model.GlobalConforme:
			batch.Summary.Conforme++
		case model.GlobalPartialConform:
			batch.Summary.PartiellementConforme++
		default:
			batch.Summary.NonConforme++
		}

		for _, issue := range r.Summary.CriticalIssues {
			entry := issue
			if r.Filename != "" {
				entry = r.Filename + ": " + issue
			}
			if !seen[entry] {
				seen[entry] = true
				batch.CriticalIssues = append(batch.CriticalIssues, entry)
			}
		}
	}
	sort.Strings(batch.CriticalIssues)

	if len(results) > 0 {
		batch.Summary.ConformityRate = float64(batch.Summary.Conforme) / float64(len(results)) * 100
	}

	return batch
}

// CollectPDFs expands the given paths into a deduplicated, sorted list of
// PDF files. Directories are scanned one level deep.
func CollectPDFs(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				add(filepath.Join(path, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
