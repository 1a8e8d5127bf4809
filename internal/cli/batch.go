package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbrunet/conforma/internal/model"
	"github.com/cbrunet/conforma/internal/pipeline"
	"github.com/cbrunet/conforma/internal/report"
	"github.com/cbrunet/conforma/internal/worker"
)

var (
	batchTemplate string
	concurrency   int
	outputDir     string
	batchTimeout  time.Duration
	docTimeout    time.Duration
	batchFormats  []string
	perDocument   bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list.txt>",
	Short: "Check a batch of datasheets in parallel",
	Long: `Batch analyzes every PDF in a directory, or the files named in a
list file (one path per line, # comments allowed), with a bounded worker
pool. A document that fails extraction or analysis becomes an error entry
in the consolidated report; it never aborts the batch.

Example:
  conforma batch ./fiches --template agro
  conforma batch fiches.txt --template chimie --concurrency 8 --output-dir ./rapports
  conforma batch ./fiches --template agro --formats json,md,xlsx --per-document`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchTemplate, "template", "t", "", "template category (agro, electronique, chimie)")
	_ = batchCmd.MarkFlagRequired("template")

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./conforma-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&docTimeout, "doc-timeout", 2*time.Minute, "timeout for one document")
	batchCmd.Flags().StringSliceVar(&batchFormats, "formats", []string{"json", "md"}, "batch report formats (json, md, csv, xlsx)")
	batchCmd.Flags().BoolVar(&perDocument, "per-document", false, "also write one JSON report per document")

	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh extraction and analysis)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, groq, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Concurrency.DocumentTimeout = docTimeout
	cfg.Output.IncludeFooter = !noFooter
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	files, err := collectInput(input)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %s", input)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:       %s (%d documents)\n", input, len(files))
	fmt.Fprintf(os.Stderr, "  Template:    %s\n", batchTemplate)
	fmt.Fprintf(os.Stderr, "  Workers:     %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:  %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	p.UseGate(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))

	docs, indices, results := loadDocuments(files, batchTemplate, time.Now)
	for _, r := range results {
		if r != nil {
			fmt.Fprintf(os.Stderr, "⚠ %s: %s\n", r.Filename, r.Error)
		}
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Concurrency.DocumentTimeout, batchTemplate)
	for i, r := range processor.Process(ctx, docs) {
		results[indices[i]] = r
	}
	batch := worker.Aggregate(results)

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	for _, name := range batchFormats {
		format, path, err := batchOutput(name)
		if err != nil {
			return err
		}
		if err := renderer.WriteBatch(batch, format, path); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}

	if perDocument {
		for _, result := range results {
			name := strings.TrimSuffix(result.Filename, filepath.Ext(result.Filename)) + ".json"
			path := filepath.Join(outputDir, name)
			if err := renderer.WriteResult(result, report.FormatJSON, path); err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d per-document reports\n", len(results))
	}

	report.PrintBatchSummary(os.Stdout, batch)
	return nil
}

// loadDocuments reads the batch inputs. An unreadable file becomes an error
// placeholder at its input position instead of aborting the batch; indices
// maps each loaded document back to its slot in the result slice.
func loadDocuments(files []string, category string, now func() time.Time) ([]pipeline.Document, []int, []*model.AnalysisResult) {
	docs := make([]pipeline.Document, 0, len(files))
	indices := make([]int, 0, len(files))
	results := make([]*model.AnalysisResult, len(files))

	for i, file := range files {
		pdf, err := os.ReadFile(file)
		if err != nil {
			placeholder := model.ErrorResult(category, now().Format("2006-01-02"), fmt.Sprintf("read file: %v", err))
			placeholder.Filename = filepath.Base(file)
			results[i] = placeholder
			continue
		}
		docs = append(docs, pipeline.Document{
			Filename: filepath.Base(file),
			Category: category,
			PDF:      pdf,
		})
		indices = append(indices, i)
	}

	return docs, indices, results
}

func batchOutput(name string) (report.Format, string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return report.FormatJSON, filepath.Join(outputDir, "batch.json"), nil
	case "md", "markdown":
		return report.FormatMarkdown, filepath.Join(outputDir, "batch.md"), nil
	case "csv":
		return report.FormatCSV, filepath.Join(outputDir, "batch.csv"), nil
	case "xlsx", "excel":
		return report.FormatExcel, filepath.Join(outputDir, "batch.xlsx"), nil
	default:
		return "", "", fmt.Errorf("unknown batch format: %s", name)
	}
}

// collectInput expands the batch argument: a list file names documents one
// per line, anything else goes through the PDF collector.
func collectInput(input string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(input), ".txt") {
		return readListFile(input)
	}
	return worker.CollectPDFs([]string{input})
}

func readListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var files []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			files = append(files, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list file: %w", err)
	}

	return files, nil
}
