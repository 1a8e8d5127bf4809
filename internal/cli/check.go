package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbrunet/conforma/internal/pipeline"
	"github.com/cbrunet/conforma/internal/report"
	"github.com/cbrunet/conforma/internal/worker"
)

var (
	checkTemplate string
	checkTimeout  time.Duration
	outJSON       string
	outMD         string
	outCSV        string
	outXLSX       string
	noCache       bool
	noFooter      bool
	llmProvider   string
	llmModel      string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file.pdf>",
	Short: "Check one technical datasheet for conformity",
	Long: `Check analyzes a single PDF datasheet against the control points
of its product category and prints the verdict.

Example:
  conforma check fiche.pdf --template agro
  conforma check fiche.pdf --template chimie --json rapport.json --xlsx rapport.xlsx
  conforma check fiche.pdf --template agro --llm-provider groq --llm-model llama-3.3-70b-versatile`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkTemplate, "template", "t", "", "template category (agro, electronique, chimie)")
	_ = checkCmd.MarkFlagRequired("template")

	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	checkCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path")
	checkCmd.Flags().StringVar(&outXLSX, "xlsx", "", "output Excel path")

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh extraction and analysis)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, groq, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
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
	cfg.Output.IncludeFooter = !noFooter
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	pdf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	p.UseGate(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (template: %s)\n", path, checkTemplate)
	}

	result, err := p.AnalyzeDocument(ctx, pipeline.Document{
		Filename: filepath.Base(path),
		Category: checkTemplate,
		PDF:      pdf,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	outputs := []struct {
		format report.Format
		path   string
	}{
		{report.FormatJSON, outJSON},
		{report.FormatMarkdown, outMD},
		{report.FormatCSV, outCSV},
		{report.FormatExcel, outXLSX},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := renderer.WriteResult(result, out.format, out.path); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", out.path)
		}
	}

	report.PrintSummary(os.Stdout, result)
	return nil
}
