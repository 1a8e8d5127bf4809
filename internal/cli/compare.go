package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbrunet/conforma/internal/pipeline"
	"github.com/cbrunet/conforma/internal/worker"
)

var (
	compareTemplate string
	compareTimeout  time.Duration
	compareJSON     string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <v1.pdf> <v2.pdf>",
	Short: "Compare two versions of a datasheet",
	Long: `Compare analyzes two versions of the same datasheet with one
template and lists the control points whose status or extracted value
changed between them.

Example:
  conforma compare fiche-v1.pdf fiche-v2.pdf --template agro
  conforma compare fiche-v1.pdf fiche-v2.pdf --template chimie --json diff.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareTemplate, "template", "t", "", "template category (agro, electronique, chimie)")
	_ = compareCmd.MarkFlagRequired("template")

	compareCmd.Flags().StringVar(&compareJSON, "json", "", "output JSON path")
	compareCmd.Flags().DurationVar(&compareTimeout, "timeout", 4*time.Minute, "overall comparison timeout")
	compareCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh extraction and analysis)")

	compareCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, groq, anthropic, ollama)")
	compareCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), compareTimeout)
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
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	docs := make([]pipeline.Document, 2)
	for i, path := range args {
		pdf, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		docs[i] = pipeline.Document{
			Filename: filepath.Base(path),
			Category: compareTemplate,
			PDF:      pdf,
		}
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	p.UseGate(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))

	cmp, err := p.CompareDocuments(ctx, docs[0], docs[1])
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if compareJSON != "" {
		data, err := json.MarshalIndent(cmp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode comparison: %w", err)
		}
		if err := os.WriteFile(compareJSON, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write comparison: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", compareJSON)
		}
	}

	printComparison(cmp)
	return nil
}

func printComparison(cmp *pipeline.Comparison) {
	fmt.Println()
	fmt.Printf("Document 1:      %s (%s)\n", cmp.Document1.Filename, cmp.Document1.GlobalStatus)
	fmt.Printf("Document 2:      %s (%s)\n", cmp.Document2.Filename, cmp.Document2.GlobalStatus)
	fmt.Printf("Différences:     %d\n", len(cmp.Differences))

	for _, d := range cmp.Differences {
		fmt.Printf("  • %s\n", d.Point)
		fmt.Printf("      v1: %s (%s)\n", d.Doc1Status, orDash(d.Doc1Value))
		fmt.Printf("      v2: %s (%s)\n", d.Doc2Status, orDash(d.Doc2Value))
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
