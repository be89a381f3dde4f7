package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/neuroloc/internal/pipeline"
	"github.com/ppiankov/neuroloc/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	concurrency       int
	outputDir         string
	batchTimeout      time.Duration
	noCache           bool
	noFooter          bool
	batchDifferential bool
	batchTerritories  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file|dir>",
	Short: "Analyze many notes and transcripts in parallel",
	Long: `Batch analyzes many inputs concurrently:
- Takes a directory (all .txt, .html, .json and .yaml files beneath it)
  or a list file with one path per line
- Processes files in parallel with a configurable worker count
- Throttles per source directory when rate limiting is configured
- Reuses cached parse results unless --no-cache
- Writes <name>.json and <name>.md for each input

A failing file is reported and does not stop the batch. The output
directory is never read as input, so reruns over the same tree are stable.

Example:
  neuroloc batch ./transcripts
  neuroloc batch inputs.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./neuroloc-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&batchDifferential, "differential", false, "include a differential in each report")
	batchCmd.Flags().BoolVar(&batchTerritories, "territories", false, "include vascular territories in each report")
}

func runBatch(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Neuroloc Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Source:       %s\n", source)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Cache:        %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	engine, err := newEngine()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithCache(newResultCache(cfg, engine.Knowledge().Fingerprint())),
	}
	if batchDifferential {
		opts = append(opts, pipeline.WithDifferential(0))
	}
	if batchTerritories {
		opts = append(opts, pipeline.WithTerritories())
	}
	p := pipeline.New(engine, opts...)

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize, logger)
	processor.Exclude(outputDir)

	results, err := processor.Process(ctx, source)
	if err != nil {
		return fmt.Errorf("process %s: %w", source, err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	names := make(map[string]int)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		name := reportName(result.Path, names)
		jsonPath := filepath.Join(outputDir, name+".json")
		mdPath := filepath.Join(outputDir, name+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%s)\n", result.Path, summary(result.Report))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	logger.Info("batch complete",
		zap.Int("total", len(results)),
		zap.Int("success", successCount),
		zap.Int("failures", failureCount),
	)

	return nil
}

func summary(report *pipeline.Report) string {
	level := "level undetermined"
	if report.Result.Level != nil {
		level = string(*report.Result.Level)
	}
	if report.Result.Syndrome != nil {
		return level + ", " + report.Result.Syndrome.Name
	}
	return level
}

// reportName derives a unique, filesystem-safe report name from an input path
func reportName(path string, seen map[string]int) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := sanitizeFilename(base)
	if name == "" {
		name = "report"
	}

	seen[name]++
	if n := seen[name]; n > 1 {
		return fmt.Sprintf("%s-%d", name, n)
	}
	return name
}

// sanitizeFilename replaces characters that are unsafe in file names
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))

	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
