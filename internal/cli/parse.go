package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/neuroloc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	parseFile         string
	parseFormat       string
	parseDifferential bool
	parseLimit        int
	parseTerritories  bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [text...]",
	Short: "Extract findings from a piece of clinical text",
	Long: `Parse scans one text for neurological findings:
- Detects laterality once for the whole text (left wins over right)
- Emits cranial nerve, tract and additional findings in catalog order
- Sets the level from the first non-forebrain cranial nerve
- Matches the first syndrome whose ipsilateral findings are all present

Text is taken from the arguments, from --file, or from stdin.

Example:
  neuroloc parse "Sudden left ptosis and mydriasis with right-sided weakness"
  neuroloc parse --file note.html --format md
  echo "tongue deviation" | neuroloc parse --differential --territories`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "read input from a .txt, .html, .json or .yaml file")
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "output format: json or md (default from config)")
	parseCmd.Flags().BoolVar(&parseDifferential, "differential", false, "include a differential of candidate syndromes")
	parseCmd.Flags().IntVar(&parseLimit, "limit", 0, "maximum differential entries (0 for all)")
	parseCmd.Flags().BoolVar(&parseTerritories, "territories", false, "include implicated vascular territories")
}

func runParse(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	var in *pipeline.Input
	switch {
	case len(args) > 0:
		in = &pipeline.Input{Kind: pipeline.KindText, Text: strings.Join(args, " ")}
	case parseFile != "":
		in, err = pipeline.LoadInput(parseFile)
		if err != nil {
			return err
		}
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		in = &pipeline.Input{Kind: pipeline.KindText, Text: string(data)}
	}

	var opts []pipeline.Option
	opts = append(opts, pipeline.WithLogger(logger))
	if parseDifferential {
		opts = append(opts, pipeline.WithDifferential(parseLimit))
	}
	if parseTerritories {
		opts = append(opts, pipeline.WithTerritories())
	}

	report, err := pipeline.New(engine, opts...).AnalyzeInput(context.Background(), in)
	if err != nil {
		return err
	}

	resultOnly := !parseDifferential && !parseTerritories && in.Kind != pipeline.KindTranscript
	return writeReport(cmd.OutOrStdout(), report, formatOr(parseFormat), resultOnly)
}

func formatOr(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Output.Format
}
