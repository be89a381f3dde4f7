package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/ppiankov/neuroloc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	extractPerTurn bool
	extractFormat  string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <transcript>",
	Short: "Extract findings from an interview transcript",
	Long: `Extract reads a transcript of turns, either a list of {role, content}
objects or {"messages": [...]}, as JSON or YAML. Use "-" to read JSON or
YAML from stdin.

The string contents of all turns are joined with single spaces and parsed
as one text. With --per-turn, each turn is also parsed on its own and folded
into a running session state, as an interview would.

Example:
  neuroloc extract chat.json
  neuroloc extract chat.yaml --per-turn --format md`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractPerTurn, "per-turn", false, "include the turn-by-turn aggregated session state")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "output format: json or md (default from config)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	turns, err := readTranscript(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	report, err := pipeline.New(engine, pipeline.WithLogger(logger)).AnalyzeTurns(context.Background(), turns)
	if err != nil {
		return err
	}
	if args[0] != "-" {
		report.Source = args[0]
	}
	if !extractPerTurn {
		report.Session = nil
	}

	return writeReport(cmd.OutOrStdout(), report, formatOr(extractFormat), !extractPerTurn)
}

func readTranscript(stdin io.Reader, path string) ([]model.Turn, error) {
	if path != "-" {
		in, err := pipeline.LoadInput(path)
		if err != nil {
			return nil, err
		}
		if in.Kind != pipeline.KindTranscript {
			return nil, fmt.Errorf("%w: %s is not a .json or .yaml transcript", extract.ErrInvalidInput, path)
		}
		return in.Turns, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	format := "yaml"
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		format = "json"
	}
	return pipeline.DecodeTranscript(data, format)
}
