package cli

import (
	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/ppiankov/neuroloc/internal/pipeline"
	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print read-only reference data from the knowledge base",
}

type cranialNerveEntry struct {
	Name     string      `json:"name"`
	Level    model.Level `json:"level"`
	Findings []string    `json:"findings"`
}

var catalogNervesCmd = &cobra.Command{
	Use:   "nerves",
	Short: "Print the cranial nerve catalog keyed by nerve",
	Args:  cobra.NoArgs,
	RunE: withKnowledge(func(cmd *cobra.Command, kb *knowledge.Base) any {
		nerves := make(map[string]cranialNerveEntry)
		for key, def := range kb.CranialNerveIndex() {
			nerves[key] = cranialNerveEntry{Name: def.Name, Level: def.Level, Findings: def.Triggers}
		}
		return map[string]any{"cranialNerves": nerves}
	}),
}

var catalogSyndromesCmd = &cobra.Command{
	Use:   "syndromes",
	Short: "Print the syndrome catalog in match priority order",
	Args:  cobra.NoArgs,
	RunE: withKnowledge(func(cmd *cobra.Command, kb *knowledge.Base) any {
		return map[string]any{"syndromes": kb.Syndromes()}
	}),
}

var catalogTerritoriesCmd = &cobra.Command{
	Use:   "territories",
	Short: "Print the vascular territory reference table",
	Args:  cobra.NoArgs,
	RunE: withKnowledge(func(cmd *cobra.Command, kb *knowledge.Base) any {
		return map[string]any{"territories": kb.Territories()}
	}),
}

func withKnowledge(build func(*cobra.Command, *knowledge.Base) any) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		kb, err := loadKnowledge(cfg)
		if err != nil {
			return err
		}
		return pipeline.NewRenderer(false).WriteJSON(cmd.OutOrStdout(), build(cmd, kb))
	}
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogNervesCmd)
	catalogCmd.AddCommand(catalogSyndromesCmd)
	catalogCmd.AddCommand(catalogTerritoriesCmd)
}
