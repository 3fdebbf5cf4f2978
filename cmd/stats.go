package cmd

import (
	"github.com/spf13/cobra"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/internal/contract"
)

// statsCmd computes per-field statistic sketches.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize every field of a result set with statistic sketches.",
	Long: `Flatten result values and compute a per-field summary sketch.

Numeric fields get count/min/max/mean/variance, strings get their top values,
booleans get true/false counts, and datetime fields get their observed range.
Nested objects are flattened with dot-separated paths.

Examples:
  # Profile all fields of one schema's results
  pivot stats --schema 7

  # Include failed results in the profile
  pivot stats --schema 7 --include-failed

  # Export the sketches as JSON
  pivot stats --schema 7 --output json --output-file sketches.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePivotStats(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run field statistics", err)
		}
	},
}
