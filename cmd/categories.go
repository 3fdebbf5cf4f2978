package cmd

import (
	"github.com/spf13/cobra"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/internal/contract"
)

// categoriesCmd performs categorical aggregation over stored results.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show per-category counts for a schema field.",
	Long: `Group annotation results by the normalized values of a field and count them.

Values are normalized before counting: missing fields become "N/A", booleans
become "True"/"False", arrays fan out into one count per element, and nested
objects degrade to a placeholder instead of failing the run.

Buckets can be partitioned along an axis:
- aggregated    one bucket over all results (default)
- source        one bucket per asset source
- split         one bucket per value of a second field
- split-source  the cross product of split and source

Examples:
  # Count sentiment labels across all results
  pivot categories --schema 7 --field sentiment

  # Break the counts down per source
  pivot categories --schema 7 --field sentiment --axis source

  # Cross sentiment with topic from another schema
  pivot categories --schema 7 --field sentiment --axis split --split-field topic --split-schema 8

  # Collapse the long tail into an Other bucket
  pivot categories --schema 7 --field tags --max-slices 5

  # Export as CSV for a spreadsheet
  pivot categories --schema 7 --field sentiment --output csv --output-file sentiment.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePivotCategories(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run category aggregation", err)
		}
	},
}
