package cmd

import (
	"github.com/spf13/cobra"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/internal/contract"
)

// drilldownCmd lists the results behind a chart point.
var drilldownCmd = &cobra.Command{
	Use:   "drilldown",
	Short: "List the results behind a category slice or time bucket.",
	Long: `Resolve a chart point back to the underlying annotation results.

The selection is re-evaluated with exactly the normalization and bucketing
rules that produced the chart, so the listed results always match the count
the point displayed. Selecting the "Other" slice resolves its collapsed
membership first.

Examples:
  # Who is behind the Positive slice?
  pivot drilldown --schema 7 --field sentiment --select-category Positive

  # Drill into a slice of one source bucket
  pivot drilldown --schema 7 --field sentiment --axis source --select-axis source:2 --select-category Negative

  # Expand the collapsed Other bucket
  pivot drilldown --schema 7 --field tags --max-slices 5 --select-category Other

  # List the results inside one month
  pivot drilldown --schema 7 --granularity month --select-bucket 2024-03`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePivotDrilldown(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run drill-down", err)
		}
	},
}
