package cmd

import (
	"github.com/spf13/cobra"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/internal/contract"
)

// timeseriesCmd buckets results over time.
var timeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Bucket results over time with per-field numeric aggregates.",
	Long: `Bucket annotation results by timestamp and track numeric fields per bucket.

Each bucket carries a result count, the distinct assets it covers, and a
running min/max/average for every numeric field seen in the bucket. Results
without a resolvable timestamp are dropped rather than failing the run.

The timestamp can come from three places (--time-axis):
- result  the result's own timestamp (default)
- event   the asset's event timestamp
- field   a datetime field extracted from the result value

Examples:
  # Monthly result volume for one schema
  pivot timeseries --schema 7 --granularity month

  # Weekly volume bucketed by the asset's publication date
  pivot timeseries --schema 7 --granularity week --time-axis event

  # Bucket by a datetime field inside the result value
  pivot timeseries --schema 7 --time-axis field --time-field published_at

  # Render an interactive bar chart
  pivot timeseries --schema 7 --output chart --output-file volume.html`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePivotTimeseries(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run time-series aggregation", err)
		}
	},
}
