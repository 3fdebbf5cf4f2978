// Package cmd defines the command-line interface for pivot.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(timeseriesCmd)
	rootCmd.AddCommand(drilldownCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper. Aggregation flags live
	// here because categories, timeseries and drilldown all share them.
	rootCmd.PersistentFlags().Int64P("schema", "s", 0, "Annotation schema ID whose results participate")
	rootCmd.PersistentFlags().String("field", "", "Dot-separated path of the grouped field")
	rootCmd.PersistentFlags().Int64("run", 0, "Restrict results to a single annotation run")
	rootCmd.PersistentFlags().String("axis", string(schema.AggregatedAxis), "Bucket partitioning: aggregated or source or split or split-source")
	rootCmd.PersistentFlags().String("split-field", "", "Field path of the split dimension for split axes")
	rootCmd.PersistentFlags().Int64("split-schema", 0, "Schema ID of the split field (defaults to --schema)")
	rootCmd.PersistentFlags().Int("max-slices", contract.DefaultMaxSlices, "Cap on categories per bucket before the tail collapses into Other (0 disables)")
	rootCmd.PersistentFlags().String("aliases", "", "Comma-separated label=canonical pairs applied after normalization")
	rootCmd.PersistentFlags().StringArrayP("filter", "f", nil, "Filter results by field:op[:value] (repeatable)")
	rootCmd.PersistentFlags().String("filter-logic", string(schema.AndFilterLogic), "Combine --filter rules with and/or")
	rootCmd.PersistentFlags().Bool("include-failed", false, "Include results whose status is not success")
	rootCmd.PersistentFlags().String("granularity", string(schema.MonthGranularity), "Bucket granularity: day or week or month or quarter or year")
	rootCmd.PersistentFlags().String("time-axis", string(schema.ResultTimeAxis), "Timestamp source: result or event or field")
	rootCmd.PersistentFlags().String("time-field", "", "Field path of the timestamp when --time-axis is field")
	rootCmd.PersistentFlags().Int64("time-schema", 0, "Schema ID of the timestamp field (defaults to --schema)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or chart")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of drilldownCmd to Viper
	drilldownCmd.Flags().String("select-category", "", "Category label of the clicked slice")
	drilldownCmd.Flags().String("select-axis", schema.AggregatedKey, "Axis bucket key of the clicked slice")
	drilldownCmd.Flags().String("select-bucket", "", "Time bucket key of the clicked point (e.g. 2024-03)")
	if err := viper.BindPFlags(drilldownCmd.Flags()); err != nil {
		contract.LogFatal("Error binding drilldown flags", err)
	}

	// Bind all flags of importCmd to Viper
	importCmd.Flags().String("api-base-url", "", "Base URL of the annotation API to import from")
	importCmd.Flags().String("api-token", "", "Bearer token for the annotation API (prefer PIVOT_API_TOKEN)")
	importCmd.Flags().Int("page-size", contract.DefaultPageSize, "Page size for paginated API fetches")
	importCmd.Flags().String("from-file", "", "Path to a JSON snapshot to import instead of fetching from the API")
	if err := viper.BindPFlags(importCmd.Flags()); err != nil {
		contract.LogFatal("Error binding import flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().IntP("port", "p", contract.DefaultServePort, "Port for the HTTP aggregation API")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
