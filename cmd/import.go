package cmd

import (
	"github.com/spf13/cobra"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/internal/contract"
)

// importCmd pulls results from the annotation API into the local store.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import schemas, assets, sources and results into the local store.",
	Long: `Load annotation data into the local store, from a JSON snapshot file or
from a remote annotation API.

Schemas, sources and assets are imported before results so every result can
be resolved against its schema and source. API fetches are paginated; use
--page-size to trade request count against payload size. A snapshot file is
one JSON object with "results", "schemas", "assets" and "sources" arrays.

Examples:
  # Import everything from a local API
  pivot import --api-base-url http://localhost:8000

  # Import one annotation run with a token from the environment
  PIVOT_API_TOKEN=... pivot import --api-base-url https://api.example.com --run 42

  # Import a snapshot exported to disk
  pivot import --from-file ./annotations.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePivotImport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot import annotation data", err)
		}
	},
}
