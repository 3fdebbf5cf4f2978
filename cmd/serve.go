package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/annolab/pivot/internal/serve"
)

// serveCmd exposes the aggregation engine over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP aggregation API",
	Long: `Launch an HTTP server exposing categories, timeseries, stats and drilldown.

Endpoints mirror the CLI commands; aggregation parameters arrive as query
parameters and responses use a {data, count} envelope. The server reads from
the same store the CLI writes to, so run 'pivot import' first.

Examples:
  # Serve the local store on the default port
  pivot serve

  # Serve on a custom port
  pivot serve --port 9000`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		zap.ReplaceGlobals(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve.NewServer(cfg, storeManager).Run(ctx)
	},
}
