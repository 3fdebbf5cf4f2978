package cmd

import (
	"github.com/spf13/cobra"

	"github.com/annolab/pivot/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Pivot MCP server",
	Long:  `Launch an MCP server that allows AI agents to run aggregations via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdio clean for the protocol; setup logs nothing on success.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
