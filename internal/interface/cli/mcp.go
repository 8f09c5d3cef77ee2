package cli

import (
	"fmt"

	"github.com/neilberkman/espressolog/cmd/espressolog/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio so an assistant can
log brews, ask for suggestions, and browse your brew history.

Configure in your MCP client's config file:
  {
    "mcpServers": {
      "espressolog": {
        "command": "espressolog",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := mcp.StartServer(logPath, cfg.Defaults, cfg.ReportTemplate); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
