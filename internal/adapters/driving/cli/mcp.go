package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search, ask and performance lookups over MCP",
	Long: `Expose the retrieval pipeline to MCP clients.

Tools: search (ranked document chunks), ask (grounded answers with
citations), performance_target (breed performance-table lookups).
Resources under avisearch://indexes describe the built indexes.

The default transport is stdio, for clients that spawn the binary.
Pass --port to serve the streamable HTTP transport instead:

  avisearch mcp serve
  avisearch mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Search:      searchService,
		Answer:      answerService,
		Performance: perfService,
		Indexes:     indexStore,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
