package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the assistant tools:
search_knowledge, navigate_to_section, get_contact_info and download_cv.

The knowledge base and artifact are loaded once before serving. A missing
artifact or one built with a different embedding model is a startup error.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead. With server.metrics enabled,
Prometheus metrics are served at /metrics on the same port.

Examples:
  # Stdio mode (default)
  portfolio-rag mcp serve

  # HTTP mode
  portfolio-rag mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio, default server.port)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	port := settings.Server.Port
	if cmd.Flags().Changed("port") {
		if port, err = cmd.Flags().GetInt("port"); err != nil {
			return fmt.Errorf("getting port flag: %w", err)
		}
	}

	var metrics Metrics
	if settings.Server.Metrics {
		metrics = newMetrics()
	}

	s, err := openSession(cmd.Context(), settings, recorder(metrics))
	if err != nil {
		return err
	}
	defer s.Close()

	tools, err := toolService(s, settings, recorder(metrics))
	if err != nil {
		return err
	}

	ports := &mcp.Ports{Tools: tools}
	if metrics != nil {
		ports.Routes = metrics.Mount
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
