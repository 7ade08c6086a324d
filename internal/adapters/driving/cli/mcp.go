package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/adapters/driving/mcp"
	"github.com/custodia-labs/kbase/internal/logger"
)

var mcpSources sourceFlags

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can build a
knowledge base with the "ingest" tool and query it with the "ask" tool.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, e.g. for the MCP Inspector.

Sources given with --url, --file or --text are ingested before serving.

Examples:
  # Stdio mode (default)
  kbase mcp serve

  # HTTP mode with a preloaded knowledge base
  kbase mcp serve --port 8080 --file handbook.pdf

Client configuration:
  {
    "mcpServers": {
      "kbase": {
        "command": "/path/to/kbase",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpSources.register(mcpServeCmd)
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	session, release, err := openSession()
	if err != nil {
		return err
	}
	defer release()

	if len(mcpSources.urls)+len(mcpSources.files)+len(mcpSources.texts) > 0 {
		result, err := ingestFlags(cmd, session, &mcpSources)
		if err != nil {
			return err
		}
		logger.Info("Preloaded %d chunk(s) from %d document(s)", result.Stats.Chunks, result.Stats.Documents)
	}

	ports := &mcp.Ports{Session: session}
	if history, closeHistory, err := historyFactory(); err != nil {
		logger.Warn("history unavailable, answers will not be recorded: %v", err)
	} else {
		defer closeHistory()
		ports.History = history
	}

	server, err := mcp.NewServer(ports, version)
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
