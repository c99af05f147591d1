package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/git-prompt/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server provides tools for querying repository state and rendering prompts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server on stdio. Press Ctrl+C to stop.")

		server := mcp.NewServer(app.state, Version)
		if err := server.Start(setupSignalHandler()); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
