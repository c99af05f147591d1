package ports

import (
	"context"

	"github.com/xvierd/git-prompt/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides repository state to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// RepoState inspects the repository containing dir, or the working
	// directory when dir is empty.
	RepoState(ctx context.Context, dir string) (domain.RepoFacts, domain.RepoState, error)

	// RenderPrompt renders template for the repository containing dir.
	// An empty template selects the configured one and noColor strips
	// every color. The prompt always renders; the exit code reports any
	// fallback.
	RenderPrompt(ctx context.Context, dir, template string, noColor bool) (string, domain.ExitCode)
}
