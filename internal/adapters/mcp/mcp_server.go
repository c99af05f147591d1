// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/git-prompt/internal/domain"
	"github.com/xvierd/git-prompt/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"git-prompt",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	repoStateTool := mcp.NewTool(
		"get_repo_state",
		mcp.WithDescription("Get the classified state of a git repository: divergence from upstream, index and working tree state, ahead/behind counts, conflicts and any operation in progress"),
		mcp.WithString(
			"path",
			mcp.Description("Directory inside the repository (default: server working directory)"),
		),
	)
	s.server.AddTool(repoStateTool, s.handleGetRepoState)

	renderTool := mcp.NewTool(
		"render_prompt",
		mcp.WithDescription("Render a git prompt template for a repository"),
		mcp.WithString(
			"path",
			mcp.Description("Directory inside the repository (default: server working directory)"),
		),
		mcp.WithString(
			"template",
			mcp.Description(`Prompt template using \p tokens such as \pR, \pL, \pC (default: configured git prompt)`),
		),
		mcp.WithBoolean(
			"no_color",
			mcp.Description("Strip color escape sequences from the result"),
		),
	)
	s.server.AddTool(renderTool, s.handleRenderPrompt)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetRepoState handles the get_repo_state tool.
func (s *Server) handleGetRepoState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")

	facts, state, err := s.stateProvider.RepoState(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to inspect repository: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(RepoStateJSON(facts, state), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleRenderPrompt handles the render_prompt tool.
func (s *Server) handleRenderPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	template := request.GetString("template", "")
	noColor := request.GetBool("no_color", false)

	out, code := s.stateProvider.RenderPrompt(ctx, path, template, noColor)

	result := map[string]interface{}{
		"prompt":    out,
		"exit_code": int(code),
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// RepoStateJSON flattens facts and state into the JSON shape shared by
// the MCP tools and the status command.
func RepoStateJSON(facts domain.RepoFacts, state domain.RepoState) map[string]interface{} {
	result := map[string]interface{}{
		"repo":               facts.RepoName,
		"path":               facts.RepoPath,
		"branch":             facts.BranchName,
		"head":               string(facts.HeadCommitID),
		"upstream":           nil,
		"divergence":         string(state.Divergence),
		"index":              string(state.Index),
		"worktree":           string(state.Worktree),
		"ahead":              state.Ahead,
		"behind":             state.Behind,
		"conflicts":          state.ConflictCount,
		"staged":             state.StagedCount,
		"unstaged":           state.UnstagedCount,
		"untracked":          state.UntrackedCount,
		"rebase_in_progress": state.RebaseInProgress,
		"operation":          nil,
	}

	if facts.Upstream != nil {
		result["upstream"] = string(*facts.Upstream)
	}

	if facts.Operation.Active() {
		op := map[string]interface{}{
			"kind": string(facts.Operation.Kind),
		}
		if details := facts.Operation.Details(); details != "" {
			op["progress"] = details
		}
		result["operation"] = op
	}

	entries := make([]map[string]interface{}, 0, len(facts.StatusEntries))
	for _, e := range facts.StatusEntries {
		entry := map[string]interface{}{
			"area":   string(e.Area),
			"change": string(e.Change),
			"path":   e.Path,
		}
		if e.OldPath != "" {
			entry["old_path"] = e.OldPath
		}
		entries = append(entries, entry)
	}
	result["entries"] = entries

	return result
}
