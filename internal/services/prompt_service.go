// Package services wires the repository query port, the status
// classifier and the template renderer into the operations the CLI and
// the MCP server expose.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xvierd/git-prompt/internal/domain"
	"github.com/xvierd/git-prompt/internal/logging"
	"github.com/xvierd/git-prompt/internal/ports"
	"github.com/xvierd/git-prompt/internal/prompt"
)

// Templates holds the git-mode and non-git prompt templates.
type Templates struct {
	Git     string
	Default string
}

// Snapshot is the result of inspecting one repository.
type Snapshot struct {
	Facts domain.RepoFacts
	State domain.RepoState
}

// PromptService builds prompts and repository snapshots.
type PromptService struct {
	query    ports.RepositoryQuery
	renderer *prompt.Renderer
	getwd    func() (string, error)
}

// NewPromptService creates a new prompt service.
func NewPromptService(query ports.RepositoryQuery, env prompt.Environment) *PromptService {
	getwd := env.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	return &PromptService{
		query:    query,
		renderer: prompt.NewRenderer(env),
		getwd:    getwd,
	}
}

// Prompt renders the prompt for the repository containing dir, or the
// current directory when dir is empty. It never fails: every problem
// degrades to the default template, and the exit code says why.
func (s *PromptService) Prompt(ctx context.Context, dir string, tmpl Templates, style prompt.Style) (string, domain.ExitCode) {
	start, err := s.startDir(dir)
	var snap *Snapshot
	if err == nil {
		snap, err = s.Inspect(ctx, start)
	}
	if err != nil {
		code := ExitCodeFor(err)
		if code.IsFailure() {
			logging.Logger.Warn("git state unavailable, using default prompt", "error", err, "exit_code", int(code))
		} else {
			logging.Logger.Debug("falling back to default prompt", "error", err, "exit_code", int(code))
		}
		return s.renderer.RenderDefault(tmpl.Default, start, style), code
	}

	return s.render(snap, start, tmpl, style)
}

func (s *PromptService) render(snap *Snapshot, cwd string, tmpl Templates, style prompt.Style) (string, domain.ExitCode) {
	view := prompt.View{
		RepoName:  snap.Facts.RepoName,
		RepoPath:  snap.Facts.RepoPath,
		Branch:    snap.Facts.BranchName,
		State:     snap.State,
		Operation: snap.Facts.Operation,
		Cwd:       cwd,
	}
	out := s.renderer.Render(tmpl.Git, view, style)

	if !snap.Facts.HasUpstream() {
		return out, domain.ExitDefaultPrompt
	}
	return out, domain.ExitGitPrompt
}

// PlainPrompt renders the default template for dir without touching git.
func (s *PromptService) PlainPrompt(dir string, tmpl Templates, style prompt.Style) string {
	start, _ := s.startDir(dir)
	return s.renderer.RenderDefault(tmpl.Default, start, style)
}

// Inspect gathers facts about the repository containing dir and
// classifies them. The repository handle is closed before returning.
func (s *PromptService) Inspect(ctx context.Context, dir string) (*Snapshot, error) {
	repo, root, err := s.open(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logging.Logger.Debug("failed to close repository", "error", cerr)
		}
	}()

	facts, err := s.gather(ctx, repo, root)
	if err != nil {
		return nil, err
	}

	state, err := domain.Classify(*facts, repo)
	if err != nil {
		return nil, err
	}

	logging.Logger.Debug("classified repository",
		"repo", facts.RepoName,
		"branch", facts.BranchName,
		"divergence", string(state.Divergence),
		"index", string(state.Index),
		"worktree", string(state.Worktree),
		"ahead", state.Ahead,
		"behind", state.Behind,
		"conflicts", state.ConflictCount,
	)

	return &Snapshot{Facts: *facts, State: state}, nil
}

// Root returns the repository root containing dir.
func (s *PromptService) Root(dir string) (string, error) {
	start, err := s.startDir(dir)
	if err != nil {
		return "", err
	}
	root, ok := s.query.FindRoot(start)
	if !ok {
		return "", domain.ErrNotRepository
	}
	return root, nil
}

// Name returns the repository directory name, or "owner/repo" from the
// first remote when remote is true and a remote exists.
func (s *PromptService) Name(ctx context.Context, dir string, remote bool) (string, error) {
	repo, root, err := s.open(ctx, dir)
	if err != nil {
		return "", err
	}
	defer repo.Close()

	if remote {
		if name := repo.Remote(); name != "" {
			return name, nil
		}
	}
	return filepath.Base(root), nil
}

// Operation returns the multi-step operation in progress in the
// repository containing dir.
func (s *PromptService) Operation(ctx context.Context, dir string) (domain.HeadOperation, error) {
	repo, _, err := s.open(ctx, dir)
	if err != nil {
		return domain.HeadOperation{}, err
	}
	defer repo.Close()

	return repo.Operation(), nil
}

func (s *PromptService) open(ctx context.Context, dir string) (ports.Repository, string, error) {
	root, err := s.Root(dir)
	if err != nil {
		return nil, "", err
	}
	repo, err := s.query.Open(ctx, root)
	if err != nil {
		return nil, "", err
	}
	return repo, root, nil
}

func (s *PromptService) gather(ctx context.Context, repo ports.Repository, root string) (*domain.RepoFacts, error) {
	branch, head, err := repo.Head(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := repo.Status(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.RepoFacts{
		RepoName:         filepath.Base(root),
		RepoPath:         root,
		BranchName:       branch,
		HeadCommitID:     head,
		Upstream:         repo.Upstream(ctx, branch),
		StatusEntries:    entries,
		RebaseInProgress: repo.RebaseInProgress(),
		Operation:        repo.Operation(),
	}, nil
}

// startDir returns dir as an absolute path, or the working directory
// when dir is empty.
func (s *PromptService) startDir(dir string) (string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrNotRepository, err)
		}
		return abs, nil
	}
	cwd, err := s.getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNotRepository, err)
	}
	return cwd, nil
}

// ExitCodeFor maps an error from Inspect to the prompt exit code.
func ExitCodeFor(err error) domain.ExitCode {
	switch {
	case err == nil:
		return domain.ExitGitPrompt
	case errors.Is(err, domain.ErrNotRepository):
		return domain.ExitDefaultPrompt
	case errors.Is(err, domain.ErrNoLocalRef):
		return domain.ExitAbsentLocalRef
	case errors.Is(err, domain.ErrStatusFailed):
		return domain.ExitFailGitStatus
	case errors.Is(err, domain.ErrWalkFailed):
		return domain.ExitFailWalk
	default:
		return domain.ExitFailRepoObj
	}
}
