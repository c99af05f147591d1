package services

import (
	"context"

	"github.com/xvierd/git-prompt/internal/domain"
	"github.com/xvierd/git-prompt/internal/ports"
	"github.com/xvierd/git-prompt/internal/prompt"
)

// StateService implements the MCPStateProvider interface on top of a
// PromptService and the configured templates and style.
type StateService struct {
	prompts   *PromptService
	templates Templates
	style     prompt.Style
}

// NewStateService creates a new state service.
func NewStateService(prompts *PromptService, templates Templates, style prompt.Style) *StateService {
	return &StateService{prompts: prompts, templates: templates, style: style}
}

// RepoState implements ports.MCPStateProvider.
func (s *StateService) RepoState(ctx context.Context, dir string) (domain.RepoFacts, domain.RepoState, error) {
	snap, err := s.prompts.Inspect(ctx, dir)
	if err != nil {
		return domain.RepoFacts{}, domain.RepoState{}, err
	}
	return snap.Facts, snap.State, nil
}

// RenderPrompt implements ports.MCPStateProvider.
func (s *StateService) RenderPrompt(ctx context.Context, dir, template string, noColor bool) (string, domain.ExitCode) {
	tmpl := s.templates
	if template != "" {
		tmpl.Git = template
	}
	style := s.style
	if noColor {
		style = style.Plain()
	}
	return s.prompts.Prompt(ctx, dir, tmpl, style)
}

// Ensure StateService implements ports.MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
