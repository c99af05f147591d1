package prompt

import (
	"path/filepath"
	"strings"

	"github.com/xvierd/git-prompt/internal/domain"
)

// View is everything the renderer knows about a repository.
type View struct {
	RepoName  string
	RepoPath  string
	Branch    string
	State     domain.RepoState
	Operation domain.HeadOperation

	// Cwd is the directory the prompt is rendered for. Empty means the
	// process working directory.
	Cwd string
}

// Renderer expands prompt templates.
type Renderer struct {
	env Environment
}

// NewRenderer creates a renderer using env for process lookups.
func NewRenderer(env Environment) *Renderer {
	return &Renderer{env: env}
}

// Render expands a git-mode template.
func (r *Renderer) Render(template string, view View, style Style) string {
	return Substitute(template, r.Table(view, style))
}

// RenderDefault expands a template outside of any repository for dir, or
// the process working directory when dir is empty. Repository tokens
// expand to empty strings.
func (r *Renderer) RenderDefault(template, dir string, style Style) string {
	cwd := r.workingDir(style, dir, "", "")
	symbol := r.promptSymbol()

	table := make([]Replacement, 0, len(Tokens))
	for _, tok := range Tokens {
		value := ""
		switch tok {
		case TokenCwd:
			value = cwd
		case TokenCwdColor:
			value = style.paint(style.ColorCwd, cwd)
		case TokenPromptSym:
			value = symbol
		case TokenPromptSymColor:
			value = style.paint(style.ColorCwd, symbol)
		}
		table = append(table, Replacement{Token: tok, Value: value})
	}
	return Substitute(template, table)
}

// Table computes the value of every token for view.
func (r *Renderer) Table(view View, style Style) []Replacement {
	state := view.State
	repoColor := style.DivergenceColor(state.Divergence)

	cwd := r.workingDir(style, view.Cwd, view.RepoName, view.RepoPath)
	symbol := r.promptSymbol()

	conflict := ""
	if state.ConflictCount > 0 {
		conflict = formatCounts(style.ConflictStyle, state.ConflictCount)
	}

	rebase := ""
	if state.RebaseInProgress {
		rebase = style.RebaseStyle
	}

	ahead := ""
	if state.Ahead > 0 {
		ahead = formatCounts(style.AheadStyle, state.Ahead)
	}

	behind := ""
	if state.Behind > 0 {
		behind = formatCounts(style.BehindStyle, state.Behind)
	}

	aheadBehind := ""
	if state.Ahead+state.Behind > 0 {
		aheadBehind = formatCounts(style.AheadBehindStyle, state.Ahead, -state.Behind)
	}

	return []Replacement{
		{TokenRepo, view.RepoName},
		{TokenRepoColor, style.paint(repoColor, view.RepoName)},
		{TokenBranch, view.Branch},
		{TokenBranchColor, style.paint(style.TreeColor(state.Index), view.Branch)},
		{TokenCwd, cwd},
		{TokenCwdColor, style.paint(style.TreeColor(state.Worktree), cwd)},
		{TokenConflict, conflict},
		{TokenConflictColor, style.paint(style.ColorConflict, conflict)},
		{TokenAhead, ahead},
		{TokenBehind, behind},
		{TokenAheadBehind, aheadBehind},
		{TokenRebase, rebase},
		{TokenRebaseColor, style.paint(style.ColorConflict, rebase)},
		{TokenOperation, view.Operation.String()},
		{TokenPromptSym, symbol},
		{TokenPromptSymColor, style.paint(repoColor, symbol)},
	}
}

func (r *Renderer) promptSymbol() string {
	if r.env.IsSuperuser != nil && r.env.IsSuperuser() {
		return "#"
	}
	return "$"
}

// workingDir renders dir according to the style.
// Repository-relative styles fall back to the basename outside a repository.
func (r *Renderer) workingDir(style Style, dir, repoName, repoPath string) string {
	cwd, ok := r.currentDir(dir)
	if !ok {
		return ""
	}

	switch style.WorkingDirStyle {
	case "", WorkingDirBasename:
		return filepath.Base(cwd)
	case WorkingDirCwd:
		return r.homeRelative(cwd)
	case WorkingDirGitExclusive, WorkingDirGitInclusive:
		rel, ok := repoRelative(repoPath, cwd)
		if !ok {
			return filepath.Base(cwd)
		}
		marker := style.WorkingDirRootMarker
		if style.WorkingDirStyle == WorkingDirGitExclusive {
			if rel == "" {
				return marker
			}
			return marker + rel
		}
		if rel == "" {
			return repoName
		}
		return repoName + marker + rel
	default:
		return style.WorkingDirStyle
	}
}

// currentDir returns dir, falling back to the process working directory.
func (r *Renderer) currentDir(dir string) (string, bool) {
	if dir != "" {
		return dir, true
	}
	if r.env.Getwd == nil {
		return "", false
	}
	cwd, err := r.env.Getwd()
	if err != nil {
		return "", false
	}
	return cwd, true
}

// homeRelative abbreviates the home directory prefix as "~".
func (r *Renderer) homeRelative(cwd string) string {
	if r.env.HomeDir == nil {
		return cwd
	}
	home, err := r.env.HomeDir()
	if err != nil || home == "" {
		return cwd
	}
	if cwd == home {
		return "~"
	}
	prefix := strings.TrimSuffix(home, string(filepath.Separator)) + string(filepath.Separator)
	if strings.HasPrefix(cwd, prefix) {
		return "~" + string(filepath.Separator) + strings.TrimPrefix(cwd, prefix)
	}
	return cwd
}

// repoRelative returns cwd relative to root using forward slashes, "" at
// the root itself. ok is false when cwd is outside root.
func repoRelative(root, cwd string) (string, bool) {
	if root == "" {
		return "", false
	}
	rel, err := filepath.Rel(root, cwd)
	if err != nil {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
