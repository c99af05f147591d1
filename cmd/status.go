package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/git-prompt/internal/adapters/mcp"
	"github.com/xvierd/git-prompt/internal/domain"
)

var statusJSON bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show repository status",
	Long: `Display the branch, its relation to upstream and the staged, unstaged,
unmerged and untracked paths of the repository containing dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := app.prompts.Inspect(context.Background(), dirArg(args))
		if errors.Is(err, domain.ErrNotRepository) {
			return fmt.Errorf("not a git repository")
		}
		if err != nil {
			return fmt.Errorf("failed to get repository status: %w", err)
		}

		out := cmd.OutOrStdout()
		if statusJSON {
			return outputStatusJSON(out, snap.Facts, snap.State)
		}

		printStatusText(out, snap.Facts, snap.State, newStatusStyles(isTerminal(out)))
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output results in JSON format")
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, facts domain.RepoFacts, state domain.RepoState) error {
	jsonData, err := json.MarshalIndent(mcp.RepoStateJSON(facts, state), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

// statusStyles holds the lipgloss styles for the text listing.
type statusStyles struct {
	title    lipgloss.Style
	dim      lipgloss.Style
	staged   lipgloss.Style
	unstaged lipgloss.Style
	conflict lipgloss.Style
}

func newStatusStyles(color bool) statusStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return statusStyles{title: plain, dim: plain, staged: plain, unstaged: plain, conflict: plain}
	}
	return statusStyles{
		title:    lipgloss.NewStyle().Bold(true),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		staged:   lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")),
		unstaged: lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
		conflict: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	}
}

// printStatusText prints the status as sections of paths.
func printStatusText(w io.Writer, facts domain.RepoFacts, state domain.RepoState, styles statusStyles) {
	fmt.Fprintf(w, "On branch %s (%s)\n", styles.title.Render(facts.BranchName), domain.GetDivergenceLabel(state.Divergence))
	fmt.Fprintln(w, styles.dim.Render(upstreamSummary(state)))

	if facts.Operation.Active() {
		fmt.Fprintf(w, "%s\n", styles.conflict.Render(facts.Operation.String()+" in progress"))
	}

	var staged, unstaged, unmerged, untracked []domain.StatusEntry
	for _, e := range facts.StatusEntries {
		switch {
		case e.Change == domain.ChangeConflicted:
			unmerged = append(unmerged, e)
		case e.IsUntracked():
			untracked = append(untracked, e)
		case e.Area == domain.AreaIndex:
			staged = append(staged, e)
		default:
			unstaged = append(unstaged, e)
		}
	}

	printSection(w, "Unmerged paths:", unmerged, styles.title, styles.conflict)
	printSection(w, "Changes to be committed:", staged, styles.title, styles.staged)
	printSection(w, "Changes not staged for commit:", unstaged, styles.title, styles.unstaged)
	printSection(w, "Untracked files:", untracked, styles.title, styles.unstaged)

	if !state.HasChanges() && state.UntrackedCount == 0 {
		fmt.Fprintln(w, "\nnothing to commit, working tree clean")
	}
}

func printSection(w io.Writer, title string, entries []domain.StatusEntry, titleStyle, entryStyle lipgloss.Style) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", titleStyle.Render(title))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\n", entryStyle.Render(entryLine(e)))
	}
}

// entryLine formats one status entry, e.g. "modified:   main.go".
func entryLine(e domain.StatusEntry) string {
	if e.IsUntracked() {
		return e.Path
	}
	path := e.Path
	if e.Change == domain.ChangeRenamed && e.OldPath != "" {
		path = e.OldPath + " -> " + e.Path
	}
	return fmt.Sprintf("%-12s%s", e.Change.Label()+":", path)
}

// upstreamSummary describes the branch relative to its upstream.
func upstreamSummary(state domain.RepoState) string {
	switch {
	case state.Divergence == domain.DivergenceNoData:
		return "No upstream configured."
	case state.Divergence == domain.DivergenceConflict:
		return fmt.Sprintf("%d conflicted path%s.", state.ConflictCount, plural(state.ConflictCount))
	case state.Ahead == 0 && state.Behind == 0:
		return "Up to date with upstream."
	}

	var parts []string
	if state.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("ahead %d", state.Ahead))
	}
	if state.Behind > 0 {
		parts = append(parts, fmt.Sprintf("behind %d", state.Behind))
	}
	return strings.Join(parts, ", ") + " relative to upstream."
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
