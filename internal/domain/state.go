package domain

import "fmt"

// Divergence describes how the local branch relates to its upstream.
type Divergence string

const (
	DivergenceNoData   Divergence = "no_data"
	DivergenceUpToDate Divergence = "up_to_date"
	DivergenceModified Divergence = "modified"
	DivergenceConflict Divergence = "conflict"
)

// TreeState describes whether the index or the working tree has changes.
type TreeState string

const (
	TreeUpToDate TreeState = "up_to_date"
	TreeModified TreeState = "modified"
)

// RepoState is the classified view of a repository that feeds the prompt
// renderer. It is a value type and is never mutated after Classify.
type RepoState struct {
	Divergence       Divergence
	Index            TreeState
	Worktree         TreeState
	Ahead            int
	Behind           int
	ConflictCount    int
	RebaseInProgress bool

	StagedCount    int
	UnstagedCount  int
	UntrackedCount int
}

// DivergenceWalker counts the commits reachable from local but not from
// upstream (ahead) and the reverse (behind).
type DivergenceWalker interface {
	AheadBehind(local, upstream CommitID) (ahead, behind int, err error)
}

// Classify derives a RepoState from facts. Conflicts take precedence over
// divergence; the walker is only consulted when a resolvable upstream exists
// and the repository has no conflicts.
func Classify(facts RepoFacts, walker DivergenceWalker) (RepoState, error) {
	state := RepoState{
		Divergence:       DivergenceNoData,
		Index:            TreeUpToDate,
		Worktree:         TreeUpToDate,
		RebaseInProgress: facts.RebaseInProgress,
	}

	for _, entry := range facts.StatusEntries {
		switch {
		case entry.Change == ChangeConflicted:
			state.ConflictCount++
		case entry.Area == AreaIndex && indexTriggers[entry.Change]:
			state.Index = TreeModified
			state.StagedCount++
		case entry.Area == AreaWorktree && worktreeTriggers[entry.Change]:
			state.Worktree = TreeModified
			state.UnstagedCount++
		case entry.IsUntracked():
			state.UntrackedCount++
		}
	}

	if state.ConflictCount > 0 {
		state.Divergence = DivergenceConflict
		return state, nil
	}

	if facts.Upstream == nil || facts.Upstream.IsZero() {
		return state, nil
	}

	ahead, behind, err := walker.AheadBehind(facts.HeadCommitID, *facts.Upstream)
	if err != nil {
		return state, fmt.Errorf("%w: %v", ErrWalkFailed, err)
	}
	state.Ahead = ahead
	state.Behind = behind

	if facts.HeadCommitID == *facts.Upstream {
		state.Divergence = DivergenceUpToDate
	} else {
		state.Divergence = DivergenceModified
	}

	return state, nil
}

// indexTriggers are the staged changes that mark the index as modified.
var indexTriggers = map[Change]bool{
	ChangeNew:        true,
	ChangeModified:   true,
	ChangeRenamed:    true,
	ChangeDeleted:    true,
	ChangeTypeChange: true,
}

// worktreeTriggers leaves out ChangeNew: untracked files do not make the
// working tree count as modified.
var worktreeTriggers = map[Change]bool{
	ChangeModified:   true,
	ChangeDeleted:    true,
	ChangeRenamed:    true,
	ChangeTypeChange: true,
}

// HasChanges reports whether anything is staged, unstaged or conflicted.
func (s RepoState) HasChanges() bool {
	return s.Index == TreeModified || s.Worktree == TreeModified || s.ConflictCount > 0
}

// GetDivergenceLabel returns a human-readable label for a divergence value.
func GetDivergenceLabel(d Divergence) string {
	switch d {
	case DivergenceNoData:
		return "No upstream"
	case DivergenceUpToDate:
		return "Up to date"
	case DivergenceModified:
		return "Diverged"
	case DivergenceConflict:
		return "Conflict"
	default:
		return "Unknown"
	}
}
