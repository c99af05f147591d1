// Package domain contains the core entities of git-prompt: the raw
// repository facts gathered from git, the classified repository state,
// and the rules that turn one into the other. Nothing in here touches
// the filesystem or a git library.
package domain

import (
	"errors"
	"strings"
)

// Common domain errors.
var (
	ErrNotRepository = errors.New("not a git repository")
	ErrOpenFailed    = errors.New("failed to open repository")
	ErrNoLocalRef    = errors.New("repository has no commits yet")
	ErrWalkFailed    = errors.New("failed to walk commit graph")
	ErrStatusFailed  = errors.New("failed to collect repository status")
)

// Area identifies which side of the index a status entry describes.
type Area string

const (
	AreaIndex    Area = "index"
	AreaWorktree Area = "worktree"
)

// Change is the kind of change recorded by a status entry.
type Change string

const (
	ChangeNew        Change = "new"
	ChangeModified   Change = "modified"
	ChangeDeleted    Change = "deleted"
	ChangeRenamed    Change = "renamed"
	ChangeTypeChange Change = "typechange"
	ChangeConflicted Change = "conflicted"
)

// Label returns a human-readable label for the change.
func (c Change) Label() string {
	switch c {
	case ChangeNew:
		return "new file"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	case ChangeTypeChange:
		return "typechange"
	case ChangeConflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// StatusEntry is a single change to a path, either staged in the index or
// present in the working tree. A path may appear once per area.
type StatusEntry struct {
	Area   Area
	Change Change
	Path   string
	// OldPath is set for renames when the source path is known.
	OldPath string
}

// IsUntracked reports whether the entry is a new file that only exists in
// the working tree.
func (e StatusEntry) IsUntracked() bool {
	return e.Area == AreaWorktree && e.Change == ChangeNew
}

// CommitID is an opaque commit identifier. The empty string and an
// all-zero hash both mean "no commit".
type CommitID string

// IsZero reports whether the id points nowhere.
func (id CommitID) IsZero() bool {
	return strings.Trim(string(id), "0") == ""
}

// Short returns the abbreviated form of the id.
func (id CommitID) Short() string {
	if len(id) > 7 {
		return string(id[:7])
	}
	return string(id)
}

// RepoFacts holds everything gathered about a repository for one run.
type RepoFacts struct {
	RepoName     string
	RepoPath     string
	BranchName   string
	HeadCommitID CommitID
	// Upstream is nil when no tracking branch is configured. A non-nil
	// zero id means the tracking ref exists but does not resolve.
	Upstream         *CommitID
	StatusEntries    []StatusEntry
	RebaseInProgress bool
	Operation        HeadOperation
}

// HasUpstream reports whether a tracking ref is configured.
func (f *RepoFacts) HasUpstream() bool {
	return f.Upstream != nil
}
