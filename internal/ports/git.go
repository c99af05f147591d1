package ports

import (
	"context"

	"github.com/xvierd/git-prompt/internal/domain"
)

// RepositoryQuery locates and opens repositories.
// This is a driven port (implemented by adapters).
type RepositoryQuery interface {
	// FindRoot walks up from startPath and returns the repository root
	// (without the .git suffix). ok is false when none is found.
	FindRoot(startPath string) (root string, ok bool)

	// Open opens the repository rooted at root. Errors wrap domain.ErrOpenFailed.
	Open(ctx context.Context, root string) (Repository, error)
}

// Repository answers questions about one open repository. The handle must
// be closed on every exit path.
type Repository interface {
	// Head returns the short branch name and commit HEAD points to.
	// It fails with domain.ErrNoLocalRef when the branch is unborn.
	Head(ctx context.Context) (branch string, head domain.CommitID, err error)

	// Upstream returns the tracking commit for branch, or nil when no
	// tracking ref is configured.
	Upstream(ctx context.Context, branch string) *domain.CommitID

	// AheadBehind counts commits reachable from local but not upstream
	// and the reverse.
	AheadBehind(local, upstream domain.CommitID) (ahead, behind int, err error)

	// Status lists index and working tree changes. Errors wrap
	// domain.ErrStatusFailed.
	Status(ctx context.Context) ([]domain.StatusEntry, error)

	// RebaseInProgress reports whether a rebase marker directory exists.
	RebaseInProgress() bool

	// Operation reports the multi-step operation in progress, if any.
	Operation() domain.HeadOperation

	// Remote returns "owner/repo" derived from the first remote URL, or "".
	Remote() string

	// Close releases the handle.
	Close() error
}
