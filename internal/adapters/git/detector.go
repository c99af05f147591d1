// Package git provides repository queries using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/xvierd/git-prompt/internal/domain"
	"github.com/xvierd/git-prompt/internal/ports"
)

// Detector implements the ports.RepositoryQuery interface using go-git.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.RepositoryQuery.
var _ ports.RepositoryQuery = (*Detector)(nil)

// FindRoot returns the closest ancestor of startPath holding a .git entry.
func (d *Detector) FindRoot(startPath string) (string, bool) {
	if startPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		startPath = cwd
	}

	abs, err := filepath.Abs(startPath)
	if err != nil {
		return "", false
	}

	root, err := findGitRepo(abs)
	if err != nil {
		return "", false
	}
	return root, true
}

// Open opens the repository rooted at root.
func (d *Detector) Open(ctx context.Context, root string) (ports.Repository, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOpenFailed, err)
	}

	return &Repository{
		repo:   repo,
		root:   root,
		gitDir: resolveGitDir(root),
	}, nil
}

// Repository is an open go-git repository.
type Repository struct {
	repo   *git.Repository
	root   string
	gitDir string
}

// Ensure Repository implements ports.Repository.
var _ ports.Repository = (*Repository)(nil)

// Head returns the short branch name and the commit HEAD points to.
func (r *Repository) Head(ctx context.Context) (string, domain.CommitID, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", "", domain.ErrNoLocalRef
		}
		return "", "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	id := domain.CommitID(head.Hash().String())

	// Get the current branch name
	branch := head.Name().Short()
	if head.Name() == plumbing.HEAD {
		branch = "(" + id.Short() + ")"
	}

	return branch, id, nil
}

// Upstream resolves the tracking ref of branch. The branch config
// (branch.<name>.remote and .merge) wins; otherwise origin/<branch> is tried.
func (r *Repository) Upstream(ctx context.Context, branch string) *domain.CommitID {
	name := r.upstreamRefName(branch)

	if _, err := r.repo.Reference(name, false); err != nil {
		return nil
	}

	ref, err := r.repo.Reference(name, true)
	if err != nil {
		zero := domain.CommitID(plumbing.ZeroHash.String())
		return &zero
	}

	id := domain.CommitID(ref.Hash().String())
	return &id
}

func (r *Repository) upstreamRefName(branch string) plumbing.ReferenceName {
	cfg, err := r.repo.Branch(branch)
	if err == nil && cfg.Remote != "" && cfg.Merge != "" {
		if cfg.Remote == "." {
			return cfg.Merge
		}
		return plumbing.NewRemoteReferenceName(cfg.Remote, cfg.Merge.Short())
	}
	return plumbing.NewRemoteReferenceName("origin", branch)
}

// AheadBehind counts the commits reachable from one side but not the other.
func (r *Repository) AheadBehind(local, upstream domain.CommitID) (int, int, error) {
	if local == upstream {
		return 0, 0, nil
	}

	localSet, err := r.reachable(plumbing.NewHash(string(local)))
	if err != nil {
		return 0, 0, err
	}
	upstreamSet, err := r.reachable(plumbing.NewHash(string(upstream)))
	if err != nil {
		return 0, 0, err
	}

	ahead := 0
	for h := range localSet {
		if _, ok := upstreamSet[h]; !ok {
			ahead++
		}
	}
	behind := 0
	for h := range upstreamSet {
		if _, ok := localSet[h]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}

// reachable returns every commit reachable from the given hash.
func (r *Repository) reachable(from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("failed to walk from %s: %w", from, err)
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]struct{})
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk from %s: %w", from, err)
	}
	return seen, nil
}

// Status lists index and working tree changes, sorted by path. A path
// with unmerged index stages yields a single conflicted entry.
func (r *Repository) Status(ctx context.Context) ([]domain.StatusEntry, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStatusFailed, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStatusFailed, err)
	}

	// go-git reports unmerged paths as plain modifications, so the stages
	// are read from the index directly.
	unmerged, err := r.unmergedPaths()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStatusFailed, err)
	}

	paths := make([]string, 0, len(status)+len(unmerged))
	for path := range status {
		paths = append(paths, path)
	}
	for path := range unmerged {
		if _, ok := status[path]; !ok {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)

	var entries []domain.StatusEntry
	for _, path := range paths {
		if unmerged[path] {
			entries = append(entries, domain.StatusEntry{Area: domain.AreaIndex, Change: domain.ChangeConflicted, Path: path})
			continue
		}
		entries = append(entries, statusEntries(path, status[path])...)
	}
	return entries, nil
}

// unmergedPaths returns the paths that have index entries at a stage
// other than merged.
func (r *Repository) unmergedPaths() (map[string]bool, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	paths := make(map[string]bool)
	for _, e := range idx.Entries {
		if e.Stage != index.Merged {
			paths[e.Name] = true
		}
	}
	return paths, nil
}

// statusEntries converts one go-git file status into domain entries.
func statusEntries(path string, fs *git.FileStatus) []domain.StatusEntry {
	if fs.Staging == git.UpdatedButUnmerged || fs.Worktree == git.UpdatedButUnmerged {
		return []domain.StatusEntry{{Area: domain.AreaIndex, Change: domain.ChangeConflicted, Path: path}}
	}

	if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
		return []domain.StatusEntry{{Area: domain.AreaWorktree, Change: domain.ChangeNew, Path: path}}
	}

	var entries []domain.StatusEntry
	if change, ok := mapStatusCode(fs.Staging); ok {
		entry := domain.StatusEntry{Area: domain.AreaIndex, Change: change, Path: path}
		if change == domain.ChangeRenamed {
			entry.OldPath = fs.Extra
		}
		entries = append(entries, entry)
	}
	if change, ok := mapStatusCode(fs.Worktree); ok {
		entries = append(entries, domain.StatusEntry{Area: domain.AreaWorktree, Change: change, Path: path})
	}
	return entries
}

func mapStatusCode(code git.StatusCode) (domain.Change, bool) {
	switch code {
	case git.Added, git.Copied:
		return domain.ChangeNew, true
	case git.Modified:
		return domain.ChangeModified, true
	case git.Deleted:
		return domain.ChangeDeleted, true
	case git.Renamed:
		return domain.ChangeRenamed, true
	case git.Untracked:
		return domain.ChangeNew, true
	default:
		return "", false
	}
}

// RebaseInProgress reports whether rebase-merge or rebase-apply exists.
func (r *Repository) RebaseInProgress() bool {
	return pathExists(filepath.Join(r.gitDir, "rebase-merge")) ||
		pathExists(filepath.Join(r.gitDir, "rebase-apply"))
}

// Operation inspects the git directory for in-progress operations.
func (r *Repository) Operation() domain.HeadOperation {
	return detectOperation(r.gitDir)
}

// Remote returns "owner/repo" derived from the first remote URL, or "".
func (r *Repository) Remote() string {
	remotes, err := r.repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return ""
	}
	urls := remotes[0].Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return extractRepoName(urls[0])
}

// Close releases the underlying storage.
func (r *Repository) Close() error {
	if r.repo == nil {
		return nil
	}
	var err error
	if c, ok := r.repo.Storer.(io.Closer); ok {
		err = c.Close()
	}
	r.repo = nil
	return err
}

// findGitRepo traverses up the directory tree to find a .git directory.
func findGitRepo(startPath string) (string, error) {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		info, err := os.Stat(gitPath)
		if err == nil && info.IsDir() {
			return currentPath, nil
		}

		// A .git file is a worktree or submodule pointer
		if err == nil && !info.IsDir() {
			content, err := os.ReadFile(gitPath)
			if err == nil && strings.HasPrefix(string(content), "gitdir: ") {
				return currentPath, nil
			}
		}

		parent := filepath.Dir(currentPath)
		if parent == currentPath {
			break
		}
		currentPath = parent
	}

	return "", fmt.Errorf("no .git directory found")
}

// resolveGitDir returns the git directory for a repository root, following
// "gitdir:" pointers.
func resolveGitDir(root string) string {
	gitPath := filepath.Join(root, ".git")
	info, err := os.Stat(gitPath)
	if err != nil || info.IsDir() {
		return gitPath
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return gitPath
	}
	line := strings.TrimSpace(string(content))
	if !strings.HasPrefix(line, "gitdir: ") {
		return gitPath
	}

	dir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir: "))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return filepath.Clean(dir)
}

// extractRepoName extracts the repository name from a git URL.
func extractRepoName(url string) string {
	// Handle SSH URLs like git@github.com:user/repo.git
	if strings.HasPrefix(url, "git@") {
		parts := strings.Split(url, ":")
		if len(parts) >= 2 {
			path := parts[len(parts)-1]
			return strings.TrimSuffix(path, ".git")
		}
	}

	// Handle HTTPS URLs like https://github.com/user/repo.git
	if strings.HasPrefix(url, "http") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			repo := strings.TrimSuffix(parts[len(parts)-1], ".git")
			return parts[len(parts)-2] + "/" + repo
		}
	}

	return url
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
