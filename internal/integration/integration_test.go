package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gitadapter "github.com/xvierd/git-prompt/internal/adapters/git"
	"github.com/xvierd/git-prompt/internal/domain"
	"github.com/xvierd/git-prompt/internal/prompt"
	"github.com/xvierd/git-prompt/internal/services"
)

var templates = services.Templates{
	Git:     `[\pr \pl\pk\pd\pi] \pp `,
	Default: `\pp `,
}

// setupRepo creates a repository with one commit and an origin ref
// pointing at it.
func setupRepo(t *testing.T) (string, *git.Repository, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "proj")
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	hash := commit(t, dir, repo, "README.md", "hello\n")

	head, err := repo.Head()
	require.NoError(t, err)
	branch := head.Name().Short()

	remoteRef := plumbing.NewRemoteReferenceName("origin", branch)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(remoteRef, hash)))

	return dir, repo, branch
}

func commit(t *testing.T, dir string, repo *git.Repository, name, content string) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

// mergeConflict leaves name conflicted the way git merge does: MERGE_HEAD,
// base/ours/theirs index stages and markers in the worktree.
func mergeConflict(t *testing.T, dir string, repo *git.Repository, name string) {
	t.Helper()

	theirs := commit(t, dir, repo, "theirs.txt", "theirs\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "MERGE_HEAD"), []byte(theirs.String()+"\n"), 0644))

	idx, err := repo.Storer.Index()
	require.NoError(t, err)
	base, err := idx.Remove(name)
	require.NoError(t, err)

	for i, hash := range []plumbing.Hash{base.Hash, blob(t, repo, "ours\n"), blob(t, repo, "theirs\n")} {
		idx.Entries = append(idx.Entries, &index.Entry{
			Name:  name,
			Hash:  hash,
			Mode:  filemode.Regular,
			Stage: index.Stage(i + 1),
		})
	}
	require.NoError(t, repo.Storer.SetIndex(idx))

	markers := "<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> other\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(markers), 0644))
}

func blob(t *testing.T, repo *git.Repository, content string) plumbing.Hash {
	t.Helper()

	obj := repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	hash, err := repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)
	return hash
}

func newService() *services.PromptService {
	env := prompt.Environment{
		Getwd:       os.Getwd,
		HomeDir:     os.UserHomeDir,
		IsSuperuser: func() bool { return false },
	}
	return services.NewPromptService(gitadapter.NewDetector(), env)
}

func render(t *testing.T, dir string) (string, domain.ExitCode) {
	t.Helper()
	return newService().Prompt(context.Background(), dir, templates, prompt.DefaultStyle().Plain())
}

func TestPrompt_CleanTrackingRepo(t *testing.T) {
	dir, _, branch := setupRepo(t)

	out, code := render(t, dir)

	assert.Equal(t, "[proj "+branch+"] $ ", out)
	assert.Equal(t, domain.ExitGitPrompt, code)

	snap, err := newService().Inspect(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DivergenceUpToDate, snap.State.Divergence)
	assert.False(t, snap.State.HasChanges())
}

func TestPrompt_FromSubdirectory(t *testing.T) {
	dir, _, branch := setupRepo(t)
	sub := filepath.Join(dir, "pkg", "api")
	require.NoError(t, os.MkdirAll(sub, 0755))

	out, code := render(t, sub)

	assert.Equal(t, "[proj "+branch+"] $ ", out)
	assert.Equal(t, domain.ExitGitPrompt, code)
}

func TestPrompt_AheadOfUpstream(t *testing.T) {
	dir, repo, branch := setupRepo(t)
	commit(t, dir, repo, "main.go", "package main\n")
	commit(t, dir, repo, "go.mod", "module proj\n")

	out, code := render(t, dir)

	assert.Equal(t, "[proj "+branch+"(2,0)] $ ", out)
	assert.Equal(t, domain.ExitGitPrompt, code)

	snap, err := newService().Inspect(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DivergenceModified, snap.State.Divergence)
	assert.Equal(t, 2, snap.State.Ahead)
	assert.Zero(t, snap.State.Behind)
}

func TestPrompt_WorkingTreeChanges(t *testing.T) {
	dir, repo, _ := setupRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staged.txt"), []byte("new\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("tmp\n"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("staged.txt")
	require.NoError(t, err)

	snap, err := newService().Inspect(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, domain.TreeModified, snap.State.Index)
	assert.Equal(t, domain.TreeModified, snap.State.Worktree)
	assert.Equal(t, 1, snap.State.StagedCount)
	assert.Equal(t, 1, snap.State.UnstagedCount)
	assert.Equal(t, 1, snap.State.UntrackedCount)
	assert.Equal(t, domain.DivergenceUpToDate, snap.State.Divergence)

	style := prompt.DefaultStyle()
	out, _ := newService().Prompt(context.Background(), dir, services.Templates{Git: `\pL`}, style)
	assert.Equal(t, style.ColorModified+snap.Facts.BranchName+style.ColorReset, out)
}

func TestPrompt_NoUpstream(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "solo")
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commit(t, dir, repo, "a.txt", "a\n")

	out, code := render(t, dir)

	assert.Contains(t, out, "[solo ")
	assert.Equal(t, domain.ExitDefaultPrompt, code)
}

func TestPrompt_UnbornHead(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	out, code := render(t, dir)

	assert.Equal(t, "$ ", out)
	assert.Equal(t, domain.ExitAbsentLocalRef, code)
}

func TestPrompt_NotARepository(t *testing.T) {
	out, code := render(t, t.TempDir())

	assert.Equal(t, "$ ", out)
	assert.Equal(t, domain.ExitDefaultPrompt, code)
}

func TestPrompt_RebaseInProgress(t *testing.T) {
	dir, _, branch := setupRepo(t)
	rebaseDir := filepath.Join(dir, ".git", "rebase-merge")
	require.NoError(t, os.MkdirAll(rebaseDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(rebaseDir, "interactive"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(rebaseDir, "msgnum"), []byte("2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(rebaseDir, "end"), []byte("3\n"), 0644))

	out, code := render(t, dir)
	assert.Equal(t, "[proj "+branch+"|REBASE] $ ", out)
	assert.Equal(t, domain.ExitGitPrompt, code)

	op, err := newService().Operation(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "REBASE-i 2/3", op.String())
}

func TestPrompt_MergeConflict(t *testing.T) {
	dir, repo, branch := setupRepo(t)

	// An upstream commit that is not in the object database makes any
	// ahead/behind walk fail.
	missing := plumbing.NewHash("3333333333333333333333333333333333333333")
	remoteRef := plumbing.NewRemoteReferenceName("origin", branch)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(remoteRef, missing)))

	_, code := render(t, dir)
	require.Equal(t, domain.ExitFailWalk, code)

	mergeConflict(t, dir, repo, "README.md")

	snap, err := newService().Inspect(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DivergenceConflict, snap.State.Divergence)
	assert.Equal(t, 1, snap.State.ConflictCount)
	assert.Zero(t, snap.State.Ahead)
	assert.Zero(t, snap.State.Behind)
	assert.Equal(t, "MERGING", snap.Facts.Operation.String())

	out, code := render(t, dir)
	assert.Equal(t, "[proj "+branch+"✖1] $ ", out)
	assert.Equal(t, domain.ExitGitPrompt, code)

	style := prompt.DefaultStyle()
	out, _ = newService().Prompt(context.Background(), dir, services.Templates{Git: `\pK\pR`}, style)
	assert.Equal(t, style.ColorConflict+"✖1"+style.ColorReset+style.ColorConflict+"proj"+style.ColorReset, out)
}

func TestPrompt_WorkingDirFollowsDir(t *testing.T) {
	dir, _, _ := setupRepo(t)
	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0755))

	style := prompt.DefaultStyle().Plain()
	style.WorkingDirStyle = prompt.WorkingDirGitInclusive

	out, code := newService().Prompt(context.Background(), sub, services.Templates{Git: `\pc`}, style)
	assert.Equal(t, "proj/pkg", out)
	assert.Equal(t, domain.ExitGitPrompt, code)

	style.WorkingDirStyle = prompt.WorkingDirGitExclusive
	out, _ = newService().Prompt(context.Background(), dir, services.Templates{Git: `\pc`}, style)
	assert.Equal(t, "/", out)
}
