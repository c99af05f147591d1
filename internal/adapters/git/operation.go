package git

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xvierd/git-prompt/internal/domain"
)

// detectOperation checks the marker files git leaves behind while a merge,
// rebase, cherry-pick, revert or bisect is in progress. The first match wins.
func detectOperation(gitDir string) domain.HeadOperation {
	if pathExists(filepath.Join(gitDir, "MERGE_HEAD")) {
		return domain.HeadOperation{Kind: domain.OperationMerging}
	}

	if dir := filepath.Join(gitDir, "rebase-merge"); pathExists(dir) {
		op := domain.HeadOperation{
			Kind:  domain.OperationRebaseMerge,
			Step:  readIntLine(filepath.Join(dir, "msgnum")),
			Total: readIntLine(filepath.Join(dir, "end")),
		}
		if pathExists(filepath.Join(dir, "interactive")) {
			op.Kind = domain.OperationRebaseInteractive
		}
		return op
	}

	if dir := filepath.Join(gitDir, "rebase-apply"); pathExists(dir) {
		op := domain.HeadOperation{
			Kind:  domain.OperationApplyMailbox,
			Step:  readIntLine(filepath.Join(dir, "next")),
			Total: readIntLine(filepath.Join(dir, "last")),
		}
		if pathExists(filepath.Join(dir, "rebasing")) {
			op.Kind = domain.OperationRebase
		}
		return op
	}

	switch {
	case pathExists(filepath.Join(gitDir, "CHERRY_PICK_HEAD")):
		return domain.HeadOperation{Kind: domain.OperationCherryPicking}
	case pathExists(filepath.Join(gitDir, "REVERT_HEAD")):
		return domain.HeadOperation{Kind: domain.OperationReverting}
	case pathExists(filepath.Join(gitDir, "BISECT_START")):
		return domain.HeadOperation{Kind: domain.OperationBisecting}
	}

	return domain.HeadOperation{}
}

// readIntLine parses the first line of path as an integer, or returns 0.
func readIntLine(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return 0
	}
	return n
}
