package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/git-prompt/internal/domain"
)

// stateCmd represents the state command
var stateCmd = &cobra.Command{
	Use:   "state [dir]",
	Short: "Print the operation in progress",
	Long: `Print the multi-step operation in progress in the repository, if any:
MERGING, REBASE-i, REBASE-m, REBASE, AM/REBASE, CHERRY-PICKING, REVERTING
or BISECTING, followed by step/total when git records progress.

Prints nothing when no operation is in progress.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := app.prompts.Operation(context.Background(), dirArg(args))
		if errors.Is(err, domain.ErrNotRepository) {
			return &ExitError{Code: int(domain.ExitDefaultPrompt)}
		}
		if err != nil {
			return fmt.Errorf("failed to read repository state: %w", err)
		}

		if op.Active() {
			fmt.Fprintln(cmd.OutOrStdout(), op.String())
		}
		return nil
	},
}
