package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/git-prompt/internal/domain"
)

var nameRemote bool

// nameCmd represents the name command
var nameCmd = &cobra.Command{
	Use:   "name [dir]",
	Short: "Print the repository name",
	Long: `Print the name of the repository containing dir (default: current directory).

With --remote the name is taken from the first remote URL as "owner/repo",
falling back to the directory name when there is no remote.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := app.prompts.Name(context.Background(), dirArg(args), nameRemote)
		if errors.Is(err, domain.ErrNotRepository) {
			return &ExitError{Code: int(domain.ExitDefaultPrompt)}
		}
		if err != nil {
			return fmt.Errorf("failed to read repository name: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	nameCmd.Flags().BoolVar(&nameRemote, "remote", false, "Use owner/repo from the first remote")
}
