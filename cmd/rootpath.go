package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/git-prompt/internal/domain"
)

// rootPathCmd represents the root command
var rootPathCmd = &cobra.Command{
	Use:   "root [dir]",
	Short: "Print the repository root",
	Long:  `Print the top-level directory of the repository containing dir (default: current directory). Exits 1 outside a repository.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := app.prompts.Root(dirArg(args))
		if errors.Is(err, domain.ErrNotRepository) {
			return &ExitError{Code: int(domain.ExitDefaultPrompt)}
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), root)
		return nil
	},
}

// dirArg returns the optional directory argument.
func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
