package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/git-prompt/internal/domain"
)

var (
	plainPrompt bool
	promptDir   string
)

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the shell prompt",
	Long: `Print the prompt for the repository containing the current directory.

Outside a repository, or when git cannot be read, the default prompt is
printed instead and the exit code says why:

   0  git prompt (or --plain)
   1  not a repository, or no upstream configured
   2  repository has no commits yet
  -1  status could not be collected
  -2  repository could not be opened
  -3  commit graph could not be walked`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func init() {
	addPromptFlags(promptCmd)
}

// addPromptFlags registers the prompt flags on cmd. The root command
// shares them so that a bare "git-prompt" behaves like "git-prompt prompt".
func addPromptFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&plainPrompt, "plain", false, "Print the default (non-git) prompt")
	cmd.Flags().StringVarP(&promptDir, "dir", "C", "", "Directory to inspect instead of the current one")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	style := app.config.Style()
	tmpl := app.templates()

	if plainPrompt {
		fmt.Fprint(cmd.OutOrStdout(), app.prompts.PlainPrompt(promptDir, tmpl, style))
		return nil
	}

	out, code := app.prompts.Prompt(context.Background(), promptDir, tmpl, style)
	fmt.Fprint(cmd.OutOrStdout(), out)

	if code != domain.ExitGitPrompt {
		return &ExitError{Code: int(code)}
	}
	return nil
}
