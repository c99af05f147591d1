// Package cmd provides the CLI commands for git-prompt.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	debugFlag  bool
)

// ExitError carries a process exit code out of a command without
// printing anything.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "git-prompt",
	Short: "git-prompt - A shell prompt generator for git repositories",
	Long: `git-prompt prints a shell prompt that summarizes the state of the git
repository in the current directory: branch, divergence from upstream,
staged and unstaged changes, conflicts and rebases.

Run "git-prompt" with no arguments to print the prompt, for example:

  PS1='$(git-prompt)'

Templates and colors are read from GP_* environment variables and an
optional config file. See "git-prompt config".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	RunE: runPrompt,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.config/git-prompt/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug logs to the state directory")

	addPromptFlags(rootCmd)

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("git-prompt\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(rootPathCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}
