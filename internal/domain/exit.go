package domain

// ExitCode is the process exit status reported by the prompt command.
// Scripts use it to tell why a default prompt was printed.
type ExitCode int

const (
	// Success codes.
	ExitGitPrompt      ExitCode = 0
	ExitDefaultPrompt  ExitCode = 1
	ExitAbsentLocalRef ExitCode = 2

	// Failure codes.
	ExitFailGitStatus ExitCode = -1
	ExitFailRepoObj   ExitCode = -2
	ExitFailWalk      ExitCode = -3
)

// IsFailure reports whether the code signals an internal failure.
func (c ExitCode) IsFailure() bool {
	return c < 0
}
