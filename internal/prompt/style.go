// Package prompt expands prompt templates into shell prompt strings.
//
// A template is plain text containing escape tokens such as \pR (repo
// name) or \pL (branch). Render computes the value of every token from a
// classified repository state and a Style, then substitutes them in one
// pass. Tokens the renderer does not know are left in place.
package prompt

import (
	"fmt"
	"strings"

	"github.com/xvierd/git-prompt/internal/domain"
)

// Working directory display styles. Any other non-empty value is
// inserted verbatim.
const (
	WorkingDirBasename     = "basename"
	WorkingDirCwd          = "cwd"
	WorkingDirGitExclusive = "gitrelpath_exclusive"
	WorkingDirGitInclusive = "gitrelpath_inclusive"
)

// Style controls colors and annotation formats.
type Style struct {
	ColorUpToDate string
	ColorModified string
	ColorConflict string
	ColorNoData   string
	ColorCwd      string
	ColorReset    string

	WorkingDirStyle      string
	WorkingDirRootMarker string

	ConflictStyle    string
	RebaseStyle      string
	AheadStyle       string
	BehindStyle      string
	AheadBehindStyle string
}

// DefaultStyle returns the built-in style.
func DefaultStyle() Style {
	return Style{
		ColorUpToDate:        "\033[0;32m",
		ColorModified:        "\033[0;33m",
		ColorConflict:        "\033[0;31m",
		ColorNoData:          "\033[1;30m",
		ColorCwd:             "\033[1;34m",
		ColorReset:           "\033[0m",
		WorkingDirStyle:      WorkingDirBasename,
		WorkingDirRootMarker: "/",
		ConflictStyle:        "✖%d",
		RebaseStyle:          "|REBASE",
		AheadStyle:           "%d",
		BehindStyle:          "%d",
		AheadBehindStyle:     "(%d,%d)",
	}
}

// Plain returns a copy of the style with every color cleared.
func (s Style) Plain() Style {
	s.ColorUpToDate = ""
	s.ColorModified = ""
	s.ColorConflict = ""
	s.ColorNoData = ""
	s.ColorCwd = ""
	s.ColorReset = ""
	return s
}

// DivergenceColor returns the color for a repository divergence.
func (s Style) DivergenceColor(d domain.Divergence) string {
	switch d {
	case domain.DivergenceUpToDate:
		return s.ColorUpToDate
	case domain.DivergenceModified:
		return s.ColorModified
	case domain.DivergenceConflict:
		return s.ColorConflict
	default:
		return s.ColorNoData
	}
}

// TreeColor returns the color for an index or working tree state.
func (s Style) TreeColor(t domain.TreeState) string {
	if t == domain.TreeModified {
		return s.ColorModified
	}
	return s.ColorUpToDate
}

// paint wraps text in color and reset. Empty text stays empty.
func (s Style) paint(color, text string) string {
	if text == "" {
		return ""
	}
	return color + text + s.ColorReset
}

// formatCounts applies a printf-style format to counts. Integer verbs
// may carry flags and width, as in %3d or %+d, and %% is a literal
// percent. Formats with more verbs than counts, or with a verb that
// cannot print an int, are returned verbatim.
func formatCounts(format string, counts ...int) string {
	verbs := countIntVerbs(format)
	if verbs < 0 || verbs > len(counts) {
		return format
	}
	args := make([]any, verbs)
	for i := range args {
		args[i] = counts[i]
	}
	return fmt.Sprintf(format, args...)
}

// countIntVerbs returns the number of integer verbs in format, or -1 when
// format holds any other verb or ends inside one.
func countIntVerbs(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		for i < len(format) && strings.IndexByte("+-# 0123456789.", format[i]) >= 0 {
			i++
		}
		if i == len(format) {
			return -1
		}
		switch format[i] {
		case '%':
		case 'd', 'b', 'o', 'x', 'X':
			n++
		default:
			return -1
		}
	}
	return n
}
