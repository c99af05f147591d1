package prompt

import "strings"

// Token is an escape sequence recognized in prompt templates. Lowercase
// letters give the plain value, uppercase letters the colored one.
type Token string

const (
	TokenRepo           Token = `\pr`
	TokenRepoColor      Token = `\pR`
	TokenBranch         Token = `\pl`
	TokenBranchColor    Token = `\pL`
	TokenCwd            Token = `\pc`
	TokenCwdColor       Token = `\pC`
	TokenConflict       Token = `\pk`
	TokenConflictColor  Token = `\pK`
	TokenAhead          Token = `\pa`
	TokenBehind         Token = `\pb`
	TokenAheadBehind    Token = `\pd`
	TokenRebase         Token = `\pi`
	TokenRebaseColor    Token = `\pI`
	TokenOperation      Token = `\po`
	TokenPromptSym      Token = `\pp`
	TokenPromptSymColor Token = `\pP`
)

// Tokens lists every recognized token in table order.
var Tokens = []Token{
	TokenRepo, TokenRepoColor,
	TokenBranch, TokenBranchColor,
	TokenCwd, TokenCwdColor,
	TokenConflict, TokenConflictColor,
	TokenAhead, TokenBehind, TokenAheadBehind,
	TokenRebase, TokenRebaseColor,
	TokenOperation,
	TokenPromptSym, TokenPromptSymColor,
}

// Replacement pairs a token with the text that replaces it.
type Replacement struct {
	Token Token
	Value string
}

// Substitute replaces every occurrence of each token in text with its
// value. The text is scanned once from left to right, so values are
// inserted verbatim and never searched for further tokens.
func Substitute(text string, table []Replacement) string {
	if len(table) == 0 {
		return text
	}
	oldnew := make([]string, 0, 2*len(table))
	for _, r := range table {
		if r.Token == "" {
			continue
		}
		oldnew = append(oldnew, string(r.Token), r.Value)
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}
