package session

import "regexp"

// TerminatorKind distinguishes the two terminator grammars spec §6's
// informative RLM-side protocol recognizes.
type TerminatorKind int

const (
	// TerminatorFinal is FINAL("...literal...").
	TerminatorFinal TerminatorKind = iota
	// TerminatorFinalVar is FINAL_VAR(name).
	TerminatorFinalVar
)

// Terminator is a recognized terminator token pulled out of model prose.
type Terminator struct {
	Kind TerminatorKind
	// Literal holds the unescaped string literal for TerminatorFinal.
	Literal string
	// VarName holds the referenced variable name for TerminatorFinalVar.
	VarName string
}

// finalVarPattern matches FINAL_VAR(name); checked before finalLiteralPatterns'
// quoted-literal forms since "FINAL_VAR(" never satisfies "FINAL(" (the
// underscore breaks the match), so there is no ordering ambiguity between
// the two terminator grammars.
var finalVarPattern = regexp.MustCompile(`FINAL_VAR\(\s*([A-Za-z_][A-Za-z0-9_]*)\s*\)`)

// finalLiteralPatterns covers the single/double/triple-quoted literal
// forms FINAL(...) accepts, triple-quoted first since a triple-quote
// string also starts with a single quote character.
var finalLiteralPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)FINAL\(\s*"""(.*?)"""\s*\)`),
	regexp.MustCompile(`(?s)FINAL\(\s*'''(.*?)'''\s*\)`),
	regexp.MustCompile(`FINAL\(\s*"((?:[^"\\]|\\.)*)"\s*\)`),
	regexp.MustCompile(`FINAL\(\s*'((?:[^'\\]|\\.)*)'\s*\)`),
}

// ParseTerminator looks for a FINAL(...)/FINAL_VAR(...) token anywhere in
// prose and reports whether one was recognized. Forms like FINAL(expr)
// where expr is not a string literal are deliberately not recognized
// (spec §6): the orchestrator is expected to keep looping on those rather
// than treat them as an answer, so this function returns false for them
// too instead of guessing at a non-literal expression's value.
func ParseTerminator(prose string) (*Terminator, bool) {
	if m := finalVarPattern.FindStringSubmatch(prose); m != nil {
		return &Terminator{Kind: TerminatorFinalVar, VarName: m[1]}, true
	}
	for _, pat := range finalLiteralPatterns {
		if m := pat.FindStringSubmatch(prose); m != nil {
			return &Terminator{Kind: TerminatorFinal, Literal: unescapeLiteral(m[1])}, true
		}
	}
	return nil, false
}

// unescapeLiteral interprets the small set of backslash escapes the
// reference's string-literal grammar supports (spec §4.1's own lexer
// recognizes the same set for ordinary string literals).
func unescapeLiteral(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b = append(b, '\n')
			case 't':
				b = append(b, '\t')
			case 'r':
				b = append(b, '\r')
			case '\\':
				b = append(b, '\\')
			case '"':
				b = append(b, '"')
			case '\'':
				b = append(b, '\'')
			default:
				b = append(b, '\\', s[i])
			}
			continue
		}
		b = append(b, s[i])
	}
	return string(b)
}
