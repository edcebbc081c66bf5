// Package parser implements a hand-written lexer and recursive-descent
// parser for the Python-compatible subset permitted by the allowlist
// validator (spec §4.1). It never consults the allowlist itself — it
// accepts the full statement/expression grammar named in spec §4.2
// (including the forbidden shapes), so that the validator in package
// validate has real AST nodes to reject. A handful of forms whose full
// grammar has no legitimate use in this sandbox at all (async/await,
// walrus, decorators, star-arg unpacking, with/global/nonlocal/del,
// lambda, yield) are rejected directly at parse time as ForbiddenSyntax
// rather than given dedicated AST node types — see DESIGN.md.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stealthinu/rlmsandbox/ast"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokNewline
	tokIndent
	tokDedent
	tokName
	tokInt
	tokString
	tokBytes
	tokFString
	tokOp
)

type token struct {
	kind tokKind
	lit  string
	row  int
	col  int
}

var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "in": true,
	"while": true, "try": true, "except": true, "pass": true, "return": true,
	"def": true, "import": true, "from": true, "as": true, "and": true,
	"or": true, "not": true, "is": true, "True": true, "False": true,
	"None": true, "with": true, "class": true, "lambda": true, "yield": true,
	"async": true, "await": true, "del": true, "global": true,
	"nonlocal": true, "raise": true, "break": true, "continue": true,
}

// lexer tokenizes source using Python's off-side (indentation) rule.
type lexer struct {
	src       string
	pos       int
	row, col  int
	parenDep  int
	atLineStart bool
	indents   []int
	pending   []token
}

func newLexer(src string) *lexer {
	return &lexer{src: src, row: 1, col: 1, atLineStart: true, indents: []int{0}}
}

func (l *lexer) errorf(row, col int, format string, a ...interface{}) error {
	return ast.NewError(ast.ParseErr, ast.NewLocation(nil, row, col), format, a...)
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

// tokenize returns the full token stream, including synthetic
// INDENT/DEDENT/NEWLINE tokens, terminated by EOF.
func (l *lexer) tokenize() ([]token, error) {
	var toks []token
	for {
		if l.atLineStart && l.parenDep == 0 {
			indentErr := l.consumeIndentation(&toks)
			if indentErr != nil {
				return nil, indentErr
			}
			l.atLineStart = false
		}
		if l.pos >= len(l.src) {
			break
		}
		b := l.peekByte()
		switch {
		case b == '#':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case b == '\n':
			row, col := l.row, l.col
			l.advance()
			if l.parenDep == 0 {
				toks = append(toks, token{kind: tokNewline, row: row, col: col})
				l.atLineStart = true
			}
		case b == ' ' || b == '\t' || b == '\r':
			l.advance()
		case b == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n':
			l.advance()
			l.advance()
		case isIdentStart(b):
			toks = append(toks, l.lexName())
		case b >= '0' && b <= '9':
			t, err := l.lexNumber()
			if err != nil {
				return nil, err
			}
			toks = append(toks, t)
		case b == '\'' || b == '"':
			t, err := l.lexString("")
			if err != nil {
				return nil, err
			}
			toks = append(toks, t)
		default:
			t, err := l.lexOp()
			if err != nil {
				return nil, err
			}
			toks = append(toks, t)
		}
	}
	// Final NEWLINE + DEDENTs to close out any open blocks.
	toks = append(toks, token{kind: tokNewline, row: l.row, col: l.col})
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		toks = append(toks, token{kind: tokDedent, row: l.row, col: l.col})
	}
	toks = append(toks, token{kind: tokEOF, row: l.row, col: l.col})
	return toks, nil
}

func (l *lexer) consumeIndentation(toks *[]token) error {
	start := l.pos
	col := 0
	for l.pos < len(l.src) {
		b := l.peekByte()
		if b == ' ' {
			col++
			l.advance()
		} else if b == '\t' {
			col += 8 - (col % 8)
			l.advance()
		} else {
			break
		}
	}
	// Blank or comment-only line: no indentation tracking.
	if l.pos >= len(l.src) || l.peekByte() == '\n' || l.peekByte() == '#' {
		return nil
	}
	_ = start
	cur := l.indents[len(l.indents)-1]
	if col > cur {
		l.indents = append(l.indents, col)
		*toks = append(*toks, token{kind: tokIndent, row: l.row, col: 1})
	} else if col < cur {
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > col {
			l.indents = l.indents[:len(l.indents)-1]
			*toks = append(*toks, token{kind: tokDedent, row: l.row, col: 1})
		}
		if l.indents[len(l.indents)-1] != col {
			return l.errorf(l.row, 1, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= utf8.RuneSelf
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func (l *lexer) lexName() token {
	row, col := l.row, l.col
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
		l.advance()
	}
	lit := l.src[start:l.pos]
	// String/bytes prefixes: r'...', b'...', f'...', rb'...'.
	if (lit == "r" || lit == "b" || lit == "f" || lit == "rb" || lit == "br" || lit == "rf" || lit == "fr") &&
		l.pos < len(l.src) && (l.peekByte() == '\'' || l.peekByte() == '"') {
		t, err := l.lexString(strings.ToLower(lit))
		if err == nil {
			t.row, t.col = row, col
			return t
		}
	}
	return token{kind: tokName, lit: lit, row: row, col: col}
}

func (l *lexer) lexNumber() (token, error) {
	row, col := l.row, l.col
	start := l.pos
	for l.pos < len(l.src) && (l.peekByte() >= '0' && l.peekByte() <= '9' || l.peekByte() == '_') {
		l.advance()
	}
	if l.pos < len(l.src) && (l.peekByte() == '.' || l.peekByte() == 'e' || l.peekByte() == 'E') {
		return token{}, l.errorf(row, col, "floating point literals are not supported")
	}
	return token{kind: tokInt, lit: strings.ReplaceAll(l.src[start:l.pos], "_", ""), row: row, col: col}, nil
}

func (l *lexer) lexString(prefix string) (token, error) {
	row, col := l.row, l.col
	quote := l.advance()
	triple := false
	if l.pos+1 < len(l.src) && l.peekByte() == quote && l.src[l.pos+1] == quote {
		l.advance()
		l.advance()
		triple = true
	}
	var b strings.Builder
	raw := strings.Contains(prefix, "r")
	for {
		if l.pos >= len(l.src) {
			return token{}, l.errorf(row, col, "unterminated string literal")
		}
		c := l.peekByte()
		if c == quote {
			if triple {
				if l.pos+2 < len(l.src) && l.src[l.pos+1] == quote && l.src[l.pos+2] == quote {
					l.advance()
					l.advance()
					l.advance()
					break
				}
				b.WriteByte(l.advance())
				continue
			}
			l.advance()
			break
		}
		if c == '\n' && !triple {
			return token{}, l.errorf(row, col, "unterminated string literal")
		}
		if c == '\\' && !raw {
			l.advance()
			if l.pos >= len(l.src) {
				return token{}, l.errorf(row, col, "unterminated string literal")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '\'':
				b.WriteByte('\'')
			case '"':
				b.WriteByte('"')
			case '\n':
				// line continuation inside string
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			continue
		}
		if c == '\\' && raw {
			b.WriteByte(l.advance())
			if l.pos < len(l.src) {
				b.WriteByte(l.advance())
			}
			continue
		}
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(l.advance())
			continue
		}
		for i := 0; i < size; i++ {
			l.advance()
		}
		b.WriteRune(r)
	}
	kind := tokString
	if strings.Contains(prefix, "b") {
		kind = tokBytes
	} else if strings.Contains(prefix, "f") {
		kind = tokFString
	}
	return token{kind: kind, lit: b.String(), row: row, col: col}, nil
}

var threeCharOps = []string{"**=", "//=", "...", "<<=", ">>="}
var twoCharOps = []string{
	"==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "%=", "**", "//",
	"&=", "|=", "^=", ":=", "->", "<<", ">>",
}

func (l *lexer) lexOp() (token, error) {
	row, col := l.row, l.col
	rest := l.src[l.pos:]
	for _, op := range threeCharOps {
		if strings.HasPrefix(rest, op) {
			for range op {
				l.advance()
			}
			return token{kind: tokOp, lit: op, row: row, col: col}, nil
		}
	}
	for _, op := range twoCharOps {
		if strings.HasPrefix(rest, op) {
			for range op {
				l.advance()
			}
			return token{kind: tokOp, lit: op, row: row, col: col}, nil
		}
	}
	b := l.advance()
	switch b {
	case '(', ')', '[', ']', '{', '}':
		if b == '(' || b == '[' || b == '{' {
			l.parenDep++
		} else {
			if l.parenDep > 0 {
				l.parenDep--
			}
		}
		return token{kind: tokOp, lit: string(b), row: row, col: col}, nil
	case '+', '-', '*', '/', '%', '=', '<', '>', ',', ':', '.', '|', '&', '^', '~', '@':
		return token{kind: tokOp, lit: string(b), row: row, col: col}, nil
	}
	if unicode.IsSpace(rune(b)) {
		return l.lexOp()
	}
	return token{}, l.errorf(row, col, "invalid character %q", b)
}
