package parser

import (
	"strconv"
	"strings"

	"github.com/stealthinu/rlmsandbox/ast"
)

// MaxCodeChars is a compile-time ceiling on raw source length; the
// configurable per-call limit of the same name (spec §4.5) is enforced by
// package session before Parse is even called. This constant only guards
// against pathological inputs reaching the lexer directly via package use.
const MaxCodeChars = 1 << 20

type parser struct {
	toks []token
	pos  int
}

// Parse produces a Program from src, or a structured *ast.Error with
// Code == ast.ParseErr on failure (spec §4.1).
func Parse(src string) (*ast.Program, error) {
	if strings.TrimSpace(src) == "" {
		return &ast.Program{Empty: true}, nil
	}
	if len(src) > MaxCodeChars {
		return nil, ast.NewError(ast.ParseErr, nil, "source too large")
	}
	l := newLexer(src)
	toks, err := l.tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	body, err := p.parseStmts(true)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Body: body}, nil
}

// ParseExprString parses src (the text of one f-string interpolation) as a
// single expression.
func ParseExprString(src string) (ast.Expr, error) {
	l := newLexer(src)
	toks, err := l.tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.testExpr()
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) loc() *ast.Location {
	t := p.cur()
	return ast.NewLocation(nil, t.row, t.col)
}

func (p *parser) errorf(format string, a ...interface{}) error {
	return ast.NewError(ast.ParseErr, p.loc(), format, a...)
}

func (p *parser) forbidden(format string, a ...interface{}) error {
	return ast.NewError(ast.ForbiddenSyntaxErr, p.loc(), format, a...)
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isOp(lit string) bool {
	t := p.cur()
	return t.kind == tokOp && t.lit == lit
}

func (p *parser) isName(lit string) bool {
	t := p.cur()
	return t.kind == tokName && t.lit == lit
}

func (p *parser) expectOp(lit string) error {
	if !p.isOp(lit) {
		return p.errorf("expected %q", lit)
	}
	p.advance()
	return nil
}

func (p *parser) expectName(lit string) error {
	if !p.isName(lit) {
		return p.errorf("expected %q", lit)
	}
	p.advance()
	return nil
}

func (p *parser) skipNewlines() {
	for p.cur().kind == tokNewline {
		p.advance()
	}
}

// parseStmts parses a sequence of statements, either the top-level program
// (topLevel=true, terminated by EOF) or an indented block (terminated by
// DEDENT, with a leading NEWLINE INDENT already expected by the caller).
func (p *parser) parseStmts(topLevel bool) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for {
		p.skipNewlines()
		if topLevel {
			if p.cur().kind == tokEOF {
				break
			}
		} else {
			if p.cur().kind == tokDedent || p.cur().kind == tokEOF {
				break
			}
		}
		stmts, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

// block parses ':' NEWLINE INDENT stmt+ DEDENT, or the inline single-line
// form ':' simple_stmt (';' simple_stmt)* NEWLINE.
func (p *parser) block() ([]ast.Stmt, error) {
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	if p.cur().kind == tokNewline {
		p.advance()
		if p.cur().kind != tokIndent {
			return nil, p.errorf("expected an indented block")
		}
		p.advance()
		body, err := p.parseStmts(false)
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokDedent {
			return nil, p.errorf("expected dedent")
		}
		p.advance()
		return body, nil
	}
	// Inline body on the same logical line.
	var out []ast.Stmt
	for {
		s, err := p.simpleStmt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if p.isOp(";") {
			p.advance()
			continue
		}
		break
	}
	if p.cur().kind == tokNewline {
		p.advance()
	}
	return out, nil
}

func (p *parser) statement() ([]ast.Stmt, error) {
	t := p.cur()
	if t.kind == tokOp && t.lit == "@" {
		return nil, p.forbidden("decorators are not permitted")
	}
	if t.kind == tokName {
		switch t.lit {
		case "if":
			s, err := p.ifStmt()
			return []ast.Stmt{s}, err
		case "for":
			s, err := p.forStmt()
			return []ast.Stmt{s}, err
		case "while":
			return nil, p.whileStmtForbidden()
		case "try":
			s, err := p.tryStmt()
			return []ast.Stmt{s}, err
		case "def":
			s, err := p.funcDef()
			return []ast.Stmt{s}, err
		case "with":
			return nil, p.withStmtForbidden()
		case "class":
			return nil, p.classStmtForbidden()
		case "async":
			return nil, p.forbidden("async/await are not permitted")
		}
	}
	var out []ast.Stmt
	for {
		s, err := p.simpleStmt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if p.isOp(";") {
			p.advance()
			continue
		}
		break
	}
	if p.cur().kind == tokNewline {
		p.advance()
	} else if p.cur().kind != tokEOF && p.cur().kind != tokDedent {
		return nil, p.errorf("expected end of statement")
	}
	return out, nil
}

// whileStmtForbidden / withStmtForbidden / classStmtForbidden consume the
// forbidden construct's body so the parser can still report one precise
// error instead of cascading, then return that error.
func (p *parser) whileStmtForbidden() error {
	loc := p.loc()
	p.advance()
	if _, err := p.testExpr(); err != nil {
		return err
	}
	if _, err := p.block(); err != nil {
		return err
	}
	return ast.NewError(ast.ForbiddenSyntaxErr, loc, "while loops are not permitted")
}

func (p *parser) withStmtForbidden() error {
	loc := p.loc()
	p.advance()
	for {
		if _, err := p.testExpr(); err != nil {
			return err
		}
		if p.isName("as") {
			p.advance()
			if _, err := p.testExpr(); err != nil {
				return err
			}
		}
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.block(); err != nil {
		return err
	}
	return ast.NewError(ast.ForbiddenSyntaxErr, loc, "with statements are not permitted")
}

func (p *parser) classStmtForbidden() error {
	loc := p.loc()
	p.advance()
	if p.cur().kind == tokName {
		p.advance()
	}
	if p.isOp("(") {
		depth := 0
		for {
			if p.isOp("(") {
				depth++
			} else if p.isOp(")") {
				depth--
			}
			p.advance()
			if depth == 0 {
				break
			}
		}
	}
	if _, err := p.block(); err != nil {
		return err
	}
	return ast.NewError(ast.ForbiddenSyntaxErr, loc, "class definitions are not permitted")
}

func (p *parser) simpleStmt() (ast.Stmt, error) {
	t := p.cur()
	if t.kind == tokName {
		switch t.lit {
		case "pass":
			loc := p.loc()
			p.advance()
			return &ast.Pass{Base: ast.Base{Loc: loc}}, nil
		case "return":
			return p.returnStmt()
		case "import":
			return p.importStmt()
		case "from":
			return p.fromImportStmt()
		case "global":
			loc := p.loc()
			p.advance()
			for p.cur().kind == tokName {
				p.advance()
				if p.isOp(",") {
					p.advance()
					continue
				}
				break
			}
			return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "global is not permitted")
		case "nonlocal":
			loc := p.loc()
			p.advance()
			for p.cur().kind == tokName {
				p.advance()
				if p.isOp(",") {
					p.advance()
					continue
				}
				break
			}
			return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "nonlocal is not permitted")
		case "del":
			loc := p.loc()
			p.advance()
			if _, err := p.testListExpr(); err != nil {
				return nil, err
			}
			return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "del is not permitted")
		case "raise":
			return p.raiseStmt()
		case "break", "continue":
			return nil, p.forbidden("%q is not permitted outside a loop construct", t.lit)
		}
	}
	return p.exprOrAssignStmt()
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if p.cur().kind == tokNewline || p.isOp(";") || p.cur().kind == tokDedent || p.cur().kind == tokEOF {
		return &ast.Return{Base: ast.Base{Loc: loc}}, nil
	}
	v, err := p.testListExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Base: ast.Base{Loc: loc}, Value: v}, nil
}

func (p *parser) raiseStmt() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if p.cur().kind == tokNewline || p.isOp(";") || p.cur().kind == tokDedent || p.cur().kind == tokEOF {
		// Bare "raise" is rejected too: the evaluator has no re-raise support.
		return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "bare raise is not supported by this evaluator")
	}
	if _, err := p.testExpr(); err != nil {
		return nil, err
	}
	return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "raise with an argument is not permitted")
}

func (p *parser) importStmt() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	var names []ast.ImportName
	for {
		if p.cur().kind != tokName {
			return nil, p.errorf("expected module name")
		}
		path := p.advance().lit
		for p.isOp(".") {
			p.advance()
			if p.cur().kind != tokName {
				return nil, p.errorf("expected module name")
			}
			path += "." + p.advance().lit
		}
		as := ""
		if p.isName("as") {
			p.advance()
			if p.cur().kind != tokName {
				return nil, p.errorf("expected name after 'as'")
			}
			as = p.advance().lit
		}
		names = append(names, ast.ImportName{Path: path, Asname: as})
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return &ast.Import{Base: ast.Base{Loc: loc}, Names: names}, nil
}

func (p *parser) fromImportStmt() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if p.cur().kind != tokName {
		return nil, p.errorf("expected module name")
	}
	mod := p.advance().lit
	if err := p.expectName("import"); err != nil {
		return nil, err
	}
	var names []ast.ImportName
	for {
		if p.cur().kind != tokName {
			return nil, p.errorf("expected imported name")
		}
		sym := p.advance().lit
		as := sym
		if p.isName("as") {
			p.advance()
			if p.cur().kind != tokName {
				return nil, p.errorf("expected name after 'as'")
			}
			as = p.advance().lit
		}
		names = append(names, ast.ImportName{Path: mod + "." + sym, Asname: as})
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return &ast.Import{Base: ast.Base{Loc: loc}, Names: names}, nil
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	test, err := p.testExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	node := &ast.If{Base: ast.Base{Loc: loc}, Test: test, Body: body}
	p.skipNewlinesBeforeKeyword()
	if p.isName("elif") {
		elifLoc := p.loc()
		sub, err := p.ifStmtFromElif(elifLoc)
		if err != nil {
			return nil, err
		}
		node.Orelse = []ast.Stmt{sub}
		return node, nil
	}
	if p.isName("else") {
		p.advance()
		elseBody, err := p.block()
		if err != nil {
			return nil, err
		}
		node.Orelse = elseBody
	}
	return node, nil
}

// ifStmtFromElif parses "elif test: body" reusing the 'if' production,
// since elif is just 'else: if ...' in disguise.
func (p *parser) ifStmtFromElif(loc *ast.Location) (ast.Stmt, error) {
	p.advance() // consume 'elif'
	test, err := p.testExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	node := &ast.If{Base: ast.Base{Loc: loc}, Test: test, Body: body}
	p.skipNewlinesBeforeKeyword()
	if p.isName("elif") {
		elifLoc := p.loc()
		sub, err := p.ifStmtFromElif(elifLoc)
		if err != nil {
			return nil, err
		}
		node.Orelse = []ast.Stmt{sub}
		return node, nil
	}
	if p.isName("else") {
		p.advance()
		elseBody, err := p.block()
		if err != nil {
			return nil, err
		}
		node.Orelse = elseBody
	}
	return node, nil
}

// skipNewlinesBeforeKeyword looks past blank/NEWLINE tokens between a
// DEDENT and a following "elif"/"else", the way Python's own grammar does
// when the clauses share the enclosing block's indentation.
func (p *parser) skipNewlinesBeforeKeyword() {
	save := p.pos
	for p.cur().kind == tokNewline {
		p.advance()
	}
	if !(p.isName("elif") || p.isName("else")) {
		p.pos = save
	}
}

func (p *parser) forStmt() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	target, err := p.targetExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectName("in"); err != nil {
		return nil, err
	}
	iter, err := p.testListExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.For{Base: ast.Base{Loc: loc}, Target: target, Iter: iter, Body: body}, nil
}

func (p *parser) tryStmt() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	var handlers []ast.ExceptClause
	p.skipNewlines()
	for p.isName("except") {
		hloc := p.loc()
		p.advance()
		var kinds []string
		if !p.isOp(":") {
			first := p.cur()
			if first.kind != tokName {
				return nil, p.errorf("expected exception name")
			}
			kinds = append(kinds, p.advance().lit)
			for p.isOp(",") {
				p.advance()
				if p.cur().kind != tokName {
					return nil, p.errorf("expected exception name")
				}
				kinds = append(kinds, p.advance().lit)
			}
			if p.isName("as") {
				p.advance()
				if p.cur().kind != tokName {
					return nil, p.errorf("expected name after 'as'")
				}
				p.advance()
			}
		}
		hbody, err := p.block()
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, ast.ExceptClause{Loc: hloc, Kinds: kinds, Body: hbody})
		p.skipNewlines()
	}
	if len(handlers) == 0 {
		return nil, p.errorf("expected 'except' clause")
	}
	if p.isName("finally") {
		return nil, ast.NewError(ast.ForbiddenSyntaxErr, p.loc(), "finally is not permitted")
	}
	return &ast.Try{Base: ast.Base{Loc: loc}, Body: body, Handlers: handlers}, nil
}

func (p *parser) funcDef() (ast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if p.cur().kind != tokName {
		return nil, p.errorf("expected function name")
	}
	name := p.advance().lit
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	var params []string
	for !p.isOp(")") {
		if p.isOp("*") || p.isOp("**") {
			return nil, p.forbidden("*args/**kwargs parameters are not permitted")
		}
		if p.cur().kind != tokName {
			return nil, p.errorf("expected parameter name")
		}
		params = append(params, p.advance().lit)
		if p.isOp("=") {
			return nil, p.forbidden("default parameter values are not permitted")
		}
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Base: ast.Base{Loc: loc}, Name: name, Params: params, Body: body}, nil
}

// targetExpr parses an assignment/for-loop target: a name, or a
// parenthesized/bracketed list of names (for unpacking). Anything else
// (attribute or subscript target) is rejected here since the permitted
// grammar never allows it (spec §4.2).
func (p *parser) targetExpr() (ast.Expr, error) {
	e, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	var elts []ast.Expr
	tuple := false
	for p.isOp(",") {
		tuple = true
		p.advance()
		if p.isOp("=") || p.isName("in") || p.cur().kind == tokNewline {
			break
		}
		next, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	if tuple {
		full := append([]ast.Expr{e}, elts...)
		for _, el := range full {
			if err := assertAssignable(el); err != nil {
				return nil, err
			}
		}
		return &ast.TupleDisplay{Base: ast.Base{Loc: e.Location()}, Elts: full}, nil
	}
	if err := assertAssignable(e); err != nil {
		return nil, err
	}
	return e, nil
}

func assertAssignable(e ast.Expr) error {
	switch x := e.(type) {
	case *ast.Name:
		return nil
	case *ast.TupleDisplay:
		for _, el := range x.Elts {
			if err := assertAssignable(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.ListDisplay:
		for _, el := range x.Elts {
			if err := assertAssignable(el); err != nil {
				return err
			}
		}
		return nil
	default:
		return ast.NewError(ast.ForbiddenSyntaxErr, e.Location(), "assignment to attributes or subscripts is not permitted")
	}
}

// exprOrAssignStmt handles: bare expression statements, "a = b", chained
// "a = b = c", tuple/list unpacking assignment, and augmented assignment.
func (p *parser) exprOrAssignStmt() (ast.Stmt, error) {
	loc := p.loc()
	first, err := p.testListExpr()
	if err != nil {
		return nil, err
	}
	if aug := p.augAssignOp(); aug != "" {
		p.advance()
		if err := assertAssignable(first); err != nil {
			return nil, err
		}
		val, err := p.testListExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AugAssign{Base: ast.Base{Loc: loc}, Target: first, Op: aug, Value: val}, nil
	}
	if p.isOp("=") {
		targets := []ast.Expr{first}
		var val ast.Expr
		for p.isOp("=") {
			p.advance()
			next, err := p.testListExpr()
			if err != nil {
				return nil, err
			}
			targets = append(targets, next)
		}
		val = targets[len(targets)-1]
		targets = targets[:len(targets)-1]
		for _, t := range targets {
			if err := assertAssignable(t); err != nil {
				return nil, err
			}
		}
		return &ast.Assign{Base: ast.Base{Loc: loc}, Targets: targets, Value: val}, nil
	}
	return &ast.ExprStmt{Base: ast.Base{Loc: loc}, Value: first}, nil
}

func (p *parser) augAssignOp() string {
	t := p.cur()
	if t.kind != tokOp {
		return ""
	}
	switch t.lit {
	case "+=", "-=":
		return t.lit
	}
	return ""
}

// testListExpr parses a comma-separated expression list, producing a bare
// expr when there's exactly one, or a TupleDisplay otherwise (Python's
// "a, b = 1, 2" bare-tuple convention).
func (p *parser) testListExpr() (ast.Expr, error) {
	loc := p.loc()
	first, err := p.testExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		return first, nil
	}
	elts := []ast.Expr{first}
	for p.isOp(",") {
		p.advance()
		if p.isOp("=") || p.cur().kind == tokNewline || p.isOp(";") || p.cur().kind == tokDedent || p.cur().kind == tokEOF {
			break
		}
		e, err := p.testExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	return &ast.TupleDisplay{Base: ast.Base{Loc: loc}, Elts: elts}, nil
}

// testExpr parses a conditional expression: or_test ['if' or_test 'else' testExpr].
func (p *parser) testExpr() (ast.Expr, error) {
	if p.isName("lambda") {
		return nil, p.forbidden("lambda is not permitted")
	}
	body, err := p.orTest()
	if err != nil {
		return nil, err
	}
	if p.isOp(":=") {
		return nil, p.forbidden("assignment expressions (:=) are not permitted")
	}
	if p.isName("if") {
		loc := p.loc()
		p.advance()
		test, err := p.orTest()
		if err != nil {
			return nil, err
		}
		if err := p.expectName("else"); err != nil {
			return nil, err
		}
		orelse, err := p.testExpr()
		if err != nil {
			return nil, err
		}
		return &ast.IfExp{Base: ast.Base{Loc: loc}, Test: test, Body: body, Orelse: orelse}, nil
	}
	return body, nil
}

func (p *parser) orTest() (ast.Expr, error) {
	first, err := p.andTest()
	if err != nil {
		return nil, err
	}
	if !p.isName("or") {
		return first, nil
	}
	loc := first.Location()
	vals := []ast.Expr{first}
	for p.isName("or") {
		p.advance()
		next, err := p.andTest()
		if err != nil {
			return nil, err
		}
		vals = append(vals, next)
	}
	return &ast.BoolOp{Base: ast.Base{Loc: loc}, Op: "or", Values: vals}, nil
}

func (p *parser) andTest() (ast.Expr, error) {
	first, err := p.notTest()
	if err != nil {
		return nil, err
	}
	if !p.isName("and") {
		return first, nil
	}
	loc := first.Location()
	vals := []ast.Expr{first}
	for p.isName("and") {
		p.advance()
		next, err := p.notTest()
		if err != nil {
			return nil, err
		}
		vals = append(vals, next)
	}
	return &ast.BoolOp{Base: ast.Base{Loc: loc}, Op: "and", Values: vals}, nil
}

func (p *parser) notTest() (ast.Expr, error) {
	if p.isName("not") {
		loc := p.loc()
		p.advance()
		operand, err := p.notTest()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{Loc: loc}, Op: "not", Operand: operand}, nil
	}
	return p.comparison()
}

var compOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *parser) comparison() (ast.Expr, error) {
	left, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	var ops []string
	var comps []ast.Expr
	for {
		op := ""
		if p.cur().kind == tokOp && compOps[p.cur().lit] {
			op = p.cur().lit
			p.advance()
		} else if p.isName("in") {
			op = "in"
			p.advance()
		} else if p.isName("not") {
			save := p.pos
			p.advance()
			if p.isName("in") {
				p.advance()
				op = "not in"
			} else {
				p.pos = save
				break
			}
		} else if p.isName("is") {
			p.advance()
			if p.isName("not") {
				p.advance()
				op = "is not"
			} else {
				op = "is"
			}
		} else {
			break
		}
		right, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comps = append(comps, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &ast.Compare{Base: ast.Base{Loc: left.Location()}, Left: left, Ops: ops, Comparators: comps}, nil
}

func (p *parser) bitOr() (ast.Expr, error) {
	left, err := p.bitAnd()
	if err != nil {
		return nil, err
	}
	for p.isOp("|") {
		loc := p.loc()
		p.advance()
		right, err := p.bitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Loc: loc}, Left: left, Op: "|", Right: right}
	}
	return left, nil
}

func (p *parser) bitAnd() (ast.Expr, error) {
	left, err := p.arith()
	if err != nil {
		return nil, err
	}
	for p.isOp("&") {
		loc := p.loc()
		p.advance()
		right, err := p.arith()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Loc: loc}, Left: left, Op: "&", Right: right}
	}
	return left, nil
}

func (p *parser) arith() (ast.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.cur().lit
		loc := p.loc()
		p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Loc: loc}, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) term() (ast.Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("%") || p.isOp("/") || p.isOp("//") || p.isOp("**") {
		op := p.cur().lit
		loc := p.loc()
		p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Loc: loc}, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) factor() (ast.Expr, error) {
	if p.isOp("-") {
		loc := p.loc()
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{Loc: loc}, Op: "-", Operand: operand}, nil
	}
	if p.isOp("+") {
		p.advance()
		return p.factor()
	}
	if p.isOp("~") {
		loc := p.loc()
		p.advance()
		if _, err := p.factor(); err != nil {
			return nil, err
		}
		return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "bitwise not is not permitted")
	}
	return p.atomTrailer()
}

func (p *parser) atomTrailer() (ast.Expr, error) {
	e, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("."):
			loc := p.loc()
			p.advance()
			if p.cur().kind != tokName {
				return nil, p.errorf("expected attribute name")
			}
			attr := p.advance().lit
			e = &ast.Attribute{Base: ast.Base{Loc: loc}, Value: e, Attr: attr}
		case p.isOp("("):
			loc := p.loc()
			args, kwargs, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			e = &ast.Call{Base: ast.Base{Loc: loc}, Func: e, Args: args, Keywords: kwargs}
		case p.isOp("["):
			loc := p.loc()
			sub, err := p.subscript(e, loc)
			if err != nil {
				return nil, err
			}
			e = sub
		default:
			return e, nil
		}
	}
}

func (p *parser) callArgs() ([]ast.Expr, []ast.Keyword, error) {
	p.advance() // '('
	var args []ast.Expr
	var kwargs []ast.Keyword
	for !p.isOp(")") {
		if p.isOp("*") || p.isOp("**") {
			loc := p.loc()
			return nil, nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "star-arg unpacking is not permitted")
		}
		if p.cur().kind == tokName && p.peekIsKwEq() {
			name := p.advance().lit
			p.advance() // '='
			v, err := p.testExpr()
			if err != nil {
				return nil, nil, err
			}
			kwargs = append(kwargs, ast.Keyword{Name: name, Value: v})
		} else {
			v, err := p.testExpr()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, v)
		}
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, nil, err
	}
	return args, kwargs, nil
}

func (p *parser) peekIsKwEq() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	nxt := p.toks[p.pos+1]
	return nxt.kind == tokOp && nxt.lit == "="
}

func (p *parser) subscript(value ast.Expr, loc *ast.Location) (ast.Expr, error) {
	p.advance() // '['
	var lower, upper, step ast.Expr
	var err error
	isSlice := false
	if !p.isOp(":") {
		lower, err = p.testExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.isOp(":") {
		isSlice = true
		p.advance()
		if !p.isOp(":") && !p.isOp("]") {
			upper, err = p.testExpr()
			if err != nil {
				return nil, err
			}
		}
		if p.isOp(":") {
			p.advance()
			if !p.isOp("]") {
				step, err = p.testExpr()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	if isSlice {
		return &ast.Subscript{Base: ast.Base{Loc: loc}, Value: value, Slc: &ast.Slice{Lower: lower, Upper: upper, Step: step}}, nil
	}
	return &ast.Subscript{Base: ast.Base{Loc: loc}, Value: value, Index: lower}, nil
}

func (p *parser) atom() (ast.Expr, error) {
	t := p.cur()
	loc := p.loc()
	switch t.kind {
	case tokInt:
		p.advance()
		n, err := strconv.ParseInt(t.lit, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", t.lit)
		}
		return &ast.Literal{Base: ast.Base{Loc: loc}, Kind: ast.LitInt, Int: n}, nil
	case tokString:
		p.advance()
		s := t.lit
		for p.cur().kind == tokString {
			s += p.advance().lit
		}
		return &ast.Literal{Base: ast.Base{Loc: loc}, Kind: ast.LitString, Str: s}, nil
	case tokBytes:
		p.advance()
		return &ast.Literal{Base: ast.Base{Loc: loc}, Kind: ast.LitBytes, Str: t.lit}, nil
	case tokFString:
		p.advance()
		return p.parseFString(t.lit, loc)
	case tokName:
		switch t.lit {
		case "True":
			p.advance()
			return &ast.Literal{Base: ast.Base{Loc: loc}, Kind: ast.LitBool, Bool: true}, nil
		case "False":
			p.advance()
			return &ast.Literal{Base: ast.Base{Loc: loc}, Kind: ast.LitBool, Bool: false}, nil
		case "None":
			p.advance()
			return &ast.Literal{Base: ast.Base{Loc: loc}, Kind: ast.LitNull}, nil
		case "yield":
			return nil, p.forbidden("yield is not permitted")
		case "lambda":
			return nil, p.forbidden("lambda is not permitted")
		case "await":
			return nil, p.forbidden("await is not permitted")
		}
		p.advance()
		return &ast.Name{Base: ast.Base{Loc: loc}, Id: t.lit}, nil
	case tokOp:
		switch t.lit {
		case "(":
			return p.parenExpr()
		case "[":
			return p.listExpr()
		case "{":
			return p.dictOrSetExpr()
		}
	}
	return nil, p.errorf("unexpected token %q", t.lit)
}

func (p *parser) parenExpr() (ast.Expr, error) {
	loc := p.loc()
	p.advance() // '('
	if p.isOp(")") {
		p.advance()
		return &ast.TupleDisplay{Base: ast.Base{Loc: loc}}, nil
	}
	first, err := p.testExpr()
	if err != nil {
		return nil, err
	}
	if p.isName("for") {
		clauses, err := p.compClauses()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return &ast.Comprehension{Base: ast.Base{Loc: loc}, Kind: ast.CompGen, Element: first, Clauses: clauses}, nil
	}
	if p.isOp(",") {
		elts := []ast.Expr{first}
		for p.isOp(",") {
			p.advance()
			if p.isOp(")") {
				break
			}
			e, err := p.testExpr()
			if err != nil {
				return nil, err
			}
			elts = append(elts, e)
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return &ast.TupleDisplay{Base: ast.Base{Loc: loc}, Elts: elts}, nil
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return first, nil
}

func (p *parser) listExpr() (ast.Expr, error) {
	loc := p.loc()
	p.advance() // '['
	if p.isOp("]") {
		p.advance()
		return &ast.ListDisplay{Base: ast.Base{Loc: loc}}, nil
	}
	first, err := p.testExpr()
	if err != nil {
		return nil, err
	}
	if p.isName("for") {
		clauses, err := p.compClauses()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp("]"); err != nil {
			return nil, err
		}
		return &ast.Comprehension{Base: ast.Base{Loc: loc}, Kind: ast.CompList, Element: first, Clauses: clauses}, nil
	}
	elts := []ast.Expr{first}
	for p.isOp(",") {
		p.advance()
		if p.isOp("]") {
			break
		}
		e, err := p.testExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	return &ast.ListDisplay{Base: ast.Base{Loc: loc}, Elts: elts}, nil
}

func (p *parser) dictOrSetExpr() (ast.Expr, error) {
	loc := p.loc()
	p.advance() // '{'
	if p.isOp("}") {
		p.advance()
		return &ast.DictDisplay{Base: ast.Base{Loc: loc}}, nil
	}
	firstKey, err := p.testExpr()
	if err != nil {
		return nil, err
	}
	if p.isOp(":") {
		p.advance()
		firstVal, err := p.testExpr()
		if err != nil {
			return nil, err
		}
		if p.isName("for") {
			if _, err := p.compClauses(); err != nil {
				return nil, err
			}
			if err := p.expectOp("}"); err != nil {
				return nil, err
			}
			return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "dict comprehensions are not permitted")
		}
		keys := []ast.Expr{firstKey}
		vals := []ast.Expr{firstVal}
		for p.isOp(",") {
			p.advance()
			if p.isOp("}") {
				break
			}
			k, err := p.testExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(":"); err != nil {
				return nil, err
			}
			v, err := p.testExpr()
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			vals = append(vals, v)
		}
		if err := p.expectOp("}"); err != nil {
			return nil, err
		}
		return &ast.DictDisplay{Base: ast.Base{Loc: loc}, Keys: keys, Values: vals}, nil
	}
	if p.isName("for") {
		clauses, err := p.compClauses()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp("}"); err != nil {
			return nil, err
		}
		return &ast.Comprehension{Base: ast.Base{Loc: loc}, Kind: ast.CompSet, Element: firstKey, Clauses: clauses}, nil
	}
	return nil, ast.NewError(ast.ForbiddenSyntaxErr, loc, "set display literals are not permitted; use a comprehension or set(...)")
}

func (p *parser) compClauses() ([]ast.CompClause, error) {
	var out []ast.CompClause
	for p.isName("for") {
		p.advance()
		target, err := p.targetExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectName("in"); err != nil {
			return nil, err
		}
		iter, err := p.orTest()
		if err != nil {
			return nil, err
		}
		var ifs []ast.Expr
		for p.isName("if") {
			p.advance()
			cond, err := p.orTest()
			if err != nil {
				return nil, err
			}
			ifs = append(ifs, cond)
		}
		out = append(out, ast.CompClause{Target: target, Iter: iter, Ifs: ifs})
	}
	return out, nil
}

// parseFString splits raw (the literal text between the f-string's quotes,
// after backslash-escape processing) into literal runs and interpolated
// expressions.
func (p *parser) parseFString(raw string, loc *ast.Location) (ast.Expr, error) {
	var parts []ast.FStringPart
	var lit strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '{' && i+1 < len(raw) && raw[i+1] == '{' {
			lit.WriteByte('{')
			i += 2
			continue
		}
		if c == '}' && i+1 < len(raw) && raw[i+1] == '}' {
			lit.WriteByte('}')
			i += 2
			continue
		}
		if c == '{' {
			if lit.Len() > 0 {
				parts = append(parts, ast.FStringPart{Text: lit.String()})
				lit.Reset()
			}
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						goto done
					}
				}
				j++
			}
		done:
			if depth != 0 {
				return nil, ast.NewError(ast.ParseErr, loc, "unterminated f-string expression")
			}
			inner := raw[i+1 : j]
			spec := ""
			if idx := topLevelColon(inner); idx >= 0 {
				spec = inner[idx+1:]
				inner = inner[:idx]
			}
			e, err := ParseExprString(inner)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.FStringPart{Expr: e, Spec: spec})
			i = j + 1
			continue
		}
		lit.WriteByte(c)
		i++
	}
	if lit.Len() > 0 {
		parts = append(parts, ast.FStringPart{Text: lit.String()})
	}
	return &ast.FString{Base: ast.Base{Loc: loc}, Parts: parts}, nil
}

// topLevelColon finds the first ':' not nested inside (), [], or {},
// used to split an f-string expression from its optional format spec.
func topLevelColon(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
