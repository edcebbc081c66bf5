// Package validate implements the allowlist validator (spec §4.2): the
// security perimeter that walks a parsed program and rejects any node,
// operator, or name outside the permitted subset before the evaluator ever
// runs a single statement. Grounded on the teacher's ast.Visitor/ast.Walk
// pattern (_examples/open-policy-agent-opa/ast/visit.go): one Visitor
// implementation, first violation wins.
package validate

import (
	"strings"

	"github.com/stealthinu/rlmsandbox/ast"
)

// Validate walks prog and returns the first forbidden construct found, or
// nil if every node is within the allowlist. It never partially reports —
// exactly one *ast.Error comes back, matching the Open Question decision
// recorded in SPEC_FULL.md to keep the Execute contract's error shape to a
// single offending span rather than a list.
func Validate(prog *ast.Program) error {
	v := &walker{}
	for _, s := range prog.Body {
		ast.Walk(v, s)
		if v.err != nil {
			return v.err
		}
	}
	return nil
}

type walker struct {
	err       error
	funcDepth int
}

// Visit implements ast.Visitor. Returning nil stops descent (used once an
// error is recorded, and for FuncDef bodies which we walk manually below to
// track funcDepth around Return).
func (w *walker) Visit(n ast.Node) ast.Visitor {
	if w.err != nil {
		return nil
	}
	switch x := n.(type) {
	case *ast.Return:
		if w.funcDepth == 0 {
			w.err = ast.NewError(ast.ForbiddenSyntaxErr, n.Location(), "return is only permitted inside a function body")
			return nil
		}
	case *ast.FuncDef:
		w.funcDepth++
		for _, s := range x.Body {
			ast.Walk(w, s)
			if w.err != nil {
				w.funcDepth--
				return nil
			}
		}
		w.funcDepth--
		return nil // body already walked manually; do not descend again
	case *ast.Name:
		if err := w.checkName(x.Id, n.Location()); err != nil {
			w.err = err
			return nil
		}
	case *ast.Attribute:
		if err := w.checkAttr(x.Attr, n.Location()); err != nil {
			w.err = err
			return nil
		}
	case *ast.BinOp:
		if !permittedBinOps[x.Op] {
			w.err = ast.NewError(ast.ForbiddenSyntaxErr, n.Location(), "operator %q is not permitted", x.Op)
			return nil
		}
	case *ast.Assign:
		for _, t := range x.Targets {
			if err := checkTarget(t); err != nil {
				w.err = err
				return nil
			}
		}
	case *ast.AugAssign:
		if err := checkTarget(x.Target); err != nil {
			w.err = err
			return nil
		}
	case *ast.For:
		if err := checkTarget(x.Target); err != nil {
			w.err = err
			return nil
		}
	}
	return w
}

func (w *walker) checkName(id string, loc *ast.Location) error {
	if strings.HasPrefix(id, "_") {
		return ast.NewError(ast.ForbiddenNameErr, loc, "names beginning with '_' are not permitted: %q", id)
	}
	if forbiddenNames[id] {
		return ast.NewError(ast.ForbiddenNameErr, loc, "%q is not permitted", id)
	}
	return nil
}

func (w *walker) checkAttr(attr string, loc *ast.Location) error {
	if strings.HasPrefix(attr, "_") {
		return ast.NewError(ast.ForbiddenNameErr, loc, "attribute names beginning with '_' are not permitted: %q", attr)
	}
	if !permittedAttrs[attr] {
		return ast.NewError(ast.ForbiddenNameErr, loc, "attribute %q is not permitted", attr)
	}
	return nil
}

// checkTarget re-asserts the parser's own assignability restriction
// (Name, or nested List/Tuple of Names) as defense in depth — the permitted
// grammar never produces anything else here, but the validator is the
// named security perimeter, so it re-checks rather than trusting upstream.
func checkTarget(e ast.Expr) error {
	switch x := e.(type) {
	case *ast.Name:
		return nil
	case *ast.TupleDisplay:
		for _, el := range x.Elts {
			if err := checkTarget(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.ListDisplay:
		for _, el := range x.Elts {
			if err := checkTarget(el); err != nil {
				return err
			}
		}
		return nil
	default:
		return ast.NewError(ast.ForbiddenSyntaxErr, e.Location(), "assignment to attributes or subscripts is not permitted")
	}
}
