package eval

import (
	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/value"
)

// evalComprehension implements list/set comprehensions and generator
// expressions, including the reference-compatible scoping quirk of spec
// §4.3/§9: the iteration-source clauses (Iter, Ifs) see the enclosing
// frame normally, but the element expression evaluates in a frame chained
// only to session globals — plus whatever names the comprehension's own
// "for" targets bind, plus any enclosing name that was also referenced
// (read) by an iteration-source clause. Generator expressions are
// materialized eagerly into a List; nothing in this sandbox consumes a
// comprehension lazily across statement boundaries.
func (ev *Evaluator) evalComprehension(fr *Frame, x *ast.Comprehension) (value.Value, error) {
	leaked := map[string]value.Value{}
	for _, c := range x.Clauses {
		ev.collectLeaked(fr, c.Iter, leaked)
		for _, ifc := range c.Ifs {
			ev.collectLeaked(fr, ifc, leaked)
		}
	}
	compFrame := &Frame{vars: map[string]value.Value{}, parent: fr, globals: fr.globals}
	var results []value.Value
	err := ev.compRecur(compFrame, x.Clauses, 0, func() error {
		if err := ev.checkStep(x.Location()); err != nil {
			return err
		}
		elemFrame := fr.PushComprehensionScope()
		for k, v := range compFrame.vars {
			elemFrame.vars[k] = v
		}
		for k, v := range leaked {
			if _, exists := elemFrame.vars[k]; !exists {
				elemFrame.vars[k] = v
			}
		}
		v, err := ev.evalExpr(elemFrame, x.Element)
		if err != nil {
			return err
		}
		results = append(results, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if x.Kind == ast.CompSet {
		return dedupeList(results), nil
	}
	return &value.List{Elems: results}, nil
}

func (ev *Evaluator) compRecur(compFrame *Frame, clauses []ast.CompClause, i int, yield func() error) error {
	if i == len(clauses) {
		return yield()
	}
	c := clauses[i]
	iterVal, err := ev.evalExpr(compFrame, c.Iter)
	if err != nil {
		return err
	}
	items, err := iterableToSlice(c.Iter.Location(), iterVal)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := ev.checkStep(c.Iter.Location()); err != nil {
			return err
		}
		if err := ev.bindTarget(compFrame, c.Target, item); err != nil {
			return err
		}
		keep := true
		for _, ifc := range c.Ifs {
			cv, err := ev.evalExpr(compFrame, ifc)
			if err != nil {
				return err
			}
			if !value.Truthy(cv) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		if err := ev.compRecur(compFrame, clauses, i+1, yield); err != nil {
			return err
		}
	}
	return nil
}

// collectLeaked records the current value of every free name referenced in
// e that resolves in fr, implementing the "also referenced in the
// iteration source" half of the scoping quirk.
func (ev *Evaluator) collectLeaked(fr *Frame, e ast.Expr, leaked map[string]value.Value) {
	ast.Walk(ast.NewGenericVisitor(func(n ast.Node) bool {
		if nm, ok := n.(*ast.Name); ok {
			if v, ok := fr.Get(nm.Id); ok {
				leaked[nm.Id] = v
			}
		}
		return false
	}), e)
}

// dedupeList implements both the set(...) builtin and set comprehensions:
// spec §3 has no distinct unordered-container Value type, so a set is a
// *value.List with IsSet set, deduplicated and display-rendered as
// "{1, 2, 3}" (see value.Repr) rather than an ordinary list's "[1, 2, 3]".
func dedupeList(vs []value.Value) *value.List {
	var out []value.Value
	for _, v := range vs {
		dup := false
		for _, o := range out {
			if value.Equal(v, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return &value.List{Elems: out, IsSet: true}
}
