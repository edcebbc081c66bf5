package ast

// Visitor defines the interface for iterating the syntax tree. Visit is
// called on every node before its children; if it returns nil the node's
// children are not visited, mirroring the teacher's own ast.Visitor.
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk recurses over the tree rooted at n, invoking v.Visit on every node.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	w := v.Visit(n)
	if w == nil {
		return
	}
	switch x := n.(type) {
	case *Program:
		for _, s := range x.Body {
			Walk(w, s)
		}
	case *Assign:
		for _, t := range x.Targets {
			Walk(w, t)
		}
		Walk(w, x.Value)
	case *AugAssign:
		Walk(w, x.Target)
		Walk(w, x.Value)
	case *If:
		Walk(w, x.Test)
		walkStmts(w, x.Body)
		walkStmts(w, x.Orelse)
	case *For:
		Walk(w, x.Target)
		Walk(w, x.Iter)
		walkStmts(w, x.Body)
	case *Try:
		walkStmts(w, x.Body)
		for _, h := range x.Handlers {
			walkStmts(w, h.Body)
		}
	case *Pass:
	case *Return:
		if x.Value != nil {
			Walk(w, x.Value)
		}
	case *FuncDef:
		walkStmts(w, x.Body)
	case *Import:
	case *ExprStmt:
		Walk(w, x.Value)
	case *Literal:
	case *Name:
	case *Attribute:
		Walk(w, x.Value)
	case *Call:
		Walk(w, x.Func)
		for _, a := range x.Args {
			Walk(w, a)
		}
		for _, k := range x.Keywords {
			Walk(w, k.Value)
		}
	case *Subscript:
		Walk(w, x.Value)
		if x.Index != nil {
			Walk(w, x.Index)
		}
		if x.Slc != nil {
			if x.Slc.Lower != nil {
				Walk(w, x.Slc.Lower)
			}
			if x.Slc.Upper != nil {
				Walk(w, x.Slc.Upper)
			}
			if x.Slc.Step != nil {
				Walk(w, x.Slc.Step)
			}
		}
	case *BinOp:
		Walk(w, x.Left)
		Walk(w, x.Right)
	case *UnaryOp:
		Walk(w, x.Operand)
	case *Compare:
		Walk(w, x.Left)
		for _, c := range x.Comparators {
			Walk(w, c)
		}
	case *BoolOp:
		for _, v := range x.Values {
			Walk(w, v)
		}
	case *IfExp:
		Walk(w, x.Test)
		Walk(w, x.Body)
		Walk(w, x.Orelse)
	case *FString:
		for _, p := range x.Parts {
			if p.Expr != nil {
				Walk(w, p.Expr)
			}
		}
	case *ListDisplay:
		for _, e := range x.Elts {
			Walk(w, e)
		}
	case *TupleDisplay:
		for _, e := range x.Elts {
			Walk(w, e)
		}
	case *DictDisplay:
		for i := range x.Keys {
			Walk(w, x.Keys[i])
			Walk(w, x.Values[i])
		}
	case *Comprehension:
		Walk(w, x.Element)
		for _, c := range x.Clauses {
			Walk(w, c.Target)
			Walk(w, c.Iter)
			for _, i := range c.Ifs {
				Walk(w, i)
			}
		}
	}
}

func walkStmts(v Visitor, stmts []Stmt) {
	for _, s := range stmts {
		Walk(v, s)
	}
}

// GenericVisitor applies a single function to every node; the function's
// bool return mirrors Visitor.Visit's "stop descending" signal.
type GenericVisitor struct {
	f func(Node) bool
}

// NewGenericVisitor returns a Visitor that calls f on every node; f returns
// true to stop descending into that node's children.
func NewGenericVisitor(f func(Node) bool) *GenericVisitor {
	return &GenericVisitor{f: f}
}

// Visit implements Visitor.
func (v *GenericVisitor) Visit(n Node) Visitor {
	if v.f(n) {
		return nil
	}
	return v
}

// Walk is a convenience wrapper running a GenericVisitor over n.
func (v *GenericVisitor) Walk(n Node) {
	Walk(v, n)
}
