// Package eval's central dispatch: the Evaluator type, the statement and
// expression tree walk, and the Run entry point package session drives one
// call at a time. Grounded on the teacher's topdown.Eval's statement/rule
// walk for overall shape (_examples/open-policy-agent-opa/topdown/eval.go),
// though the walk itself is a plain recursive tree-walker rather than
// topdown's rule-graph evaluation, since this domain has no need for the
// teacher's backtracking search.
package eval

import (
	"fmt"
	"strings"

	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/value"
)

// Limits holds every resource ceiling spec §4.5's table names. A single
// struct keeps package session (which owns the session-level defaults) and
// package eval (which enforces them at each check point) talking about the
// same numbers.
type Limits struct {
	MaxCodeChars       int
	MaxOutputChars     int
	MaxASTNodes        int
	MaxSteps           int
	MaxStringSize      int
	MaxZlibOutputBytes int
	MaxListSize        int
}

// DefaultLimits returns the ceilings from spec §4.5's table.
func DefaultLimits() Limits {
	return Limits{
		MaxCodeChars:       20000,
		MaxOutputChars:     2000,
		MaxASTNodes:        50000,
		MaxSteps:           200000,
		MaxStringSize:      10000000,
		MaxZlibOutputBytes: 1000000,
		MaxListSize:        1000000,
	}
}

// Evaluator runs one Execute call's code fragment against a persistent
// Frame. A fresh Evaluator is created per call; the Frame it's given
// outlives it.
type Evaluator struct {
	limits  Limits
	steps   int
	output  *outputBuffer
	modules map[string]*value.Module
	globalB map[string]*value.Builtin
}

// BuiltinModules returns the curated module set of spec §4.4, built fresh
// against limits (only zlib's decompress closes over MaxZlibOutputBytes).
// Package session calls this once at Session construction to pre-bind
// module names into session globals; NewEvaluator calls it again per
// Execute call for Import's allowlist lookup. Modules are stateless and
// immutable, so rebuilding them is just reallocating closures, not
// divergent behavior.
func BuiltinModules(limits Limits) map[string]*value.Module {
	return map[string]*value.Module{
		"re":       reModule(),
		"json":     jsonModule(),
		"base64":   base64Module(),
		"binascii": binasciiModule(),
		"zlib":     zlibModule(limits.MaxZlibOutputBytes),
		"math":     mathModule(),
	}
}

// NewEvaluator returns an Evaluator ready to Run one code fragment.
func NewEvaluator(limits Limits) *Evaluator {
	ev := &Evaluator{limits: limits, output: newOutputBuffer(limits.MaxOutputChars)}
	ev.modules = BuiltinModules(limits)
	ev.globalB = buildBuiltins(ev)
	return ev
}

// outputBuffer accumulates print() output, truncating at MaxOutputChars and
// recording how much was dropped (spec §4.5).
type outputBuffer struct {
	limit   int
	buf     strings.Builder
	written int
	total   int
}

func newOutputBuffer(limit int) *outputBuffer {
	return &outputBuffer{limit: limit}
}

func (o *outputBuffer) write(s string) {
	runes := []rune(s)
	o.total += len(runes)
	if o.written >= o.limit {
		return
	}
	avail := o.limit - o.written
	if len(runes) > avail {
		runes = runes[:avail]
	}
	o.buf.WriteString(string(runes))
	o.written += len(runes)
}

func (o *outputBuffer) String() string {
	s := o.buf.String()
	if o.total > o.written {
		s += fmt.Sprintf("[Output truncated: %d chars dropped]", o.total-o.written)
	}
	return s
}

// returnSignal unwinds execStmt/execStmts up to the enclosing function call
// the way a plain tree-walker threads control flow without panics; Try
// handling must let it pass through untouched rather than treat it as a
// catchable error.
type returnSignal struct{ Value value.Value }

func (r *returnSignal) Error() string { return "return outside function call" }

// Run executes prog's statements against globals in order, returning the
// call's rendered output (including the echoed trailing expression, if
// any) and the first uncaught error. Statements already executed before an
// error keep their effect on globals — Execute's "partial commit" semantics
// (spec §4.1) fall directly out of Frame.Set mutating in place.
func (ev *Evaluator) Run(prog *ast.Program, globals *Frame) (string, error) {
	if prog.Empty {
		return "No code to execute", nil
	}
	hasPrint := scanForPrint(prog)
	var echoVal value.Value
	shouldEcho := false
	for i, stmt := range prog.Body {
		if err := ev.checkStep(stmt.Location()); err != nil {
			return ev.output.String(), err
		}
		if i == len(prog.Body)-1 {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				v, err := ev.evalExpr(globals, es.Value)
				if err != nil {
					return ev.output.String(), err
				}
				if !hasPrint {
					if _, isNull := v.(value.Null); !isNull {
						echoVal, shouldEcho = v, true
					}
				}
				continue
			}
		}
		if err := ev.execStmt(globals, stmt); err != nil {
			return ev.output.String(), err
		}
	}
	out := ev.output.String()
	if shouldEcho {
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += value.Repr(echoVal)
	}
	return out, nil
}

// scanForPrint reports whether any literal call to the name "print" occurs
// anywhere in prog, regardless of whether it is ever reached at runtime.
// This is a static property of the source (spec §4.3), not a runtime
// counter, because what it gates — suppressing the echo-last-expression
// rule — must agree with the reference even along branches that never
// execute.
func scanForPrint(prog *ast.Program) bool {
	found := false
	v := ast.NewGenericVisitor(func(n ast.Node) bool {
		if found {
			return true
		}
		if call, ok := n.(*ast.Call); ok {
			if name, ok := call.Func.(*ast.Name); ok && name.Id == "print" {
				found = true
				return true
			}
		}
		return false
	})
	for _, s := range prog.Body {
		ast.Walk(v, s)
	}
	return found
}

// Steps returns the number of evaluator dispatch steps Run has consumed so
// far, for package session's metrics and logging.
func (ev *Evaluator) Steps() int { return ev.steps }

func (ev *Evaluator) checkStep(loc *ast.Location) error {
	ev.steps++
	if ev.steps > ev.limits.MaxSteps {
		return resourceLimitErr(loc, "step limit exceeded")
	}
	return nil
}

// --- statements ----------------------------------------------------------

func (ev *Evaluator) execStmts(fr *Frame, stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := ev.checkStep(s.Location()); err != nil {
			return err
		}
		if err := ev.execStmt(fr, s); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execStmt(fr *Frame, stmt ast.Stmt) error {
	switch x := stmt.(type) {
	case *ast.Assign:
		v, err := ev.evalExpr(fr, x.Value)
		if err != nil {
			return err
		}
		for _, t := range x.Targets {
			if err := ev.bindTarget(fr, t, v); err != nil {
				return err
			}
		}
		return nil
	case *ast.AugAssign:
		cur, err := ev.evalExpr(fr, x.Target)
		if err != nil {
			return err
		}
		rhs, err := ev.evalExpr(fr, x.Value)
		if err != nil {
			return err
		}
		res, err := ev.binOp(x.Location(), x.Op, cur, rhs)
		if err != nil {
			return err
		}
		return ev.bindTarget(fr, x.Target, res)
	case *ast.If:
		test, err := ev.evalExpr(fr, x.Test)
		if err != nil {
			return err
		}
		if value.Truthy(test) {
			return ev.execStmts(fr, x.Body)
		}
		return ev.execStmts(fr, x.Orelse)
	case *ast.For:
		return ev.execFor(fr, x)
	case *ast.Try:
		return ev.execTry(fr, x)
	case *ast.Pass:
		return nil
	case *ast.Return:
		var v value.Value = value.Null{}
		if x.Value != nil {
			var err error
			v, err = ev.evalExpr(fr, x.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{Value: v}
	case *ast.FuncDef:
		fn := &value.Function{Name: x.Name, Params: append([]string(nil), x.Params...), Body: x.Body, Env: fr}
		fr.Set(x.Name, fn)
		return nil
	case *ast.Import:
		return ev.execImport(fr, x)
	case *ast.ExprStmt:
		_, err := ev.evalExpr(fr, x.Value)
		return err
	}
	return NewError(InternalErr, stmt.Location(), "unhandled statement type %T", stmt)
}

func (ev *Evaluator) execFor(fr *Frame, x *ast.For) error {
	iterVal, err := ev.evalExpr(fr, x.Iter)
	if err != nil {
		return err
	}
	items, err := iterableToSlice(x.Iter.Location(), iterVal)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := ev.checkStep(x.Location()); err != nil {
			return err
		}
		if err := ev.bindTarget(fr, x.Target, item); err != nil {
			return err
		}
		if err := ev.execStmts(fr, x.Body); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execTry(fr *Frame, x *ast.Try) error {
	err := ev.execStmts(fr, x.Body)
	if err == nil {
		return nil
	}
	if _, ok := err.(*returnSignal); ok {
		return err
	}
	evalErr, ok := err.(*Error)
	if !ok || !evalErr.Code.Catchable() {
		return err
	}
	for _, h := range x.Handlers {
		if !exceptMatches(h.Kinds, evalErr.Code) {
			continue
		}
		return ev.execStmts(fr, h.Body)
	}
	return err
}

func exceptMatches(kinds []string, code ErrCode) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == code.String() {
			return true
		}
	}
	return false
}

func (ev *Evaluator) execImport(fr *Frame, x *ast.Import) error {
	for _, n := range x.Names {
		name, v, err := ev.resolveImport(x.Location(), n)
		if err != nil {
			return err
		}
		fr.Set(name, v)
	}
	return nil
}

func (ev *Evaluator) resolveImport(loc *ast.Location, n ast.ImportName) (string, value.Value, error) {
	parts := strings.SplitN(n.Path, ".", 2)
	modName := parts[0]
	mod, ok := ev.modules[modName]
	if !ok {
		return "", nil, nameErr(loc, modName)
	}
	if len(parts) == 1 {
		name := n.Asname
		if name == "" {
			name = modName
		}
		return name, mod, nil
	}
	attr := parts[1]
	v, ok := mod.Get(attr)
	if !ok {
		return "", nil, attributeErr(loc, "module", attr)
	}
	name := n.Asname
	if name == "" {
		name = attr
	}
	return name, v, nil
}

// bindTarget assigns v to target, which the parser and validator have
// already restricted to a Name or a nested Tuple/List of such (spec §4.2:
// no attribute or subscript assignment).
func (ev *Evaluator) bindTarget(fr *Frame, target ast.Expr, v value.Value) error {
	switch t := target.(type) {
	case *ast.Name:
		fr.Set(t.Id, v)
		return nil
	case *ast.TupleDisplay:
		return ev.bindSequence(fr, t.Elts, v, t.Location())
	case *ast.ListDisplay:
		return ev.bindSequence(fr, t.Elts, v, t.Location())
	}
	return NewError(InternalErr, target.Location(), "invalid assignment target")
}

func (ev *Evaluator) bindSequence(fr *Frame, targets []ast.Expr, v value.Value, loc *ast.Location) error {
	items, err := iterableToSlice(loc, v)
	if err != nil {
		return err
	}
	if len(items) < len(targets) {
		return NewError(ValueErr, loc, "not enough values to unpack (expected %d, got %d)", len(targets), len(items))
	}
	if len(items) > len(targets) {
		return NewError(ValueErr, loc, "too many values to unpack (expected %d)", len(targets))
	}
	for i, t := range targets {
		if err := ev.bindTarget(fr, t, items[i]); err != nil {
			return err
		}
	}
	return nil
}

// --- expressions -----------------------------------------------------------

func (ev *Evaluator) evalExpr(fr *Frame, expr ast.Expr) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.Literal:
		return literalValue(x), nil
	case *ast.Name:
		return ev.evalName(fr, x)
	case *ast.Attribute:
		return ev.evalAttribute(fr, x)
	case *ast.Call:
		return ev.evalCall(fr, x)
	case *ast.Subscript:
		return ev.evalSubscript(fr, x)
	case *ast.BinOp:
		l, err := ev.evalExpr(fr, x.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.evalExpr(fr, x.Right)
		if err != nil {
			return nil, err
		}
		return ev.binOp(x.Location(), x.Op, l, r)
	case *ast.UnaryOp:
		v, err := ev.evalExpr(fr, x.Operand)
		if err != nil {
			return nil, err
		}
		return ev.unaryOp(x.Location(), x.Op, v)
	case *ast.Compare:
		return ev.evalCompare(fr, x)
	case *ast.BoolOp:
		return ev.boolOp(fr, x)
	case *ast.IfExp:
		test, err := ev.evalExpr(fr, x.Test)
		if err != nil {
			return nil, err
		}
		if value.Truthy(test) {
			return ev.evalExpr(fr, x.Body)
		}
		return ev.evalExpr(fr, x.Orelse)
	case *ast.FString:
		return ev.evalFString(fr, x)
	case *ast.ListDisplay:
		elems, err := ev.evalExprList(fr, x.Elts)
		if err != nil {
			return nil, err
		}
		if err := ev.checkListSize(x.Location(), len(elems)); err != nil {
			return nil, err
		}
		return &value.List{Elems: elems}, nil
	case *ast.TupleDisplay:
		elems, err := ev.evalExprList(fr, x.Elts)
		if err != nil {
			return nil, err
		}
		return value.Tuple{Elems: elems}, nil
	case *ast.DictDisplay:
		return ev.evalDictDisplay(fr, x)
	case *ast.Comprehension:
		return ev.evalComprehension(fr, x)
	}
	return nil, NewError(InternalErr, expr.Location(), "unhandled expression type %T", expr)
}

func literalValue(x *ast.Literal) value.Value {
	switch x.Kind {
	case ast.LitString:
		return value.String(x.Str)
	case ast.LitBytes:
		return value.Bytes([]byte(x.Str))
	case ast.LitInt:
		return value.Int(x.Int)
	case ast.LitBool:
		return value.Bool(x.Bool)
	default:
		return value.Null{}
	}
}

func (ev *Evaluator) evalExprList(fr *Frame, exprs []ast.Expr) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, err := ev.evalExpr(fr, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ev *Evaluator) evalName(fr *Frame, x *ast.Name) (value.Value, error) {
	if v, ok := fr.Get(x.Id); ok {
		return v, nil
	}
	if b, ok := ev.globalB[x.Id]; ok {
		return b, nil
	}
	return nil, nameErr(x.Location(), x.Id)
}

// evalAttribute resolves value.attr: a Module attribute is a direct map
// read, while every other receiver type looks up a bound method in
// methodTable and wraps it as a *value.Builtin closing over the already
// -evaluated receiver — so "f = x.strip; f()" and "x.strip()" share the
// same call path through evalCall.
func (ev *Evaluator) evalAttribute(fr *Frame, x *ast.Attribute) (value.Value, error) {
	recv, err := ev.evalExpr(fr, x.Value)
	if err != nil {
		return nil, err
	}
	if mod, ok := recv.(*value.Module); ok {
		v, ok := mod.Get(x.Attr)
		if !ok {
			return nil, attributeErr(x.Location(), "module", x.Attr)
		}
		return v, nil
	}
	methods, ok := methodTable[recv.Type()]
	if !ok {
		return nil, attributeErr(x.Location(), recv.Type(), x.Attr)
	}
	fn, ok := methods[x.Attr]
	if !ok {
		return nil, attributeErr(x.Location(), recv.Type(), x.Attr)
	}
	loc := x.Location()
	bound := func(loc2 *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return fn(ev, loc, recv, args, kwargs)
	}
	return &value.Builtin{Name: x.Attr, Fn: bound}, nil
}

func (ev *Evaluator) evalCall(fr *Frame, x *ast.Call) (value.Value, error) {
	callee, err := ev.evalExpr(fr, x.Func)
	if err != nil {
		return nil, err
	}
	args, err := ev.evalExprList(fr, x.Args)
	if err != nil {
		return nil, err
	}
	var kwargs map[string]value.Value
	if len(x.Keywords) > 0 {
		kwargs = make(map[string]value.Value, len(x.Keywords))
		for _, kw := range x.Keywords {
			v, err := ev.evalExpr(fr, kw.Value)
			if err != nil {
				return nil, err
			}
			kwargs[kw.Name] = v
		}
	}
	return ev.callValue(x.Location(), callee, args, kwargs)
}

// callValue invokes any callable Value: a *value.Builtin or a
// *value.Function. Used both by Call expressions and by builtins that
// accept a callback (max/min/sorted's key=).
func (ev *Evaluator) callValue(loc *ast.Location, callee value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := ev.checkStep(loc); err != nil {
		return nil, err
	}
	switch fn := callee.(type) {
	case *value.Builtin:
		return fn.Fn(loc, args, kwargs)
	case *value.Function:
		return ev.callFunction(loc, fn, args, kwargs)
	}
	return nil, typeErr(loc, "'%s' object is not callable", callee.Type())
}

func (ev *Evaluator) callFunction(loc *ast.Location, fn *value.Function, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	defFrame, _ := fn.Env.(*Frame)
	callFrame := defFrame.Push()
	if len(args) > len(fn.Params) {
		return nil, NewError(TypeErr, loc, "%s() takes %d positional argument(s) but %d were given", fn.Name, len(fn.Params), len(args))
	}
	for i, a := range args {
		callFrame.Set(fn.Params[i], a)
	}
	bound := map[string]bool{}
	for i := range args {
		bound[fn.Params[i]] = true
	}
	for name, v := range kwargs {
		found := false
		for _, p := range fn.Params {
			if p == name {
				found = true
				break
			}
		}
		if !found {
			return nil, NewError(TypeErr, loc, "%s() got an unexpected keyword argument '%s'", fn.Name, name)
		}
		callFrame.Set(name, v)
		bound[name] = true
	}
	for _, p := range fn.Params {
		if !bound[p] {
			return nil, NewError(TypeErr, loc, "%s() missing required argument: '%s'", fn.Name, p)
		}
	}
	body, _ := fn.Body.([]ast.Stmt)
	err := ev.execStmts(callFrame, body)
	if err == nil {
		return value.Null{}, nil
	}
	if ret, ok := err.(*returnSignal); ok {
		return ret.Value, nil
	}
	return nil, err
}

func (ev *Evaluator) evalCompare(fr *Frame, x *ast.Compare) (value.Value, error) {
	left, err := ev.evalExpr(fr, x.Left)
	if err != nil {
		return nil, err
	}
	for i, op := range x.Ops {
		right, err := ev.evalExpr(fr, x.Comparators[i])
		if err != nil {
			return nil, err
		}
		ok, err := ev.compare(x.Location(), op, left, right)
		if err != nil {
			return nil, err
		}
		if !ok {
			return value.Bool(false), nil
		}
		left = right
	}
	return value.Bool(true), nil
}

func (ev *Evaluator) evalFString(fr *Frame, x *ast.FString) (value.Value, error) {
	var b strings.Builder
	for _, p := range x.Parts {
		if p.Expr == nil {
			b.WriteString(p.Text)
			continue
		}
		v, err := ev.evalExpr(fr, p.Expr)
		if err != nil {
			return nil, err
		}
		switch p.Spec {
		case "r":
			b.WriteString(value.Repr(v))
		default:
			b.WriteString(value.Str(v))
		}
	}
	return value.String(b.String()), nil
}

func (ev *Evaluator) evalDictDisplay(fr *Frame, x *ast.DictDisplay) (value.Value, error) {
	d := value.NewDict()
	for i, ke := range x.Keys {
		kv, err := ev.evalExpr(fr, ke)
		if err != nil {
			return nil, err
		}
		key, ok := kv.(value.String)
		if !ok {
			return nil, typeErr(x.Location(), "dict keys must be str, not '%s'", kv.Type())
		}
		vv, err := ev.evalExpr(fr, x.Values[i])
		if err != nil {
			return nil, err
		}
		d.Set(string(key), vv)
	}
	return d, nil
}

func (ev *Evaluator) evalSubscript(fr *Frame, x *ast.Subscript) (value.Value, error) {
	recv, err := ev.evalExpr(fr, x.Value)
	if err != nil {
		return nil, err
	}
	if x.Slc != nil {
		return ev.evalSlice(x.Location(), recv, x.Slc, fr)
	}
	idx, err := ev.evalExpr(fr, x.Index)
	if err != nil {
		return nil, err
	}
	if _, isDict := recv.(*value.Dict); !isDict {
		n, ok := idx.(value.Int)
		if !ok {
			return nil, typeErr(x.Location(), "%s indices must be integers, not '%s'", recv.Type(), idx.Type())
		}
		i := int(n)
		switch c := recv.(type) {
		case value.String:
			runes := []rune(string(c))
			pos, err := normalizeIndex(x.Location(), i, len(runes), "string")
			if err != nil {
				return nil, err
			}
			return value.String(string(runes[pos])), nil
		case value.Bytes:
			pos, err := normalizeIndex(x.Location(), i, len(c), "bytes")
			if err != nil {
				return nil, err
			}
			return value.Int(c[pos]), nil
		case *value.List:
			pos, err := normalizeIndex(x.Location(), i, len(c.Elems), "list")
			if err != nil {
				return nil, err
			}
			return c.Elems[pos], nil
		case value.Tuple:
			pos, err := normalizeIndex(x.Location(), i, len(c.Elems), "tuple")
			if err != nil {
				return nil, err
			}
			return c.Elems[pos], nil
		}
		return nil, typeErr(x.Location(), "'%s' object is not subscriptable", recv.Type())
	}
	d := recv.(*value.Dict)
	key, ok := idx.(value.String)
	if !ok {
		return nil, typeErr(x.Location(), "dict keys must be str")
	}
	v, ok := d.Get(string(key))
	if !ok {
		return nil, keyErr(x.Location(), value.Repr(key))
	}
	return v, nil
}

func (ev *Evaluator) evalSlice(loc *ast.Location, recv value.Value, slc *ast.Slice, fr *Frame) (value.Value, error) {
	var lower, upper, step value.Value
	var err error
	if slc.Lower != nil {
		if lower, err = ev.evalExpr(fr, slc.Lower); err != nil {
			return nil, err
		}
	}
	if slc.Upper != nil {
		if upper, err = ev.evalExpr(fr, slc.Upper); err != nil {
			return nil, err
		}
	}
	if slc.Step != nil {
		if step, err = ev.evalExpr(fr, slc.Step); err != nil {
			return nil, err
		}
	}
	switch c := recv.(type) {
	case value.String:
		runes := []rune(string(c))
		lo, hi, st, err := sliceBounds(loc, len(runes), lower, upper, step)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for _, i := range sliceIndices(lo, hi, st) {
			b.WriteRune(runes[i])
		}
		return value.String(b.String()), nil
	case value.Bytes:
		lo, hi, st, err := sliceBounds(loc, len(c), lower, upper, step)
		if err != nil {
			return nil, err
		}
		out := make(value.Bytes, 0)
		for _, i := range sliceIndices(lo, hi, st) {
			out = append(out, c[i])
		}
		return out, nil
	case *value.List:
		lo, hi, st, err := sliceBounds(loc, len(c.Elems), lower, upper, step)
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, i := range sliceIndices(lo, hi, st) {
			out = append(out, c.Elems[i])
		}
		return &value.List{Elems: out}, nil
	case value.Tuple:
		lo, hi, st, err := sliceBounds(loc, len(c.Elems), lower, upper, step)
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, i := range sliceIndices(lo, hi, st) {
			out = append(out, c.Elems[i])
		}
		return value.Tuple{Elems: out}, nil
	}
	return nil, typeErr(loc, "'%s' object is not subscriptable", recv.Type())
}
