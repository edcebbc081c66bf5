package eval

import (
	"strconv"
	"strings"

	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/value"
)

// binOp implements the restricted operator set the validator lets through
// (spec §4.3's "Operator semantics"): +, -, *, %, |, &.
func (ev *Evaluator) binOp(loc *ast.Location, op string, l, r value.Value) (value.Value, error) {
	switch op {
	case "+":
		return ev.add(loc, l, r)
	case "-":
		return ev.sub(loc, l, r)
	case "*":
		return ev.mul(loc, l, r)
	case "%":
		return ev.mod(loc, l, r)
	case "|":
		return intBitOp(loc, l, r, func(a, b int64) int64 { return a | b })
	case "&":
		return intBitOp(loc, l, r, func(a, b int64) int64 { return a & b })
	}
	return nil, NewError(InternalErr, loc, "unsupported operator %q", op)
}

func (ev *Evaluator) add(loc *ast.Location, l, r value.Value) (value.Value, error) {
	switch a := l.(type) {
	case value.Int:
		if b, ok := r.(value.Int); ok {
			sum, err := value.AddInt(a, b)
			if err != nil {
				return nil, NewError(ValueErr, loc, "integer overflow")
			}
			return sum, nil
		}
	case value.String:
		if b, ok := r.(value.String); ok {
			if err := ev.checkStringSize(loc, len(a)+len(b)); err != nil {
				return nil, err
			}
			return a + b, nil
		}
	case value.Bytes:
		if b, ok := r.(value.Bytes); ok {
			out := make(value.Bytes, 0, len(a)+len(b))
			out = append(out, a...)
			out = append(out, b...)
			return out, nil
		}
	case *value.List:
		if b, ok := r.(*value.List); ok {
			if err := ev.checkListSize(loc, len(a.Elems)+len(b.Elems)); err != nil {
				return nil, err
			}
			out := make([]value.Value, 0, len(a.Elems)+len(b.Elems))
			out = append(out, a.Elems...)
			out = append(out, b.Elems...)
			return &value.List{Elems: out}, nil
		}
	case value.Tuple:
		if b, ok := r.(value.Tuple); ok {
			out := make([]value.Value, 0, len(a.Elems)+len(b.Elems))
			out = append(out, a.Elems...)
			out = append(out, b.Elems...)
			return value.Tuple{Elems: out}, nil
		}
	}
	return nil, typeErr(loc, "unsupported operand type(s) for +: '%s' and '%s'", l.Type(), r.Type())
}

func (ev *Evaluator) sub(loc *ast.Location, l, r value.Value) (value.Value, error) {
	a, ok1 := l.(value.Int)
	b, ok2 := r.(value.Int)
	if !ok1 || !ok2 {
		return nil, typeErr(loc, "unsupported operand type(s) for -: '%s' and '%s'", l.Type(), r.Type())
	}
	diff, err := value.SubInt(a, b)
	if err != nil {
		return nil, NewError(ValueErr, loc, "integer overflow")
	}
	return diff, nil
}

func (ev *Evaluator) mul(loc *ast.Location, l, r value.Value) (value.Value, error) {
	if a, ok := l.(value.Int); ok {
		if b, ok := r.(value.Int); ok {
			p, err := value.MulInt(a, b)
			if err != nil {
				return nil, NewError(ValueErr, loc, "integer overflow")
			}
			return p, nil
		}
		if s, ok := r.(value.String); ok {
			return ev.repeatString(loc, s, int64(a))
		}
		if lst, ok := r.(*value.List); ok {
			return ev.repeatList(loc, lst, int64(a))
		}
	}
	if s, ok := l.(value.String); ok {
		if b, ok := r.(value.Int); ok {
			return ev.repeatString(loc, s, int64(b))
		}
	}
	if lst, ok := l.(*value.List); ok {
		if b, ok := r.(value.Int); ok {
			return ev.repeatList(loc, lst, int64(b))
		}
	}
	return nil, typeErr(loc, "unsupported operand type(s) for *: '%s' and '%s'", l.Type(), r.Type())
}

func (ev *Evaluator) repeatString(loc *ast.Location, s value.String, n int64) (value.Value, error) {
	if n <= 0 {
		return value.String(""), nil
	}
	if err := ev.checkStringSize(loc, len(s)*int(n)); err != nil {
		return nil, err
	}
	return value.String(strings.Repeat(string(s), int(n))), nil
}

func (ev *Evaluator) repeatList(loc *ast.Location, l *value.List, n int64) (value.Value, error) {
	if n <= 0 {
		return &value.List{}, nil
	}
	if err := ev.checkListSize(loc, len(l.Elems)*int(n)); err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(l.Elems)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, l.Elems...)
	}
	return &value.List{Elems: out}, nil
}

func (ev *Evaluator) mod(loc *ast.Location, l, r value.Value) (value.Value, error) {
	if a, ok := l.(value.Int); ok {
		b, ok := r.(value.Int)
		if !ok {
			return nil, typeErr(loc, "unsupported operand type(s) for %%: 'int' and '%s'", r.Type())
		}
		if b == 0 {
			return nil, zeroDivisionErr(loc, "integer modulo by zero")
		}
		m := int64(a) % int64(b)
		if m != 0 && (m < 0) != (int64(b) < 0) {
			m += int64(b)
		}
		return value.Int(m), nil
	}
	if s, ok := l.(value.String); ok {
		return ev.percentFormat(loc, string(s), r)
	}
	return nil, typeErr(loc, "unsupported operand type(s) for %%: '%s' and '%s'", l.Type(), r.Type())
}

// percentFormat implements the restricted printf-style subset spec §4.3
// names: %s, %d, %x, %r.
func (ev *Evaluator) percentFormat(loc *ast.Location, format string, arg value.Value) (value.Value, error) {
	var args []value.Value
	if t, ok := arg.(value.Tuple); ok {
		args = t.Elems
	} else {
		args = []value.Value{arg}
	}
	var b strings.Builder
	ai := 0
	next := func() (value.Value, error) {
		if ai >= len(args) {
			return nil, NewError(TypeErr, loc, "not enough arguments for format string")
		}
		v := args[ai]
		ai++
		return v, nil
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return nil, NewError(ValueErr, loc, "incomplete format")
		}
		i++
		switch format[i] {
		case '%':
			b.WriteByte('%')
		case 's':
			v, err := next()
			if err != nil {
				return nil, err
			}
			b.WriteString(value.Str(v))
		case 'r':
			v, err := next()
			if err != nil {
				return nil, err
			}
			b.WriteString(value.Repr(v))
		case 'd':
			v, err := next()
			if err != nil {
				return nil, err
			}
			n, ok := v.(value.Int)
			if !ok {
				return nil, typeErr(loc, "%%d format: a number is required, not %s", v.Type())
			}
			b.WriteString(strconv.FormatInt(int64(n), 10))
		case 'x':
			v, err := next()
			if err != nil {
				return nil, err
			}
			n, ok := v.(value.Int)
			if !ok {
				return nil, typeErr(loc, "%%x format: an integer is required, not %s", v.Type())
			}
			b.WriteString(strconv.FormatInt(int64(n), 16))
		default:
			return nil, NewError(ValueErr, loc, "unsupported format character %q", format[i])
		}
	}
	return value.String(b.String()), nil
}

func intBitOp(loc *ast.Location, l, r value.Value, f func(a, b int64) int64) (value.Value, error) {
	a, ok1 := l.(value.Int)
	b, ok2 := r.(value.Int)
	if !ok1 || !ok2 {
		return nil, typeErr(loc, "unsupported operand type(s) for bitwise op: '%s' and '%s'", l.Type(), r.Type())
	}
	return value.Int(f(int64(a), int64(b))), nil
}

// unaryOp implements "-" and "not" (spec §4.2's permitted unary ops).
func (ev *Evaluator) unaryOp(loc *ast.Location, op string, v value.Value) (value.Value, error) {
	switch op {
	case "not":
		return value.Bool(!value.Truthy(v)), nil
	case "-":
		n, ok := v.(value.Int)
		if !ok {
			return nil, typeErr(loc, "bad operand type for unary -: '%s'", v.Type())
		}
		if n == -n && n != 0 {
			return nil, NewError(ValueErr, loc, "integer overflow")
		}
		return -n, nil
	}
	return nil, NewError(InternalErr, loc, "unsupported unary operator %q", op)
}

// compare implements the permitted comparison operators, including the
// chained form "a < b < c" (spec §4.2, §4.3).
func (ev *Evaluator) compare(loc *ast.Location, op string, l, r value.Value) (bool, error) {
	switch op {
	case "==":
		return value.Equal(l, r), nil
	case "!=":
		return !value.Equal(l, r), nil
	case "is":
		return identical(l, r), nil
	case "is not":
		return !identical(l, r), nil
	case "in":
		return ev.contains(loc, r, l)
	case "not in":
		ok, err := ev.contains(loc, r, l)
		return !ok, err
	case "<", "<=", ">", ">=":
		return ev.ordCompare(loc, op, l, r)
	}
	return false, NewError(InternalErr, loc, "unsupported comparison %q", op)
}

func identical(l, r value.Value) bool {
	if _, ok := l.(value.Null); ok {
		_, ok2 := r.(value.Null)
		return ok2
	}
	return value.Equal(l, r)
}

func (ev *Evaluator) ordCompare(loc *ast.Location, op string, l, r value.Value) (bool, error) {
	cmp := func() (int, error) {
		switch a := l.(type) {
		case value.Int:
			if b, ok := r.(value.Int); ok {
				return cmpInt(int64(a), int64(b)), nil
			}
		case value.String:
			if b, ok := r.(value.String); ok {
				return strings.Compare(string(a), string(b)), nil
			}
		}
		return 0, typeErr(loc, "'%s' not supported between instances of '%s' and '%s'", op, l.Type(), r.Type())
	}
	c, err := cmp()
	if err != nil {
		return false, err
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, nil
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (ev *Evaluator) contains(loc *ast.Location, container, item value.Value) (bool, error) {
	switch c := container.(type) {
	case value.String:
		item, ok := item.(value.String)
		if !ok {
			return false, typeErr(loc, "'in <string>' requires string as left operand, not %s", item.Type())
		}
		return strings.Contains(string(c), string(item)), nil
	case *value.List:
		for _, e := range c.Elems {
			if value.Equal(e, item) {
				return true, nil
			}
		}
		return false, nil
	case value.Tuple:
		for _, e := range c.Elems {
			if value.Equal(e, item) {
				return true, nil
			}
		}
		return false, nil
	case *value.Dict:
		s, ok := item.(value.String)
		if !ok {
			return false, nil
		}
		_, ok = c.Get(string(s))
		return ok, nil
	}
	return false, typeErr(loc, "argument of type '%s' is not iterable", container.Type())
}

// boolOp implements short-circuiting "and"/"or" over two or more operands.
func (ev *Evaluator) boolOp(fr *Frame, x *ast.BoolOp) (value.Value, error) {
	var last value.Value = value.Null{}
	for _, e := range x.Values {
		v, err := ev.evalExpr(fr, e)
		if err != nil {
			return nil, err
		}
		last = v
		truthy := value.Truthy(v)
		if x.Op == "and" && !truthy {
			return v, nil
		}
		if x.Op == "or" && truthy {
			return v, nil
		}
	}
	return last, nil
}

func (ev *Evaluator) checkStringSize(loc *ast.Location, n int) error {
	if n > ev.limits.MaxStringSize {
		return NewError(ValueErr, loc, "string size limit exceeded")
	}
	return nil
}

func (ev *Evaluator) checkListSize(loc *ast.Location, n int) error {
	if n > ev.limits.MaxListSize {
		return NewError(ValueErr, loc, "list size limit exceeded")
	}
	return nil
}
