package eval

import (
	"sort"
	"strconv"
	"strings"

	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/value"
)

// buildBuiltins returns the fixed table of 20 names bound in session
// globals (spec §4.2); every closure captures ev so builtins can write to
// its output buffer or call back into user functions (key= arguments of
// max/min/sorted).
func buildBuiltins(ev *Evaluator) map[string]*value.Builtin {
	return map[string]*value.Builtin{
		"print":    builtinFn("print", ev.builtinPrint),
		"len":      builtinFn("len", ev.builtinLen),
		"max":      builtinFn("max", ev.builtinExtreme(true)),
		"min":      builtinFn("min", ev.builtinExtreme(false)),
		"sum":      builtinFn("sum", ev.builtinSum),
		"sorted":   builtinFn("sorted", ev.builtinSorted),
		"reversed": builtinFn("reversed", ev.builtinReversed),
		"enumerate": builtinFn("enumerate", ev.builtinEnumerate),
		"range":    builtinFn("range", ev.builtinRange),
		"str":      builtinFn("str", ev.builtinStr),
		"int":      builtinFn("int", ev.builtinInt),
		"bool":     builtinFn("bool", ev.builtinBool),
		"bytes":    builtinFn("bytes", ev.builtinBytes),
		"list":     builtinFn("list", ev.builtinList),
		"dict":     builtinFn("dict", ev.builtinDict),
		"tuple":    builtinFn("tuple", ev.builtinTuple),
		"set":      builtinFn("set", ev.builtinSet),
		"any":      builtinFn("any", ev.builtinAny),
		"all":      builtinFn("all", ev.builtinAll),
		"abs":      builtinFn("abs", ev.builtinAbs),
	}
}

func (ev *Evaluator) builtinPrint(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	sep := " "
	if v, ok := kwargs["sep"]; ok {
		s, ok := v.(value.String)
		if !ok {
			return nil, typeErr(loc, "sep must be a str")
		}
		sep = string(s)
	}
	end := "\n"
	if v, ok := kwargs["end"]; ok {
		s, ok := v.(value.String)
		if !ok {
			return nil, typeErr(loc, "end must be a str")
		}
		end = string(s)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.Str(a)
	}
	ev.output.write(strings.Join(parts, sep) + end)
	return value.Null{}, nil
}

func (ev *Evaluator) builtinLen(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "len() missing required argument")
	}
	switch x := args[0].(type) {
	case value.String:
		return value.Int(len([]rune(string(x)))), nil
	case value.Bytes:
		return value.Int(len(x)), nil
	case *value.List:
		return value.Int(len(x.Elems)), nil
	case value.Tuple:
		return value.Int(len(x.Elems)), nil
	case *value.Dict:
		return value.Int(x.Len()), nil
	}
	return nil, typeErr(loc, "object of type '%s' has no len()", args[0].Type())
}

// builtinExtreme returns max (maximize=true) or min (maximize=false).
// Accepts either max(a, b, ...) or max(iterable), and an optional key=
// callable.
func (ev *Evaluator) builtinExtreme(maximize bool) value.BuiltinFunc {
	name := "min"
	if maximize {
		name = "max"
	}
	return func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		items := args
		if len(args) == 1 {
			var err error
			items, err = iterableToSlice(loc, args[0])
			if err != nil {
				return nil, err
			}
		}
		if len(items) == 0 {
			return nil, NewError(ValueErr, loc, "%s() arg is an empty sequence", name)
		}
		key := kwargs["key"]
		keyOf := func(v value.Value) (value.Value, error) {
			if key == nil {
				return v, nil
			}
			return ev.callValue(loc, key, []value.Value{v}, nil)
		}
		best := items[0]
		bestKey, err := keyOf(best)
		if err != nil {
			return nil, err
		}
		for _, it := range items[1:] {
			k, err := keyOf(it)
			if err != nil {
				return nil, err
			}
			less, err := lessValues(loc, k, bestKey)
			if err != nil {
				return nil, err
			}
			if (maximize && !less && !value.Equal(k, bestKey)) || (!maximize && less) {
				best, bestKey = it, k
			}
		}
		return best, nil
	}
}

func (ev *Evaluator) builtinSum(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "sum() missing required argument")
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	var total value.Value = value.Int(0)
	if len(args) > 1 {
		total = args[1]
	}
	for _, it := range items {
		total, err = ev.add(loc, total, it)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}

func (ev *Evaluator) builtinSorted(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "sorted() missing required argument")
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	copy(out, items)
	reverse := false
	if r, ok := kwargs["reverse"]; ok {
		reverse = value.Truthy(r)
	}
	if key, ok := kwargs["key"]; ok && key != nil {
		keys := make([]value.Value, len(out))
		for i, v := range out {
			k, err := ev.callValue(loc, key, []value.Value{v}, nil)
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		idx := make([]int, len(out))
		for i := range idx {
			idx[i] = i
		}
		var sortErr error
		sort.SliceStable(idx, func(i, j int) bool {
			less, err := lessValues(loc, keys[idx[i]], keys[idx[j]])
			if err != nil {
				sortErr = err
				return false
			}
			if reverse {
				return !less
			}
			return less
		})
		if sortErr != nil {
			return nil, sortErr
		}
		sorted := make([]value.Value, len(out))
		for i, j := range idx {
			sorted[i] = out[j]
		}
		return &value.List{Elems: sorted}, nil
	}
	if err := sortValues(loc, out, reverse); err != nil {
		return nil, err
	}
	return &value.List{Elems: out}, nil
}

func (ev *Evaluator) builtinReversed(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "reversed() missing required argument")
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return &value.List{Elems: out}, nil
}

func (ev *Evaluator) builtinEnumerate(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "enumerate() missing required argument")
	}
	start := 0
	if len(args) > 1 {
		n, ok := args[1].(value.Int)
		if !ok {
			return nil, typeErr(loc, "enumerate() start must be int")
		}
		start = int(n)
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	for i, v := range items {
		out[i] = value.Tuple{Elems: []value.Value{value.Int(start + i), v}}
	}
	return &value.List{Elems: out}, nil
}

func (ev *Evaluator) builtinRange(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	asInt := func(v value.Value) (int64, error) {
		n, ok := v.(value.Int)
		if !ok {
			return 0, typeErr(loc, "range() arguments must be int")
		}
		return int64(n), nil
	}
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, err := asInt(args[0])
		if err != nil {
			return nil, err
		}
		stop = n
	case 2:
		s, err := asInt(args[0])
		if err != nil {
			return nil, err
		}
		e, err := asInt(args[1])
		if err != nil {
			return nil, err
		}
		start, stop = s, e
	case 3:
		s, err := asInt(args[0])
		if err != nil {
			return nil, err
		}
		e, err := asInt(args[1])
		if err != nil {
			return nil, err
		}
		st, err := asInt(args[2])
		if err != nil {
			return nil, err
		}
		if st == 0 {
			return nil, NewError(ValueErr, loc, "range() arg 3 must not be zero")
		}
		start, stop, step = s, e, st
	default:
		return nil, NewError(TypeErr, loc, "range() requires 1 to 3 arguments")
	}
	var out []value.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			if err := ev.checkListSize(loc, len(out)+1); err != nil {
				return nil, err
			}
			out = append(out, value.Int(i))
		}
	} else {
		for i := start; i > stop; i += step {
			if err := ev.checkListSize(loc, len(out)+1); err != nil {
				return nil, err
			}
			out = append(out, value.Int(i))
		}
	}
	return &value.List{Elems: out}, nil
}

func (ev *Evaluator) builtinStr(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.String(""), nil
	}
	return value.String(value.Str(args[0])), nil
}

func (ev *Evaluator) builtinInt(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Int(0), nil
	}
	switch x := args[0].(type) {
	case value.Int:
		return x, nil
	case value.Bool:
		if x {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case value.String:
		n, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		if err != nil {
			return nil, NewError(ValueErr, loc, "invalid literal for int() with base 10: %s", value.Repr(x))
		}
		return value.Int(n), nil
	}
	return nil, typeErr(loc, "int() argument must be a str, bytes-like object, or a number, not '%s'", args[0].Type())
}

func (ev *Evaluator) builtinBool(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Bool(false), nil
	}
	return value.Bool(value.Truthy(args[0])), nil
}

func (ev *Evaluator) builtinBytes(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Bytes(nil), nil
	}
	switch x := args[0].(type) {
	case value.Bytes:
		return x, nil
	case value.String:
		return value.Bytes([]byte(string(x))), nil
	case *value.List:
		out := make([]byte, len(x.Elems))
		for i, e := range x.Elems {
			n, ok := e.(value.Int)
			if !ok || n < 0 || n > 255 {
				return nil, NewError(ValueErr, loc, "bytes must be in range(0, 256)")
			}
			out[i] = byte(n)
		}
		return value.Bytes(out), nil
	case value.Int:
		return value.Bytes(make([]byte, int(x))), nil
	}
	return nil, typeErr(loc, "cannot convert '%s' object to bytes", args[0].Type())
}

func (ev *Evaluator) builtinList(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return &value.List{}, nil
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	copy(out, items)
	return &value.List{Elems: out}, nil
}

func (ev *Evaluator) builtinDict(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	d := value.NewDict()
	if len(args) > 0 {
		items, err := iterableToSlice(loc, args[0])
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			pair, err := iterableToSlice(loc, it)
			if err != nil || len(pair) != 2 {
				return nil, NewError(ValueErr, loc, "dictionary update sequence element is not a 2-item sequence")
			}
			k, ok := pair[0].(value.String)
			if !ok {
				return nil, typeErr(loc, "dict keys must be str")
			}
			d.Set(string(k), pair[1])
		}
	}
	for k, v := range kwargs {
		d.Set(k, v)
	}
	return d, nil
}

func (ev *Evaluator) builtinTuple(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Tuple{}, nil
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	copy(out, items)
	return value.Tuple{Elems: out}, nil
}

func (ev *Evaluator) builtinSet(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return &value.List{IsSet: true}, nil
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	return dedupeList(items), nil
}

func (ev *Evaluator) builtinAny(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "any() missing required argument")
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if value.Truthy(it) {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func (ev *Evaluator) builtinAll(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "all() missing required argument")
	}
	items, err := iterableToSlice(loc, args[0])
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if !value.Truthy(it) {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func (ev *Evaluator) builtinAbs(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, NewError(TypeErr, loc, "abs() missing required argument")
	}
	n, ok := args[0].(value.Int)
	if !ok {
		return nil, typeErr(loc, "bad operand type for abs(): '%s'", args[0].Type())
	}
	if n < 0 {
		if n == -n {
			return nil, NewError(ValueErr, loc, "integer overflow")
		}
		return -n, nil
	}
	return n, nil
}
