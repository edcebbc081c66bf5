package eval

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/value"
)

// methodFunc is a bound-method implementation: recv is the receiver value
// captured at Attribute-evaluation time (spec §4.2's per-type attribute
// table), args/kwargs are the call's already-evaluated arguments.
type methodFunc func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error)

// methodTable is keyed by receiver Type() then attribute name; a missing
// entry is an AttributeError (spec §4.2: "all others are AttributeError").
var methodTable = map[string]map[string]methodFunc{
	"str":      stringMethods,
	"bytes":    bytesMethods,
	"list":     listMethods,
	"dict":     dictMethods,
	"re.Match": matchMethods,
}

func argStr(loc *ast.Location, args []value.Value, i int, name string) (string, error) {
	if i >= len(args) {
		return "", NewError(TypeErr, loc, "%s() missing required argument", name)
	}
	s, ok := args[i].(value.String)
	if !ok {
		return "", typeErr(loc, "%s() argument must be str", name)
	}
	return string(s), nil
}

var stringMethods = map[string]methodFunc{
	"strip": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		if len(args) > 0 {
			cut, err := argStr(loc, args, 0, "strip")
			if err != nil {
				return nil, err
			}
			return value.String(strings.Trim(s, cut)), nil
		}
		return value.String(strings.TrimSpace(s)), nil
	},
	"lstrip": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		if len(args) > 0 {
			cut, err := argStr(loc, args, 0, "lstrip")
			if err != nil {
				return nil, err
			}
			return value.String(strings.TrimLeft(s, cut)), nil
		}
		return value.String(strings.TrimLeft(s, " \t\n\r\v\f")), nil
	},
	"rstrip": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		if len(args) > 0 {
			cut, err := argStr(loc, args, 0, "rstrip")
			if err != nil {
				return nil, err
			}
			return value.String(strings.TrimRight(s, cut)), nil
		}
		return value.String(strings.TrimRight(s, " \t\n\r\v\f")), nil
	},
	"lower": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.String(strings.ToLower(string(recv.(value.String)))), nil
	},
	"upper": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.String(strings.ToUpper(string(recv.(value.String)))), nil
	},
	"find": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		sub, err := argStr(loc, args, 0, "find")
		if err != nil {
			return nil, err
		}
		return value.Int(strings.Index(string(recv.(value.String)), sub)), nil
	},
	"rfind": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		sub, err := argStr(loc, args, 0, "rfind")
		if err != nil {
			return nil, err
		}
		return value.Int(strings.LastIndex(string(recv.(value.String)), sub)), nil
	},
	"replace": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		old, err := argStr(loc, args, 0, "replace")
		if err != nil {
			return nil, err
		}
		new, err := argStr(loc, args, 1, "replace")
		if err != nil {
			return nil, err
		}
		n := -1
		if len(args) > 2 {
			if c, ok := args[2].(value.Int); ok {
				n = int(c)
			}
		}
		return value.String(strings.Replace(string(recv.(value.String)), old, new, n)), nil
	},
	"split": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		var parts []string
		if len(args) == 0 {
			parts = strings.Fields(s)
		} else {
			sep, err := argStr(loc, args, 0, "split")
			if err != nil {
				return nil, err
			}
			parts = strings.Split(s, sep)
		}
		return stringsToList(parts), nil
	},
	"rsplit": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		var parts []string
		if len(args) == 0 {
			parts = strings.Fields(s)
		} else {
			sep, err := argStr(loc, args, 0, "rsplit")
			if err != nil {
				return nil, err
			}
			parts = strings.Split(s, sep)
		}
		return stringsToList(parts), nil
	},
	"splitlines": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		s = strings.TrimRight(s, "\n")
		if s == "" {
			return &value.List{}, nil
		}
		return stringsToList(strings.Split(s, "\n")), nil
	},
	"startswith": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		prefix, err := argStr(loc, args, 0, "startswith")
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.HasPrefix(string(recv.(value.String)), prefix)), nil
	},
	"endswith": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		suffix, err := argStr(loc, args, 0, "endswith")
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.HasSuffix(string(recv.(value.String)), suffix)), nil
	},
	"count": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		sub, err := argStr(loc, args, 0, "count")
		if err != nil {
			return nil, err
		}
		return value.Int(strings.Count(string(recv.(value.String)), sub)), nil
	},
	"join": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		sep := string(recv.(value.String))
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "join() missing required argument")
		}
		items, err := iterableToSlice(loc, args[0])
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(items))
		for i, it := range items {
			s, ok := it.(value.String)
			if !ok {
				return nil, typeErr(loc, "sequence item %d: expected str instance, %s found", i, it.Type())
			}
			parts[i] = string(s)
		}
		return value.String(strings.Join(parts, sep)), nil
	},
	"encode": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.Bytes([]byte(string(recv.(value.String)))), nil
	},
	"isdigit": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		if s == "" {
			return value.Bool(false), nil
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	},
	"isalpha": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s := string(recv.(value.String))
		if s == "" {
			return value.Bool(false), nil
		}
		for _, r := range s {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	},
}

var bytesMethods = map[string]methodFunc{
	"decode": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.String(string(recv.(value.Bytes))), nil
	},
	"hex": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.String(hex.EncodeToString(recv.(value.Bytes))), nil
	},
	"startswith": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "startswith() missing required argument")
		}
		prefix, ok := args[0].(value.Bytes)
		if !ok {
			return nil, typeErr(loc, "startswith() argument must be bytes")
		}
		return value.Bool(strings.HasPrefix(string(recv.(value.Bytes)), string(prefix))), nil
	},
	"endswith": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "endswith() missing required argument")
		}
		suffix, ok := args[0].(value.Bytes)
		if !ok {
			return nil, typeErr(loc, "endswith() argument must be bytes")
		}
		return value.Bool(strings.HasSuffix(string(recv.(value.Bytes)), string(suffix))), nil
	},
}

var listMethods = map[string]methodFunc{
	"append": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		l := recv.(*value.List)
		if err := ev.checkListSize(loc, len(l.Elems)+1); err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "append() missing required argument")
		}
		l.Elems = append(l.Elems, args[0])
		return value.Null{}, nil
	},
	"extend": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		l := recv.(*value.List)
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "extend() missing required argument")
		}
		items, err := iterableToSlice(loc, args[0])
		if err != nil {
			return nil, err
		}
		if err := ev.checkListSize(loc, len(l.Elems)+len(items)); err != nil {
			return nil, err
		}
		l.Elems = append(l.Elems, items...)
		return value.Null{}, nil
	},
	"index": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		l := recv.(*value.List)
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "index() missing required argument")
		}
		for i, e := range l.Elems {
			if value.Equal(e, args[0]) {
				return value.Int(i), nil
			}
		}
		return nil, NewError(ValueErr, loc, "%s is not in list", value.Repr(args[0]))
	},
	"count": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		l := recv.(*value.List)
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "count() missing required argument")
		}
		n := 0
		for _, e := range l.Elems {
			if value.Equal(e, args[0]) {
				n++
			}
		}
		return value.Int(n), nil
	},
	"sort": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		l := recv.(*value.List)
		reverse := false
		if v, ok := kwargs["reverse"]; ok {
			reverse = value.Truthy(v)
		}
		if err := sortValues(loc, l.Elems, reverse); err != nil {
			return nil, err
		}
		return value.Null{}, nil
	},
	"reverse": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		l := recv.(*value.List)
		for i, j := 0, len(l.Elems)-1; i < j; i, j = i+1, j-1 {
			l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i]
		}
		return value.Null{}, nil
	},
}

var dictMethods = map[string]methodFunc{
	"get": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		d := recv.(*value.Dict)
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "get() missing required argument")
		}
		key, ok := args[0].(value.String)
		if !ok {
			return nil, typeErr(loc, "dict keys must be str")
		}
		if v, ok := d.Get(string(key)); ok {
			return v, nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return value.Null{}, nil
	},
	"keys": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		d := recv.(*value.Dict)
		return stringsToList(d.Keys()), nil
	},
	"values": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		d := recv.(*value.Dict)
		out := make([]value.Value, 0, d.Len())
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			out = append(out, v)
		}
		return &value.List{Elems: out}, nil
	},
	"items": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		d := recv.(*value.Dict)
		out := make([]value.Value, 0, d.Len())
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			out = append(out, value.Tuple{Elems: []value.Value{value.String(k), v}})
		}
		return &value.List{Elems: out}, nil
	},
}

var matchMethods = map[string]methodFunc{
	"group": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		m := recv.(*value.Match)
		idx := 0
		if len(args) > 0 {
			n, ok := args[0].(value.Int)
			if !ok {
				return nil, typeErr(loc, "group() argument must be int")
			}
			idx = int(n)
		}
		s, ok := m.Group(idx)
		if !ok {
			if idx < 0 || idx >= len(m.Groups) {
				return nil, indexErr(loc, "no such group")
			}
			return value.Null{}, nil
		}
		return value.String(s), nil
	},
	"start": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		m := recv.(*value.Match)
		idx := groupIndexArg(args)
		if idx < 0 || idx >= len(m.Starts) {
			return nil, indexErr(loc, "no such group")
		}
		return value.Int(m.Starts[idx]), nil
	},
	"end": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		m := recv.(*value.Match)
		idx := groupIndexArg(args)
		if idx < 0 || idx >= len(m.Ends) {
			return nil, indexErr(loc, "no such group")
		}
		return value.Int(m.Ends[idx]), nil
	},
	"span": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		m := recv.(*value.Match)
		idx := groupIndexArg(args)
		if idx < 0 || idx >= len(m.Starts) {
			return nil, indexErr(loc, "no such group")
		}
		return value.Tuple{Elems: []value.Value{value.Int(m.Starts[idx]), value.Int(m.Ends[idx])}}, nil
	},
	"groups": func(ev *Evaluator, loc *ast.Location, recv value.Value, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		m := recv.(*value.Match)
		out := make([]value.Value, 0, len(m.Groups)-1)
		for i := 1; i < len(m.Groups); i++ {
			if m.Groups[i] == nil {
				out = append(out, value.Null{})
			} else {
				out = append(out, value.String(*m.Groups[i]))
			}
		}
		return value.Tuple{Elems: out}, nil
	},
}

func groupIndexArg(args []value.Value) int {
	if len(args) == 0 {
		return 0
	}
	if n, ok := args[0].(value.Int); ok {
		return int(n)
	}
	return 0
}

func stringsToList(ss []string) *value.List {
	out := make([]value.Value, len(ss))
	for i, s := range ss {
		out[i] = value.String(s)
	}
	return &value.List{Elems: out}
}

func iterableToSlice(loc *ast.Location, v value.Value) ([]value.Value, error) {
	switch x := v.(type) {
	case *value.List:
		return x.Elems, nil
	case value.Tuple:
		return x.Elems, nil
	case value.String:
		out := make([]value.Value, 0, len(x))
		for _, r := range string(x) {
			out = append(out, value.String(string(r)))
		}
		return out, nil
	case *value.Dict:
		return stringsToList(x.Keys()).Elems, nil
	}
	return nil, typeErr(loc, "'%s' object is not iterable", v.Type())
}

func sortValues(loc *ast.Location, vs []value.Value, reverse bool) error {
	var sortErr error
	sort.SliceStable(vs, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := lessValues(loc, vs[i], vs[j])
		if err != nil {
			sortErr = err
			return false
		}
		if reverse {
			return !less
		}
		return less
	})
	return sortErr
}

func lessValues(loc *ast.Location, a, b value.Value) (bool, error) {
	switch x := a.(type) {
	case value.Int:
		y, ok := b.(value.Int)
		if !ok {
			return false, typeErr(loc, "'<' not supported between instances of 'int' and '%s'", b.Type())
		}
		return x < y, nil
	case value.String:
		y, ok := b.(value.String)
		if !ok {
			return false, typeErr(loc, "'<' not supported between instances of 'str' and '%s'", b.Type())
		}
		return x < y, nil
	}
	return false, typeErr(loc, "'<' not supported between instances of '%s' and '%s'", a.Type(), b.Type())
}
