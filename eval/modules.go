package eval

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/value"
)

// Regex flag values mirror the reference module's own constants so user
// code that does "re.IGNORECASE | re.DOTALL" produces the bitset an
// implementer would expect (spec §4.4).
const (
	reIGNORECASE = 2
	reMULTILINE  = 8
	reDOTALL     = 16
)

// regexCache compiles each distinct (pattern, flags) pair once, guarded by
// a mutex, matching the teacher's own regex builtin
// (_examples/open-policy-agent-opa/topdown/regex.go's interQueryValueCache
// pattern). The cache only avoids recompiling a pattern; it does not bound
// matching. No per-match step counter is applied: Go's RE2 engine matches
// in time linear in the input and has no catastrophic-backtracking
// pathology.
var (
	regexCacheMu sync.Mutex
	regexCache   = map[string]*regexp.Regexp{}
)

func compileRegex(loc *ast.Location, pat string, flags int64) (*regexp.Regexp, error) {
	key := strconv.FormatInt(flags, 10) + "\x00" + pat
	regexCacheMu.Lock()
	if re, ok := regexCache[key]; ok {
		regexCacheMu.Unlock()
		return re, nil
	}
	regexCacheMu.Unlock()

	var prefix string
	if flags&reIGNORECASE != 0 {
		prefix += "i"
	}
	if flags&reMULTILINE != 0 {
		prefix += "m"
	}
	if flags&reDOTALL != 0 {
		prefix += "s"
	}
	full := pat
	if prefix != "" {
		full = "(?" + prefix + ")" + pat
	}
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, NewError(ValueErr, loc, "invalid regular expression: %s", err)
	}
	regexCacheMu.Lock()
	regexCache[key] = re
	regexCacheMu.Unlock()
	return re, nil
}

func flagsArg(args []value.Value, kwargs map[string]value.Value, idx int) int64 {
	if v, ok := kwargs["flags"]; ok {
		if n, ok := v.(value.Int); ok {
			return int64(n)
		}
	}
	if idx < len(args) {
		if n, ok := args[idx].(value.Int); ok {
			return int64(n)
		}
	}
	return 0
}

func strArg(loc *ast.Location, args []value.Value, i int, name string) (string, error) {
	if i >= len(args) {
		return "", NewError(TypeErr, loc, "%s() missing required argument", name)
	}
	switch v := args[i].(type) {
	case value.String:
		return string(v), nil
	case value.Bytes:
		return string(v), nil
	}
	return "", typeErr(loc, "%s() argument must be str", name)
}

func newMatch(subject string, re *regexp.Regexp, idx []int) *value.Match {
	n := len(idx) / 2
	groups := make([]*string, n)
	starts := make([]int, n)
	ends := make([]int, n)
	for i := 0; i < n; i++ {
		s, e := idx[2*i], idx[2*i+1]
		starts[i], ends[i] = s, e
		if s < 0 {
			groups[i] = nil
			continue
		}
		sub := subject[s:e]
		groups[i] = &sub
	}
	return &value.Match{Subject: subject, Groups: groups, Starts: starts, Ends: ends}
}

func reModule() *value.Module {
	search := builtinFn("search", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		pat, err := strArg(loc, args, 0, "search")
		if err != nil {
			return nil, err
		}
		s, err := strArg(loc, args, 1, "search")
		if err != nil {
			return nil, err
		}
		re, err := compileRegex(loc, pat, flagsArg(args, kwargs, 2))
		if err != nil {
			return nil, err
		}
		idx := re.FindStringSubmatchIndex(s)
		if idx == nil {
			return value.Null{}, nil
		}
		return newMatch(s, re, idx), nil
	})
	match := builtinFn("match", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		pat, err := strArg(loc, args, 0, "match")
		if err != nil {
			return nil, err
		}
		s, err := strArg(loc, args, 1, "match")
		if err != nil {
			return nil, err
		}
		re, err := compileRegex(loc, pat, flagsArg(args, kwargs, 2))
		if err != nil {
			return nil, err
		}
		idx := re.FindStringSubmatchIndex(s)
		if idx == nil || idx[0] != 0 {
			return value.Null{}, nil
		}
		return newMatch(s, re, idx), nil
	})
	findall := builtinFn("findall", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		pat, err := strArg(loc, args, 0, "findall")
		if err != nil {
			return nil, err
		}
		s, err := strArg(loc, args, 1, "findall")
		if err != nil {
			return nil, err
		}
		re, err := compileRegex(loc, pat, flagsArg(args, kwargs, 2))
		if err != nil {
			return nil, err
		}
		matches := re.FindAllStringSubmatch(s, -1)
		out := make([]value.Value, 0, len(matches))
		ngroups := re.NumSubexp()
		for _, m := range matches {
			switch {
			case ngroups == 0:
				out = append(out, value.String(m[0]))
			case ngroups == 1:
				out = append(out, value.String(m[1]))
			default:
				elems := make([]value.Value, ngroups)
				for i := 0; i < ngroups; i++ {
					elems[i] = value.String(m[i+1])
				}
				out = append(out, value.Tuple{Elems: elems})
			}
		}
		return &value.List{Elems: out}, nil
	})
	split := builtinFn("split", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		pat, err := strArg(loc, args, 0, "split")
		if err != nil {
			return nil, err
		}
		s, err := strArg(loc, args, 1, "split")
		if err != nil {
			return nil, err
		}
		maxsplit := -1
		if v, ok := kwargs["maxsplit"]; ok {
			if n, ok := v.(value.Int); ok && n > 0 {
				maxsplit = int(n)
			}
		} else if len(args) > 2 {
			if n, ok := args[2].(value.Int); ok && n > 0 {
				maxsplit = int(n)
			}
		}
		re, err := compileRegex(loc, pat, flagsArg(args, kwargs, 3))
		if err != nil {
			return nil, err
		}
		n := -1
		if maxsplit > 0 {
			n = maxsplit + 1
		}
		parts := re.Split(s, n)
		return stringsToList(parts), nil
	})
	sub := builtinFn("sub", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		pat, err := strArg(loc, args, 0, "sub")
		if err != nil {
			return nil, err
		}
		repl, err := strArg(loc, args, 1, "sub")
		if err != nil {
			return nil, err
		}
		s, err := strArg(loc, args, 2, "sub")
		if err != nil {
			return nil, err
		}
		re, err := compileRegex(loc, pat, flagsArg(args, kwargs, 4))
		if err != nil {
			return nil, err
		}
		goRepl := backrefPattern.ReplaceAllString(repl, "$${$1}")
		return value.String(re.ReplaceAllString(s, goRepl)), nil
	})
	return &value.Module{Name: "re", Attrs: map[string]value.Value{
		"search":     search,
		"match":      match,
		"findall":    findall,
		"split":      split,
		"sub":        sub,
		"IGNORECASE": value.Int(reIGNORECASE),
		"DOTALL":     value.Int(reDOTALL),
		"MULTILINE":  value.Int(reMULTILINE),
	}}
}

var backrefPattern = regexp.MustCompile(`\\(\d)`)

func jsonModule() *value.Module {
	loads := builtinFn("loads", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s, err := strArg(loc, args, 0, "loads")
		if err != nil {
			return nil, err
		}
		var raw interface{}
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, NewError(ValueErr, loc, "invalid JSON: %s", err)
		}
		return jsonToValue(loc, raw)
	})
	dumps := builtinFn("dumps", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "dumps() missing required argument")
		}
		var b strings.Builder
		if err := valueToJSON(loc, args[0], &b); err != nil {
			return nil, err
		}
		return value.String(b.String()), nil
	})
	return &value.Module{Name: "json", Attrs: map[string]value.Value{"loads": loads, "dumps": dumps}}
}

func jsonToValue(loc *ast.Location, raw interface{}) (value.Value, error) {
	switch x := raw.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(x), nil
	case json.Number:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return nil, NewError(ValueErr, loc, "non-integer JSON numbers are not supported")
		}
		return value.Int(n), nil
	case string:
		return value.String(x), nil
	case []interface{}:
		out := make([]value.Value, len(x))
		for i, e := range x {
			v, err := jsonToValue(loc, e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &value.List{Elems: out}, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := value.NewDict()
		for _, k := range keys {
			v, err := jsonToValue(loc, x[k])
			if err != nil {
				return nil, err
			}
			d.Set(k, v)
		}
		return d, nil
	}
	return nil, NewError(ValueErr, loc, "unsupported JSON value")
}

func valueToJSON(loc *ast.Location, v value.Value, b *strings.Builder) error {
	switch x := v.(type) {
	case value.Null:
		b.WriteString("null")
	case value.Bool:
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case value.String:
		enc, _ := json.Marshal(string(x))
		b.Write(enc)
	case *value.List:
		b.WriteByte('[')
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := valueToJSON(loc, e, b); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case value.Tuple:
		b.WriteByte('[')
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := valueToJSON(loc, e, b); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *value.Dict:
		b.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			enc, _ := json.Marshal(k)
			b.Write(enc)
			b.WriteByte(':')
			ev, _ := x.Get(k)
			if err := valueToJSON(loc, ev, b); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return typeErr(loc, "object of type '%s' is not JSON serializable", v.Type())
	}
	return nil
}

func base64Module() *value.Module {
	b64decode := builtinFn("b64decode", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		s, err := strArg(loc, args, 0, "b64decode")
		if err != nil {
			return nil, err
		}
		s = strings.TrimRight(s, "=")
		if m := len(s) % 4; m != 0 {
			s += strings.Repeat("=", 4-m)
		}
		out, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, NewError(ValueErr, loc, "invalid base64: %s", err)
		}
		return value.Bytes(out), nil
	})
	return &value.Module{Name: "base64", Attrs: map[string]value.Value{"b64decode": b64decode}}
}

func binasciiModule() *value.Module {
	hexlify := builtinFn("hexlify", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "hexlify() missing required argument")
		}
		b, ok := args[0].(value.Bytes)
		if !ok {
			return nil, typeErr(loc, "hexlify() argument must be bytes")
		}
		return value.Bytes(hex.EncodeToString(b)), nil
	})
	return &value.Module{Name: "binascii", Attrs: map[string]value.Value{"hexlify": hexlify}}
}

func zlibModule(maxOutputBytes int) *value.Module {
	decompress := builtinFn("decompress", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "decompress() missing required argument")
		}
		b, ok := args[0].(value.Bytes)
		if !ok {
			return nil, typeErr(loc, "decompress() argument must be bytes")
		}
		zr, err := zlib.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, NewError(ValueErr, loc, "invalid zlib stream: %s", err)
		}
		defer zr.Close()
		limited := io.LimitReader(zr, int64(maxOutputBytes)+1)
		out, err := io.ReadAll(limited)
		if err != nil {
			return nil, NewError(ValueErr, loc, "invalid zlib stream: %s", err)
		}
		if len(out) > maxOutputBytes {
			return nil, resourceLimitErr(loc, "zlib output exceeds %d bytes", maxOutputBytes)
		}
		return value.Bytes(out), nil
	})
	return &value.Module{Name: "zlib", Attrs: map[string]value.Value{
		"decompress": decompress,
		"MAX_WBITS":  value.Int(15),
	}}
}

// mathModule operates over this sandbox's integer-only value universe
// (spec §3 has no floating-point variant; the lexer itself rejects float
// literals). floor/ceil are therefore identities on Int, sqrt floors to
// the nearest Int, and pi/e — which have no exact integer value — are
// exposed as their conventional decimal text, useful only for display; see
// DESIGN.md.
func mathModule() *value.Module {
	floor := builtinFn("floor", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "floor() missing required argument")
		}
		n, ok := args[0].(value.Int)
		if !ok {
			return nil, typeErr(loc, "floor() argument must be int")
		}
		return n, nil
	})
	ceil := builtinFn("ceil", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "ceil() missing required argument")
		}
		n, ok := args[0].(value.Int)
		if !ok {
			return nil, typeErr(loc, "ceil() argument must be int")
		}
		return n, nil
	})
	sqrt := builtinFn("sqrt", func(loc *ast.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, NewError(TypeErr, loc, "sqrt() missing required argument")
		}
		n, ok := args[0].(value.Int)
		if !ok || n < 0 {
			return nil, typeErr(loc, "sqrt() argument must be a non-negative int")
		}
		r := int64(0)
		for (r+1)*(r+1) <= int64(n) {
			r++
		}
		return value.Int(r), nil
	})
	return &value.Module{Name: "math", Attrs: map[string]value.Value{
		"floor": floor,
		"ceil":  ceil,
		"sqrt":  sqrt,
		"pi":    value.String("3.141592653589793"),
		"e":     value.String("2.718281828459045"),
	}}
}

// builtinFn wraps a module function body as a *value.Builtin, matching
// value.BuiltinFunc's (loc, args, kwargs) shape directly.
func builtinFn(name string, f value.BuiltinFunc) *value.Builtin {
	return &value.Builtin{Name: name, Fn: f}
}
