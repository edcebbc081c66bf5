package value

import (
	"fmt"
	"strings"
)

// matchReprWidth is the fixed truncation width used when rendering a
// Match's matched text inside its repr (spec §3: "truncated to a fixed
// width"). The spec leaves the exact width unspecified; 50 matches the
// reference's typical REPL terminal width convention.
const matchReprWidth = 50

// Str renders v the way Python's str() / print() would: bare strings carry
// no quotes, everything else matches its repr.
func Str(v Value) string {
	switch x := v.(type) {
	case String:
		return string(x)
	case Bytes:
		return Repr(x)
	case Int:
		return fmt.Sprintf("%d", int64(x))
	case Bool:
		if x {
			return "True"
		}
		return "False"
	case Null:
		return "None"
	case *List:
		if x.IsSet {
			return reprSet(x.Elems)
		}
		return reprList(x.Elems, "[", "]")
	case Tuple:
		return reprTuple(x.Elems)
	case *Dict:
		return reprDict(x)
	case *Match:
		return reprMatch(x)
	case *Builtin:
		return fmt.Sprintf("<built-in function %s>", x.Name)
	case *Function:
		return fmt.Sprintf("<function %s>", x.Name)
	case *Module:
		return fmt.Sprintf("<module '%s'>", x.Name)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Repr renders v the way it would appear nested inside a list/tuple/dict:
// strings and bytes are quoted; every other type renders the same as Str.
func Repr(v Value) string {
	switch x := v.(type) {
	case String:
		return quote(string(x))
	case Bytes:
		return "b" + quote(string(x))
	default:
		return Str(v)
	}
}

func reprList(elems []Value, open, close string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = Repr(e)
	}
	return open + strings.Join(parts, ", ") + close
}

// reprSet renders a set-marked List the way Python's repr(set) would:
// "set()" for the empty set (since "{}" already means an empty dict), and
// "{...}" braces otherwise.
func reprSet(elems []Value) string {
	if len(elems) == 0 {
		return "set()"
	}
	return reprList(elems, "{", "}")
}

func reprTuple(elems []Value) string {
	if len(elems) == 1 {
		return "(" + Repr(elems[0]) + ",)"
	}
	return reprList(elems, "(", ")")
}

func reprDict(d *Dict) string {
	parts := make([]string, 0, d.Len())
	for _, k := range d.keys {
		parts = append(parts, quote(k)+": "+Repr(d.values[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func reprMatch(m *Match) string {
	start, end := 0, 0
	if len(m.Starts) > 0 {
		start, end = m.Starts[0], m.Ends[0]
	}
	matched := ""
	if len(m.Groups) > 0 && m.Groups[0] != nil {
		matched = *m.Groups[0]
	}
	if len(matched) > matchReprWidth {
		matched = matched[:matchReprWidth] + "..."
	}
	return fmt.Sprintf("<re.Match object; span=(%d, %d), match=%s>", start, end, quote(matched))
}

// quote renders s as a Python-style single- or double-quoted string
// literal, escaping backslashes, the chosen quote char, and the common
// control characters.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch r {
		case rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
