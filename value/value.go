// Package value implements the closed runtime value universe of the
// sandboxed interpreter (spec §3) and its bit-for-bit display rules.
package value

import (
	"fmt"
	"math"

	"github.com/stealthinu/rlmsandbox/ast"
)

// Value is implemented by every runtime value variant. The set is closed:
// no external package may add a new variant, matching spec §3's "closed
// tagged union".
type Value interface {
	Type() string
}

// String is immutable UTF-8 text.
type String string

// Type implements Value.
func (String) Type() string { return "str" }

// Bytes is an immutable octet sequence.
type Bytes []byte

// Type implements Value.
func (Bytes) Type() string { return "bytes" }

// Int is a 64-bit signed integer with explicit overflow checking on every
// arithmetic operation (spec §3: "must not wrap silently").
type Int int64

// Type implements Value.
func (Int) Type() string { return "int" }

// Bool is distinct from Int for display purposes (spec §3).
type Bool bool

// Type implements Value.
func (Bool) Type() string { return "bool" }

// Null is the single None-like inhabitant.
type Null struct{}

// Type implements Value.
func (Null) Type() string { return "NoneType" }

// List is a mutable ordered sequence. IsSet marks a List built by the
// `set(...)` builtin or a set comprehension: this sandbox has no distinct
// set runtime type (spec §3 has no unordered-container Value variant —
// see DESIGN.md), but Str/Repr still need to render it as Python would
// display a set (`{1, 2, 3}`, `set()` when empty) rather than as a list.
type List struct {
	Elems []Value
	IsSet bool
}

// Type implements Value.
func (*List) Type() string { return "list" }

// Dict is an insertion-ordered string-keyed mapping.
type Dict struct {
	keys   []string
	values map[string]Value
}

// NewDict returns an empty, insertion-ordered Dict.
func NewDict() *Dict {
	return &Dict{values: map[string]Value{}}
}

// Type implements Value.
func (*Dict) Type() string { return "dict" }

// Set assigns key to v, appending key to the insertion order the first
// time it is seen.
func (d *Dict) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value for key and whether it was present.
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Delete removes key from the dict, if present.
func (d *Dict) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the dict's keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Clone returns a shallow copy preserving insertion order.
func (d *Dict) Clone() *Dict {
	nd := NewDict()
	for _, k := range d.keys {
		nd.Set(k, d.values[k])
	}
	return nd
}

// Tuple is an immutable ordered sequence.
type Tuple struct {
	Elems []Value
}

// Type implements Value.
func (Tuple) Type() string { return "tuple" }

// Match holds the subject and capture groups produced by a regex search
// (spec §4.4's re module).
type Match struct {
	Subject string
	Groups  []*string // Groups[0] is the whole match; nil entry means unmatched optional group
	Starts  []int
	Ends    []int
}

// Type implements Value.
func (*Match) Type() string { return "re.Match" }

// Group returns capture group i, or "" with ok=false if it did not
// participate in the match.
func (m *Match) Group(i int) (string, bool) {
	if i < 0 || i >= len(m.Groups) || m.Groups[i] == nil {
		return "", false
	}
	return *m.Groups[i], true
}

// Module is a frozen pseudo-module exposing a curated attribute set
// (spec §4.4). Attribute lookup is a map read; assignment to a module
// attribute is always a runtime error, enforced by the evaluator.
type Module struct {
	Name  string
	Attrs map[string]Value
}

// Type implements Value.
func (*Module) Type() string { return "module" }

// Get looks up an exported attribute.
func (m *Module) Get(name string) (Value, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}

// BuiltinFunc is a built-in callable's implementation. args are already
// evaluated; kwargs holds keyword arguments by name; loc is the call
// expression's source location, for error reporting. Implementations
// close over whatever evaluator state they need (resource limits, the
// output buffer) at construction time, keeping this package free of any
// dependency on the eval package.
type BuiltinFunc func(loc *ast.Location, args []Value, kwargs map[string]Value) (Value, error)

// Builtin wraps a built-in callable the way the teacher's topdown
// BuiltinFunc registry wraps evaluation-engine built-ins.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// Type implements Value.
func (*Builtin) Type() string { return "builtin_function_or_method" }

// Function is a user-defined function value: parameter names, body
// (opaque to this package — stored as interface{} to avoid an import
// cycle with package ast), and the environment frame captured at
// definition time.
type Function struct {
	Name   string
	Params []string
	Body   interface{}
	Env    interface{} // *eval.Frame; opaque here to avoid an import cycle
}

// Type implements Value.
func (*Function) Type() string { return "function" }

// Truthy reports whether v is truthy under the reference's coercion rules.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case String:
		return len(x) != 0
	case Bytes:
		return len(x) != 0
	case *List:
		return len(x.Elems) != 0
	case Tuple:
		return len(x.Elems) != 0
	case *Dict:
		return x.Len() != 0
	default:
		return true
	}
}

// Equal reports whether a and b are equal under "==" semantics.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Bool:
			return (x != 0) == bool(y) && (x == 0 || x == 1)
		}
		return false
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Bytes:
		y, ok := b.(Bytes)
		return ok && string(x) == string(y)
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.Get(k)
			if !ok || !Equal(x.values[k], yv) {
				return false
			}
		}
		return true
	}
	return false
}

// AddInt adds two Ints, returning an error on overflow rather than
// wrapping silently (spec §3).
func AddInt(a, b Int) (Int, error) {
	r := int64(a) + int64(b)
	if (b > 0 && r < int64(a)) || (b < 0 && r > int64(a)) {
		return 0, fmt.Errorf("integer overflow")
	}
	return Int(r), nil
}

// SubInt subtracts b from a with overflow checking.
func SubInt(a, b Int) (Int, error) {
	if b == math.MinInt64 {
		return 0, fmt.Errorf("integer overflow")
	}
	return AddInt(a, -b)
}

// MulInt multiplies two Ints with overflow checking.
func MulInt(a, b Int) (Int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := int64(a) * int64(b)
	if r/int64(b) != int64(a) {
		return 0, fmt.Errorf("integer overflow")
	}
	return Int(r), nil
}
