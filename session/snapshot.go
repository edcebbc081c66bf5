package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/stealthinu/rlmsandbox/value"
)

// snapNode is the wire shape of one Value in an opaque state snapshot: a
// small hand-rolled tagged union (not value's own json/re module JSON
// conversion in package eval, which targets Python's json.dumps semantics
// and has no slot for Bytes or Tuple). The Execute contract only calls
// this blob "opaque" — callers never parse it themselves — so any
// self-describing format package session alone understands is sufficient;
// JSON was picked over encoding/gob because every value shape here is a
// plain tree, and gob would need every concrete ast node type registered
// to round-trip a Function's body, for no benefit to the one thing state
// snapshots are actually for (a stateless caller re-seeding a *new*
// Session between calls instead of holding one open).
type snapNode struct {
	Kind  string     `json:"k"`
	Str   string     `json:"s,omitempty"`
	Int   int64      `json:"i,omitempty"`
	Bool  bool       `json:"b,omitempty"`
	IsSet bool       `json:"set,omitempty"`
	Elem  []snapNode `json:"e,omitempty"`
	Keys  []string   `json:"ks,omitempty"`
	Vals  []snapNode `json:"vs,omitempty"`
}

// encodeValue converts v to its wire form. It returns ok=false for the
// value kinds a snapshot cannot represent (Function, Builtin, Module,
// Match) — those bindings are simply dropped from the snapshot rather than
// failing the whole Execute call; the session's live in-memory Frame still
// holds them for as long as the caller keeps reusing the same Session
// (see DESIGN.md).
func encodeValue(v value.Value) (snapNode, bool) {
	switch x := v.(type) {
	case value.Null:
		return snapNode{Kind: "null"}, true
	case value.Bool:
		return snapNode{Kind: "bool", Bool: bool(x)}, true
	case value.Int:
		return snapNode{Kind: "int", Int: int64(x)}, true
	case value.String:
		return snapNode{Kind: "str", Str: string(x)}, true
	case value.Bytes:
		return snapNode{Kind: "bytes", Str: base64.StdEncoding.EncodeToString(x)}, true
	case *value.List:
		elems, ok := encodeSlice(x.Elems)
		if !ok {
			return snapNode{}, false
		}
		return snapNode{Kind: "list", Elem: elems, IsSet: x.IsSet}, true
	case value.Tuple:
		elems, ok := encodeSlice(x.Elems)
		if !ok {
			return snapNode{}, false
		}
		return snapNode{Kind: "tuple", Elem: elems}, true
	case *value.Dict:
		keys := x.Keys()
		vals := make([]snapNode, 0, len(keys))
		for _, k := range keys {
			vv, _ := x.Get(k)
			sn, ok := encodeValue(vv)
			if !ok {
				return snapNode{}, false
			}
			vals = append(vals, sn)
		}
		return snapNode{Kind: "dict", Keys: keys, Vals: vals}, true
	default:
		return snapNode{}, false
	}
}

func encodeSlice(in []value.Value) ([]snapNode, bool) {
	out := make([]snapNode, len(in))
	for i, e := range in {
		sn, ok := encodeValue(e)
		if !ok {
			return nil, false
		}
		out[i] = sn
	}
	return out, true
}

func decodeValue(sn snapNode) (value.Value, error) {
	switch sn.Kind {
	case "null":
		return value.Null{}, nil
	case "bool":
		return value.Bool(sn.Bool), nil
	case "int":
		return value.Int(sn.Int), nil
	case "str":
		return value.String(sn.Str), nil
	case "bytes":
		b, err := base64.StdEncoding.DecodeString(sn.Str)
		if err != nil {
			return nil, fmt.Errorf("state snapshot: invalid bytes encoding: %w", err)
		}
		return value.Bytes(b), nil
	case "list":
		elems, err := decodeSlice(sn.Elem)
		if err != nil {
			return nil, err
		}
		return &value.List{Elems: elems, IsSet: sn.IsSet}, nil
	case "tuple":
		elems, err := decodeSlice(sn.Elem)
		if err != nil {
			return nil, err
		}
		return value.Tuple{Elems: elems}, nil
	case "dict":
		if len(sn.Keys) != len(sn.Vals) {
			return nil, fmt.Errorf("state snapshot: dict keys/values length mismatch")
		}
		d := value.NewDict()
		for i, k := range sn.Keys {
			vv, err := decodeValue(sn.Vals[i])
			if err != nil {
				return nil, err
			}
			d.Set(k, vv)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("state snapshot: unknown value kind %q", sn.Kind)
	}
}

func decodeSlice(in []snapNode) ([]value.Value, error) {
	out := make([]value.Value, len(in))
	for i, sn := range in {
		v, err := decodeValue(sn)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeState serializes bindings into the opaque snapshot format. Module,
// Builtin, Function, and Match bindings are silently omitted (see
// encodeValue).
func EncodeState(bindings map[string]value.Value) ([]byte, error) {
	out := make(map[string]snapNode, len(bindings))
	for k, v := range bindings {
		if sn, ok := encodeValue(v); ok {
			out[k] = sn
		}
	}
	return json.Marshal(out)
}

// DecodeState parses an opaque snapshot previously produced by EncodeState.
func DecodeState(data []byte) (map[string]value.Value, error) {
	var raw map[string]snapNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("state snapshot: %w", err)
	}
	out := make(map[string]value.Value, len(raw))
	for k, sn := range raw {
		v, err := decodeValue(sn)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
