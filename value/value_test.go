package value

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null{}, false},
		{"zero int", Int(0), false},
		{"nonzero int", Int(1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty list", &List{}, false},
		{"nonempty list", &List{Elems: []Value{Int(1)}}, true},
		{"false bool", Bool(false), false},
		{"true bool", Bool(true), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truthy(tc.v); got != tc.want {
				t.Errorf("Truthy(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Int(1), Int(1)) {
		t.Error("Int(1) should equal Int(1)")
	}
	if Equal(Int(1), Int(2)) {
		t.Error("Int(1) should not equal Int(2)")
	}
	// Python-style int/bool cross-equality: 1 == True, 0 == False.
	if !Equal(Int(1), Bool(true)) {
		t.Error("Int(1) should equal Bool(true)")
	}
	if Equal(Int(2), Bool(true)) {
		t.Error("Int(2) should not equal Bool(true)")
	}
	l1 := &List{Elems: []Value{Int(1), String("a")}}
	l2 := &List{Elems: []Value{Int(1), String("a")}}
	if !Equal(l1, l2) {
		t.Error("equal-content lists should be Equal")
	}
	d1 := NewDict()
	d1.Set("a", Int(1))
	d2 := NewDict()
	d2.Set("a", Int(1))
	if !Equal(d1, d2) {
		t.Error("equal-content dicts should be Equal")
	}
}

func TestDictInsertionOrderAndDelete(t *testing.T) {
	d := NewDict()
	d.Set("b", Int(2))
	d.Set("a", Int(1))
	d.Set("b", Int(20)) // re-set existing key doesn't move it
	if got := d.Keys(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("Keys() = %v, want [b a]", got)
	}
	v, ok := d.Get("b")
	if !ok || v != Int(20) {
		t.Errorf("Get(b) = %v, %v, want 20, true", v, ok)
	}
	d.Delete("b")
	if d.Len() != 1 {
		t.Errorf("Len() after delete = %d, want 1", d.Len())
	}
	if _, ok := d.Get("b"); ok {
		t.Error("Get(b) after delete should report not-found")
	}
}

func TestAddIntOverflow(t *testing.T) {
	_, err := AddInt(Int(1<<62), Int(1<<62))
	if err == nil {
		t.Error("expected overflow error")
	}
	r, err := AddInt(Int(2), Int(3))
	if err != nil || r != Int(5) {
		t.Errorf("AddInt(2, 3) = %v, %v, want 5, nil", r, err)
	}
}

func TestMulIntOverflow(t *testing.T) {
	_, err := MulInt(Int(1<<32), Int(1<<32))
	if err == nil {
		t.Error("expected overflow error")
	}
	r, err := MulInt(Int(6), Int(7))
	if err != nil || r != Int(42) {
		t.Errorf("MulInt(6, 7) = %v, %v, want 42, nil", r, err)
	}
}

func TestStrAndRepr(t *testing.T) {
	if got := Str(String("hi")); got != "hi" {
		t.Errorf("Str(String) = %q, want %q", got, "hi")
	}
	if got := Repr(String("hi")); got != "'hi'" {
		t.Errorf("Repr(String) = %q, want %q", got, "'hi'")
	}
	if got := Str(Bool(true)); got != "True" {
		t.Errorf("Str(Bool(true)) = %q, want True", got)
	}
	if got := Str(Null{}); got != "None" {
		t.Errorf("Str(Null{}) = %q, want None", got)
	}
	l := &List{Elems: []Value{Int(1), String("a")}}
	if got := Str(l); got != "[1, 'a']" {
		t.Errorf("Str(list) = %q, want [1, 'a']", got)
	}
	tup := Tuple{Elems: []Value{Int(1)}}
	if got := Str(tup); got != "(1,)" {
		t.Errorf("Str(single-elem tuple) = %q, want (1,)", got)
	}
	d := NewDict()
	d.Set("a", String("b"))
	if got := Str(d); got != "{'a': 'b'}" {
		t.Errorf("Str(dict) = %q, want {'a': 'b'}", got)
	}
}

func TestReprPicksDoubleQuoteWhenStringContainsSingleQuote(t *testing.T) {
	if got := Repr(String("it's")); got != `"it's"` {
		t.Errorf("Repr = %q, want %q", got, `"it's"`)
	}
}

func TestStrSetUsesBraces(t *testing.T) {
	s := &List{Elems: []Value{Int(1), Int(2), Int(3)}, IsSet: true}
	if got := Str(s); got != "{1, 2, 3}" {
		t.Errorf("Str(set) = %q, want {1, 2, 3}", got)
	}
}

func TestStrEmptySetIsSetParens(t *testing.T) {
	s := &List{IsSet: true}
	if got := Str(s); got != "set()" {
		t.Errorf("Str(empty set) = %q, want set()", got)
	}
}

func TestSetAndListWithSameElemsAreStillEqual(t *testing.T) {
	s := &List{Elems: []Value{Int(1)}, IsSet: true}
	l := &List{Elems: []Value{Int(1)}}
	if !Equal(s, l) {
		t.Error("IsSet is display-only and must not affect Equal")
	}
}
