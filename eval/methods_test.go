package eval

import "testing"

func TestMethodStringStripSplitJoin(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print('  hi  '.strip())\nprint('a,b,,c'.split(','))\nprint('-'.join(['a', 'b', 'c']))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "hi\n['a', 'b', '', 'c']\na-b-c\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodStringReplaceCountFindStartsEnds(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print('banana'.replace('a', 'o'))\nprint('banana'.count('a'))\nprint('banana'.find('na'))\nprint('banana'.startswith('ban'))\nprint('banana'.endswith('na'))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "bonono\n3\n2\nTrue\nTrue\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodStringCaseAndPredicates(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print('Hi'.upper())\nprint('Hi'.lower())\nprint('123'.isdigit())\nprint('12a'.isdigit())\nprint('abc'.isalpha())\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "HI\nhi\nTrue\nFalse\nTrue\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodStringSplitlinesAndEncode(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print('a\\nb\\nc'.splitlines())\nprint(''.splitlines())\nprint('hi'.encode())\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "['a', 'b', 'c']\n[]\nb'hi'\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodBytesDecodeHexStartsEnds(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(b'hi'.decode())\nprint(b'hi'.hex())\nprint(b'hello'.startswith(b'he'))\nprint(b'hello'.endswith(b'lo'))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "hi\n6869\nTrue\nTrue\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodListAppendExtendIndexCount(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "l = [1, 2]\nl.append(3)\nl.extend([4, 5])\nprint(l)\nprint(l.index(4))\nprint([1, 2, 2, 3].count(2))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[1, 2, 3, 4, 5]\n3\n2\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodListIndexMissingRaisesValueError(t *testing.T) {
	_, _, err := mustRun(t, DefaultLimits(), "[1, 2, 3].index(9)\n")
	e, ok := err.(*Error)
	if !ok || e.Code != ValueErr {
		t.Fatalf("expected ValueErr, got %#v", err)
	}
}

func TestMethodListSortAndReverse(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "l = [3, 1, 2]\nl.sort()\nprint(l)\nl.sort(reverse=True)\nprint(l)\nl.reverse()\nprint(l)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[1, 2, 3]\n[3, 2, 1]\n[1, 2, 3]\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodDictGetKeysValuesItems(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "d = {'a': 1, 'b': 2}\nprint(d.get('a'))\nprint(d.get('z'))\nprint(d.get('z', 0))\nprint(d.keys())\nprint(d.values())\nprint(d.items())\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1\nNone\n0\n['a', 'b']\n[1, 2]\n[('a', 1), ('b', 2)]\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestMethodUnknownAttributeIsAttributeError(t *testing.T) {
	_, _, err := mustRun(t, DefaultLimits(), "'hi'.bogus()\n")
	e, ok := err.(*Error)
	if !ok || e.Code != AttributeErr {
		t.Fatalf("expected AttributeErr, got %#v", err)
	}
}
