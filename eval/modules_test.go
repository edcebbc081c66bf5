package eval

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/stealthinu/rlmsandbox/parser"
	"github.com/stealthinu/rlmsandbox/value"
)

func TestModuleReSearchAndGroups(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "m = re.search(r'(\\d+)-(\\d+)', 'a 12-34 b')\nprint(m.group(0))\nprint(m.group(1))\nprint(m.group(2))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "12-34\n12\n34\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestModuleReSearchNoMatchReturnsNone(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(re.search('xyz', 'abc'))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "None\n" {
		t.Errorf("got %q, want %q", out, "None\n")
	}
}

func TestModuleReMatchAnchorsAtStart(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(re.match('ab', 'abc') is not None)\nprint(re.match('bc', 'abc') is None)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "True\nTrue\n" {
		t.Errorf("got %q, want %q", out, "True\nTrue\n")
	}
}

func TestModuleReFindallAndSplit(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(re.findall(r'\\d+', 'a1 b22 c333'))\nprint(re.split(r'\\s+', 'a b  c'))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "['1', '22', '333']\n['a', 'b', 'c']\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestModuleReSubAndIgnorecaseFlag(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(re.sub('a', 'X', 'banana'))\nprint(re.search('HELLO', 'say hello', re.IGNORECASE) is not None)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "bXnXnX\nTrue\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestModuleJSONLoadsAndDumpsRoundTrip(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "d = json.loads('{\"a\": 1, \"b\": [1, 2, 3]}')\nprint(d['a'])\nprint(d['b'])\nprint(json.dumps({'x': 1, 'y': [1, 2]}))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1\n[1, 2, 3]\n{\"x\":1,\"y\":[1,2]}\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestModuleJSONLoadsRejectsMalformed(t *testing.T) {
	_, _, err := mustRun(t, DefaultLimits(), "json.loads('{not json')\n")
	e, ok := err.(*Error)
	if !ok || e.Code != ValueErr {
		t.Fatalf("expected ValueErr, got %#v", err)
	}
}

func TestModuleBase64Decode(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(base64.b64decode('aGVsbG8='))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "b'hello'\n" {
		t.Errorf("got %q, want %q", out, "b'hello'\n")
	}
}

func TestModuleBinasciiHexlify(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(binascii.hexlify(b'hi'))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "b'6869'\n" {
		t.Errorf("got %q, want %q", out, "b'6869'\n")
	}
}

func TestModuleZlibDecompress(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write([]byte("hello hello hello")); err != nil {
		t.Fatalf("zlib.Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib.Close: %v", err)
	}

	prog, err := parser.Parse("print(zlib.decompress(data))\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	limits := DefaultLimits()
	globals := NewGlobals()
	for name, mod := range BuiltinModules(limits) {
		globals.Set(name, mod)
	}
	globals.Set("data", value.Bytes(buf.Bytes()))
	out, runErr := NewEvaluator(limits).Run(prog, globals)
	if runErr != nil {
		t.Fatalf("unexpected error: %v", runErr)
	}
	if out != "b'hello hello hello'\n" {
		t.Errorf("got %q, want %q", out, "b'hello hello hello'\n")
	}
}

func TestModuleZlibDecompressRejectsGarbage(t *testing.T) {
	globals := NewGlobals()
	limits := DefaultLimits()
	for name, mod := range BuiltinModules(limits) {
		globals.Set(name, mod)
	}
	globals.Set("data", value.Bytes([]byte("not zlib")))
	prog, err := parser.Parse("zlib.decompress(data)\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, runErr := NewEvaluator(limits).Run(prog, globals)
	e, ok := runErr.(*Error)
	if !ok || e.Code != ValueErr {
		t.Fatalf("expected ValueErr, got %#v", runErr)
	}
}

func TestModuleMathFloorCeilSqrt(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(math.floor(4))\nprint(math.ceil(4))\nprint(math.sqrt(9))\nprint(math.sqrt(10))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "4\n4\n3\n3\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestModuleMathSqrtRejectsNegative(t *testing.T) {
	_, _, err := mustRun(t, DefaultLimits(), "math.sqrt(-1)\n")
	e, ok := err.(*Error)
	if !ok || e.Code != TypeErr {
		t.Fatalf("expected TypeErr, got %#v", err)
	}
}
