package eval

import (
	"strings"
	"testing"

	"github.com/stealthinu/rlmsandbox/parser"
	"github.com/stealthinu/rlmsandbox/value"
)

func mustRun(t *testing.T, limits Limits, code string) (string, *Frame, error) {
	t.Helper()
	prog, err := parser.Parse(code)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", code, err)
	}
	globals := NewGlobals()
	for name, mod := range BuiltinModules(limits) {
		globals.Set(name, mod)
	}
	ev := NewEvaluator(limits)
	out, runErr := ev.Run(prog, globals)
	return out, globals, runErr
}

func TestRunEmptyProgram(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "No code to execute" {
		t.Errorf("got %q, want %q", out, "No code to execute")
	}
}

func TestRunPrintAndArithmetic(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "x = 2 + 3\nprint(x * 4)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "20\n" {
		t.Errorf("got %q, want %q", out, "20\n")
	}
}

func TestRunEchoesTrailingExpression(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "1 + 1\n2 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "4" {
		t.Errorf("got %q, want %q (only the trailing expression echoes)", out, "4")
	}
}

func TestRunNameErrorAndStatePersistence(t *testing.T) {
	_, globals, err := mustRun(t, DefaultLimits(), "x = 1\ny = x + undefined\n")
	if err == nil {
		t.Fatal("expected a NameError")
	}
	e, ok := err.(*Error)
	if !ok || e.Code != NameErr {
		t.Fatalf("expected NameErr, got %#v", err)
	}
	v, ok := globals.Get("x")
	if !ok || v != value.Int(1) {
		t.Errorf("expected x==1 to persist after the error, got %v, %v", v, ok)
	}
}

func TestRunTryExceptCatchesNameError(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "try:\n    y = undefined\nexcept NameError:\n    print('caught')\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "caught\n" {
		t.Errorf("got %q, want %q", out, "caught\n")
	}
}

func TestRunZeroDivisionError(t *testing.T) {
	_, _, err := mustRun(t, DefaultLimits(), "x = 1 % 0\n")
	e, ok := err.(*Error)
	if !ok || e.Code != ZeroDivisionErr {
		t.Fatalf("expected ZeroDivisionErr, got %#v", err)
	}
}

func TestRunIndexAndKeyErrors(t *testing.T) {
	_, _, err := mustRun(t, DefaultLimits(), "x = [1, 2][5]\n")
	if e, ok := err.(*Error); !ok || e.Code != IndexErr {
		t.Fatalf("expected IndexErr, got %#v", err)
	}

	_, _, err = mustRun(t, DefaultLimits(), "x = {'a': 1}['b']\n")
	if e, ok := err.(*Error); !ok || e.Code != KeyErr {
		t.Fatalf("expected KeyErr, got %#v", err)
	}
}

func TestRunStepLimitExceeded(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxSteps = 5
	_, _, err := mustRun(t, limits, "for i in range(1000):\n    x = i\n")
	e, ok := err.(*Error)
	if !ok || e.Code != ResourceLimitErr {
		t.Fatalf("expected ResourceLimitErr, got %#v", err)
	}
}

func TestRunBuiltinsSortedMaxMinSum(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(sorted([3, 1, 2]))\nprint(max([3, 1, 2]))\nprint(min([3, 1, 2]))\nprint(sum([1, 2, 3]))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[1, 2, 3]\n3\n1\n6\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRunSlicing(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "s = 'hello world'\nprint(s[0:5])\nprint(s[-5:])\nprint(s[::-1])\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "hello\nworld\ndlrow olleh\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRunFunctionDefAndCall(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "def add(a, b):\n    return a + b\nprint(add(2, 3))\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5\n" {
		t.Errorf("got %q, want %q", out, "5\n")
	}
}

func TestRunSetBuiltinAndComprehensionDisplayAsBraces(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print(set([1, 2, 2, 3]))\nprint(set())\nprint({x for x in [1, 1, 2]})\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{1, 2, 3}\nset()\n{1, 2}\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRunListComprehension(t *testing.T) {
	out, _, err := mustRun(t, DefaultLimits(), "print([x * 2 for x in range(4) if x % 2 == 0])\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[0, 4]\n" {
		t.Errorf("got %q, want %q", out, "[0, 4]\n")
	}
}

func TestRunOutputTruncation(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxOutputChars = 5
	out, _, err := mustRun(t, limits, "print('abcdefgh')\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[:5] != "abcde" {
		t.Errorf("got %q, want it to start with abcde", out)
	}
	if !strings.Contains(out, "[Output truncated:") {
		t.Errorf("expected a truncation marker in %q", out)
	}
}
