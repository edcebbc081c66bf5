package parser

import (
	"testing"

	"github.com/stealthinu/rlmsandbox/ast"
)

func TestParseEmptySourceSetsEmpty(t *testing.T) {
	prog, err := Parse("   \n\t\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !prog.Empty {
		t.Error("expected Empty to be true for blank source")
	}
}

func TestParseAssignAndExprStmt(t *testing.T) {
	prog, err := Parse("x = 1\nprint(x)\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body))
	}
	assign, ok := prog.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", prog.Body[0])
	}
	name, ok := assign.Targets[0].(*ast.Name)
	if !ok || name.Id != "x" {
		t.Errorf("expected target Name(x), got %#v", assign.Targets[0])
	}
	lit, ok := assign.Value.(*ast.Literal)
	if !ok || lit.Kind != ast.LitInt || lit.Int != 1 {
		t.Errorf("expected Literal int 1, got %#v", assign.Value)
	}

	exprStmt, ok := prog.Body[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", prog.Body[1])
	}
	call, ok := exprStmt.Value.(*ast.Call)
	if !ok {
		t.Fatalf("expected Call, got %T", exprStmt.Value)
	}
	fn, ok := call.Func.(*ast.Name)
	if !ok || fn.Id != "print" {
		t.Errorf("expected Call to print, got %#v", call.Func)
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if x:\n    y = 1\nelif z:\n    y = 2\nelse:\n    y = 3\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	top, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected If, got %T", prog.Body[0])
	}
	if len(top.Orelse) != 1 {
		t.Fatalf("expected elif desugared into one nested If, got %d stmts", len(top.Orelse))
	}
	if _, ok := top.Orelse[0].(*ast.If); !ok {
		t.Errorf("expected nested If for elif, got %T", top.Orelse[0])
	}
}

func TestParseFuncDefAndReturn(t *testing.T) {
	prog, err := Parse("def f(a, b):\n    return a + b\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	fd, ok := prog.Body[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("expected FuncDef, got %T", prog.Body[0])
	}
	if fd.Name != "f" || len(fd.Params) != 2 {
		t.Errorf("unexpected FuncDef shape: %#v", fd)
	}
}

func TestParseImportCommaSeparated(t *testing.T) {
	prog, err := Parse("import base64, zlib\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	imp, ok := prog.Body[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected Import, got %T", prog.Body[0])
	}
	if len(imp.Names) != 2 || imp.Names[0].Path != "base64" || imp.Names[1].Path != "zlib" {
		t.Errorf("unexpected Import shape: %#v", imp.Names)
	}
}

func TestParseFromImportAs(t *testing.T) {
	prog, err := Parse("from re import search as s\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	imp, ok := prog.Body[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected Import, got %T", prog.Body[0])
	}
	if len(imp.Names) != 1 || imp.Names[0].Path != "re.search" || imp.Names[0].Asname != "s" {
		t.Errorf("unexpected Import shape: %#v", imp.Names)
	}
}

func TestParseTryExcept(t *testing.T) {
	src := "try:\n    x = 1\nexcept NameError:\n    x = 2\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	try, ok := prog.Body[0].(*ast.Try)
	if !ok {
		t.Fatalf("expected Try, got %T", prog.Body[0])
	}
	if len(try.Handlers) != 1 || try.Handlers[0].Kinds[0] != "NameError" {
		t.Errorf("unexpected Try shape: %#v", try.Handlers)
	}
}

func TestParseForbiddenSyntaxRejectedAtParseTime(t *testing.T) {
	cases := []string{
		"lambda x: x\n",
		"with open('x') as f:\n    pass\n",
		"global x\n",
		"del x\n",
		"async def f():\n    pass\n",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			if err == nil {
				t.Fatalf("expected Parse(%q) to fail", src)
			}
			var e *ast.Error
			if !asASTError(err, &e) {
				t.Fatalf("expected *ast.Error, got %T: %v", err, err)
			}
			if e.Code != ast.ForbiddenSyntaxErr {
				t.Errorf("expected ForbiddenSyntaxErr, got %v", e.Code)
			}
		})
	}
}

// Walrus assignment has no dedicated AST node; the parser rejects ":=" as
// a ForbiddenSyntax case wherever an expression would continue with it.
func TestParseWalrusIsRejected(t *testing.T) {
	_, err := Parse("x := 1\n")
	if err == nil {
		t.Fatal("expected Parse(\"x := 1\") to fail")
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("x = = 1\n")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var e *ast.Error
	if !asASTError(err, &e) {
		t.Fatalf("expected *ast.Error, got %T: %v", err, err)
	}
	if e.Code != ast.ParseErr {
		t.Errorf("expected ParseErr, got %v", e.Code)
	}
}

func asASTError(err error, target **ast.Error) bool {
	e, ok := err.(*ast.Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
