package validate

import (
	"testing"

	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return prog
}

func TestValidatePermitted(t *testing.T) {
	src := "s = query.strip()\nidx = context.lower().find(s.lower())\nprint(idx)\n"
	err := Validate(mustParse(t, src))
	assert.NoError(t, err)
}

func TestValidateRejectsDunderName(t *testing.T) {
	err := Validate(mustParse(t, "x = __builtins__\n"))
	require.Error(t, err)
	var e *ast.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ast.ForbiddenNameErr, e.Code)
}

func TestValidateRejectsOpenCall(t *testing.T) {
	err := Validate(mustParse(t, "open('/etc/passwd')\n"))
	require.Error(t, err)
	var e *ast.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ast.ForbiddenNameErr, e.Code)
}

func TestValidateRejectsForbiddenAttribute(t *testing.T) {
	err := Validate(mustParse(t, "x = (1).__class__\n"))
	require.Error(t, err)
}

func TestValidateRejectsUnsupportedOperator(t *testing.T) {
	err := Validate(mustParse(t, "x = 2 ** 10\n"))
	require.Error(t, err)
	var e *ast.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ast.ForbiddenSyntaxErr, e.Code)
}

func TestValidateRejectsReturnOutsideFunction(t *testing.T) {
	err := Validate(mustParse(t, "return 1\n"))
	require.Error(t, err)
}

func TestValidateAllowsReturnInsideFunction(t *testing.T) {
	err := Validate(mustParse(t, "def f(x):\n    return x + 1\n"))
	assert.NoError(t, err)
}
