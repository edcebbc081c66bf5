// Package eval implements the tree-walking evaluator (spec §4.3): statement
// and expression dispatch, the persistent environment, the built-in
// callable registry, operator semantics, and the frozen pseudo-modules of
// spec §4.4. Grounded on the teacher's topdown evaluator package for error
// shape and naming (_examples/open-policy-agent-opa/topdown/errors.go), but
// the error kind taxonomy itself is specific to this domain.
package eval

import (
	"fmt"

	"github.com/stealthinu/rlmsandbox/ast"
)

// ErrCode is the closed set of runtime error kinds an Execute call can
// raise once validation has passed (spec §6). These are distinct from the
// parser/validator's ast.ErrCode universe: a SyntaxError or ForbiddenSyntax
// can never reach the evaluator, since Parse and Validate run first.
type ErrCode int

const (
	// NameErr indicates a name was referenced before assignment.
	NameErr ErrCode = iota
	// TypeErr indicates an operation was applied to a value of the wrong type.
	TypeErr
	// ValueErr indicates a value was of the right type but an inappropriate
	// value (also used for max_string_size/max_list_size overflow, per
	// spec §4.5's table).
	ValueErr
	// AttributeErr indicates an allowlisted attribute name was referenced on
	// a value whose type does not define it (spec §4.2's per-type table).
	AttributeErr
	// IndexErr indicates an out-of-range sequence index.
	IndexErr
	// KeyErr indicates a missing dict key.
	KeyErr
	// ZeroDivisionErr indicates division or modulus by zero.
	ZeroDivisionErr
	// ResourceLimitErr indicates one of the ceilings in spec §4.5's table
	// was breached; it terminates the Execute call and is never catchable
	// by user code (spec §7).
	ResourceLimitErr
	// InternalErr is a safety net for evaluator invariant violations that
	// should never occur; it is never produced by correct, validated
	// programs and exists only so the evaluator can return an error value
	// instead of panicking (spec §7: "never panics or aborts").
	InternalErr
)

// String renders the error kind using the exact tag names of the Execute
// contract's closed "kind" set (spec §6).
func (c ErrCode) String() string {
	switch c {
	case NameErr:
		return "NameError"
	case TypeErr:
		return "TypeError"
	case ValueErr:
		return "ValueError"
	case AttributeErr:
		return "AttributeError"
	case IndexErr:
		return "IndexError"
	case KeyErr:
		return "KeyError"
	case ZeroDivisionErr:
		return "ZeroDivisionError"
	case ResourceLimitErr:
		return "ResourceLimitExceeded"
	default:
		return "InternalError"
	}
}

// Catchable reports whether a try/except in user code may catch this kind
// (spec §7): every runtime kind except ResourceLimitErr and InternalErr.
func (c ErrCode) Catchable() bool {
	return c != ResourceLimitErr && c != InternalErr
}

// Error is a single evaluation error, carrying the closed kind tag plus
// positional information the way ast.Error does for parse/validate errors.
type Error struct {
	Code     ErrCode
	Location *ast.Location
	Message  string
}

func (e *Error) Error() string {
	if e.Location == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Location.Row, e.Location.Col, e.Code, e.Message)
}

// UserMessage renders the "Execution error: <python-style message>" format
// spec §7 requires for the catchable runtime error kinds. Package session
// applies it only when Code.Catchable() is true, so ResourceLimitExceeded
// and InternalError keep their plain message; SyntaxError/ForbiddenSyntax/
// ForbiddenName use their own plain single-line rendering in package
// ast/session and never pass through here.
func (e *Error) UserMessage() string {
	return fmt.Sprintf("Execution error: %s", e.Message)
}

// NewError returns a new *Error.
func NewError(code ErrCode, loc *ast.Location, f string, a ...interface{}) *Error {
	return &Error{Code: code, Location: loc, Message: fmt.Sprintf(f, a...)}
}

// IsError reports whether err is an *Error with the given code.
func IsError(code ErrCode, err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

func nameErr(loc *ast.Location, name string) *Error {
	return NewError(NameErr, loc, "name '%s' is not defined", name)
}

func typeErr(loc *ast.Location, format string, a ...interface{}) *Error {
	return NewError(TypeErr, loc, format, a...)
}

func attributeErr(loc *ast.Location, typ, attr string) *Error {
	return NewError(AttributeErr, loc, "'%s' object has no attribute '%s'", typ, attr)
}

func indexErr(loc *ast.Location, typ string) *Error {
	return NewError(IndexErr, loc, "%s index out of range", typ)
}

func keyErr(loc *ast.Location, key string) *Error {
	return NewError(KeyErr, loc, "%s", key)
}

func zeroDivisionErr(loc *ast.Location, op string) *Error {
	return NewError(ZeroDivisionErr, loc, "%s", op)
}

func resourceLimitErr(loc *ast.Location, format string, a ...interface{}) *Error {
	return NewError(ResourceLimitErr, loc, format, a...)
}
