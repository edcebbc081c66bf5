// Package session implements the Session of spec §4.5: the persistent
// environment across Execute calls, code-fence stripping, per-call
// resource limits, and the Execute(Request) Response contract of spec §6.
// Grounded on the teacher's server/request-response framing style
// (_examples/open-policy-agent-opa/server/server.go's handler shape: parse
// input, run, render one response record) adapted to a single in-process
// call instead of an HTTP handler.
package session

import (
	"crypto/rand"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/stealthinu/rlmsandbox/ast"
	"github.com/stealthinu/rlmsandbox/eval"
	"github.com/stealthinu/rlmsandbox/internal/uuid"
	"github.com/stealthinu/rlmsandbox/log"
	"github.com/stealthinu/rlmsandbox/metrics"
	"github.com/stealthinu/rlmsandbox/parser"
	"github.com/stealthinu/rlmsandbox/validate"
	"github.com/stealthinu/rlmsandbox/value"
)

// Request is the Execute contract's input record (spec §6).
type Request struct {
	Context        string          `json:"context"`
	Query          string          `json:"query"`
	Code           string          `json:"code"`
	MaxOutputChars *int            `json:"max_output_chars,omitempty"`
	State          json.RawMessage `json:"state,omitempty"`
}

// ErrorInfo is the Execute contract's error record; Line/Column are nil
// when the offending error carries no positional information.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    *int   `json:"line"`
	Column  *int   `json:"column"`
}

// Response is the Execute contract's output record (spec §6).
type Response struct {
	OK     bool            `json:"ok"`
	Output string          `json:"output"`
	Error  *ErrorInfo      `json:"error"`
	State  json.RawMessage `json:"state"`
}

// Session owns one persistent environment across successive Execute calls
// (spec §4.5). It is not safe for concurrent use — callers embedding the
// core in a multi-threaded service must give each task its own Session or
// serialize access themselves (spec §5).
type Session struct {
	id      string
	globals *eval.Frame
	limits  eval.Limits
	entry   *log.Entry
}

// New creates a Session with the given default resource limits, seeding
// session globals with context, query (both the empty string until the
// first Execute call), and the curated module set of spec §4.4 — module
// names are bound directly at construction time, so a bare `import re` (or
// omitting it entirely, since the binding already exists) is a no-op, per
// spec §4.5's import-handling rule.
func New(limits eval.Limits) (*Session, error) {
	id, err := uuid.New(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "mint session id")
	}
	g := eval.NewGlobals()
	g.Set("context", value.String(""))
	g.Set("query", value.String(""))
	for name, mod := range eval.BuiltinModules(limits) {
		g.Set(name, mod)
	}
	return &Session{
		id:      id,
		globals: g,
		limits:  limits,
		entry:   log.Global().WithField("session_id", id),
	}, nil
}

// ID returns the session's log-correlation identifier.
func (s *Session) ID() string { return s.id }

// Execute runs one code fragment against the session's persistent
// environment (spec §4.1-§4.5). It never panics: a recover() converts any
// unexpected programmer-error panic into an InternalError result as a
// last-resort safety net, per spec §7 — this path must never trigger on
// any validated, correctly-implemented input.
func (s *Session) Execute(req Request) (resp Response) {
	executeID, err := uuid.New(rand.Reader)
	if err != nil {
		executeID = ""
	}
	entry := s.entry.WithField("execute_id", executeID).WithField("code_len", len(req.Code))

	defer func() {
		if r := recover(); r != nil {
			ee := eval.NewError(eval.InternalErr, nil, "internal error: %v", r)
			entry.WithField("result", ee.Code.String()).Error("execute panicked")
			metrics.ExecuteResults.WithLabelValues(ee.Code.String()).Inc()
			resp = s.buildResponse(false, "", evalErrorInfo(ee))
		}
	}()

	if len(req.State) > 0 {
		bindings, err := DecodeState(req.State)
		if err != nil {
			ee := eval.NewError(eval.InternalErr, nil, "invalid state snapshot: %v", err)
			entry.WithField("result", ee.Code.String()).Warn("execute rejected bad state snapshot")
			metrics.ExecuteResults.WithLabelValues(ee.Code.String()).Inc()
			return s.buildResponse(false, "", evalErrorInfo(ee))
		}
		for k, v := range bindings {
			s.globals.Set(k, v)
		}
	}

	limits := s.limits
	if req.MaxOutputChars != nil {
		limits.MaxOutputChars = *req.MaxOutputChars
	}

	code := StripFence(req.Code)
	if len(code) > limits.MaxCodeChars {
		metrics.ResourceLimitBreaches.WithLabelValues("code_size").Inc()
		ee := eval.NewError(eval.ResourceLimitErr, nil, "code exceeds max_code_chars (%d > %d)", len(code), limits.MaxCodeChars)
		entry.WithField("result", ee.Code.String()).Info("execute rejected oversized code")
		metrics.ExecuteResults.WithLabelValues(ee.Code.String()).Inc()
		return s.buildResponse(false, "", evalErrorInfo(ee))
	}

	// The incoming call's context/query win the initial read (spec §3
	// "Environment"); user code may rebind them during the call, and that
	// rebinding persists until the next Execute call supplies its own.
	s.globals.Set("context", value.String(req.Context))
	s.globals.Set("query", value.String(req.Query))

	prog, perr := parser.Parse(code)
	if perr != nil {
		return s.astErrorResult(entry, perr)
	}

	if !prog.Empty {
		if n := countNodes(prog); n > limits.MaxASTNodes {
			metrics.ResourceLimitBreaches.WithLabelValues("complexity").Inc()
			ee := eval.NewError(eval.ResourceLimitErr, nil, "program exceeds max_ast_nodes (%d > %d)", n, limits.MaxASTNodes)
			entry.WithField("result", ee.Code.String()).Info("execute rejected oversized program")
			metrics.ExecuteResults.WithLabelValues(ee.Code.String()).Inc()
			return s.buildResponse(false, "", evalErrorInfo(ee))
		}
		if verr := validate.Validate(prog); verr != nil {
			return s.astErrorResult(entry, verr)
		}
	}

	ev := eval.NewEvaluator(limits)
	output, runErr := ev.Run(prog, s.globals)
	metrics.StepsConsumed.Observe(float64(ev.Steps()))
	if hasTruncationMarker(output) {
		metrics.OutputTruncations.Inc()
	}

	if runErr != nil {
		ee, ok := runErr.(*eval.Error)
		if !ok {
			ee = eval.NewError(eval.InternalErr, nil, "%v", runErr)
		}
		if ee.Code == eval.ResourceLimitErr {
			metrics.ResourceLimitBreaches.WithLabelValues("runtime").Inc()
		}
		entry.WithField("result", ee.Code.String()).WithField("steps", ev.Steps()).Info("execute failed")
		metrics.ExecuteResults.WithLabelValues(ee.Code.String()).Inc()
		return s.buildResponse(false, output, evalErrorInfo(ee))
	}

	entry.WithField("result", "ok").WithField("steps", ev.Steps()).Info("execute complete")
	metrics.ExecuteResults.WithLabelValues("ok").Inc()
	return s.buildResponse(true, output, nil)
}

func (s *Session) astErrorResult(entry *log.Entry, err error) Response {
	ae, ok := err.(*ast.Error)
	if !ok {
		ae = ast.NewError(ast.ParseErr, nil, "%v", err)
	}
	entry.WithField("result", ae.Code.String()).Info("execute rejected at parse/validate")
	metrics.ExecuteResults.WithLabelValues(ae.Code.String()).Inc()
	return s.buildResponse(false, "", astErrorInfo(ae))
}

func (s *Session) buildResponse(ok bool, output string, errInfo *ErrorInfo) Response {
	state, err := EncodeState(s.globals.Snapshot())
	if err != nil {
		s.entry.WithError(err).Error("failed to encode state snapshot")
		state = []byte("{}")
	}
	return Response{OK: ok, Output: output, Error: errInfo, State: state}
}

func astErrorInfo(e *ast.Error) *ErrorInfo {
	var line, col *int
	if e.Location != nil {
		l, c := e.Location.Row, e.Location.Col
		line, col = &l, &c
	}
	return &ErrorInfo{Kind: e.Code.String(), Message: e.Message, Line: line, Column: col}
}

// evalErrorInfo renders an evaluator error using spec §7's message format:
// "Execution error: <message>" for the catchable runtime kinds, a plain
// message for ResourceLimitExceeded/InternalError (grouped with
// SyntaxError/ForbiddenSyntax/ForbiddenName as "the others" in §7's
// wording, since none of those four are catchable by user try/except).
func evalErrorInfo(e *eval.Error) *ErrorInfo {
	msg := e.Message
	if e.Code.Catchable() {
		msg = e.UserMessage()
	}
	var line, col *int
	if e.Location != nil {
		l, c := e.Location.Row, e.Location.Col
		line, col = &l, &c
	}
	return &ErrorInfo{Kind: e.Code.String(), Message: msg, Line: line, Column: col}
}

func countNodes(prog *ast.Program) int {
	n := 0
	ast.Walk(ast.NewGenericVisitor(func(ast.Node) bool {
		n++
		return false
	}), prog)
	return n
}

func hasTruncationMarker(output string) bool {
	return strings.Contains(output, "[Output truncated: ")
}
