package eval

import "github.com/stealthinu/rlmsandbox/value"

// Frame is one lexical scope: session globals at the bottom of the stack,
// a new Frame pushed per function call and popped on return (spec §3
// "Environment"). Comprehensions get their own Frame too, chained to
// globalsOnly rather than the caller's locals — see
// PushComprehensionScope below (spec §4.3, §9).
type Frame struct {
	vars    map[string]value.Value
	parent  *Frame
	globals *Frame // the session-globals frame this call chain is rooted at
}

// NewGlobals returns a fresh top-level (session-globals) frame.
func NewGlobals() *Frame {
	f := &Frame{vars: map[string]value.Value{}}
	f.globals = f
	return f
}

// Push returns a child frame for a function call, chained to the caller so
// ordinary lookups see enclosing names innermost-first.
func (f *Frame) Push() *Frame {
	return &Frame{vars: map[string]value.Value{}, parent: f, globals: f.globals}
}

// PushComprehensionScope returns the frame a comprehension's element
// expression evaluates in: it inherits only from session globals, not from
// the frame that lexically encloses the comprehension, reproducing the
// reference's split-globals/locals quirk (spec §4.3, §9). The iteration
// source clauses are evaluated against f itself (the enclosing frame),
// never against this one.
func (f *Frame) PushComprehensionScope() *Frame {
	return &Frame{vars: map[string]value.Value{}, parent: f.globals, globals: f.globals}
}

// Get resolves name innermost-first.
func (f *Frame) Get(name string) (value.Value, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name in f itself (never in an ancestor), matching Python's
// assignment-creates-a-local-unless-declared-global semantics — and since
// global/nonlocal are both forbidden (spec §4.2), every assignment target
// always resolves to the innermost frame.
func (f *Frame) Set(name string, v value.Value) {
	f.vars[name] = v
}

// Globals returns the session-globals frame this chain is rooted at.
func (f *Frame) Globals() *Frame { return f.globals }

// Snapshot returns a shallow copy of this frame's own bindings, used by
// package session to build the opaque state summary.
func (f *Frame) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(f.vars))
	for k, v := range f.vars {
		out[k] = v
	}
	return out
}
