package session

import "github.com/stealthinu/rlmsandbox/eval"

// DefaultLimits returns the resource ceilings of spec §4.5's table. Package
// eval owns the struct and the numbers (it is the component that enforces
// them at each step), but session is the layer callers configure limits
// through — the CLI's flags and an Execute request's max_output_chars
// override both flow through this package, so the re-export keeps callers
// from needing to import package eval just to read a default.
func DefaultLimits() eval.Limits {
	return eval.DefaultLimits()
}
