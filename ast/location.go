// Package ast defines the syntax tree produced by the parser: statement and
// expression node types, source locations, and the closed error-kind
// universe shared by the parser and the allowlist validator.
package ast

import "fmt"

// Location records a position in source code, the way the teacher's own
// ast.Location does: a byte offset isn't enough on its own for user-facing
// messages, so row/col plus the original text fragment travel together.
type Location struct {
	Text []byte `json:"-"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// NewLocation returns a new Location.
func NewLocation(text []byte, row, col int) *Location {
	return &Location{Text: text, Row: row, Col: col}
}

func (loc *Location) String() string {
	if loc == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", loc.Row, loc.Col)
}
