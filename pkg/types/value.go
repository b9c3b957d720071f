// Package types defines the core type system for goformula.
//
// This package contains type definitions for:
//   - Expression: compiled formulas
//   - ASTNode: abstract syntax tree nodes
//   - Option: structured form-answer values
//   - Error: structured errors with discriminated codes
package types

// Runtime values are plain Go values drawn from a closed set:
//
//	int64    Integer
//	float64  Float
//	bool     Boolean
//	nil      Null
//	string   String
//	Option   option record
//	[]any    List
//
// Numbers keep the integer/float distinction through evaluation:
// division and power always produce float64, while add, subtract and
// multiply stay int64 only when both operands are int64.

// Option is a selectable form answer: the text shown to the respondent
// plus the underlying raw value the host assigned to that choice.
// Option values enter evaluation only through the scope; there is no
// literal syntax for them.
type Option struct {
	Display string // display_text
	Raw     any    // raw_value
}

// Scope is the read-only name-to-value mapping a formula is evaluated
// against. Keys are flat names: dots and hyphens inside a key are
// literal characters, not traversal syntax, so "a.b.c" is one entry.
type Scope = map[string]any
