// Package parser implements the formula front end: a hand-written
// lexer and a top-down operator precedence (Pratt) parser producing
// the AST evaluated by pkg/evaluator.
//
// # Architecture
//
//   - Lexer: tokenizes the formula into a stream of tokens
//   - Parser: builds an abstract syntax tree from the tokens
//
// Parsing fails fast: the first unmatched bracket, missing operand or
// trailing token aborts with a positioned error. There is no recovery.
//
// # Example
//
//	expr, err := parser.Parse(`total > 100 && status == "open"`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"github.com/sandrolain/goformula/pkg/types"
)

// Parse parses a formula and returns the compiled Expression.
//
// The function tokenizes the input, builds an AST, and validates the
// syntax. If parsing fails, it returns a *types.Error with position
// information.
func Parse(source string) (*types.Expression, error) {
	p := NewParser(source)
	return p.Parse()
}

// Compile is an alias for Parse, provided for API consistency.
func Compile(source string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits expression nesting to convert stack exhaustion on
	// adversarial input into a reported syntax error.
	MaxDepth int
}

// DefaultMaxDepth is the nesting limit applied when no explicit
// WithMaxDepth option is given.
const DefaultMaxDepth = 100

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
