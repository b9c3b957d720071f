// Package goformula is a small embedded expression language for
// business-rule formulas evaluated against form-like answers.
//
// Callers supply a formula string plus a data scope and receive a
// single computed value or a structured error — never a panic.
// Formulas cover arithmetic, comparisons, boolean logic, bitwise
// operators, a ternary conditional and a library of domain functions,
// with cross-type coercion tuned for form answers (plain scalars or
// {display_text, raw_value} option records).
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := goformula.Evaluate("price * quantity", scope)
//
//	// Compile once, evaluate many times
//	expr, err := goformula.Compile(`bmi >= 25 && includes_any(symptoms, "fatigue")`)
//	ev := evaluator.New()
//	result1, _ := ev.Eval(ctx, expr, scope1)
//	result2, _ := ev.Eval(ctx, expr, scope2)
//
// # Semantics worth knowing
//
//   - Integers stay integers through + - *; / and ^ always yield floats.
//   - Scope keys are flat: "a.b.c" is one key, not a traversal path.
//   - Index expressions resolve names against the top-level scope:
//     in list[a], a is a top-level scope key.
//   - Both branches of a ternary are evaluated before one is chosen;
//     an error in the unused branch fails the expression.
//
// # Errors
//
// Every failure is a *types.Error with a discriminated code: syntax,
// invalid-operand, missing-key or missing-index. Whether a failed
// evaluation means "rule is false" or "hard error" is host policy.
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/goformula/pkg/parser
//   - Evaluator: github.com/sandrolain/goformula/pkg/evaluator
//   - Scope helpers: github.com/sandrolain/goformula/pkg/scope
//   - Types: github.com/sandrolain/goformula/pkg/types
package goformula

import (
	"context"
	"fmt"

	"github.com/sandrolain/goformula/pkg/evaluator"
	"github.com/sandrolain/goformula/pkg/parser"
	"github.com/sandrolain/goformula/pkg/types"
)

// Version returns the current version of goformula.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles a formula for repeated evaluation.
//
// The compiled expression can be evaluated multiple times against
// different scopes and is safe for concurrent use. Caching compiled
// expressions for repeatedly-evaluated formula text is the caller's
// concern.
func Compile(source string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(source, opts...)
}

// Evaluate compiles and evaluates a formula in a single call.
//
// For repeated evaluations of the same formula, use Compile instead.
// Only evaluator options thread through here; compilation runs with
// the parser defaults. To apply parser.CompileOption (or a full
// pkg/config Config), use Compile plus evaluator.Eval, or
// config.Config.Evaluate.
//
// Example:
//
//	result, err := goformula.Evaluate("sum(q1, q2) > 10", scope)
func Evaluate(source string, scope types.Scope, opts ...evaluator.EvalOption) (any, error) {
	return EvaluateWithContext(context.Background(), source, scope, opts...)
}

// EvaluateWithContext evaluates a formula with a custom context.
// Cancellation is observed between reduction steps and surfaces as an
// invalid-operand error. Like Evaluate, compilation runs with the
// parser defaults.
func EvaluateWithContext(ctx context.Context, source string, scope types.Scope, opts ...evaluator.EvalOption) (any, error) {
	expr, err := parser.Compile(source)
	if err != nil {
		return nil, err
	}

	ev := evaluator.New(opts...)
	return ev.Eval(ctx, expr, scope)
}

// MustCompile is like Compile but panics if the formula cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(source string) *types.Expression {
	expr, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("goformula: Compile(%q): %v", source, err))
	}
	return expr
}
