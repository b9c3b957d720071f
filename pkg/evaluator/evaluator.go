// Package evaluator implements the formula evaluation engine.
//
// The evaluator receives a parsed abstract syntax tree from the parser
// and reduces it against a read-only scope in a single post-order pass.
// It supports:
//   - Arithmetic, comparison, logical and bitwise operators
//   - Cross-type coercion and equality over form-answer values
//   - A built-in function library plus host-registered functions
//   - Timeout and cancellation via context.Context
//
// # Example
//
//	ev := evaluator.New()
//	result, err := ev.Eval(ctx, expr, scope)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Evaluation is synchronous and purely functional over its inputs: the
// AST and the scope are never mutated, so a compiled expression may be
// evaluated concurrently from multiple goroutines without locking.
package evaluator

import (
	"context"
	"log/slog"
	"time"

	"github.com/sandrolain/goformula/pkg/types"
)

// Evaluator evaluates compiled formulas against scopes.
type Evaluator struct {
	opts      EvalOptions
	logger    *slog.Logger
	customFns map[string]*FunctionDef // host-registered functions
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// MaxDepth limits reduction recursion depth. Exceeding it reports
	// an invalid-operand error instead of exhausting the stack.
	MaxDepth int
	// Timeout bounds a single evaluation. Zero means no timeout.
	Timeout time.Duration
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Clock supplies the current time to date functions. Defaults to
	// time.Now; tests inject a fixed clock.
	Clock func() time.Time
	// Functions holds host-registered functions to add to the library.
	Functions []CustomFunctionDef
}

// DefaultMaxDepth is the reduction depth limit applied when no
// explicit WithMaxDepth option is given.
const DefaultMaxDepth = 10000

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: DefaultMaxDepth,
		Clock:    time.Now,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}

	// Build the host-function lookup map.
	customFns := make(map[string]*FunctionDef, len(options.Functions))
	for _, cfd := range options.Functions {
		cfd := cfd
		customFns[cfd.Name] = &FunctionDef{
			Name:    cfd.Name,
			MinArgs: 0,
			MaxArgs: -1, // unlimited; the implementation validates its own arity
			Impl: func(ctx context.Context, _ *Evaluator, args []any) (any, error) {
				return cfd.Fn(ctx, args...)
			},
		}
	}

	return &Evaluator{
		opts:      options,
		logger:    options.Logger,
		customFns: customFns,
	}
}

// Eval evaluates a compiled expression against a scope and returns the
// computed value or a structured *types.Error. The scope is read-only
// for the duration of the call and may be nil.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression, scope types.Scope) (any, error) {
	if expr == nil || expr.AST() == nil {
		return nil, types.NewError(types.CodeInvalidOperand, "invalid expression", -1)
	}

	// Apply timeout if configured
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating formula", "source", expr.Source(), "scope_keys", len(scope))
	}

	st := &evalState{
		ev:   e,
		root: scope,
	}

	result, err := st.reduce(ctx, expr.AST())
	if err != nil && e.opts.Debug {
		e.logger.Debug("evaluation failed", "source", expr.Source(), "error", err)
	}
	return result, err
}

// getCustomFunction returns a host-registered function by name, or (nil, false).
func (e *Evaluator) getCustomFunction(name string) (*FunctionDef, bool) {
	if len(e.customFns) == 0 {
		return nil, false
	}
	fn, ok := e.customFns[name]
	return fn, ok
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithMaxDepth sets the maximum reduction recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithClock sets the clock used by date functions such as age.
func WithClock(clock func() time.Time) EvalOption {
	return func(opts *EvalOptions) {
		opts.Clock = clock
	}
}

// WithFunction registers a host-defined function with the evaluator.
// The function becomes callable by name from formulas and shadows a
// built-in of the same name. Expression-level function definitions
// remain unsupported.
//
// Example:
//
//	ev := evaluator.New(evaluator.WithFunction("clamp", func(ctx context.Context, args ...any) (any, error) {
//	    ...
//	}))
func WithFunction(name string, fn CustomFunc) EvalOption {
	return func(opts *EvalOptions) {
		opts.Functions = append(opts.Functions, CustomFunctionDef{
			Name: name,
			Fn:   fn,
		})
	}
}
