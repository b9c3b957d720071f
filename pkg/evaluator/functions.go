package evaluator

import (
	"context"
	"sync"
)

// FunctionDef defines a built-in function.
type FunctionDef struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 for unlimited
	Impl    FunctionImpl
}

// FunctionImpl is the implementation of a function. Arguments arrive
// already reduced to plain values, never sub-trees.
type FunctionImpl func(ctx context.Context, e *Evaluator, args []any) (any, error)

// CustomFunc is the signature of a host-registered function.
type CustomFunc func(ctx context.Context, args ...any) (any, error)

// CustomFunctionDef pairs a host-registered function with its name.
type CustomFunctionDef struct {
	Name string
	Fn   CustomFunc
}

var (
	builtinFunctions     map[string]*FunctionDef
	builtinFunctionsOnce sync.Once
)

// initBuiltinFunctions initializes the built-in function registry.
func initBuiltinFunctions() {
	builtinFunctionsOnce.Do(func() {
		builtinFunctions = map[string]*FunctionDef{
			// Math functions
			"sin":   {Name: "sin", MinArgs: 1, MaxArgs: 1, Impl: fnSin},
			"cos":   {Name: "cos", MinArgs: 1, MaxArgs: 1, Impl: fnCos},
			"tan":   {Name: "tan", MinArgs: 1, MaxArgs: 1, Impl: fnTan},
			"log10": {Name: "log10", MinArgs: 1, MaxArgs: 1, Impl: fnLog10},
			"sqrt":  {Name: "sqrt", MinArgs: 1, MaxArgs: 1, Impl: fnSqrt},
			"abs":   {Name: "abs", MinArgs: 1, MaxArgs: 1, Impl: fnAbs},
			"mod":   {Name: "mod", MinArgs: 2, MaxArgs: 2, Impl: fnMod},

			// Rounding functions; roundTo and round_to are aliases kept
			// for formulas written against older engine releases.
			"floor":    {Name: "floor", MinArgs: 1, MaxArgs: 1, Impl: fnFloor},
			"ceil":     {Name: "ceil", MinArgs: 1, MaxArgs: 1, Impl: fnCeil},
			"round":    {Name: "round", MinArgs: 1, MaxArgs: 2, Impl: fnRound},
			"roundTo":  {Name: "roundTo", MinArgs: 1, MaxArgs: 2, Impl: fnRound},
			"round_to": {Name: "round_to", MinArgs: 1, MaxArgs: 2, Impl: fnRound},

			// Aggregation functions
			"count":   {Name: "count", MinArgs: 0, MaxArgs: -1, Impl: fnCount},
			"sum":     {Name: "sum", MinArgs: 0, MaxArgs: -1, Impl: fnSum},
			"average": {Name: "average", MinArgs: 1, MaxArgs: -1, Impl: fnAverage},
			"max":     {Name: "max", MinArgs: 1, MaxArgs: -1, Impl: fnMax},
			"min":     {Name: "min", MinArgs: 1, MaxArgs: -1, Impl: fnMin},

			// Option record functions
			"raw":         {Name: "raw", MinArgs: 1, MaxArgs: 1, Impl: fnRaw},
			"value":       {Name: "value", MinArgs: 1, MaxArgs: 1, Impl: fnRaw},
			"display_num": {Name: "display_num", MinArgs: 1, MaxArgs: 1, Impl: fnDisplayNum},
			"raw_num":     {Name: "raw_num", MinArgs: 1, MaxArgs: 1, Impl: fnRawNum},

			// Membership and presence predicates
			"includes_any":     {Name: "includes_any", MinArgs: 2, MaxArgs: -1, Impl: fnIncludesAny},
			"includes_all":     {Name: "includes_all", MinArgs: 2, MaxArgs: -1, Impl: fnIncludesAll},
			"does_not_include": {Name: "does_not_include", MinArgs: 2, MaxArgs: -1, Impl: fnDoesNotInclude},
			"has_any_value":    {Name: "has_any_value", MinArgs: 1, MaxArgs: 1, Impl: fnHasAnyValue},
			"has_no_value":     {Name: "has_no_value", MinArgs: 1, MaxArgs: 1, Impl: fnHasNoValue},

			// Date functions
			"age": {Name: "age", MinArgs: 1, MaxArgs: 1, Impl: fnAge},
		}
	})
}

// GetFunction returns a built-in function by name.
func GetFunction(name string) (*FunctionDef, bool) {
	initBuiltinFunctions()
	fn, ok := builtinFunctions[name]
	return fn, ok
}

// FunctionNames returns the names of all built-in functions, for host
// tooling such as formula editors with completion.
func FunctionNames() []string {
	initBuiltinFunctions()
	names := make([]string, 0, len(builtinFunctions))
	for name := range builtinFunctions {
		names = append(names, name)
	}
	return names
}
