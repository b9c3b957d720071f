package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/goformula/pkg/types"
)

// fnRaw recursively extracts raw values: option records unwrap to
// their raw value, lists unwrap elementwise, scalars pass through.
// "value" is an alias.
func fnRaw(ctx context.Context, e *Evaluator, args []any) (any, error) {
	return rawOf(args[0]), nil
}

func rawOf(v any) any {
	switch val := v.(type) {
	case types.Option:
		return rawOf(val.Raw)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = rawOf(item)
		}
		return out
	default:
		return v
	}
}

// fnDisplayNum extracts the display text of an option record and
// coerces it to a number. Plain values coerce directly.
func fnDisplayNum(ctx context.Context, e *Evaluator, args []any) (any, error) {
	v := args[0]
	if opt, ok := v.(types.Option); ok {
		v = opt.Display
	}
	return coerceToNumber("display_num", v)
}

// fnRawNum extracts the raw value of an option record and coerces it
// to a number. Plain values coerce directly.
func fnRawNum(ctx context.Context, e *Evaluator, args []any) (any, error) {
	v := args[0]
	if opt, ok := v.(types.Option); ok {
		v = opt.Raw
	}
	return coerceToNumber("raw_num", v)
}

func coerceToNumber(name string, v any) (any, error) {
	switch n := v.(type) {
	case int64, float64:
		return n, nil
	case string:
		if f, ok := parseNumericString(n); ok {
			return f, nil
		}
	}
	return nil, types.NewError(types.CodeInvalidOperand,
		fmt.Sprintf("%s: not a number: %s", name, typeName(v)), -1)
}

// asItems treats a scalar as a one-element collection so the
// membership predicates work uniformly over single-select and
// multi-select answers.
func asItems(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

// contains reports whether any element of haystack equals needle under
// the cross-type equality rules; option records on either side are
// normalized by valuesEqual.
func contains(haystack []any, needle any) bool {
	for _, item := range haystack {
		if valuesEqual(item, needle) {
			return true
		}
	}
	return false
}

// fnIncludesAny reports whether the first argument contains at least
// one of the remaining values.
func fnIncludesAny(ctx context.Context, e *Evaluator, args []any) (any, error) {
	haystack := asItems(args[0])
	for _, arg := range args[1:] {
		for _, needle := range asItems(arg) {
			if contains(haystack, needle) {
				return true, nil
			}
		}
	}
	return false, nil
}

// fnIncludesAll reports whether the first argument contains every one
// of the remaining values.
func fnIncludesAll(ctx context.Context, e *Evaluator, args []any) (any, error) {
	haystack := asItems(args[0])
	for _, arg := range args[1:] {
		for _, needle := range asItems(arg) {
			if !contains(haystack, needle) {
				return false, nil
			}
		}
	}
	return true, nil
}

// fnDoesNotInclude reports whether the first argument contains none of
// the remaining values.
func fnDoesNotInclude(ctx context.Context, e *Evaluator, args []any) (any, error) {
	included, err := fnIncludesAny(ctx, e, args)
	if err != nil {
		return nil, err
	}
	return !included.(bool), nil
}

// fnHasAnyValue reports whether an answer is present: null, the empty
// string and the empty list count as absent; an option record always
// counts as present; anything else is present.
func fnHasAnyValue(ctx context.Context, e *Evaluator, args []any) (any, error) {
	return hasValue(args[0]), nil
}

func fnHasNoValue(ctx context.Context, e *Evaluator, args []any) (any, error) {
	return !hasValue(args[0]), nil
}

func hasValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case types.Option:
		return true
	default:
		return true
	}
}
