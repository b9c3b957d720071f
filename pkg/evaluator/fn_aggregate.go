package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/goformula/pkg/types"
)

// collectNumbers flattens nested argument lists and extracts a usable
// number from every element: plain numbers pass, numeric strings
// parse, option records are unwrapped preferring the raw value over
// the display text. A single non-coercible element fails the whole
// aggregation.
func collectNumbers(name string, args []any) (values []float64, allInt bool, err error) {
	allInt = true
	var walk func(v any) error
	walk = func(v any) error {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				if err := walk(item); err != nil {
					return err
				}
			}
			return nil
		}
		f, isInt, ok := numberOf(v)
		if !ok {
			return types.NewError(types.CodeInvalidOperand,
				fmt.Sprintf("%s: element is not a number: %s", name, typeName(v)), -1)
		}
		if !isInt {
			allInt = false
		}
		values = append(values, f)
		return nil
	}

	for _, arg := range args {
		if err := walk(arg); err != nil {
			return nil, false, err
		}
	}
	return values, allInt, nil
}

func fnCount(ctx context.Context, e *Evaluator, args []any) (any, error) {
	values, _, err := collectNumbers("count", args)
	if err != nil {
		return nil, err
	}
	return int64(len(values)), nil
}

// fnSum returns an integer when every element was an integer.
func fnSum(ctx context.Context, e *Evaluator, args []any) (any, error) {
	values, allInt, err := collectNumbers("sum", args)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, v := range values {
		total += v
	}
	if allInt {
		return int64(total), nil
	}
	return total, nil
}

// fnAverage always returns a float.
func fnAverage(ctx context.Context, e *Evaluator, args []any) (any, error) {
	values, _, err := collectNumbers("average", args)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, types.NewError(types.CodeInvalidOperand, "average of no values", -1)
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values)), nil
}

func fnMax(ctx context.Context, e *Evaluator, args []any) (any, error) {
	return extremum("max", args, func(a, b float64) bool { return a > b })
}

func fnMin(ctx context.Context, e *Evaluator, args []any) (any, error) {
	return extremum("min", args, func(a, b float64) bool { return a < b })
}

func extremum(name string, args []any, better func(a, b float64) bool) (any, error) {
	values, allInt, err := collectNumbers(name, args)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, types.NewError(types.CodeInvalidOperand, name+" of no values", -1)
	}
	best := values[0]
	for _, v := range values[1:] {
		if better(v, best) {
			best = v
		}
	}
	if allInt {
		return int64(best), nil
	}
	return best, nil
}
