package evaluator

import (
	"context"
	"fmt"
	"math"

	"github.com/sandrolain/goformula/pkg/types"
)

// strictNumber validates a math-function argument. Math functions take
// real numbers only; numeric strings are not coerced here.
func strictNumber(name string, v any) (float64, error) {
	f, ok := asNumber(v)
	if !ok {
		return 0, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("%s expects a number, got %s", name, typeName(v)), -1)
	}
	return f, nil
}

func fnSin(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("sin", args[0])
	if err != nil {
		return nil, err
	}
	return math.Sin(f), nil
}

func fnCos(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("cos", args[0])
	if err != nil {
		return nil, err
	}
	return math.Cos(f), nil
}

func fnTan(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("tan", args[0])
	if err != nil {
		return nil, err
	}
	return math.Tan(f), nil
}

func fnLog10(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("log10", args[0])
	if err != nil {
		return nil, err
	}
	if f <= 0 {
		return nil, types.NewError(types.CodeInvalidOperand, "log10 of a non-positive number", -1)
	}
	return math.Log10(f), nil
}

func fnSqrt(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("sqrt", args[0])
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return nil, types.NewError(types.CodeInvalidOperand, "sqrt of a negative number", -1)
	}
	return math.Sqrt(f), nil
}

// fnAbs preserves the integer/float distinction of its argument.
func fnAbs(ctx context.Context, e *Evaluator, args []any) (any, error) {
	if n, ok := args[0].(int64); ok {
		if n < 0 {
			return -n, nil
		}
		return n, nil
	}
	f, err := strictNumber("abs", args[0])
	if err != nil {
		return nil, err
	}
	return math.Abs(f), nil
}

// fnMod stays integer when both arguments are integers.
func fnMod(ctx context.Context, e *Evaluator, args []any) (any, error) {
	if a, ok := args[0].(int64); ok {
		if b, ok := args[1].(int64); ok {
			if b == 0 {
				return nil, types.NewError(types.CodeInvalidOperand, "mod by zero", -1)
			}
			return a % b, nil
		}
	}
	a, err := strictNumber("mod", args[0])
	if err != nil {
		return nil, err
	}
	b, err := strictNumber("mod", args[1])
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, types.NewError(types.CodeInvalidOperand, "mod by zero", -1)
	}
	return math.Mod(a, b), nil
}

// fnFloor truncates toward negative infinity to an integer result.
func fnFloor(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("floor", args[0])
	if err != nil {
		return nil, err
	}
	return intFromFloat("floor", math.Floor(f))
}

func fnCeil(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("ceil", args[0])
	if err != nil {
		return nil, err
	}
	return intFromFloat("ceil", math.Ceil(f))
}

// fnRound rounds half away from zero. The one-argument form returns an
// integer; the two-argument form rounds to N decimal digits and
// returns a float. N itself is coerced from a number or numeric string
// by truncation.
func fnRound(ctx context.Context, e *Evaluator, args []any) (any, error) {
	f, err := strictNumber("round", args[0])
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		return intFromFloat("round", math.Round(f))
	}

	digits, err := truncatedDigits(args[1])
	if err != nil {
		return nil, err
	}
	// An extreme digit count overflows the shift to Inf or underflows
	// it to 0, turning the quotient into NaN. Results are values, never
	// NaN or Inf.
	shift := math.Pow(10, float64(digits))
	r := math.Round(f*shift) / shift
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("round digit count %d out of range", digits), -1)
	}
	return r, nil
}

// intFromFloat converts a whole-valued float to int64, rejecting
// values the int64 range cannot hold. The conversion of an
// out-of-range float64 is implementation-defined, so it is never
// reached.
func intFromFloat(name string, f float64) (any, error) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("%s result out of integer range", name), -1)
	}
	return int64(f), nil
}

// truncatedDigits coerces the decimal-digit count of round from a
// number or numeric string, truncating any fractional part.
func truncatedDigits(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(math.Trunc(n)), nil
	case string:
		if f, ok := parseNumericString(n); ok {
			return int64(math.Trunc(f)), nil
		}
	}
	return 0, types.NewError(types.CodeInvalidOperand,
		fmt.Sprintf("round expects a numeric digit count, got %s", typeName(v)), -1)
}
