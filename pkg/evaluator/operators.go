package evaluator

import (
	"fmt"
	"math"

	"github.com/sandrolain/goformula/pkg/types"
)

// factorialMax is the largest operand whose factorial fits in int64.
const factorialMax = 20

// evalBinary applies a binary operator to two already-reduced values.
// Any operand combination without a rule falls through to an
// invalid-operand error; there is no reflective type probing.
func evalBinary(node *types.ASTNode, left, right any) (any, error) {
	op := node.Value.(string)

	switch op {
	case "+", "-", "*":
		// Integer arithmetic stays integer only when both operands are.
		if li, lok := left.(int64); lok {
			if ri, rok := right.(int64); rok {
				switch op {
				case "+":
					return li + ri, nil
				case "-":
					return li - ri, nil
				case "*":
					return li * ri, nil
				}
			}
		}
		lf, rf, err := numericOperands(node, op, left, right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "+":
			return lf + rf, nil
		case "-":
			return lf - rf, nil
		default:
			return lf * rf, nil
		}

	case "/":
		// Division always produces a float, integer operands included.
		lf, rf, err := numericOperands(node, op, left, right)
		if err != nil {
			return nil, err
		}
		if rf == 0 {
			return nil, types.NewError(types.CodeInvalidOperand, "division by zero", node.Position)
		}
		return lf / rf, nil

	case "^":
		// Power always produces a float.
		lf, rf, err := numericOperands(node, op, left, right)
		if err != nil {
			return nil, err
		}
		r := math.Pow(lf, rf)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, types.NewError(types.CodeInvalidOperand, "power result out of range", node.Position)
		}
		return r, nil

	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil
	case "<":
		return compareValues(left, right) < 0, nil
	case "<=":
		return compareValues(left, right) <= 0, nil
	case ">":
		return compareValues(left, right) > 0, nil
	case ">=":
		return compareValues(left, right) >= 0, nil

	case "&&", "||":
		// Logical operands must already be booleans; nothing coerces here.
		lb, lok := left.(bool)
		rb, rok := right.(bool)
		if !lok {
			return nil, operandError(node, op, left)
		}
		if !rok {
			return nil, operandError(node, op, right)
		}
		if op == "&&" {
			return lb && rb, nil
		}
		return lb || rb, nil

	case "&", "|", "|^", "<<", ">>":
		li, err := coerceInt(left)
		if err != nil {
			return nil, operandError(node, op, left)
		}
		ri, err := coerceInt(right)
		if err != nil {
			return nil, operandError(node, op, right)
		}
		switch op {
		case "&":
			return li & ri, nil
		case "|":
			return li | ri, nil
		case "|^":
			return li ^ ri, nil
		case "<<", ">>":
			if ri < 0 {
				return nil, types.NewError(types.CodeInvalidOperand,
					fmt.Sprintf("negative shift count %d", ri), node.Position)
			}
			if op == "<<" {
				return li << uint(ri), nil
			}
			return li >> uint(ri), nil
		}
	}

	return nil, types.NewError(types.CodeInvalidOperand,
		fmt.Sprintf("unsupported binary operator: %s", op), node.Position)
}

// evalUnary applies a prefix operator to an already-reduced value.
func evalUnary(node *types.ASTNode, operand any) (any, error) {
	op := node.Value.(string)

	switch op {
	case "-":
		switch n := operand.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, operandError(node, op, operand)

	case "+":
		if _, ok := asNumber(operand); ok {
			return operand, nil
		}
		return nil, operandError(node, op, operand)

	case "~":
		n, err := coerceInt(operand)
		if err != nil {
			return nil, operandError(node, op, operand)
		}
		return ^n, nil

	case "not":
		b, ok := operand.(bool)
		if !ok {
			return nil, operandError(node, op, operand)
		}
		return !b, nil
	}

	return nil, types.NewError(types.CodeInvalidOperand,
		fmt.Sprintf("unsupported unary operator: %s", op), node.Position)
}

// evalFactorial applies the postfix ! operator. The operand must be a
// non-negative integral number; the result is an integer.
func evalFactorial(node *types.ASTNode, operand any) (any, error) {
	n, err := coerceIntegralNumber(operand)
	if err != nil || n < 0 {
		return nil, operandError(node, "!", operand)
	}
	if n > factorialMax {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("factorial of %d overflows", n), node.Position)
	}

	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return result, nil
}

// coerceIntegralNumber accepts an int64 or an integral float64.
// Unlike coerceInt it does not parse strings: factorial operands must
// already be numbers.
func coerceIntegralNumber(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n), nil
		}
	}
	return 0, errNotIntegral
}

// numericOperands validates both operands of an arithmetic operator.
func numericOperands(node *types.ASTNode, op string, left, right any) (float64, float64, error) {
	lf, ok := asNumber(left)
	if !ok {
		return 0, 0, operandError(node, op, left)
	}
	rf, ok := asNumber(right)
	if !ok {
		return 0, 0, operandError(node, op, right)
	}
	return lf, rf, nil
}

func operandError(node *types.ASTNode, op string, v any) error {
	return types.NewError(types.CodeInvalidOperand,
		fmt.Sprintf("invalid operand for %s: %s", op, typeName(v)), node.Position)
}
