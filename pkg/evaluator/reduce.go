package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/goformula/pkg/types"
)

// evalState carries the per-call evaluation state: the evaluator, the
// root scope and the recursion depth. The root scope is the scope
// passed to the outermost Eval call; index sub-expressions always
// resolve against it, regardless of how deep the enclosing access
// chain has descended.
type evalState struct {
	ev    *Evaluator
	root  types.Scope
	depth int
}

// reduce performs one post-order pass over the subtree rooted at node.
//
// Children are reduced left to right; the first child error aborts the
// remaining siblings and propagates immediately. Once all children
// have been reduced, the node's own rule runs on the plain values.
// Access chains are the one exception: they are resolved step by step
// by evalAccess, which re-enters reduce for each index sub-expression
// so that those resolve against the root scope.
func (s *evalState) reduce(ctx context.Context, node *types.ASTNode) (any, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.ev.opts.MaxDepth > 0 && s.depth > s.ev.opts.MaxDepth {
		return nil, types.NewError(types.CodeInvalidOperand, "evaluation depth exceeded", node.Position)
	}

	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.CodeInvalidOperand, "evaluation canceled", node.Position).WithCause(err)
	}

	switch node.Type {
	case types.NodeNumber, types.NodeBoolean:
		return node.Value, nil

	case types.NodeString:
		return node.StrValue, nil

	case types.NodeNull:
		return nil, nil

	case types.NodeAccess:
		return s.evalAccess(ctx, node)

	case types.NodeBinary:
		left, err := s.reduce(ctx, node.LHS)
		if err != nil {
			return nil, err
		}
		right, err := s.reduce(ctx, node.RHS)
		if err != nil {
			return nil, err
		}
		return evalBinary(node, left, right)

	case types.NodeUnary:
		operand, err := s.reduce(ctx, node.LHS)
		if err != nil {
			return nil, err
		}
		return evalUnary(node, operand)

	case types.NodePostfix:
		operand, err := s.reduce(ctx, node.LHS)
		if err != nil {
			return nil, err
		}
		return evalFactorial(node, operand)

	case types.NodeCondition:
		// Both branches are ordinary children of the fold and are
		// reduced unconditionally: an error in the branch that ends up
		// unused still fails the whole expression. Existing formulas
		// depend on this, so it is kept as-is.
		cond, err := s.reduce(ctx, node.LHS)
		if err != nil {
			return nil, err
		}
		thenVal, err := s.reduce(ctx, node.RHS)
		if err != nil {
			return nil, err
		}
		elseVal, err := s.reduce(ctx, node.Else)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(bool)
		if !ok {
			return nil, types.NewError(types.CodeInvalidOperand,
				fmt.Sprintf("condition must be a boolean, got %s", typeName(cond)), node.Position)
		}
		if b {
			return thenVal, nil
		}
		return elseVal, nil

	case types.NodeFunction:
		return s.evalFunction(ctx, node)

	default:
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("unexpected node: %s", node.Type), node.Position)
	}
}

// evalFunction reduces every argument left to right, then dispatches
// to a host-registered or built-in function by name.
func (s *evalState) evalFunction(ctx context.Context, node *types.ASTNode) (any, error) {
	fnDef, ok := s.ev.getCustomFunction(node.StrValue)
	if !ok {
		fnDef, ok = GetFunction(node.StrValue)
	}
	if !ok {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("unknown function: %s", node.StrValue), node.Position)
	}

	args := make([]any, 0, len(node.Arguments))
	for _, argNode := range node.Arguments {
		arg, err := s.reduce(ctx, argNode)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if len(args) < fnDef.MinArgs {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("function %s requires at least %d arguments, got %d", node.StrValue, fnDef.MinArgs, len(args)), node.Position)
	}
	if fnDef.MaxArgs != -1 && len(args) > fnDef.MaxArgs {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("function %s accepts at most %d arguments, got %d", node.StrValue, fnDef.MaxArgs, len(args)), node.Position)
	}

	return fnDef.Impl(ctx, s.ev, args)
}
