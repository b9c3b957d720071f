package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/goformula/pkg/types"
)

// evalAccess resolves an access chain step by step.
//
// The leading name step looks up its literal key in the scope — keys
// with embedded dots or hyphens are single flat names, never traversal
// paths. Each index step reduces its sub-expression via s.reduce, so
// names inside it resolve against the root scope and not against the
// value the chain has descended to: in list[a], a is looked up in the
// top-level scope even when list was itself reached through several
// indexes.
func (s *evalState) evalAccess(ctx context.Context, node *types.ASTNode) (any, error) {
	var current any

	for i, step := range node.Steps {
		switch step.Type {
		case types.NodeName:
			if i != 0 {
				// The grammar only produces name-first chains.
				return nil, types.NewError(types.CodeInvalidOperand,
					"misplaced name step in access chain", step.Position)
			}
			v, ok := s.root[step.StrValue]
			if !ok {
				return nil, types.NewError(types.CodeMissingKey,
					fmt.Sprintf("no value for %q in scope", step.StrValue), step.Position).WithToken(step.StrValue)
			}
			current = v

		case types.NodeIndex:
			idxVal, err := s.reduce(ctx, step.LHS)
			if err != nil {
				return nil, err
			}
			idx, err := coerceInt(idxVal)
			if err != nil {
				return nil, types.NewError(types.CodeInvalidOperand,
					fmt.Sprintf("index must be an integer, got %s", typeName(idxVal)), step.Position)
			}

			list, ok := current.([]any)
			if !ok {
				return nil, types.NewError(types.CodeInvalidOperand,
					fmt.Sprintf("cannot index into %s", typeName(current)), step.Position)
			}
			if idx < 0 || idx >= int64(len(list)) {
				return nil, types.NewError(types.CodeMissingIndex,
					fmt.Sprintf("index %d out of range for list of %d", idx, len(list)), step.Position)
			}
			current = list[idx]

		default:
			return nil, types.NewError(types.CodeInvalidOperand,
				fmt.Sprintf("unexpected access step: %s", step.Type), step.Position)
		}
	}

	return current, nil
}
