package goformula_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goformula"
	"github.com/sandrolain/goformula/pkg/evaluator"
	"github.com/sandrolain/goformula/pkg/types"
)

func TestEvaluate(t *testing.T) {
	scope := types.Scope{
		"q1":       int64(7),
		"q2":       int64(5),
		"symptoms": []any{types.Option{Display: "fatigue", Raw: int64(1)}},
	}

	result, err := goformula.Evaluate("sum(q1, q2) > 10", scope)
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = goformula.Evaluate(`includes_any(symptoms, "fatigue") ? q1 * 2 : 0`, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(14), result)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := goformula.Evaluate("1 +", nil)
	assert.Equal(t, types.CodeSyntax, types.CodeOf(err))

	_, err = goformula.Evaluate("unknown_var", nil)
	assert.Equal(t, types.CodeMissingKey, types.CodeOf(err))

	_, err = goformula.Evaluate(`"a" * 2`, nil)
	assert.Equal(t, types.CodeInvalidOperand, types.CodeOf(err))
}

func TestCompileReuse(t *testing.T) {
	expr, err := goformula.Compile("x + 1")
	require.NoError(t, err)
	assert.Equal(t, "x + 1", expr.Source())

	ev := evaluator.New()
	for i := int64(0); i < 3; i++ {
		result, err := ev.Eval(context.Background(), expr, types.Scope{"x": i})
		require.NoError(t, err)
		assert.Equal(t, i+1, result)
	}
}

func TestMustCompile(t *testing.T) {
	expr := goformula.MustCompile("1 + 1")
	require.NotNil(t, expr)

	assert.Panics(t, func() {
		goformula.MustCompile("1 +")
	})
}

func TestEvaluateWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := goformula.EvaluateWithContext(ctx, "1 + 1", nil)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, goformula.Version())
}
