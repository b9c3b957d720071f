package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goformula/pkg/types"
)

func TestFromYAML(t *testing.T) {
	c, err := FromYAML([]byte(`
max_parse_depth: 50
max_eval_depth: 2000
timeout: 250ms
`))
	require.NoError(t, err)
	assert.Equal(t, 50, c.MaxParseDepth)
	assert.Equal(t, 2000, c.MaxEvalDepth)
	assert.Equal(t, "250ms", c.Timeout)
}

func TestFromJSON(t *testing.T) {
	c, err := FromJSON([]byte(`{"max_eval_depth": 500}`))
	require.NoError(t, err)
	assert.Equal(t, 0, c.MaxParseDepth)
	assert.Equal(t, 500, c.MaxEvalDepth)
	assert.Empty(t, c.Timeout)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative parse depth", "max_parse_depth: -1"},
		{"negative eval depth", "max_eval_depth: -5"},
		{"bad timeout", "timeout: soon"},
		{"negative timeout", "timeout: -1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("max_eval_depth: 123"), 0o644))

	c, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 123, c.MaxEvalDepth)

	jsonPath := filepath.Join(dir, "engine.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"timeout": "1s"}`), 0o644))

	c, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "1s", c.Timeout)

	_, err = Load(filepath.Join(dir, "engine.toml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	// defaults imply no explicit options
	assert.Empty(t, Default().ParserOptions())
	assert.Empty(t, Default().EvalOptions())

	c := Config{MaxParseDepth: 10, MaxEvalDepth: 100, Timeout: "1s"}
	assert.Len(t, c.ParserOptions(), 1)
	assert.Len(t, c.EvalOptions(), 2)
}

func TestEvaluateAppliesBothLimits(t *testing.T) {
	ctx := context.Background()
	deep := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)

	// the parse-side limit applies, unlike the one-shot facade which
	// only threads evaluator options
	_, err := Config{MaxParseDepth: 5}.Evaluate(ctx, deep, nil)
	require.Error(t, err)
	assert.Equal(t, types.CodeSyntax, types.CodeOf(err))

	result, err := Config{MaxParseDepth: 50}.Evaluate(ctx, deep, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result)

	// the eval-side limit applies to the same call
	_, err = Config{MaxEvalDepth: 3}.Evaluate(ctx, "1+2+3+4+5+6", nil)
	require.Error(t, err)
	assert.Equal(t, types.CodeInvalidOperand, types.CodeOf(err))

	result, err = Config{}.Evaluate(ctx, "sum(1, 2, 3)", types.Scope{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), result)
}
