// Package config loads engine limits from deployment configuration.
//
// Hosts embedding the engine typically pin parse and evaluation depth
// limits, and optionally a per-evaluation timeout, in a YAML or JSON
// file alongside the rest of their deploy config. Missing keys fall
// back to the engine defaults; nonsense values are rejected at load
// time rather than surfacing as confusing evaluation errors later.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/goformula/pkg/evaluator"
	"github.com/sandrolain/goformula/pkg/parser"
	"github.com/sandrolain/goformula/pkg/types"
)

// Config holds engine limits.
type Config struct {
	// MaxParseDepth bounds expression nesting during parsing.
	// Zero means the parser default.
	MaxParseDepth int `yaml:"max_parse_depth" json:"max_parse_depth"`
	// MaxEvalDepth bounds reduction recursion during evaluation.
	// Zero means the evaluator default.
	MaxEvalDepth int `yaml:"max_eval_depth" json:"max_eval_depth"`
	// Timeout bounds a single evaluation, e.g. "250ms". Empty means none.
	Timeout string `yaml:"timeout" json:"timeout"`
}

// Default returns a Config that keeps every engine default.
func Default() Config {
	return Config{}
}

// Load reads a config file, auto-detecting the format by extension.
// Supported extensions: .yaml, .yml, .json
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return c, c.validate()
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.MaxParseDepth < 0 {
		return fmt.Errorf("max_parse_depth must not be negative, got %d", c.MaxParseDepth)
	}
	if c.MaxEvalDepth < 0 {
		return fmt.Errorf("max_eval_depth must not be negative, got %d", c.MaxEvalDepth)
	}
	if _, err := c.timeout(); err != nil {
		return err
	}
	return nil
}

func (c Config) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parse timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", d)
	}
	return d, nil
}

// ParserOptions returns the compile options this config implies.
func (c Config) ParserOptions() []parser.CompileOption {
	var opts []parser.CompileOption
	if c.MaxParseDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(c.MaxParseDepth))
	}
	return opts
}

// EvalOptions returns the evaluator options this config implies.
func (c Config) EvalOptions() []evaluator.EvalOption {
	var opts []evaluator.EvalOption
	if c.MaxEvalDepth > 0 {
		opts = append(opts, evaluator.WithMaxDepth(c.MaxEvalDepth))
	}
	if d, err := c.timeout(); err == nil && d > 0 {
		opts = append(opts, evaluator.WithTimeout(d))
	}
	return opts
}

// Evaluate compiles and evaluates a formula under this config's
// limits, applying both the parse-side and eval-side options. The
// one-shot goformula.Evaluate facade only threads evaluator options,
// so configured hosts go through here (or compile and evaluate
// separately).
func (c Config) Evaluate(ctx context.Context, source string, scope types.Scope) (any, error) {
	expr, err := parser.Compile(source, c.ParserOptions()...)
	if err != nil {
		return nil, err
	}

	ev := evaluator.New(c.EvalOptions()...)
	return ev.Eval(ctx, expr, scope)
}
