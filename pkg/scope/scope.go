// Package scope builds evaluation scopes from host data.
//
// A scope is a flat, read-only name-to-value mapping. Hosts that hold
// form answers as JSON documents can ingest them directly with
// FromJSON; everything else can assemble a plain map[string]any by
// hand, since scope values are ordinary Go values.
package scope

import (
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/sandrolain/goformula/pkg/types"
)

// FromJSON parses a JSON object into an evaluation scope.
//
// Mapping rules:
//   - JSON integers become int64, other numbers float64 — the engine's
//     integer/float distinction starts here
//   - objects shaped {"display_text": ..., "raw_value": ...} become
//     option records
//   - arrays become lists; nulls, booleans and strings map directly
//   - any other object is rejected: scope keys are flat names and
//     nested documents have no meaning to the engine
func FromJSON(data []byte) (types.Scope, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse scope json: %w", err)
	}

	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("scope json must be an object: %w", err)
	}

	out := make(types.Scope, obj.Len())
	var visitErr error
	obj.Visit(func(key []byte, item *fastjson.Value) {
		if visitErr != nil {
			return
		}
		val, err := convertValue(item)
		if err != nil {
			visitErr = fmt.Errorf("scope key %q: %w", key, err)
			return
		}
		out[string(key)] = val
	})
	if visitErr != nil {
		return nil, visitErr
	}
	return out, nil
}

// Merge layers overlays over a base scope, later maps winning on key
// collisions. The inputs are not modified.
func Merge(base types.Scope, overlays ...types.Scope) types.Scope {
	out := make(types.Scope, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, overlay := range overlays {
		for k, v := range overlay {
			out[k] = v
		}
	}
	return out
}

func convertValue(v *fastjson.Value) (any, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case fastjson.TypeNumber:
		// Int64 succeeds only for integer syntax, so "3.0" stays a float.
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		return v.Float64()
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			converted, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case fastjson.TypeObject:
		return convertObject(v)
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type())
	}
}

// convertObject accepts only the option-record shape. Other objects
// are rejected rather than flattened: a nested document would silently
// shadow the flat-key semantics of scope lookups.
func convertObject(v *fastjson.Value) (any, error) {
	obj, err := v.Object()
	if err != nil {
		return nil, err
	}

	display := v.Get("display_text")
	raw := v.Get("raw_value")
	if display == nil || raw == nil || obj.Len() != 2 {
		return nil, fmt.Errorf("object is not an option record (want exactly display_text and raw_value)")
	}

	displayText, err := display.StringBytes()
	if err != nil {
		return nil, fmt.Errorf("display_text must be a string: %w", err)
	}
	rawValue, err := convertValue(raw)
	if err != nil {
		return nil, fmt.Errorf("raw_value: %w", err)
	}

	return types.Option{
		Display: string(displayText),
		Raw:     rawValue,
	}, nil
}
