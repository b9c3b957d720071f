package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sandrolain/goformula/pkg/types"
)

// asNumber returns the numeric value of a strict number operand.
// Strings are not numbers here: arithmetic requires real numbers, and
// the callers that accept numeric strings go through numberOf instead.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// parseNumericString parses a numeric-looking string. Surrounding
// whitespace is tolerated; anything else is not.
func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// numberOf extracts a usable number from a form-answer value: plain
// numbers pass through, numeric strings parse, and option records are
// unwrapped preferring the raw value and falling back to the display
// text. Used by the aggregation functions and numeric extractors.
func numberOf(v any) (f float64, isInt bool, ok bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true, true
	case float64:
		return n, false, true
	case string:
		if f, ok := parseNumericString(n); ok {
			if _, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				return f, true, true
			}
			return f, false, true
		}
	case types.Option:
		if f, isInt, ok := numberOf(n.Raw); ok {
			return f, isInt, ok
		}
		return numberOf(n.Display)
	}
	return 0, false, false
}

var errNotIntegral = errors.New("not an integral number")

// coerceInt converts a value to an integer for bitwise operators and
// positional indexing: integers pass, integral floats truncate losslessly,
// numeric strings parse. Non-integral floats are rejected.
func coerceInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n), nil
		}
	case string:
		if f, ok := parseNumericString(n); ok && f == math.Trunc(f) {
			return int64(f), nil
		}
	}
	return 0, errNotIntegral
}

// formatNumber renders a number the way the equality fallback expects:
// integers without a decimal point, floats in plain decimal notation.
func formatNumber(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// valuesEqual implements the cross-type equality matrix. The rules are
// reflexive and symmetric but intentionally not transitive across
// mixed representations; deployed formulas depend on them exactly as
// they stand, so none of the special cases may be "corrected".
//
//   - same representational family: native comparison
//   - numeric string vs number: parse and compare numerically; an
//     unparsable string equals a number only when it matches the
//     number's rendered form
//   - boolean vs string: equal on identical spelling ("true"/"false")
//   - option record vs plain value: the display text decides, under
//     these same rules
//   - option record vs option record: display text and raw value must
//     both match
//   - single-element list holding one option record vs plain string:
//     the display rule (legacy single-select compatibility)
func valuesEqual(a, b any) bool {
	ao, aIsOpt := a.(types.Option)
	bo, bIsOpt := b.(types.Option)
	switch {
	case aIsOpt && bIsOpt:
		return ao.Display == bo.Display && valuesEqual(ao.Raw, bo.Raw)
	case aIsOpt:
		return valuesEqual(ao.Display, b)
	case bIsOpt:
		return valuesEqual(a, bo.Display)
	}

	la, aIsList := a.([]any)
	lb, bIsList := b.([]any)
	switch {
	case aIsList && bIsList:
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !valuesEqual(la[i], lb[i]) {
				return false
			}
		}
		return true
	case aIsList:
		return singletonOptionEquals(la, b)
	case bIsList:
		return singletonOptionEquals(lb, a)
	}

	switch av := a.(type) {
	case int64, float64:
		af, _ := asNumber(a)
		switch bv := b.(type) {
		case int64, float64:
			bf, _ := asNumber(b)
			return af == bf
		case string:
			if bf, ok := parseNumericString(bv); ok {
				return af == bf
			}
			return formatNumber(a) == bv
		}
	case string:
		switch bv := b.(type) {
		case string:
			return av == bv
		case int64, float64:
			bf, _ := asNumber(b)
			if af, ok := parseNumericString(av); ok {
				return af == bf
			}
			return av == formatNumber(b)
		case bool:
			return av == strconv.FormatBool(bv)
		}
	case bool:
		switch bv := b.(type) {
		case bool:
			return av == bv
		case string:
			return strconv.FormatBool(av) == bv
		}
	case nil:
		return b == nil
	}
	return false
}

// singletonOptionEquals applies the legacy single-select rule: a
// one-element list holding an option record equals a plain string when
// the option's display text matches it.
func singletonOptionEquals(list []any, other any) bool {
	if len(list) != 1 {
		return false
	}
	if _, ok := list[0].(types.Option); !ok {
		return false
	}
	if _, ok := other.(string); !ok {
		return false
	}
	return valuesEqual(list[0], other)
}

// compareValues orders two values for the relational operators.
// Numbers compare numerically, strings lexicographically, and a
// numeric string next to a number is parsed first. An option record
// next to a plain value orders by its display text under these same
// rules, mirroring valuesEqual, so == and <= agree on options.
// Everything else falls back to a fixed cross-type rank order and,
// within a rank, the rendered text — whatever two differently-typed
// values compare as, it is deterministic and never an error.
func compareValues(a, b any) int {
	if ao, ok := a.(types.Option); ok {
		if _, ok := b.(types.Option); !ok {
			return compareValues(ao.Display, b)
		}
	}
	if bo, ok := b.(types.Option); ok {
		if _, ok := a.(types.Option); !ok {
			return compareValues(a, bo.Display)
		}
	}

	af, aNum := asNumber(a)
	bf, bNum := asNumber(b)
	if aNum && bNum {
		return cmpFloat(af, bf)
	}

	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(as, bs)
	}

	if aNum && bStr {
		if f, ok := parseNumericString(bs); ok {
			return cmpFloat(af, f)
		}
	}
	if bNum && aStr {
		if f, ok := parseNumericString(as); ok {
			return cmpFloat(f, bf)
		}
	}

	if ra, rb := typeRank(a), typeRank(b); ra != rb {
		return cmpFloat(float64(ra), float64(rb))
	}

	if ab, ok := a.(bool); ok {
		bb := b.(bool)
		switch {
		case ab == bb:
			return 0
		case bb:
			return -1
		default:
			return 1
		}
	}

	return strings.Compare(renderValue(a), renderValue(b))
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// typeRank fixes the cross-type ordering: numbers sort before
// booleans, booleans before null, then strings, lists and options.
func typeRank(v any) int {
	switch v.(type) {
	case int64, float64:
		return 0
	case bool:
		return 1
	case nil:
		return 2
	case string:
		return 3
	case []any:
		return 4
	case types.Option:
		return 5
	default:
		return 6
	}
}

// renderValue renders a value as text for the ordering fallback.
func renderValue(v any) string {
	switch val := v.(type) {
	case int64, float64:
		return formatNumber(val)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "null"
	case types.Option:
		return val.Display
	default:
		return fmt.Sprintf("%v", val)
	}
}

// typeName names a value's representational family for error messages.
func typeName(v any) string {
	switch v.(type) {
	case int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case nil:
		return "null"
	case string:
		return "string"
	case types.Option:
		return "option"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
