package evaluator

import (
	"testing"

	"github.com/sandrolain/goformula/pkg/types"
)

func TestValuesEqual(t *testing.T) {
	often := types.Option{Display: "Often", Raw: int64(3)}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		// same family
		{"ints", int64(3), int64(3), true},
		{"int float", int64(3), 3.0, true},
		{"floats", 1.5, 1.5, true},
		{"strings", "a", "a", true},
		{"bools", true, true, true},
		{"nils", nil, nil, true},
		{"nil vs empty string", nil, "", false},
		{"nil vs zero", nil, int64(0), false},

		// numeric string vs number
		{"numeric string", "33", int64(33), true},
		{"numeric string float", "2.5", 2.5, true},
		{"padded numeric string", " 33 ", int64(33), true},
		{"non-numeric string vs number", "abc", int64(33), false},
		// an unparsable string can still match the rendered form
		{"rendered int form", "3", int64(3), true},
		{"rendered float form", "2.5", 2.5, true},

		// boolean vs string spelling
		{"true spelling", true, "true", true},
		{"false spelling", false, "false", true},
		{"wrong spelling", true, "false", false},
		{"not one or yes", true, "1", false},

		// option records
		{"option vs display text", often, "Often", true},
		{"display text vs option", "Often", often, true},
		{"option vs wrong text", often, "Never", false},
		{"option vs option", often, types.Option{Display: "Often", Raw: int64(3)}, true},
		{"option raw differs", often, types.Option{Display: "Often", Raw: int64(4)}, false},
		{"option display differs", often, types.Option{Display: "Sometimes", Raw: int64(3)}, false},
		// the display text is compared under the same coercions
		{"numeric display vs number", types.Option{Display: "3", Raw: "x"}, int64(3), true},

		// lists
		{"equal lists", []any{int64(1), "a"}, []any{int64(1), "a"}, true},
		{"coerced elements", []any{int64(1)}, []any{"1"}, true},
		{"length differs", []any{int64(1)}, []any{int64(1), int64(2)}, false},
		{"list vs scalar", []any{int64(1)}, int64(1), false},

		// legacy single-select: one option record in a list vs a string
		{"singleton option list vs text", []any{often}, "Often", true},
		{"text vs singleton option list", "Often", []any{often}, true},
		{"singleton list wrong text", []any{often}, "Never", false},
		{"two-element list never matches text", []any{often, often}, "Often", false},
		{"singleton non-option list vs text", []any{"Often"}, "Often", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// the matrix is symmetric
			if got := valuesEqual(tt.b, tt.a); got != tt.want {
				t.Errorf("valuesEqual(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", int64(1), int64(2), -1},
		{"int float", int64(3), 2.5, 1},
		{"equal numbers", int64(3), 3.0, 0},
		{"strings lexicographic", "apple", "banana", -1},
		{"numeric string vs number", "10", int64(9), 1},
		{"number vs numeric string", int64(9), "10", -1},
		// cross-type fallback: numbers < booleans < null < strings
		{"number before boolean", int64(1), true, -1},
		{"boolean before null", false, nil, -1},
		{"null before string", nil, "a", -1},
		{"false before true", false, true, -1},
		// non-numeric string next to a number falls back to rank order
		{"number before plain string", int64(5), "abc", -1},
		// option records order by display text against plain values,
		// mirroring the equality rule
		{"option equals its display text", types.Option{Display: "Often", Raw: int64(3)}, "Often", 0},
		{"option orders by display", types.Option{Display: "Often", Raw: int64(3)}, "Rarely", -1},
		{"numeric display vs number", types.Option{Display: "10", Raw: "x"}, int64(9), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareValues(tt.a, tt.b); got != tt.want {
				t.Errorf("compareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := compareValues(tt.b, tt.a); got != -tt.want {
				t.Errorf("compareValues(%v, %v) = %d, want %d (antisymmetry)", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestNumberOf(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		want      float64
		wantInt   bool
		wantFound bool
	}{
		{"int", int64(3), 3, true, true},
		{"float", 2.5, 2.5, false, true},
		{"integer string", "42", 42, true, true},
		{"float string", "2.5", 2.5, false, true},
		{"padded string", " 7 ", 7, true, true},
		{"non-numeric string", "x", 0, false, false},
		{"empty string", "", 0, false, false},
		{"bool", true, 0, false, false},
		{"nil", nil, 0, false, false},
		{"option raw wins", types.Option{Display: "Often", Raw: int64(3)}, 3, true, true},
		{"option display fallback", types.Option{Display: "4", Raw: "x"}, 4, true, true},
		{"option neither", types.Option{Display: "x", Raw: nil}, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, isInt, ok := numberOf(tt.in)
			if ok != tt.wantFound {
				t.Fatalf("numberOf(%v) found = %v, want %v", tt.in, ok, tt.wantFound)
			}
			if !ok {
				return
			}
			if f != tt.want || isInt != tt.wantInt {
				t.Errorf("numberOf(%v) = (%v, int=%v), want (%v, int=%v)", tt.in, f, isInt, tt.want, tt.wantInt)
			}
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"int", int64(5), 5, false},
		{"integral float", 6.0, 6, false},
		{"negative integral float", -2.0, -2, false},
		{"integer string", "12", 12, false},
		{"fractional float", 1.5, 0, true},
		{"fractional string", "2.5", 0, true},
		{"non-numeric string", "x", 0, true},
		{"bool", true, 0, true},
		{"nil", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceInt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("coerceInt(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("coerceInt(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	if got := formatNumber(int64(42)); got != "42" {
		t.Errorf("formatNumber(42) = %q", got)
	}
	if got := formatNumber(2.5); got != "2.5" {
		t.Errorf("formatNumber(2.5) = %q", got)
	}
	// floats render without an exponent
	if got := formatNumber(1000000.0); got != "1000000" {
		t.Errorf("formatNumber(1e6) = %q", got)
	}
}
