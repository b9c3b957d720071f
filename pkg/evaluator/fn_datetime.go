package evaluator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sandrolain/goformula/pkg/types"
)

// yearSeconds approximates one year as 365 days. Age is defined as
// floor(elapsed_seconds / yearSeconds), deliberately not calendar-exact.
const yearSeconds = 31_536_000

// isoDateLayout matches the date portion of an ISO-8601 timestamp.
const isoDateLayout = "2006-01-02"

// fnAge returns the integer number of 365-day years between an
// ISO-8601 date and now. Only the date portion of the input is read;
// any time-of-day suffix is ignored. The clock is the evaluator's,
// so tests can pin it with WithClock.
func fnAge(ctx context.Context, e *Evaluator, args []any) (any, error) {
	text, ok := dateText(args[0])
	if !ok {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("age expects a date string, got %s", typeName(args[0])), -1)
	}

	text = strings.TrimSpace(text)
	if len(text) < len(isoDateLayout) {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("age: not an ISO-8601 date: %q", text), -1)
	}

	date, err := time.Parse(isoDateLayout, text[:len(isoDateLayout)])
	if err != nil {
		return nil, types.NewError(types.CodeInvalidOperand,
			fmt.Sprintf("age: not an ISO-8601 date: %q", text), -1).WithCause(err)
	}

	elapsed := e.opts.Clock().Sub(date).Seconds()
	return int64(math.Floor(elapsed / yearSeconds)), nil
}

// dateText extracts the textual date from an argument: strings pass
// through, option records prefer a string raw value and fall back to
// the display text.
func dateText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case types.Option:
		if s, ok := val.Raw.(string); ok {
			return s, true
		}
		return val.Display, true
	default:
		return "", false
	}
}
