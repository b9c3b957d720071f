package types

import "fmt"

// ErrorCode discriminates the kind of a formula error.
type ErrorCode string

const (
	// CodeSyntax reports a lexing or parsing failure. The first error
	// aborts the parse; there is no recovery.
	CodeSyntax ErrorCode = "syntax"

	// CodeInvalidOperand reports a type mismatch, an unparsable numeric
	// string, a bad function input, or an exceeded evaluation depth.
	CodeInvalidOperand ErrorCode = "invalid-operand"

	// CodeMissingKey reports a scope lookup for a name that is not bound.
	CodeMissingKey ErrorCode = "missing-key"

	// CodeMissingIndex reports a positional index outside the list bounds.
	CodeMissingIndex ErrorCode = "missing-index"
)

// Error is the structured error returned by every stage of the pipeline.
// Errors are values: the engine never panics on user input.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int // byte offset into the source, -1 when unknown
	Token    string
	Err      error
}

// NewError creates a new formula error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the ErrorCode of err when it is a formula *Error,
// or the empty string otherwise. Hosts use it to distinguish a missing
// answer from a genuinely malformed formula.
func CodeOf(err error) ErrorCode {
	if fe, ok := err.(*Error); ok {
		return fe.Code
	}
	return ""
}
