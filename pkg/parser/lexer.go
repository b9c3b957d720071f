package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/sandrolain/goformula/pkg/types"
)

const eof = -1

// Lexer converts a formula into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls.
func (l *Lexer) Next() Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eofToken()
	}

	// Two-character symbols first (e.g. ==, <<, |^) so they are never
	// split into their single-character prefixes.
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	// Single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals
	if ch == '"' {
		l.ignore()
		return l.scanString(ch)
	}

	// Number literals; a leading dot followed by a digit is a float
	// with an implicit leading zero (".5").
	if ch >= '0' && ch <= '9' {
		l.backup()
		return l.scanNumber()
	}
	if ch == '.' {
		if l.accept(isDigit) {
			l.backup()
			l.backup() // reposition on the dot
			return l.scanNumber()
		}
		return l.error(fmt.Sprintf("unexpected character %q", ch))
	}

	// Names and reserved words
	if isNameStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.error(fmt.Sprintf("unexpected character %q", ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed. Only \\ and \" are
// decoded (by the parser); any other backslash sequence is preserved
// verbatim. This is a documented limitation, not an oversight.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			// Consume the escaped character so \" does not close the string
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error("unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanNumber reads a number literal from the current position.
// Integers are digit-only; floats are digits '.' digits? or '.' digits.
// There is no exponent syntax.
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	if l.acceptRune('.') {
		l.acceptAll(isDigit)
	}

	return l.newToken(TokenNumber)
}

// scanName reads an identifier or reserved word from the current
// position. Identifiers start with a letter or underscore and continue
// with letters, digits, underscores, hyphens and dots: embedded '-'
// and '.' are literal identifier characters, so a scope key such as
// "a.b.c" lexes as a single token.
func (l *Lexer) scanName() Token {
	l.accept(isNameStart)
	l.acceptAll(isNameRest)

	t := l.newToken(TokenName)
	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	}
	return t
}

// Helper methods

func (l *Lexer) eofToken() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(message string) Token {
	t := l.newToken(TokenError)
	if l.err == nil {
		l.err = types.NewError(types.CodeSyntax, message, t.Position).WithToken(t.Value)
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
	if l.current > l.start {
		// Re-derive the width of the preceding rune so a second backup
		// (needed for ".5" repositioning) lands correctly.
		_, w := utf8.DecodeLastRuneInString(l.input[:l.current])
		l.width = w
	}
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameRest(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '-' || r == '.'
}
