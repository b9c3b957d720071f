package parser

import "testing"

type lexerTestCase struct {
	name      string
	input     string
	expected  []Token
	expectErr bool
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLexer(tt.input)

			var got []Token
			for i := 0; i < len(tt.input)+2; i++ {
				tok := l.Next()
				if tok.Type == TokenEOF {
					break
				}
				if tok.Type == TokenError {
					if !tt.expectErr {
						t.Fatalf("unexpected lexer error: %v", l.Error())
					}
					if l.Error() == nil {
						t.Fatal("error token without lexer error")
					}
					return
				}
				got = append(got, tok)
			}

			if tt.expectErr {
				t.Fatal("expected a lexer error, got none")
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got, len(tt.expected))
			}
			for i, want := range tt.expected {
				if got[i] != want {
					t.Errorf("token %d: got %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "integer",
			input: "42",
			expected: []Token{
				{Type: TokenNumber, Value: "42", Position: 0},
			},
		},
		{
			name:  "float",
			input: "3.14",
			expected: []Token{
				{Type: TokenNumber, Value: "3.14", Position: 0},
			},
		},
		{
			name:  "trailing dot float",
			input: "1.",
			expected: []Token{
				{Type: TokenNumber, Value: "1.", Position: 0},
			},
		},
		{
			name:  "leading dot float",
			input: ".5",
			expected: []Token{
				{Type: TokenNumber, Value: ".5", Position: 0},
			},
		},
		{
			name:      "bare dot",
			input:     ".",
			expectErr: true,
		},
		{
			name:  "subtraction of numbers",
			input: "1-2",
			expected: []Token{
				{Type: TokenNumber, Value: "1", Position: 0},
				{Type: TokenMinus, Value: "-", Position: 1},
				{Type: TokenNumber, Value: "2", Position: 2},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerStrings(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "simple string",
			input: `"hello"`,
			expected: []Token{
				{Type: TokenString, Value: "hello", Position: 1},
			},
		},
		{
			name:  "empty string",
			input: `""`,
			expected: []Token{
				{Type: TokenString, Value: "", Position: 1},
			},
		},
		{
			name:  "escaped quote",
			input: `"a\"b"`,
			expected: []Token{
				{Type: TokenString, Value: `a\"b`, Position: 1},
			},
		},
		{
			name:      "unterminated string",
			input:     `"abc`,
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerNames(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "simple name",
			input: "total",
			expected: []Token{
				{Type: TokenName, Value: "total", Position: 0},
			},
		},
		{
			// Dots and hyphens are literal identifier characters: a
			// caller-visible key such as a.b.c lexes as one token.
			name:  "dotted name",
			input: "a.b.c",
			expected: []Token{
				{Type: TokenName, Value: "a.b.c", Position: 0},
			},
		},
		{
			name:  "hyphenated name",
			input: "follow-up_1",
			expected: []Token{
				{Type: TokenName, Value: "follow-up_1", Position: 0},
			},
		},
		{
			// With no surrounding spaces the hyphen is swallowed by the
			// identifier rule; subtraction between names needs spaces.
			name:  "hyphen binds into name",
			input: "a-b",
			expected: []Token{
				{Type: TokenName, Value: "a-b", Position: 0},
			},
		},
		{
			name:  "spaced subtraction of names",
			input: "a - b",
			expected: []Token{
				{Type: TokenName, Value: "a", Position: 0},
				{Type: TokenMinus, Value: "-", Position: 2},
				{Type: TokenName, Value: "b", Position: 4},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerKeywords(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "booleans and null",
			input: "true false null",
			expected: []Token{
				{Type: TokenBoolean, Value: "true", Position: 0},
				{Type: TokenBoolean, Value: "false", Position: 5},
				{Type: TokenNull, Value: "null", Position: 11},
			},
		},
		{
			name:  "not",
			input: "not done",
			expected: []Token{
				{Type: TokenNot, Value: "not", Position: 0},
				{Type: TokenName, Value: "done", Position: 4},
			},
		},
		{
			// A keyword prefix does not poison a longer identifier.
			name:  "keyword prefix stays a name",
			input: "notes nullable truthy",
			expected: []Token{
				{Type: TokenName, Value: "notes", Position: 0},
				{Type: TokenName, Value: "nullable", Position: 6},
				{Type: TokenName, Value: "truthy", Position: 15},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerOperators(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "two-char before one-char",
			input: "<< <= < == != >= >> >",
			expected: []Token{
				{Type: TokenShiftLeft, Value: "<<", Position: 0},
				{Type: TokenLessEqual, Value: "<=", Position: 3},
				{Type: TokenLess, Value: "<", Position: 6},
				{Type: TokenEqual, Value: "==", Position: 8},
				{Type: TokenNotEqual, Value: "!=", Position: 11},
				{Type: TokenGreaterEqual, Value: ">=", Position: 14},
				{Type: TokenShiftRight, Value: ">>", Position: 17},
				{Type: TokenGreater, Value: ">", Position: 20},
			},
		},
		{
			name:  "logical and bitwise",
			input: "&& & || | |^ ~",
			expected: []Token{
				{Type: TokenAnd, Value: "&&", Position: 0},
				{Type: TokenBitAnd, Value: "&", Position: 3},
				{Type: TokenOr, Value: "||", Position: 5},
				{Type: TokenBitOr, Value: "|", Position: 8},
				{Type: TokenBitXor, Value: "|^", Position: 10},
				{Type: TokenBitNot, Value: "~", Position: 13},
			},
		},
		{
			name:  "arithmetic and postfix",
			input: "+-*/^!?:",
			expected: []Token{
				{Type: TokenPlus, Value: "+", Position: 0},
				{Type: TokenMinus, Value: "-", Position: 1},
				{Type: TokenMult, Value: "*", Position: 2},
				{Type: TokenDiv, Value: "/", Position: 3},
				{Type: TokenPower, Value: "^", Position: 4},
				{Type: TokenBang, Value: "!", Position: 5},
				{Type: TokenCondition, Value: "?", Position: 6},
				{Type: TokenColon, Value: ":", Position: 7},
			},
		},
		{
			name:      "lone equals",
			input:     "a = b",
			expectErr: true,
		},
		{
			name:      "unknown character",
			input:     "1 @ 2",
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerExpression(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "mixed expression",
			input: `sum(q1, 2) >= 10 && status == "open"`,
			expected: []Token{
				{Type: TokenName, Value: "sum", Position: 0},
				{Type: TokenParenOpen, Value: "(", Position: 3},
				{Type: TokenName, Value: "q1", Position: 4},
				{Type: TokenComma, Value: ",", Position: 6},
				{Type: TokenNumber, Value: "2", Position: 8},
				{Type: TokenParenClose, Value: ")", Position: 9},
				{Type: TokenGreaterEqual, Value: ">=", Position: 11},
				{Type: TokenNumber, Value: "10", Position: 14},
				{Type: TokenAnd, Value: "&&", Position: 17},
				{Type: TokenName, Value: "status", Position: 20},
				{Type: TokenEqual, Value: "==", Position: 27},
				{Type: TokenString, Value: "open", Position: 31},
			},
		},
	}

	runLexerTests(t, tests)
}
