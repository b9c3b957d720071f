package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandrolain/goformula/pkg/types"
)

// Parser implements a recursive descent parser for formulas.
// It uses Pratt's "Top Down Operator Precedence" algorithm to handle
// operator precedence correctly.
type Parser struct {
	lexer   *Lexer
	current Token
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire formula and returns the compiled Expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error("empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(fmt.Sprintf("unexpected token: %s", p.current.Value))
	}

	return types.NewExpression(node, p.lexer.input), nil
}

// Operator precedence table (binding power).
// Higher values bind more tightly. All binary operators are
// left-associative except power, which right-associates.
var precedence = map[TokenType]int{
	TokenCondition:    10, // ?:
	TokenOr:           15, // ||
	TokenAnd:          20, // &&
	TokenBitOr:        25, // |
	TokenBitXor:       30, // |^
	TokenBitAnd:       35, // &
	TokenEqual:        40, // ==
	TokenNotEqual:     40, // !=
	TokenLess:         45, // <
	TokenLessEqual:    45, // <=
	TokenGreater:      45, // >
	TokenGreaterEqual: 45, // >=
	TokenShiftLeft:    50, // <<
	TokenShiftRight:   50, // >>
	TokenPlus:         55, // +
	TokenMinus:        55, // -
	TokenMult:         60, // *
	TokenDiv:          60, // /
	TokenPower:        65, // ^ (right-associative)
	TokenBang:         80, // postfix !
	TokenParenOpen:    80, // call
	TokenBracketOpen:  80, // index
}

// unaryBindingPower is the binding power of the prefix operators
// -, +, ~ and not: tighter than power, looser than the postfixes.
const unaryBindingPower = 70

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks that the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.error(fmt.Sprintf("expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a positioned parser error. A lexer error takes
// precedence: it is the real cause of any downstream confusion.
func (p *Parser) error(message string) error {
	if err := p.lexer.Error(); err != nil {
		return err
	}
	return types.NewError(types.CodeSyntax, message, p.current.Position).WithToken(p.current.Value)
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error("expression too deeply nested")
	}

	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < p.getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
// These are expressions that don't require a left-hand side.
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenNumber:
		return p.parseNumber()
	case TokenString:
		return p.parseString()
	case TokenBoolean:
		return p.parseBoolean()
	case TokenNull:
		return p.parseNull()
	case TokenName:
		return p.parseName()
	case TokenMinus, TokenPlus, TokenBitNot, TokenNot:
		return p.parseUnary()
	case TokenParenOpen:
		return p.parseGrouping()
	case TokenError:
		return nil, p.lexer.Error()
	default:
		return nil, p.error(fmt.Sprintf("unexpected token: %s", token.Type.String()))
	}
}

// parseInfix parses an infix or postfix expression (led - left denotation).
func (p *Parser) parseInfix(left *types.ASTNode) (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenBang:
		return p.parseFactorial(left)
	case TokenParenOpen:
		return p.parseFunctionCall(left)
	case TokenBracketOpen:
		return p.parseIndex(left)
	case TokenCondition:
		return p.parseConditional(left)
	case TokenPlus, TokenMinus, TokenMult, TokenDiv, TokenPower,
		TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual,
		TokenGreater, TokenGreaterEqual, TokenAnd, TokenOr,
		TokenBitAnd, TokenBitOr, TokenBitXor, TokenShiftLeft, TokenShiftRight:
		return p.parseBinaryOp(left)
	case TokenError:
		return nil, p.lexer.Error()
	default:
		return nil, p.error(fmt.Sprintf("unexpected infix token: %s", token.Type.String()))
	}
}

// parseNumber parses an integer or float literal. Digit-only literals
// stay integers; a decimal point makes a float. The distinction is
// carried through evaluation.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	token := p.current
	node := types.NewASTNode(types.NodeNumber, token.Position)

	if strings.ContainsRune(token.Value, '.') {
		f, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, p.error(fmt.Sprintf("invalid number literal: %s", token.Value))
		}
		node.Value = f
	} else {
		i, err := strconv.ParseInt(token.Value, 10, 64)
		if err != nil {
			return nil, p.error(fmt.Sprintf("number out of range: %s", token.Value))
		}
		node.Value = i
	}

	p.advance()
	return node, nil
}

// parseString parses a string literal, decoding the two supported
// escape sequences.
func (p *Parser) parseString() (*types.ASTNode, error) {
	token := p.current
	node := types.NewASTNode(types.NodeString, token.Position)
	node.StrValue = unescapeString(token.Value)
	node.Value = node.StrValue
	p.advance()
	return node, nil
}

func (p *Parser) parseBoolean() (*types.ASTNode, error) {
	token := p.current
	node := types.NewASTNode(types.NodeBoolean, token.Position)
	node.Value = token.Value == "true"
	p.advance()
	return node, nil
}

func (p *Parser) parseNull() (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeNull, p.current.Position)
	p.advance()
	return node, nil
}

// parseName parses a bare identifier as a single-step access chain.
// The whole token is one flat scope key, dots and hyphens included.
func (p *Parser) parseName() (*types.ASTNode, error) {
	token := p.current

	step := types.NewASTNode(types.NodeName, token.Position)
	step.StrValue = token.Value

	node := types.NewASTNode(types.NodeAccess, token.Position)
	node.Steps = []*types.ASTNode{step}

	p.advance()
	return node, nil
}

// parseUnary parses a prefix operator: -, +, ~ or not.
func (p *Parser) parseUnary() (*types.ASTNode, error) {
	token := p.current
	p.advance()

	operand, err := p.parseExpression(unaryBindingPower)
	if err != nil {
		return nil, err
	}

	node := types.NewASTNode(types.NodeUnary, token.Position)
	node.Value = token.Type.String()
	node.LHS = operand
	return node, nil
}

// parseGrouping parses a parenthesized expression.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	p.advance() // consume (

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return node, nil
}

// parseFactorial parses the postfix ! operator.
func (p *Parser) parseFactorial(left *types.ASTNode) (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodePostfix, p.current.Position)
	node.Value = "!"
	node.LHS = left
	p.advance()
	return node, nil
}

// parseFunctionCall parses name(arg, ...). Only a bare identifier can
// be called: the callee must be a single-step access chain with no
// index segments. Arity and argument types are checked at evaluation.
func (p *Parser) parseFunctionCall(left *types.ASTNode) (*types.ASTNode, error) {
	if left == nil || left.Type != types.NodeAccess ||
		len(left.Steps) != 1 || left.Steps[0].Type != types.NodeName {
		return nil, p.error("only a function name can be called")
	}

	node := types.NewASTNode(types.NodeFunction, left.Position)
	node.StrValue = left.Steps[0].StrValue

	p.advance() // consume (

	if p.current.Type != TokenParenClose {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			node.Arguments = append(node.Arguments, arg)

			if p.current.Type != TokenComma {
				break
			}
			p.advance() // consume ,
		}
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return node, nil
}

// parseIndex parses [expr] after an access chain, appending an index
// step. Steps chain left to right: a[0][1] first indexes a, then the
// result. An index after anything other than an access chain is a
// syntax error.
func (p *Parser) parseIndex(left *types.ASTNode) (*types.ASTNode, error) {
	if left == nil || left.Type != types.NodeAccess {
		return nil, p.error("index applies only to a scope access")
	}

	step := types.NewASTNode(types.NodeIndex, p.current.Position)

	p.advance() // consume [

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	step.LHS = expr

	if err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}

	left.Steps = append(left.Steps, step)
	return left, nil
}

// parseConditional parses cond ? then : else. The else branch parses
// at one less than the ternary's own binding power, so chained
// conditionals nest to the right.
func (p *Parser) parseConditional(left *types.ASTNode) (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeCondition, p.current.Position)
	node.LHS = left

	p.advance() // consume ?

	thenBranch, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	node.RHS = thenBranch

	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	elseBranch, err := p.parseExpression(p.getPrecedence(TokenCondition) - 1)
	if err != nil {
		return nil, err
	}
	node.Else = elseBranch

	return node, nil
}

// parseBinaryOp parses a binary operator expression.
func (p *Parser) parseBinaryOp(left *types.ASTNode) (*types.ASTNode, error) {
	token := p.current
	prec := p.getPrecedence(token.Type)

	p.advance() // consume operator

	// Power is right-associative; everything else left-associative.
	rbp := prec
	if token.Type == TokenPower {
		rbp = prec - 1
	}

	right, err := p.parseExpression(rbp)
	if err != nil {
		return nil, err
	}

	node := types.NewASTNode(types.NodeBinary, token.Position)
	node.Value = token.Type.String()
	node.LHS = left
	node.RHS = right
	return node, nil
}

// unescapeString decodes the two supported escape sequences, \\ and
// \". Any other backslash sequence is kept verbatim.
func unescapeString(s string) string {
	if !strings.Contains(s, "\\") {
		return s // Fast path: no escapes
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			result.WriteByte(s[i+1])
			i++
			continue
		}
		result.WriteByte(s[i])
	}

	return result.String()
}
