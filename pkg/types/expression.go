package types

// Expression represents a compiled formula.
//
// An Expression can be evaluated multiple times against different
// scopes by passing it to [evaluator.Evaluator.Eval]. It is safe for
// concurrent use by multiple goroutines: the AST is never mutated
// after parsing. Caching compiled expressions across calls is the
// host's concern; the engine itself holds no cross-call state.
type Expression struct {
	ast    *ASTNode
	source string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the abstract syntax tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original formula text.
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
