package types

// NodeType identifies the type of an AST node.
type NodeType string

const (
	// Literals
	NodeNumber  NodeType = "number"
	NodeString  NodeType = "string"
	NodeBoolean NodeType = "boolean"
	NodeNull    NodeType = "null"

	// Operators. The operator itself is spelled in ASTNode.Value.
	NodeBinary  NodeType = "binary"  // + - * / ^ == != < <= > >= && || & | |^ << >>
	NodeUnary   NodeType = "unary"   // prefix - + ~ not
	NodePostfix NodeType = "postfix" // factorial !

	// Control flow
	NodeCondition NodeType = "condition" // cond ? then : else

	// Functions
	NodeFunction NodeType = "function" // name(args...)

	// Scope access. An access node carries a chain of steps; each step
	// is a NodeName (literal key) or a NodeIndex (positional index whose
	// sub-expression is held in LHS).
	NodeAccess NodeType = "access"
	NodeName   NodeType = "name"
	NodeIndex  NodeType = "index"
)

// ASTNode represents a node in the abstract syntax tree.
//
// Nodes are immutable after parsing, own their children exclusively
// (no sharing, no cycles) and may therefore be evaluated concurrently
// without locking.
type ASTNode struct {
	Type     NodeType
	Value    any    // literal value, or operator spelling for binary/unary/postfix
	StrValue string // pre-typed string: NodeString text, NodeName key, NodeFunction name
	Position int

	LHS       *ASTNode   // binary left, unary/postfix operand, condition, index expr
	RHS       *ASTNode   // binary right, condition then-branch
	Else      *ASTNode   // condition else-branch
	Steps     []*ASTNode // access chain
	Arguments []*ASTNode // function arguments
}

// NewASTNode creates a new AST node of the specified type.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
