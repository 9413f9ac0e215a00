package models

// NodeKind is the closed set of structural node variants recognized by the
// parsers. Identifier and literal content is erased at construction time;
// only kinds and shape survive into the shape hash.
type NodeKind string

const (
	NodeProgram     NodeKind = "Program"
	NodeFunctionDef NodeKind = "FunctionDef"
	NodeClassDef    NodeKind = "ClassDef"
	NodeIf          NodeKind = "If"
	NodeElse        NodeKind = "Else"
	NodeFor         NodeKind = "For"
	NodeWhile       NodeKind = "While"
	NodeSwitch      NodeKind = "Switch"
	NodeCase        NodeKind = "Case"
	NodeTry         NodeKind = "Try"
	NodeCatch       NodeKind = "Catch"
	NodeReturn      NodeKind = "Return"
	NodeCall        NodeKind = "Call"
	NodeAssign      NodeKind = "Assign"
	NodeBinOp       NodeKind = "BinOp"
	NodeBoolOp      NodeKind = "BoolOp"
	NodeIdentifier  NodeKind = "Identifier"
	NodeLiteral     NodeKind = "Literal"
	NodeBlock       NodeKind = "Block"
)

// ASTNode is one node of the identifier-erased structural tree.
type ASTNode struct {
	Kind     NodeKind   `bson:"kind" json:"kind"`
	Line     int        `bson:"line" json:"line"`
	Children []*ASTNode `bson:"children,omitempty" json:"children,omitempty"`
}

// Walk visits the subtree rooted at n in pre-order.
func (n *ASTNode) Walk(visit func(*ASTNode)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}
