package expr

// node is a parsed expression tree node. The tree is immutable after
// parsing; evaluation never rewrites it.
type node interface {
	// opCount returns the number of reducible operations in the subtree,
	// used by the complexity guard.
	opCount() int
}

// numberNode is a numeric literal.
type numberNode struct {
	value float64
	pos   int
}

// variableNode is a reference to a caller-supplied variable or a built-in
// constant.
type variableNode struct {
	name string
	pos  int
}

// unaryNode is a unary negation.
type unaryNode struct {
	operand node
	pos     int
}

// binaryNode is a binary arithmetic operation. op is one of
// "add", "subtract", "multiply", "divide", "modulo", "power".
type binaryNode struct {
	op    string
	left  node
	right node
	pos   int
}

// callNode is an invocation of a whitelisted function.
type callNode struct {
	name string
	args []node
	pos  int
}

func (n *numberNode) opCount() int   { return 0 }
func (n *variableNode) opCount() int { return 0 }
func (n *unaryNode) opCount() int    { return 1 + n.operand.opCount() }

func (n *binaryNode) opCount() int {
	return 1 + n.left.opCount() + n.right.opCount()
}

func (n *callNode) opCount() int {
	count := 1
	for _, arg := range n.args {
		count += arg.opCount()
	}
	return count
}
