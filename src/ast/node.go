package ast

import (
	"fmt"
	"io"

	"illusio/src/ir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// NodeType differentiates the types of nodes in the syntax tree.
type NodeType int

// Node represents a single node in the syntax tree.
type Node struct {
	Typ      NodeType    // The type of Node, i.e. string data, declaration or expression.
	Line     int         // Line in source code Node is declared.
	Pos      int         // Position on the line in source code Node is declared.
	Data     interface{} // Names, operators, literal values and declared types.
	Children []*Node     // Children of this node that constitutes its local sub-tree.
}

// ---------------------
// ----- Constants -----
// ---------------------

// Node types. The layout of Data and Children per type:
//
//	PROGRAM              Children: statements.
//	BLOCK                Children: statements. A do ... end block or an if body.
//	DECLARATION          Data: name. Children: TYPE_DATA, value.
//	ASSIGNMENT_STATEMENT Data: name. Children: value.
//	IF_STATEMENT         Children: condition, BLOCK.
//	PRINT_STATEMENT      Data: builtin name. Children: arguments.
//	FUNCTION_CALL        Data: name. Children: arguments.
//	EXPRESSION           Data: operator. Children: one operand when unary, two when binary.
//	IDENTIFIER_DATA      Data: name.
//	INTEGER_DATA         Data: int64.
//	FLOAT_DATA           Data: float64.
//	STRING_DATA          Data: string with escapes decoded.
//	BOOL_DATA            Data: bool.
//	TYPE_DATA            Data: ir.Type.
const (
	PROGRAM NodeType = iota
	BLOCK
	DECLARATION
	ASSIGNMENT_STATEMENT
	IF_STATEMENT
	PRINT_STATEMENT
	FUNCTION_CALL
	EXPRESSION
	IDENTIFIER_DATA
	INTEGER_DATA
	FLOAT_DATA
	STRING_DATA
	BOOL_DATA
	TYPE_DATA
)

// Builtin output routines.
const (
	PrintStrName   = "puts"
	PrintIntName   = "puts_int"
	PrintFloatName = "puts_float"
)

// nt provides an array of strings used for printing NodeType in a print friendly manner.
var nt = [...]string{
	"PROGRAM",
	"BLOCK",
	"DECLARATION",
	"ASSIGNMENT_STATEMENT",
	"IF_STATEMENT",
	"PRINT_STATEMENT",
	"FUNCTION_CALL",
	"EXPRESSION",
	"IDENTIFIER_DATA",
	"INTEGER_DATA",
	"FLOAT_DATA",
	"STRING_DATA",
	"BOOL_DATA",
	"TYPE_DATA",
}

// ----------------------
// ----- functions ------
// ----------------------

// IsBuiltin returns true if name is one of the builtin output routines.
func IsBuiltin(name string) bool {
	return name == PrintStrName || name == PrintIntName || name == PrintFloatName
}

// String returns a print friendly string of Node n.
func (n *Node) String() string {
	if n == nil {
		return "---> [NIL POINTER]"
	}
	typ := int(n.Typ)
	if typ >= len(nt) || typ < 0 {
		// This Node has been mis-configured.
		return fmt.Sprintf("---> MISCONFIGURED NODE [Node.Typ = %d]", typ)
	}
	if n.Data == nil {
		return nt[n.Typ]
	}

	switch n.Typ {
	case INTEGER_DATA, BOOL_DATA:
		return fmt.Sprintf("%s [%v]", nt[n.Typ], n.Data)
	case FLOAT_DATA:
		return fmt.Sprintf("%s [%g]", nt[n.Typ], n.Data)
	case TYPE_DATA:
		return fmt.Sprintf("%s [%v]", nt[n.Typ], n.Data)
	default:
		return fmt.Sprintf("%s [%q]", nt[n.Typ], n.Data)
	}
}

// Type returns a print friendly string of the Node n' type.
func (n *Node) Type() string {
	return nt[n.Typ]
}

// Name returns the string Data of n, or the empty string if n holds no string.
func (n *Node) Name() string {
	s, _ := n.Data.(string)
	return s
}

// DeclType returns the declared type of a DECLARATION node.
func (n *Node) DeclType() ir.Type {
	t, _ := n.Children[0].Data.(ir.Type)
	return t
}

// Print recursively writes this Node and all its Children to w while indenting for every recursive call.
// depth is the number of times nodes are padded to the right, having the root node with padding 0.
// If showDepth is true the method also prints the depths of the nodes.
func (n *Node) Print(w io.Writer, depth int, showDepth bool) {
	if depth < 0 {
		depth = 0
	}

	s := "---> NIL"
	if n != nil {
		s = n.String()
	}
	if showDepth {
		_, _ = fmt.Fprintf(w, "%d %*s%s\n", depth, depth<<1, "", s)
	} else {
		_, _ = fmt.Fprintf(w, "%*s%s\n", depth<<1, "", s)
	}

	if n == nil {
		return
	}
	for _, e := range n.Children {
		e.Print(w, depth+1, showDepth)
	}
}
