package ir

import (
	"fmt"

	"github.com/m1gwings/treedrawer/tree"
)

// Tree returns the expression e as a drawable tree. Printing the result draws it.
func Tree(e Expr) *tree.Tree {
	t := tree.NewTree(tree.NodeString(label(e)))
	addOperands(t, e)
	return t
}

// StmtTree returns statement s as a drawable tree with its expressions as sub-trees.
func StmtTree(s Stmt) *tree.Tree {
	switch s := s.(type) {
	case ExprStmt:
		return Tree(s.X)
	case Var:
		t := tree.NewTree(tree.NodeString(fmt.Sprintf("var %s %v", s.Name, s.Type)))
		addExpr(t, s.X)
		return t
	case SetVar:
		t := tree.NewTree(tree.NodeString("set " + s.Name))
		addExpr(t, s.X)
		return t
	case If:
		t := tree.NewTree(tree.NodeString("if"))
		addExpr(t, s.Cond)
		addBranch(t, "then", s.Then)
		addBranch(t, "else", s.Else)
		return t
	default:
		return tree.NewTree(tree.NodeString("?"))
	}
}

// label returns the node text of e, without its operands.
func label(e Expr) string {
	switch e := e.(type) {
	case Value:
		if b, ok := e.Val.(Binary); ok {
			return fmt.Sprintf("%v:%v", b.Op, e.Type)
		}
		return e.String()
	case GetVar:
		return e.Name
	case PrintStr:
		return "puts"
	case PrintInt:
		return "puts_int"
	case PrintFloat:
		return "puts_float"
	default:
		return "?"
	}
}

// addExpr adds e and its operands as a child of t.
func addExpr(t *tree.Tree, e Expr) {
	c := t.AddChild(tree.NodeString(label(e)))
	addOperands(c, e)
}

// addOperands adds the operands of e as children of t.
func addOperands(t *tree.Tree, e Expr) {
	switch e := e.(type) {
	case Value:
		if b, ok := e.Val.(Binary); ok {
			addExpr(t, b.Left)
			addExpr(t, b.Right)
		}
	case PrintStr:
		addExpr(t, e.Arg)
	case PrintInt:
		addExpr(t, e.Arg)
	case PrintFloat:
		addExpr(t, e.Arg)
	}
}

// addBranch adds the statements ss under a child of t named name.
func addBranch(t *tree.Tree, name string, ss []Stmt) {
	c := t.AddChild(tree.NodeString(name))
	for _, e1 := range ss {
		addStmt(c, e1)
	}
}

// addStmt adds statement s as a child of t.
func addStmt(t *tree.Tree, s Stmt) {
	sub := StmtTree(s)
	c := t.AddChild(sub.Val())
	copyChildren(sub, c)
}

// copyChildren copies every child of src below dst.
func copyChildren(src, dst *tree.Tree) {
	for i1 := 0; ; i1++ {
		ch, err := src.Child(i1)
		if err != nil {
			return
		}
		copyChildren(ch, dst.AddChild(ch.Val()))
	}
}
