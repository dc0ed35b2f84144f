// Package lower translates checked, scope resolved syntax trees into typed IR.
package lower

import (
	"illusio/src/ast"
	"illusio/src/ir"
	"illusio/src/ir/builder"
	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// TypeQuery answers the type of the value of an expression node.
type TypeQuery interface {
	TypeOf(n *ast.Node) ir.Type
}

// Lowerer lowers statements of one program into a Builder.
type Lowerer struct {
	b     *builder.Builder
	types TypeQuery
}

// ---------------------
// ----- functions -----
// ---------------------

// New returns a Lowerer appending to b and typing expressions with types.
func New(b *builder.Builder, types TypeQuery) *Lowerer {
	return &Lowerer{
		b:     b,
		types: types,
	}
}

// Program lowers the top-level statements nodes in order and returns the builder's statement sequence.
// Nested do blocks are spliced in place.
func (l *Lowerer) Program(nodes []*ast.Node) ir.Program {
	for _, e1 := range l.Stmts(nodes) {
		l.b.Stmt(e1)
	}
	return l.b.Code()
}

// Stmts lowers a statement list. Nested blocks are spliced in place: every name is unique after resolution,
// so block scopes need no representation in the IR.
func (l *Lowerer) Stmts(nodes []*ast.Node) []ir.Stmt {
	res := make([]ir.Stmt, 0, len(nodes))
	for _, e1 := range nodes {
		if e1.Typ == ast.BLOCK {
			res = append(res, l.Stmts(e1.Children)...)
			continue
		}
		res = append(res, l.Stmt(e1))
	}
	return res
}

// Stmt lowers the single statement n. Unsupported nodes are fatal.
func (l *Lowerer) Stmt(n *ast.Node) ir.Stmt {
	switch n.Typ {
	case ast.DECLARATION:
		return builder.NewVar(n.Name(), l.Expr(n.Children[1]), n.DeclType())
	case ast.ASSIGNMENT_STATEMENT:
		return builder.SetVar(n.Name(), l.Expr(n.Children[0]))
	case ast.IF_STATEMENT:
		// There is no else clause in the source language.
		return builder.If(l.Expr(n.Children[0]), l.Stmts(n.Children[1].Children), nil)
	case ast.BLOCK:
		util.Fatalf("nested block at line %d:%d must be spliced by the caller", n.Line, n.Pos)
		return nil
	default:
		return builder.Expr(l.Expr(n))
	}
}

// Expr lowers the expression n. Unsupported nodes and operators are fatal.
func (l *Lowerer) Expr(n *ast.Node) ir.Expr {
	switch n.Typ {
	case ast.INTEGER_DATA:
		return builder.Int(n.Data.(int64))
	case ast.FLOAT_DATA:
		return builder.Float(n.Data.(float64))
	case ast.STRING_DATA:
		return builder.String(n.Data.(string))
	case ast.BOOL_DATA:
		return builder.Bool(n.Data.(bool))
	case ast.IDENTIFIER_DATA:
		return builder.GetVar(n.Name())
	case ast.EXPRESSION:
		return l.binary(n)
	case ast.PRINT_STATEMENT:
		return l.print(n)
	default:
		util.Fatalf("%s at line %d:%d not yet supported", n.Type(), n.Line, n.Pos)
		return nil
	}
}

// binary lowers a binary expression. The operation is typed by its left operand.
func (l *Lowerer) binary(n *ast.Node) ir.Expr {
	if len(n.Children) != 2 {
		util.Fatalf("unary operator %s at line %d:%d not yet supported", n.Name(), n.Line, n.Pos)
	}

	op, ok := ir.ParseBinOp(n.Name())
	if !ok {
		util.Fatalf("operator %s at line %d:%d not yet supported", n.Name(), n.Line, n.Pos)
	}

	left, right := n.Children[0], n.Children[1]
	return builder.Binary(l.Expr(left), op, l.Expr(right), l.types.TypeOf(left))
}

// print lowers a call of a builtin output routine. Only the first argument is printed.
func (l *Lowerer) print(n *ast.Node) ir.Expr {
	if len(n.Children) == 0 {
		util.Fatalf("%s at line %d:%d called without arguments", n.Name(), n.Line, n.Pos)
	}

	arg := l.Expr(n.Children[0])
	switch n.Name() {
	case ast.PrintIntName:
		return builder.PrintInt(arg)
	case ast.PrintFloatName:
		return builder.PrintFloat(arg)
	default:
		return builder.PrintStr(arg)
	}
}
