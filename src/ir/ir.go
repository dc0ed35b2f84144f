package ir

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// IrValue is the payload of a Value expression: a Literal or a Binary operation.
type IrValue interface {
	irValue()
	String() string
}

// Expr is an IR expression. Every expression produces exactly one value.
type Expr interface {
	expr()
	String() string
}

// Stmt is an IR statement.
type Stmt interface {
	stmt()
	String() string
}

// Binary applies Op to Left and Right. Both operands have the same type.
type Binary struct {
	Left  Expr
	Op    BinOp
	Right Expr
}

// Value is a typed literal or binary operation. For comparisons Type is the type of the operands.
type Value struct {
	Val  IrValue
	Type Type
}

// GetVar reads the current binding of variable Name.
type GetVar struct {
	Name string
}

// PrintStr writes the string Arg followed by a newline. Evaluates to the number of bytes written.
type PrintStr struct {
	Arg Expr
}

// PrintInt writes the integer Arg followed by a newline.
type PrintInt struct {
	Arg Expr
}

// PrintFloat writes the float Arg followed by a newline.
type PrintFloat struct {
	Arg Expr
}

// ExprStmt evaluates X for its effects and discards the value.
type ExprStmt struct {
	X Expr
}

// SetVar rebinds the existing variable Name to X.
type SetVar struct {
	Name string
	X    Expr
}

// Var declares variable Name of type Type bound to X.
type Var struct {
	Name string
	X    Expr
	Type Type
}

// If runs Then when Cond is nonzero and Else otherwise. Its value is the value of the last statement of
// the branch taken, or zero if that branch is empty.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Program is an ordered sequence of top-level statements.
type Program []Stmt

func (Literal) irValue() {}
func (Binary) irValue()  {}

func (Value) expr()      {}
func (GetVar) expr()     {}
func (PrintStr) expr()   {}
func (PrintInt) expr()   {}
func (PrintFloat) expr() {}

func (ExprStmt) stmt() {}
func (SetVar) stmt()   {}
func (Var) stmt()      {}
func (If) stmt()       {}

// ---------------------
// ----- functions -----
// ---------------------

// String returns the parenthesised infix form of b.
func (b Binary) String() string {
	return fmt.Sprintf("(%v %v %v)", b.Left, b.Op, b.Right)
}

// String returns the payload of v annotated with its type.
func (v Value) String() string {
	return fmt.Sprintf("%v:%v", v.Val, v.Type)
}

func (g GetVar) String() string {
	return g.Name
}

func (p PrintStr) String() string {
	return fmt.Sprintf("puts(%v)", p.Arg)
}

func (p PrintInt) String() string {
	return fmt.Sprintf("puts_int(%v)", p.Arg)
}

func (p PrintFloat) String() string {
	return fmt.Sprintf("puts_float(%v)", p.Arg)
}

func (s ExprStmt) String() string {
	return s.X.String()
}

func (s SetVar) String() string {
	return fmt.Sprintf("set %s = %v", s.Name, s.X)
}

func (s Var) String() string {
	return fmt.Sprintf("var %s %v = %v", s.Name, s.Type, s.X)
}

// String returns i on one line. Program.String lays conditionals out over several lines.
func (i If) String() string {
	return fmt.Sprintf("if %v { %s } else { %s }", i.Cond, joinStmts(i.Then), joinStmts(i.Else))
}

// String returns the multi-line listing of p.
func (p Program) String() string {
	sb := strings.Builder{}
	for _, e1 := range p {
		writeStmt(&sb, e1, 0)
	}
	return sb.String()
}

// joinStmts returns the statements ss on a single line.
func joinStmts(ss []Stmt) string {
	s := make([]string, len(ss))
	for i1, e1 := range ss {
		s[i1] = e1.String()
	}
	return strings.Join(s, "; ")
}

// writeStmt writes statement s to sb indented by depth levels.
func writeStmt(sb *strings.Builder, s Stmt, depth int) {
	indent := strings.Repeat("\t", depth)

	i, ok := s.(If)
	if !ok {
		sb.WriteString(indent)
		sb.WriteString(s.String())
		sb.WriteByte('\n')
		return
	}

	fmt.Fprintf(sb, "%sif %v {\n", indent, i.Cond)
	for _, e1 := range i.Then {
		writeStmt(sb, e1, depth+1)
	}
	fmt.Fprintf(sb, "%s} else {\n", indent)
	for _, e1 := range i.Else {
		writeStmt(sb, e1, depth+1)
	}
	fmt.Fprintf(sb, "%s}\n", indent)
}
