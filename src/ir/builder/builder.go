// Package builder provides a convenience layer for assembling typed IR statement sequences and for compiling and
// running them in one step.
package builder

import (
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"illusio/src/ir"
	"illusio/src/ir/llvm"
	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Builder accumulates top-level statements in the order they are appended.
type Builder struct {
	code    ir.Program
	listing io.Writer // Receives the LLVM IR listing on Finish, if set.
}

// ---------------------
// ----- functions -----
// ---------------------

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Stmt appends s to the statement sequence.
func (b *Builder) Stmt(s ir.Stmt) {
	b.code = append(b.code, s)
}

// Code returns the statement sequence built so far.
func (b *Builder) Code() ir.Program {
	return b.code
}

// Len returns the number of statements appended.
func (b *Builder) Len() int {
	return len(b.code)
}

// ListTo makes Finish write the LLVM IR listing of the compiled module to w.
func (b *Builder) ListTo(w io.Writer) {
	b.listing = w
}

// Finish compiles the statement sequence into a fresh code generation session, runs the entry point once and
// returns its result. All native resources are released before Finish returns.
func (b *Builder) Finish(ctx context.Context, opt util.Options) (res int64, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "finish", "stmts", len(b.code))
	defer tr.Finish("err", &err)

	p, err := compile(ctx, opt, b.code)
	if err != nil {
		return 0, errors.Wrap(err, "compile")
	}
	defer p.Close()

	if b.listing != nil {
		if _, err = io.WriteString(b.listing, p.String()); err != nil {
			return 0, errors.Wrap(err, "write listing")
		}
	}

	return p.Run(ctx), nil
}

// compile compiles code in a session that is released before the Program is returned.
func compile(ctx context.Context, opt util.Options, code ir.Program) (*llvm.Program, error) {
	s := llvm.NewSession(opt)
	defer s.Dispose()

	return s.Compile(ctx, code)
}

// Expr wraps e into an expression statement.
func Expr(e ir.Expr) ir.Stmt {
	return ir.ExprStmt{X: e}
}

// Int returns the integer literal v.
func Int(v int64) ir.Expr {
	return ir.Value{Val: ir.IntLit(v), Type: ir.Int}
}

// Float returns the float literal v.
func Float(v float64) ir.Expr {
	return ir.Value{Val: ir.FloatLit(v), Type: ir.Float}
}

// String returns the string literal v.
func String(v string) ir.Expr {
	return ir.Value{Val: ir.StrLit(v), Type: ir.Str}
}

// Bool returns the boolean literal v.
func Bool(v bool) ir.Expr {
	return ir.Value{Val: ir.BoolLit(v), Type: ir.Bool}
}

// Binary returns l op r on operands of type ty.
func Binary(l ir.Expr, op ir.BinOp, r ir.Expr, ty ir.Type) ir.Expr {
	return ir.Value{Val: ir.Binary{Left: l, Op: op, Right: r}, Type: ty}
}

// PrintStr prints the string x followed by a newline.
func PrintStr(x ir.Expr) ir.Expr {
	return ir.PrintStr{Arg: x}
}

// PrintInt prints the integer x followed by a newline.
func PrintInt(x ir.Expr) ir.Expr {
	return ir.PrintInt{Arg: x}
}

// PrintFloat prints the float x followed by a newline.
func PrintFloat(x ir.Expr) ir.Expr {
	return ir.PrintFloat{Arg: x}
}

// NewVar declares name of type ty initialised to x.
func NewVar(name string, x ir.Expr, ty ir.Type) ir.Stmt {
	return ir.Var{Name: name, X: x, Type: ty}
}

// GetVar reads name.
func GetVar(name string) ir.Expr {
	return ir.GetVar{Name: name}
}

// SetVar assigns x to name.
func SetVar(name string, x ir.Expr) ir.Stmt {
	return ir.SetVar{Name: name, X: x}
}

// If runs then when cond is nonzero and els otherwise.
func If(cond ir.Expr, then, els []ir.Stmt) ir.Stmt {
	return ir.If{Cond: cond, Then: then, Else: els}
}
