package ast

import (
	"illusio/src/ir"
	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Checker holds the variable types of a resolved program and answers type queries for its nodes.
type Checker struct {
	syms Symbols
	errs *util.ErrorList
}

// ---------------------
// ----- Constants -----
// ---------------------

// lut is the lookup table for binary expressions and type compatibility.
// Dimensions
// 1 Datatype of both operands.
// 2 Operator.
var lut = [ir.Bool + 1][ir.Le + 1]bool{
	ir.Int: {
		ir.Add: true,
		ir.Sub: true,
		ir.Mul: true,
		ir.Div: true,
		ir.Eq:  true,
		ir.Neq: true,
		ir.Gt:  true,
		ir.Lt:  true,
		ir.Ge:  true,
		ir.Le:  true,
	},
	ir.Float: {
		ir.Add: true,
		ir.Sub: true,
		ir.Mul: true,
		ir.Div: true,
		ir.Eq:  true,
		ir.Neq: true,
		ir.Gt:  true,
		ir.Lt:  true,
		ir.Ge:  true,
		ir.Le:  true,
	},
	ir.Str: {},
	ir.Bool: {
		ir.Eq:  true,
		ir.Neq: true,
	},
}

// printArg maps every builtin output routine to the type of its argument.
var printArg = map[string]ir.Type{
	PrintStrName:   ir.Str,
	PrintIntName:   ir.Int,
	PrintFloatName: ir.Float,
}

// ----------------------
// ----- Functions ------
// ----------------------

// Check validates the types of the resolved program rooted at root. syms is the result of Resolve.
// All diagnostics are collected and returned as one error. The returned Checker is usable for type
// queries even when checking failed.
func Check(root *Node, syms Symbols) (*Checker, error) {
	c := &Checker{
		syms: syms,
		errs: util.NewErrorList(0),
	}

	for _, e1 := range root.Children {
		c.validate(e1)
	}
	return c, c.errs.Err()
}

// TypeOf returns the type of the value of expression n. Comparisons are bool.
func (c *Checker) TypeOf(n *Node) ir.Type {
	switch n.Typ {
	case INTEGER_DATA:
		return ir.Int
	case FLOAT_DATA:
		return ir.Float
	case STRING_DATA:
		return ir.Str
	case BOOL_DATA:
		return ir.Bool
	case IDENTIFIER_DATA:
		if s, ok := c.syms[n.Name()]; ok {
			return s.Typ
		}
		return ir.Int
	case EXPRESSION:
		if op, ok := ir.ParseBinOp(n.Name()); ok && op.IsComparison() {
			return ir.Bool
		}
		return c.TypeOf(n.Children[0])
	default:
		// Print routines return the number of bytes written.
		return ir.Int
	}
}

// validate validates the statement n and its sub-tree.
func (c *Checker) validate(n *Node) {
	switch n.Typ {
	case BLOCK:
		for _, e1 := range n.Children {
			c.validate(e1)
		}
	case DECLARATION:
		if typ, ok := c.validateExpr(n.Children[1]); ok && typ != n.DeclType() {
			c.errs.Errorf(n.Line, n.Pos, "cannot assign %v to %q of type %v", typ, n.Name(), n.DeclType())
		}
	case ASSIGNMENT_STATEMENT:
		typ, ok := c.validateExpr(n.Children[0])
		s, declared := c.syms[n.Name()]
		if ok && declared && typ != s.Typ {
			c.errs.Errorf(n.Line, n.Pos, "cannot assign %v to %q of type %v", typ, s.Name, s.Typ)
		}
	case IF_STATEMENT:
		if typ, ok := c.validateExpr(n.Children[0]); ok && typ != ir.Bool {
			c.errs.Errorf(n.Line, n.Pos, "if condition must be %v, got %v", ir.Bool, typ)
		}
		c.validate(n.Children[1])
	default:
		c.validateExpr(n)
	}
}

// validateExpr validates an expression and returns its resulting datatype.
// The second return value is false if the expression is illegal, in which case a diagnostic was recorded.
func (c *Checker) validateExpr(n *Node) (ir.Type, bool) {
	switch n.Typ {
	case INTEGER_DATA, FLOAT_DATA, STRING_DATA, BOOL_DATA:
		return c.TypeOf(n), true
	case IDENTIFIER_DATA:
		if _, ok := c.syms[n.Name()]; !ok {
			// Already reported by Resolve.
			return 0, false
		}
		return c.TypeOf(n), true
	case PRINT_STATEMENT:
		want := printArg[n.Name()]
		if len(n.Children) != 1 {
			c.errs.Errorf(n.Line, n.Pos, "%s takes exactly one argument, got %d", n.Name(), len(n.Children))
			for _, e1 := range n.Children {
				c.validateExpr(e1)
			}
			return 0, false
		}
		typ, ok := c.validateExpr(n.Children[0])
		if !ok {
			return 0, false
		}
		if typ != want {
			c.errs.Errorf(n.Line, n.Pos, "%s takes a %v argument, got %v", n.Name(), want, typ)
			return 0, false
		}
		return ir.Int, true
	case FUNCTION_CALL:
		c.errs.Errorf(n.Line, n.Pos, "undeclared function %q", n.Name())
		return 0, false
	case EXPRESSION:
		return c.validateBinary(n)
	default:
		c.errs.Errorf(n.Line, n.Pos, "%s is not an expression", n.Type())
		return 0, false
	}
}

// validateBinary validates the operator expression n.
func (c *Checker) validateBinary(n *Node) (ir.Type, bool) {
	if len(n.Children) != 2 {
		c.errs.Errorf(n.Line, n.Pos, "unary operator %s is not supported", n.Name())
		return 0, false
	}

	c0t, ok0 := c.validateExpr(n.Children[0])
	c1t, ok1 := c.validateExpr(n.Children[1])
	if !ok0 || !ok1 {
		return 0, false
	}

	op, ok := ir.ParseBinOp(n.Name())
	if !ok {
		c.errs.Errorf(n.Line, n.Pos, "operator %s is not supported", n.Name())
		return 0, false
	}

	// Use lookup table to quickly determine compatibility.
	if c0t != c1t || !lut[c0t][op] {
		c.errs.Errorf(n.Line, n.Pos, "illegal expression: %v %v %v", c0t, op, c1t)
		return 0, false
	}
	return c.TypeOf(n), true
}
