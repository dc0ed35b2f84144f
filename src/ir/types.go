package ir

import (
	"fmt"
	"strconv"

	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Type is the value type of an IR expression.
type Type int

// Literal is an immutable constant. Kind selects which of the payload fields is meaningful.
type Literal struct {
	Kind Type    // Type of the constant.
	I    int64   // Payload of Int literals.
	F    float64 // Payload of Float literals.
	S    string  // Payload of Str literals, escapes already decoded.
	B    bool    // Payload of Bool literals.
}

// BinOp is a binary operator.
type BinOp int

// ---------------------
// ----- Constants -----
// ---------------------

// Value types. Int, Bool and Str are machine words, Float is a 64-bit float.
const (
	Int Type = iota
	Float
	Str
	Bool
)

// Binary operators.
const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Eq
	Neq
	Gt
	Lt
	Ge
	Le
)

// -------------------
// ----- Globals -----
// -------------------

// typeNames defines strings for print friendly output of Type. They match the source keywords.
var typeNames = [...]string{
	Int:   "int",
	Float: "float",
	Str:   "str",
	Bool:  "bool",
}

// opSpellings defines the source spelling of every binary operator.
var opSpellings = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Eq:  "==",
	Neq: "!=",
	Gt:  ">",
	Lt:  "<",
	Ge:  ">=",
	Le:  "<=",
}

// ---------------------
// ----- functions -----
// ---------------------

// String returns the source keyword of type t.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the Type named by the source keyword s.
func ParseType(s string) (Type, bool) {
	for i1, e1 := range typeNames {
		if e1 == s {
			return Type(i1), true
		}
	}
	return 0, false
}

// IntLit returns an Int literal.
func IntLit(v int64) Literal {
	return Literal{Kind: Int, I: v}
}

// FloatLit returns a Float literal.
func FloatLit(v float64) Literal {
	return Literal{Kind: Float, F: v}
}

// StrLit returns a Str literal.
func StrLit(v string) Literal {
	return Literal{Kind: Str, S: v}
}

// BoolLit returns a Bool literal.
func BoolLit(v bool) Literal {
	return Literal{Kind: Bool, B: v}
}

// String returns the literal the way it would be spelled in source.
func (l Literal) String() string {
	switch l.Kind {
	case Int:
		return strconv.FormatInt(l.I, 10)
	case Float:
		s := strconv.FormatFloat(l.F, 'g', -1, 64)
		for _, c := range s {
			if c == '.' || c == 'e' || c == 'n' || c == 'I' {
				return s
			}
		}
		return s + ".0"
	case Str:
		return strconv.Quote(l.S)
	case Bool:
		return strconv.FormatBool(l.B)
	default:
		return fmt.Sprintf("literal(%d)", int(l.Kind))
	}
}

// String returns the source spelling of op.
func (op BinOp) String() string {
	if op < 0 || int(op) >= len(opSpellings) {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opSpellings[op]
}

// ParseBinOp returns the operator spelled s in source.
func ParseBinOp(s string) (BinOp, bool) {
	for i1, e1 := range opSpellings {
		if e1 == s {
			return BinOp(i1), true
		}
	}
	return 0, false
}

// IsComparison returns true if op produces a truth value rather than an arithmetic result.
func (op BinOp) IsComparison() bool {
	return op >= Eq && op <= Le
}

// Inverse returns the operator paired with op. Only Eq and Gt have one, Neq and Lt respectively.
// The second return value is false for every other operator.
func (op BinOp) Inverse() (BinOp, bool) {
	switch op {
	case Eq:
		return Neq, true
	case Gt:
		return Lt, true
	default:
		return 0, false
	}
}

// MustInverse is like Inverse, but it raises a fatal report for operators without an inverse.
func (op BinOp) MustInverse() BinOp {
	inv, ok := op.Inverse()
	if !ok {
		util.Fatalf("operator %v has no inverse", op)
	}
	return inv
}
