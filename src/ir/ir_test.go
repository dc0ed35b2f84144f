package ir

import (
	"testing"

	"github.com/m1gwings/treedrawer/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"illusio/src/util"
)

func TestInverse(t *testing.T) {
	for _, tc := range []struct {
		op  BinOp
		inv BinOp
		ok  bool
	}{
		{Eq, Neq, true},
		{Gt, Lt, true},
		{Neq, 0, false},
		{Lt, 0, false},
		{Ge, 0, false},
		{Le, 0, false},
		{Add, 0, false},
		{Div, 0, false},
	} {
		inv, ok := tc.op.Inverse()
		assert.Equal(t, tc.ok, ok, "op %v", tc.op)
		if tc.ok {
			assert.Equal(t, tc.inv, inv, "op %v", tc.op)
		}
	}
}

func TestMustInverse(t *testing.T) {
	assert.Equal(t, Neq, Eq.MustInverse())
	assert.Equal(t, Lt, Gt.MustInverse())

	defer func() {
		f := util.AsFatal(recover())
		require.NotNil(t, f)
		assert.Contains(t, f.Msg, "<=")
	}()

	Le.MustInverse()
	t.Fatalf("MustInverse(<=) returned")
}

func TestParseBinOp(t *testing.T) {
	for _, s := range []string{"+", "-", "*", "/", "==", "!=", ">", "<", ">=", "<="} {
		op, ok := ParseBinOp(s)
		require.True(t, ok, s)
		assert.Equal(t, s, op.String())
	}

	_, ok := ParseBinOp("%")
	assert.False(t, ok)

	assert.True(t, Ge.IsComparison())
	assert.False(t, Mul.IsComparison())
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, "-3", IntLit(-3).String())
	assert.Equal(t, "2.0", FloatLit(2).String())
	assert.Equal(t, "0.5", FloatLit(0.5).String())
	assert.Equal(t, `"a\nb"`, StrLit("a\nb").String())
	assert.Equal(t, "true", BoolLit(true).String())
}

func TestStructuralEquality(t *testing.T) {
	mk := func() Stmt {
		return Var{Name: "x", Type: Int, X: Value{Val: Binary{
			Left:  Value{Val: IntLit(2), Type: Int},
			Op:    Add,
			Right: Value{Val: IntLit(3), Type: Int},
		}, Type: Int}}
	}

	assert.Equal(t, mk(), mk())
	assert.NotEqual(t, mk(), Var{Name: "y", Type: Int, X: Value{Val: IntLit(5), Type: Int}})
}

func TestProgramListing(t *testing.T) {
	p := Program{
		Var{Name: "x", Type: Int, X: Value{Val: IntLit(10), Type: Int}},
		If{
			Cond: Value{Val: Binary{Left: GetVar{Name: "x"}, Op: Gt, Right: Value{Val: IntLit(5), Type: Int}}, Type: Int},
			Then: []Stmt{ExprStmt{X: PrintStr{Arg: Value{Val: StrLit("big"), Type: Str}}}},
		},
		SetVar{Name: "x", X: Value{Val: IntLit(1), Type: Int}},
	}

	exp := `var x int = 10:int
if (x > 5:int):int {
	puts("big":str)
} else {
}
set x = 1:int
`
	assert.Equal(t, exp, p.String())
	assert.Equal(t, `if (x > 5:int):int { puts("big":str) } else {  }`, p[1].String())
}

func TestTree(t *testing.T) {
	e := PrintInt{Arg: Value{Val: Binary{
		Left:  GetVar{Name: "x"},
		Op:    Mul,
		Right: Value{Val: IntLit(7), Type: Int},
	}, Type: Int}}

	tr := Tree(e)
	assert.Equal(t, tree.NodeString("puts_int"), tr.Val())

	mul, err := tr.Child(0)
	require.NoError(t, err)
	assert.Equal(t, tree.NodeString("*:int"), mul.Val())

	x, err := mul.Child(0)
	require.NoError(t, err)
	assert.Equal(t, tree.NodeString("x"), x.Val())

	_, err = mul.Child(2)
	assert.Error(t, err)

	s := StmtTree(If{Cond: GetVar{Name: "c"}, Then: []Stmt{ExprStmt{X: e}}})
	then, err := s.Child(1)
	require.NoError(t, err)
	assert.Equal(t, tree.NodeString("then"), then.Val())

	pr, err := then.Child(0)
	require.NoError(t, err)
	assert.Equal(t, tree.NodeString("puts_int"), pr.Val())

	assert.NotEmpty(t, s.String())
}
