package frontend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"illusio/src/ast"
	"illusio/src/ir"
)

// dump returns the printed syntax tree of n.
func dump(n *ast.Node) string {
	var sb strings.Builder
	n.Print(&sb, 0, false)
	return sb.String()
}

func TestParseDeclaration(t *testing.T) {
	root, err := Parse("x int = 2 + 3 * 4\nputs_int(x)")
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	decl := root.Children[0]
	assert.Equal(t, ast.DECLARATION, decl.Typ)
	assert.Equal(t, "x", decl.Data)
	assert.Equal(t, ir.Int, decl.DeclType())

	exp := `DECLARATION ["x"]
  TYPE_DATA [int]
  EXPRESSION ["+"]
    INTEGER_DATA [2]
    EXPRESSION ["*"]
      INTEGER_DATA [3]
      INTEGER_DATA [4]
`
	assert.Equal(t, exp, dump(decl))

	pr := root.Children[1]
	assert.Equal(t, ast.PRINT_STATEMENT, pr.Typ)
	assert.Equal(t, ast.PrintIntName, pr.Data)
	require.Len(t, pr.Children, 1)
	assert.Equal(t, ast.IDENTIFIER_DATA, pr.Children[0].Typ)
}

func TestParsePrecedence(t *testing.T) {
	for _, tc := range []struct {
		src string
		exp string
	}{
		// Left associative.
		{"10 - 4 - 3", "((10 - 4) - 3)"},
		{"8 / 2 / 2", "((8 / 2) / 2)"},
		{"1 + 2 > 2 == true", "(((1 + 2) > 2) == true)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 * 7 % 4", "(2 * (7 % 4))"},
		{"a | b & c", "(a | (b & c))"},
		{"-x + 1", "((-x) + 1)"},
	} {
		root, err := Parse(tc.src)
		if assert.NoError(t, err, tc.src) && assert.Len(t, root.Children, 1, tc.src) {
			assert.Equal(t, tc.exp, infix(root.Children[0]), tc.src)
		}
	}
}

// infix renders expression n fully parenthesised.
func infix(n *ast.Node) string {
	switch n.Typ {
	case ast.EXPRESSION:
		if len(n.Children) == 1 {
			return "(" + n.Name() + infix(n.Children[0]) + ")"
		}
		return "(" + infix(n.Children[0]) + " " + n.Name() + " " + infix(n.Children[1]) + ")"
	case ast.IDENTIFIER_DATA:
		return n.Name()
	default:
		s := n.String()
		return s[strings.Index(s, "[")+1 : len(s)-1]
	}
}

func TestParseStatements(t *testing.T) {
	src := `x int = 10
if x > 5
	puts("big")
	x = x - 1;
end
do
	y float = 1.5
	puts_float(y)
end
x + 1
`
	root, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, root.Children, 4)

	ifs := root.Children[1]
	assert.Equal(t, ast.IF_STATEMENT, ifs.Typ)
	assert.Equal(t, 2, ifs.Line)
	require.Len(t, ifs.Children, 2)
	assert.Equal(t, ast.EXPRESSION, ifs.Children[0].Typ)

	body := ifs.Children[1]
	assert.Equal(t, ast.BLOCK, body.Typ)
	require.Len(t, body.Children, 2)
	assert.Equal(t, ast.PRINT_STATEMENT, body.Children[0].Typ)
	assert.Equal(t, "big", body.Children[0].Children[0].Data)
	assert.Equal(t, ast.ASSIGNMENT_STATEMENT, body.Children[1].Typ)
	assert.Equal(t, "x", body.Children[1].Data)

	blk := root.Children[2]
	assert.Equal(t, ast.BLOCK, blk.Typ)
	require.Len(t, blk.Children, 2)
	assert.Equal(t, ir.Float, blk.Children[0].DeclType())
	assert.Equal(t, 1.5, blk.Children[0].Children[1].Data)

	assert.Equal(t, "(x + 1)", infix(root.Children[3]))
}

func TestParseLiterals(t *testing.T) {
	root, err := Parse(`a int = 0xff; b int = 0b101; c bool = false; d str = "q"; e int = 9_223_372_036_854_775_807`)
	require.NoError(t, err)
	require.Len(t, root.Children, 5)

	assert.Equal(t, int64(255), root.Children[0].Children[1].Data)
	assert.Equal(t, int64(5), root.Children[1].Children[1].Data)
	assert.Equal(t, false, root.Children[2].Children[1].Data)
	assert.Equal(t, "q", root.Children[3].Children[1].Data)
	assert.Equal(t, int64(9223372036854775807), root.Children[4].Children[1].Data)
}

func TestParseCall(t *testing.T) {
	root, err := Parse(`foo(1, "a")`)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	call := root.Children[0]
	assert.Equal(t, ast.FUNCTION_CALL, call.Typ)
	assert.Equal(t, "foo", call.Data)
	assert.Len(t, call.Children, 2)

	root, err = Parse(`puts()`)
	require.NoError(t, err)
	assert.Len(t, root.Children[0].Children, 0)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		src string
		msg string
	}{
		{"if x > 1\nputs(\"a\")", "expected `end`"},
		{"x int 5", `expected "="`},
		{"x int = )", "expected expression"},
		{"fun f end", "fun declarations are not supported"},
		{"enum E a, b end", "enum declarations are not supported"},
		{"x int = 99999999999999999999", "out of range"},
		{"puts(\"a\"", `expected ")"`},
		{"s str = \"abc", "unclosed string"},
	} {
		_, err := Parse(tc.src)
		if assert.Error(t, err, tc.src) {
			assert.Contains(t, err.Error(), tc.msg, tc.src)
		}
	}
}

func TestParseCollectsErrors(t *testing.T) {
	_, err := Parse("x int = )\ny int = )\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1:9")
	assert.Contains(t, err.Error(), "line 2:9")
}
