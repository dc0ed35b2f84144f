// tree.go provides the parser transforming the token stream into a syntax tree of ast.Nodes. The parser pulls
// tokens from the lexer on demand and uses top down operator precedence (Pratt) parsing for expressions.

package frontend

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"tlog.app/go/errors"

	"illusio/src/ast"
	"illusio/src/ir"
	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// parser holds the state of one parse.
type parser struct {
	l    *lexer
	tok  item            // Current token.
	errs *util.ErrorList // Diagnostics collected so far.
}

// ---------------------
// ----- Constants -----
// ---------------------

// unaryBindingPower binds prefix operators tighter than any infix operator.
const unaryBindingPower = 40

// maxErrors stops the parse once this many diagnostics were collected.
const maxErrors = 32

// ---------------------
// ----- Functions -----
// ---------------------

// Parse parses the syntax tree from the source code. The root of the tree is a PROGRAM node.
// All syntax errors are collected and returned together.
func Parse(src string) (*ast.Node, error) {
	p := &parser{
		l:    newLexer(src, lexGlobal),
		errs: util.NewErrorList(0),
	}
	p.next()

	root := &ast.Node{Typ: ast.PROGRAM, Line: 1, Pos: 1}
	for p.tok.typ != itemEOF && p.errs.Len() < maxErrors {
		if s := p.statement(); s != nil {
			root.Children = append(root.Children, s)
		}
	}

	if err := p.errs.Err(); err != nil {
		return nil, errors.Wrap(err, "syntax")
	}
	return root, nil
}

// TokenStream writes the token table of the given source string to w.
func TokenStream(w io.Writer, src string) error {
	l := newLexer(src, lexGlobal)

	tw := tabwriter.NewWriter(w, 10, 20, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Value\tType\tPosition\n")
	for {
		t := l.nextItem()
		switch t.typ {
		case itemEOF:
			return tw.Flush()
		case itemError:
			_ = tw.Flush()
			return errors.New("line %d:%d: %s", t.line, t.pos, t.val)
		default:
			if len(t.val) > 20 {
				_, _ = fmt.Fprintf(tw, "%.17q...\t%s\tline: %d:%d\n", t.val, tokenName(t.typ), t.line, t.pos)
			} else {
				_, _ = fmt.Fprintf(tw, "%q\t%s\tline: %d:%d\n", t.val, tokenName(t.typ), t.line, t.pos)
			}
		}
	}
}

// next advances to the next token. Lexical errors are recorded and end the token stream.
func (p *parser) next() {
	p.tok = p.l.nextItem()
	if p.tok.typ == itemError {
		p.errs.Errorf(p.tok.line, p.tok.pos, "%s", p.tok.val)
		p.tok = item{typ: itemEOF, line: p.tok.line, pos: p.tok.pos}
	}
}

// errorf records a diagnostic at the current token.
func (p *parser) errorf(format string, args ...interface{}) {
	p.errs.Errorf(p.tok.line, p.tok.pos, format, args...)
}

// expect consumes the current token if it is of type typ, else a diagnostic is recorded.
func (p *parser) expect(typ itemType) bool {
	if p.tok.typ != typ {
		p.errorf("expected %q, found %s", tokenName(typ), p.describe())
		return false
	}
	p.next()
	return true
}

// describe returns the current token for use in diagnostics.
func (p *parser) describe() string {
	if p.tok.typ == itemEOF {
		return "end of file"
	}
	return strconv.Quote(p.tok.val)
}

// node returns a new node positioned at token t.
func node(typ ast.NodeType, t item, data interface{}, children ...*ast.Node) *ast.Node {
	return &ast.Node{Typ: typ, Line: t.line, Pos: t.pos, Data: data, Children: children}
}

// statement parses one statement. It returns <nil> on statements that could not be parsed.
func (p *parser) statement() *ast.Node {
	t := p.tok
	switch t.typ {
	case itemDo:
		p.next()
		return p.block(t)
	case itemIf:
		p.next()
		cond := p.expr(0)
		body := p.block(t)
		if cond == nil || body == nil {
			return nil
		}
		return node(ast.IF_STATEMENT, t, nil, cond, body)
	case itemFun, itemEnum:
		p.errorf("%s declarations are not supported", t.val)
		p.skipDeclaration()
		return nil
	case itemIdentifier:
		p.next()
		switch p.tok.typ {
		case itemTypeName:
			return p.declaration(t)
		case '=':
			p.next()
			val := p.expr(0)
			p.semicolon()
			if val == nil {
				return nil
			}
			return node(ast.ASSIGNMENT_STATEMENT, t, t.val, val)
		}
		left := p.identifier(t)
		if left == nil {
			return nil
		}
		n := p.infix(left, 0)
		p.semicolon()
		return n
	default:
		n := p.expr(0)
		p.semicolon()
		return n
	}
}

// declaration parses the rest of a variable declaration, name type = value. The name is already consumed.
func (p *parser) declaration(name item) *ast.Node {
	tt := p.tok
	typ, _ := ir.ParseType(tt.val)
	p.next()
	if !p.expect('=') {
		return nil
	}
	val := p.expr(0)
	p.semicolon()
	if val == nil {
		return nil
	}
	return node(ast.DECLARATION, name, name.val, node(ast.TYPE_DATA, tt, typ), val)
}

// block parses statements up to and including the closing end keyword into a BLOCK node positioned at t.
func (p *parser) block(t item) *ast.Node {
	b := node(ast.BLOCK, t, nil)
	for p.tok.typ != itemEnd {
		if p.tok.typ == itemEOF || p.errs.Len() >= maxErrors {
			p.errorf("expected `end` at end of block started on line %d:%d", t.line, t.pos)
			return nil
		}
		if s := p.statement(); s != nil {
			b.Children = append(b.Children, s)
		}
	}
	p.next()
	return b
}

// skipDeclaration skips an unsupported declaration up to its matching end keyword.
func (p *parser) skipDeclaration() {
	depth := 0
	for p.tok.typ != itemEOF {
		switch p.tok.typ {
		case itemFun, itemEnum, itemDo, itemIf:
			depth++
		case itemEnd:
			depth--
		}
		p.next()
		if depth == 0 {
			return
		}
	}
}

// semicolon consumes an optional statement terminating semicolon.
func (p *parser) semicolon() {
	if p.tok.typ == ';' {
		p.next()
	}
}

// lbp returns the left binding power of token type typ. Tokens that do not continue an expression have -1.
func lbp(typ itemType) int {
	switch typ {
	case '%':
		return 25
	case '*', '/':
		return 15
	case '+', '-':
		return 10
	case '>', '<', itemGE, itemLE:
		return 5
	case itemEQ, itemNE:
		return 3
	case '&':
		return 2
	case '|', ':':
		return 1
	default:
		return -1
	}
}

// expr parses an expression with right binding power rbp.
func (p *parser) expr(rbp int) *ast.Node {
	left := p.nud()
	if left == nil {
		return nil
	}
	return p.infix(left, rbp)
}

// infix extends left with infix operators binding tighter than rbp.
func (p *parser) infix(left *ast.Node, rbp int) *ast.Node {
	for rbp < lbp(p.tok.typ) {
		op := p.tok
		p.next()
		right := p.expr(lbp(op.typ))
		if right == nil {
			return nil
		}
		left = node(ast.EXPRESSION, op, op.val, left, right)
	}
	return left
}

// nud parses the operand at the current token.
func (p *parser) nud() *ast.Node {
	t := p.tok
	switch t.typ {
	case itemString:
		p.next()
		return node(ast.STRING_DATA, t, t.val)
	case itemInteger:
		p.next()
		v, err := parseInteger(t.val)
		if err != nil {
			p.errs.Errorf(t.line, t.pos, "%v", err)
			return nil
		}
		return node(ast.INTEGER_DATA, t, v)
	case itemFloat:
		p.next()
		v, err := strconv.ParseFloat(t.val, 64)
		if err != nil {
			p.errs.Errorf(t.line, t.pos, "malformed float literal %q", t.val)
			return nil
		}
		return node(ast.FLOAT_DATA, t, v)
	case itemBool:
		p.next()
		return node(ast.BOOL_DATA, t, t.val == "true")
	case '(':
		p.next()
		n := p.expr(-1)
		if !p.expect(')') || n == nil {
			return nil
		}
		return n
	case '+', '-', '!', '&':
		p.next()
		x := p.expr(unaryBindingPower)
		if x == nil {
			return nil
		}
		return node(ast.EXPRESSION, t, t.val, x)
	case itemIdentifier:
		p.next()
		return p.identifier(t)
	default:
		p.errorf("expected expression, found %s", p.describe())
		p.next()
		return nil
	}
}

// identifier parses a variable reference or a call. The name t is already consumed.
func (p *parser) identifier(t item) *ast.Node {
	if p.tok.typ != '(' {
		return node(ast.IDENTIFIER_DATA, t, t.val)
	}
	p.next()

	typ := ast.FUNCTION_CALL
	if ast.IsBuiltin(t.val) {
		typ = ast.PRINT_STATEMENT
	}
	call := node(typ, t, t.val)

	ok := true
	for p.tok.typ != ')' && p.tok.typ != itemEOF {
		arg := p.expr(0)
		if arg == nil {
			ok = false
		} else {
			call.Children = append(call.Children, arg)
		}
		if p.tok.typ != ',' {
			break
		}
		p.next()
	}
	if !p.expect(')') || !ok {
		return nil
	}
	return call
}

// parseInteger parses a decimal, 0x hexadecimal or 0b binary integer literal into a 64-bit integer.
func parseInteger(s string) (int64, error) {
	base := 10
	digits := s
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'b') {
		base = 16
		if s[1] == 'b' {
			base = 2
		}
		digits = s[2:]
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil || v > math.MaxInt64 {
		return 0, errors.New("integer literal %q out of range", s)
	}
	return int64(v), nil
}
