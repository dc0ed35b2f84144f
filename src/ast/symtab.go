package ast

import (
	"fmt"

	"illusio/src/ir"
	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Symbol refers to a variable's entry in a scope.
type Symbol struct {
	Name   string  // Name of the variable in source.
	Unique string  // Program wide unique name given to this declaration.
	Typ    ir.Type // Declared data type.
	Node   *Node   // Pointer to Symbol's DECLARATION node in syntax tree.
}

// SymTab is one scope, mapping source names to the declarations visible in it.
type SymTab map[string]*Symbol

// Symbols maps unique names to their declaration.
type Symbols map[string]*Symbol

// resolver carries the state of one name resolution pass.
type resolver struct {
	scopes util.Stack[SymTab]
	seen   map[string]int // Number of declarations of each source name so far.
	syms   Symbols
	errs   *util.ErrorList
}

// ---------------------
// ----- Constants -----
// ---------------------

const hTabSize = 16 // Initial scope capacity.

// ----------------------
// ----- Functions ------
// ----------------------

// Resolve binds every identifier under root to its declaration and gives every declaration a unique name.
// A declaration that shadows or re-declares a name is renamed name.1, name.2 and so on, and every use is
// rewritten to the unique name in place. After Resolve a flat name to slot environment is sufficient for
// code generation.
//
// do blocks and if bodies open a scope. A declaration's value is resolved before the name it declares is bound.
func Resolve(root *Node) (Symbols, error) {
	r := resolver{
		seen: make(map[string]int, hTabSize),
		syms: make(Symbols, hTabSize),
		errs: util.NewErrorList(0),
	}

	r.scopes.Push(make(SymTab, hTabSize))
	for _, e1 := range root.Children {
		r.bind(e1)
	}
	r.scopes.Pop()

	return r.syms, r.errs.Err()
}

// bind resolves the names in the sub-tree rooted at n.
func (r *resolver) bind(n *Node) {
	if n == nil {
		return
	}

	switch n.Typ {
	case BLOCK:
		r.scopes.Push(make(SymTab, hTabSize))
		for _, e1 := range n.Children {
			r.bind(e1)
		}
		r.scopes.Pop()
	case DECLARATION:
		r.bind(n.Children[1])
		r.declare(n)
	case ASSIGNMENT_STATEMENT:
		r.bind(n.Children[0])
		if s, ok := r.lookup(n.Name()); ok {
			n.Data = s.Unique
		} else {
			r.errs.Errorf(n.Line, n.Pos, "assignment to undeclared variable %q", n.Name())
		}
	case IDENTIFIER_DATA:
		if s, ok := r.lookup(n.Name()); ok {
			n.Data = s.Unique
		} else {
			r.errs.Errorf(n.Line, n.Pos, "undeclared variable %q", n.Name())
		}
	default:
		for _, e1 := range n.Children {
			r.bind(e1)
		}
	}
}

// declare binds the DECLARATION n in the innermost scope.
func (r *resolver) declare(n *Node) {
	name := n.Name()
	unique := name
	if k := r.seen[name]; k > 0 {
		unique = fmt.Sprintf("%s.%d", name, k)
	}
	r.seen[name]++

	s := &Symbol{
		Name:   name,
		Unique: unique,
		Typ:    n.DeclType(),
		Node:   n,
	}
	scope, _ := r.scopes.Peek()
	scope[name] = s
	r.syms[unique] = s
	n.Data = unique
}

// lookup searches the scopes top down for name.
func (r *resolver) lookup(name string) (*Symbol, bool) {
	for i1 := 1; i1 <= r.scopes.Size(); i1++ {
		scope, _ := r.scopes.Get(i1)
		if s, ok := scope[name]; ok {
			return s, true
		}
	}
	return nil, false
}
