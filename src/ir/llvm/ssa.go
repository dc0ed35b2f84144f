package llvm

import (
	"tinygo.org/x/go-llvm"

	"illusio/src/ir"
	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// block is a basic block with typed parameters. Parameters are phi nodes at the top of the block, and every jump
// into the block supplies one argument per parameter.
type block struct {
	bb         llvm.BasicBlock
	name       string
	params     []llvm.Value
	preds      []*block
	sealed     bool
	incomplete map[*variable]llvm.Value // Phis read in the block before it was sealed.
}

// variable is one declared slot. A re-declaration of a name gets a new variable.
type variable struct {
	name string
	typ  ir.Type
	defs map[*block]llvm.Value // Current definition per block.
}

// function holds the control flow graph and variable state of the function being generated.
// Variables are resolved to SSA values on the fly: a read looks for a definition in the current block, then
// walks the predecessors, inserting phis where control flow merges. Reads in unsealed blocks create incomplete
// phis that are completed when the block is sealed.
type function struct {
	ctx    llvm.Context
	b      llvm.Builder // Instruction builder.
	phis   llvm.Builder // Builder inserting phis at the top of blocks.
	fn     llvm.Value
	blocks []*block
	cur    *block
	vars   map[string]*variable // Current binding of every name.
	labels util.Labels
}

// ---------------------
// ----- functions -----
// ---------------------

// newFunction starts the body of fn with a sealed entry block.
func newFunction(ctx llvm.Context, b llvm.Builder, fn llvm.Value) *function {
	f := &function{
		ctx:  ctx,
		b:    b,
		phis: ctx.NewBuilder(),
		fn:   fn,
		vars: make(map[string]*variable, mapSize),
	}

	entry := f.newBlock(util.LabelEntry)
	f.switchTo(entry)
	f.seal(entry)
	return f
}

// dispose releases the phi builder.
func (f *function) dispose() {
	f.phis.Dispose()
}

// llvmType returns the native type of t. Everything but floats is a machine word.
func (f *function) llvmType(t ir.Type) llvm.Type {
	if t == ir.Float {
		return f.ctx.DoubleType()
	}
	return f.ctx.Int64Type()
}

// zero returns the zero value of type t.
func (f *function) zero(t ir.Type) llvm.Value {
	if t == ir.Float {
		return llvm.ConstFloat(f.ctx.DoubleType(), 0)
	}
	return llvm.ConstInt(f.ctx.Int64Type(), 0, false)
}

// newBlock appends a new, unsealed block of label kind to the function.
func (f *function) newBlock(kind int) *block {
	name := f.labels.New(kind)
	blk := &block{
		bb:         f.ctx.AddBasicBlock(f.fn, name),
		name:       name,
		incomplete: make(map[*variable]llvm.Value),
	}
	f.blocks = append(f.blocks, blk)
	return blk
}

// newPhi inserts an empty phi of type t at the top of blk.
func (f *function) newPhi(blk *block, t ir.Type) llvm.Value {
	if first := blk.bb.FirstInstruction(); first.IsNil() {
		f.phis.SetInsertPointAtEnd(blk.bb)
	} else {
		f.phis.SetInsertPointBefore(first)
	}
	return f.phis.CreatePHI(f.llvmType(t), "")
}

// appendParam adds a parameter of type t to blk and returns it.
func (f *function) appendParam(blk *block, t ir.Type) llvm.Value {
	if len(blk.preds) > 0 {
		util.Fatalf("parameter added to block %s after it was jumped to", blk.name)
	}
	p := f.newPhi(blk, t)
	blk.params = append(blk.params, p)
	return p
}

// switchTo makes blk the block instructions are appended to.
func (f *function) switchTo(blk *block) {
	f.cur = blk
	f.b.SetInsertPointAtEnd(blk.bb)
}

// addPred records the current block as predecessor of target.
func (f *function) addPred(target *block) {
	if target.sealed {
		util.Fatalf("jump from %s into sealed block %s", f.cur.name, target.name)
	}
	target.preds = append(target.preds, f.cur)
}

// jump terminates the current block with an unconditional branch to target passing args as target's parameters.
func (f *function) jump(target *block, args ...llvm.Value) {
	if len(args) != len(target.params) {
		util.Fatalf("jump to %s with %d arguments, block has %d parameters", target.name, len(args), len(target.params))
	}
	f.addPred(target)
	for i1, e1 := range target.params {
		e1.AddIncoming([]llvm.Value{args[i1]}, []llvm.BasicBlock{f.cur.bb})
	}
	f.b.CreateBr(target.bb)
}

// brif terminates the current block with a branch to then if cond is true and to els otherwise.
// Neither target may have parameters.
func (f *function) brif(cond llvm.Value, then, els *block) {
	if len(then.params) > 0 || len(els.params) > 0 {
		util.Fatalf("conditional branch to a block with parameters")
	}
	f.addPred(then)
	f.addPred(els)
	f.b.CreateCondBr(cond, then.bb, els.bb)
}

// seal declares that all predecessors of blk are known and completes the phis read in it so far.
func (f *function) seal(blk *block) {
	if blk.sealed {
		util.Fatalf("block %s sealed twice", blk.name)
	}
	for v, phi := range blk.incomplete {
		f.addPhiOperands(v, blk, phi)
	}
	blk.incomplete = nil
	blk.sealed = true
}

// finish checks that every block was sealed.
func (f *function) finish() {
	for _, e1 := range f.blocks {
		if !e1.sealed {
			util.Fatalf("block %s was never sealed", e1.name)
		}
	}
}

// declareVar binds name to a new variable of type t.
func (f *function) declareVar(name string, t ir.Type) *variable {
	v := &variable{
		name: name,
		typ:  t,
		defs: make(map[*block]llvm.Value),
	}
	f.vars[name] = v
	return v
}

// lookup returns the current binding of name. It is fatal if name is unbound.
func (f *function) lookup(name string) *variable {
	v, ok := f.vars[name]
	if !ok {
		util.Fatalf("unbound variable %q", name)
	}
	return v
}

// defVar sets the value of v in the current block.
func (f *function) defVar(v *variable, val llvm.Value) {
	v.defs[f.cur] = val
}

// useVar returns the value of v in the current block.
func (f *function) useVar(v *variable) llvm.Value {
	return f.readVar(v, f.cur)
}

// readVar returns the value of v reaching the end of blk.
func (f *function) readVar(v *variable, blk *block) llvm.Value {
	if val, ok := v.defs[blk]; ok {
		return val
	}

	var val llvm.Value
	switch {
	case !blk.sealed:
		// Predecessors may still be added: complete the phi on seal.
		val = f.newPhi(blk, v.typ)
		blk.incomplete[v] = val
	case len(blk.preds) == 0:
		// No definition reaches this point.
		val = f.zero(v.typ)
	case len(blk.preds) == 1:
		val = f.readVar(v, blk.preds[0])
	default:
		// Define the phi before reading the predecessors to break cycles.
		val = f.newPhi(blk, v.typ)
		v.defs[blk] = val
		f.addPhiOperands(v, blk, val)
	}
	v.defs[blk] = val
	return val
}

// addPhiOperands adds the value of v reaching the end of every predecessor of blk to phi.
func (f *function) addPhiOperands(v *variable, blk *block, phi llvm.Value) {
	for _, e1 := range blk.preds {
		phi.AddIncoming([]llvm.Value{f.readVar(v, e1)}, []llvm.BasicBlock{e1.bb})
	}
}
