// Package llvm transforms the typed IR into LLVM IR for the system installed LLVM runtime, compiles it in memory
// with MCJIT and runs it.
package llvm

import (
	"context"
	"sync"

	"tinygo.org/x/go-llvm"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"illusio/src/ir"
	"illusio/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Session is one compilation session. It owns an LLVM context, module and builder and generates exactly one
// entry point function. A Session is not safe for concurrent use.
type Session struct {
	opt  util.Options
	ctx  llvm.Context
	mod  llvm.Module
	b    llvm.Builder
	f    *function
	word llvm.Type

	detached bool // Set true once the module was handed to MCJIT, which owns it from then on.
	compiled bool // Set true once the context was handed to a Program.
}

// Program is a finalized entry point in executable memory.
type Program struct {
	ctx     llvm.Context
	ee      llvm.ExecutionEngine
	fn      llvm.Value
	listing string
}

// ---------------------
// ----- Constants -----
// ---------------------

const mapSize = 16 // Predefined size for a decently sized symbol table hash table.

// EntryName is the name of the generated entry point.
const EntryName = "main"

const (
	intFormat   = "%d\n"
	floatFormat = "%f\n"
)

// -------------------
// ----- globals -----
// -------------------

var stringPrefix = ".str" // Prefix all global strings with this prefix.

// native guards the one time initialisation of the host target.
var native struct {
	once sync.Once
	err  error
}

// ---------------------
// ----- functions -----
// ---------------------

// initNative initialises the host target and links in MCJIT once per process.
func initNative() error {
	native.once.Do(func() {
		llvm.LinkInMCJIT()
		if err := llvm.InitializeNativeTarget(); err != nil {
			native.err = errors.Wrap(err, "initialise native target")
			return
		}
		if err := llvm.InitializeNativeAsmPrinter(); err != nil {
			native.err = errors.Wrap(err, "initialise native asm printer")
		}
	})
	return native.err
}

// NewSession creates a fresh compilation session.
func NewSession(opt util.Options) *Session {
	ctx := llvm.NewContext()
	mod := ctx.NewModule("illusio")
	mod.SetTarget(llvm.DefaultTargetTriple())

	return &Session{
		opt:  opt,
		ctx:  ctx,
		mod:  mod,
		b:    ctx.NewBuilder(),
		word: ctx.Int64Type(),
	}
}

// Dispose releases the session. The module and context are released too, unless they were handed over to MCJIT
// and a Program. A Session must be disposed before the Program it compiled is closed.
func (s *Session) Dispose() {
	if s.f != nil {
		s.f.dispose()
		s.f = nil
	}
	s.b.Dispose()
	if !s.detached {
		s.mod.Dispose()
	}
	if !s.compiled {
		s.ctx.Dispose()
	}
}

// Compile generates the entry point from stmts, verifies it and finalizes it into executable memory.
// The entry point takes no arguments, runs stmts in order, flushes the C standard output and returns 0.
//
// Broken invariants of the input, such as reads of unbound variables, panic with a *util.Fatal. Failures of the
// host environment are returned as errors.
func (s *Session) Compile(ctx context.Context, stmts []ir.Stmt) (p *Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "codegen", "stmts", len(stmts))
	defer tr.Finish("err", &err)

	if s.compiled || s.f != nil {
		return nil, errors.New("session already compiled its entry point")
	}

	ftyp := llvm.FunctionType(s.word, nil, false)
	fn := llvm.AddFunction(s.mod, EntryName, ftyp)
	fn.SetLinkage(llvm.ExternalLinkage)

	s.f = newFunction(s.ctx, s.b, fn)

	for _, e1 := range stmts {
		s.genStmt(e1)
	}

	// Flush C stdio buffers: no libc exit handler runs for the host process of a JIT.
	s.call(s.fflush(), llvm.ConstInt(s.word, 0, false))
	s.b.CreateRet(llvm.ConstInt(s.word, 0, false))
	s.f.finish()

	verify(fn, s.mod)

	listing := s.mod.String()
	if tr.If("dump_llvm") {
		tr.Printw("llvm ir", "module", listing)
	}

	if err = initNative(); err != nil {
		return nil, err
	}

	opts := llvm.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(uint(s.opt.OptLevel))

	// MCJIT takes the module, on failure too.
	s.detached = true
	ee, err := llvm.NewMCJITCompiler(s.mod, opts)
	if err != nil {
		return nil, errors.Wrap(err, "create mcjit")
	}
	s.compiled = true

	tr.Printw("entry point finalized", "opt_level", s.opt.OptLevel, "blocks", len(s.f.blocks))

	return &Program{
		ctx:     s.ctx,
		ee:      ee,
		fn:      fn,
		listing: listing,
	}, nil
}

// verify checks the structure of fn. A malformed function is fatal and the report carries the listing of mod.
func verify(fn llvm.Value, mod llvm.Module) {
	if err := llvm.VerifyFunction(fn, llvm.ReturnStatusAction); err != nil {
		util.FatalListing(mod.String(), "function verification failed: %v", err)
	}
}

// Run invokes the entry point once and returns its result.
func (p *Program) Run(ctx context.Context) int64 {
	gv := p.ee.RunFunction(p.fn, nil)
	defer gv.Dispose()

	res := int64(gv.Int(true))
	tlog.SpanFromContext(ctx).Printw("entry point returned", "result", res)
	return res
}

// Close releases the executable memory, the module and its context. It must be called after the last Run.
func (p *Program) Close() {
	p.ee.Dispose()
	p.ctx.Dispose()
}

// String returns the LLVM IR listing of the module.
func (p *Program) String() string {
	return p.listing
}

// genStmt generates LLVM IR for statement n and returns the statement's value.
// Declarations, assignments and expression statements have the value 0. Conditionals have the value of the branch
// taken.
func (s *Session) genStmt(n ir.Stmt) llvm.Value {
	switch n := n.(type) {
	case ir.ExprStmt:
		s.genExpr(n.X)
		return s.null()
	case ir.Var:
		val := s.genExpr(n.X)
		v := s.f.declareVar(n.Name, n.Type)
		s.f.defVar(v, val)
		return s.null()
	case ir.SetVar:
		val := s.genExpr(n.X)
		v, ok := s.f.vars[n.Name]
		if !ok {
			util.Fatalf("assignment to unbound variable %q", n.Name)
		}
		s.f.defVar(v, val)
		return s.null()
	case ir.If:
		return s.genIf(n)
	default:
		util.Fatalf("unsupported statement %T", n)
		return llvm.Value{}
	}
}

// genIf generates LLVM IR for a conditional. Both branches jump to a merge block passing their value as the merge
// block's single parameter, which becomes the value of the conditional.
func (s *Session) genIf(n ir.If) llvm.Value {
	cond := s.genExpr(n.Cond)
	isTrue := s.b.CreateICmp(llvm.IntNE, cond, llvm.ConstInt(cond.Type(), 0, false), "")

	thn := s.f.newBlock(util.LabelThen)
	els := s.f.newBlock(util.LabelElse)
	merge := s.f.newBlock(util.LabelMerge)
	res := s.f.appendParam(merge, ir.Int)

	s.f.brif(isTrue, thn, els)

	// Generate THEN.
	s.f.switchTo(thn)
	s.f.seal(thn)
	s.f.jump(merge, s.genBody(n.Then))

	// Generate ELSE.
	s.f.switchTo(els)
	s.f.seal(els)
	s.f.jump(merge, s.genBody(n.Else))

	// Both predecessors of merge are known now.
	s.f.switchTo(merge)
	s.f.seal(merge)
	return res
}

// genBody generates the statements of a branch and returns the value of the last one, or 0 if there are none.
func (s *Session) genBody(stmts []ir.Stmt) llvm.Value {
	res := s.null()
	for _, e1 := range stmts {
		res = s.genStmt(e1)
	}
	return res
}

// genExpr generates LLVM IR for expression n and returns its value.
func (s *Session) genExpr(n ir.Expr) llvm.Value {
	switch n := n.(type) {
	case ir.GetVar:
		return s.f.useVar(s.f.lookup(n.Name))
	case ir.Value:
		switch val := n.Val.(type) {
		case ir.Literal:
			return s.genLiteral(val)
		case ir.Binary:
			return s.genBinary(val, n.Type)
		default:
			util.Fatalf("unsupported value %T", val)
		}
	case ir.PrintStr:
		return s.call(s.puts(), s.genExpr(n.Arg))
	case ir.PrintInt:
		return s.call(s.printf(), s.genString(intFormat), s.genExpr(n.Arg))
	case ir.PrintFloat:
		return s.call(s.printf(), s.genString(floatFormat), s.genExpr(n.Arg))
	default:
		util.Fatalf("unsupported expression %T", n)
	}
	return llvm.Value{}
}

// genLiteral returns the constant lit. Strings are placed in a new private global per occurrence and evaluate to
// its address.
func (s *Session) genLiteral(lit ir.Literal) llvm.Value {
	switch lit.Kind {
	case ir.Int:
		return llvm.ConstInt(s.word, uint64(lit.I), true)
	case ir.Float:
		return llvm.ConstFloat(s.ctx.DoubleType(), lit.F)
	case ir.Bool:
		if lit.B {
			return llvm.ConstInt(s.word, 1, false)
		}
		return s.null()
	case ir.Str:
		return s.genString(lit.S)
	default:
		util.Fatalf("unsupported literal kind %v", lit.Kind)
		return llvm.Value{}
	}
}

// genString places the null terminated string str in static data and returns its address as a word.
func (s *Session) genString(str string) llvm.Value {
	ptr := s.b.CreateGlobalStringPtr(str, stringPrefix)
	return s.b.CreatePtrToInt(ptr, s.word, "")
}

// genBinary generates LLVM IR for a binary operation on operands of type t. Floats use the float instruction family.
// Integer comparisons are signed and integer division is unsigned. Comparisons produce a word holding 0 or 1.
func (s *Session) genBinary(n ir.Binary, t ir.Type) llvm.Value {
	op1 := s.genExpr(n.Left)
	op2 := s.genExpr(n.Right)

	if t == ir.Float {
		switch n.Op {
		case ir.Add:
			return s.b.CreateFAdd(op1, op2, "")
		case ir.Sub:
			return s.b.CreateFSub(op1, op2, "")
		case ir.Mul:
			return s.b.CreateFMul(op1, op2, "")
		case ir.Div:
			return s.b.CreateFDiv(op1, op2, "")
		case ir.Eq:
			return s.widen(s.b.CreateFCmp(llvm.FloatOEQ, op1, op2, ""))
		case ir.Neq:
			return s.widen(s.b.CreateFCmp(llvm.FloatUNE, op1, op2, ""))
		case ir.Gt:
			return s.widen(s.b.CreateFCmp(llvm.FloatOGT, op1, op2, ""))
		case ir.Lt:
			return s.widen(s.b.CreateFCmp(llvm.FloatOLT, op1, op2, ""))
		case ir.Ge:
			return s.widen(s.b.CreateFCmp(llvm.FloatOGE, op1, op2, ""))
		case ir.Le:
			return s.widen(s.b.CreateFCmp(llvm.FloatOLE, op1, op2, ""))
		}
	} else {
		switch n.Op {
		case ir.Add:
			return s.b.CreateAdd(op1, op2, "")
		case ir.Sub:
			return s.b.CreateSub(op1, op2, "")
		case ir.Mul:
			return s.b.CreateMul(op1, op2, "")
		case ir.Div:
			return s.b.CreateUDiv(op1, op2, "")
		case ir.Eq:
			return s.widen(s.b.CreateICmp(llvm.IntEQ, op1, op2, ""))
		case ir.Neq:
			return s.widen(s.b.CreateICmp(llvm.IntNE, op1, op2, ""))
		case ir.Gt:
			return s.widen(s.b.CreateICmp(llvm.IntSGT, op1, op2, ""))
		case ir.Lt:
			return s.widen(s.b.CreateICmp(llvm.IntSLT, op1, op2, ""))
		case ir.Ge:
			return s.widen(s.b.CreateICmp(llvm.IntSGE, op1, op2, ""))
		case ir.Le:
			return s.widen(s.b.CreateICmp(llvm.IntSLE, op1, op2, ""))
		}
	}

	util.Fatalf("unsupported operator %v", n.Op)
	return llvm.Value{}
}

// widen zero extends the truth value v to a word.
func (s *Session) widen(v llvm.Value) llvm.Value {
	return s.b.CreateZExt(v, s.word, "")
}

// null returns the word 0.
func (s *Session) null() llvm.Value {
	return llvm.ConstInt(s.word, 0, false)
}

// call calls the C function fn with args.
func (s *Session) call(fn llvm.Value, args ...llvm.Value) llvm.Value {
	return s.b.CreateCall(fn, args, "")
}

// puts returns the declaration of puts, taking a string address as a word.
func (s *Session) puts() llvm.Value {
	return s.declare("puts", false, s.word)
}

// printf returns the declaration of printf, taking a format address as a word followed by variadic arguments.
func (s *Session) printf() llvm.Value {
	return s.declare("printf", true, s.word)
}

// fflush returns the declaration of fflush, taking a stream address as a word.
func (s *Session) fflush() llvm.Value {
	return s.declare("fflush", false, s.word)
}

// declare returns the external C function name returning a word, declaring it on first use.
func (s *Session) declare(name string, variadic bool, params ...llvm.Type) llvm.Value {
	if fn := s.mod.NamedFunction(name); !fn.IsNil() {
		return fn
	}
	ftyp := llvm.FunctionType(s.word, params, variadic)
	return llvm.AddFunction(s.mod, name, ftyp)
}
