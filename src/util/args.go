package util

import (
	"tlog.app/go/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the compiler configuration for one compile-and-run invocation.
type Options struct {
	Src         string // Path to source file.
	Out         string // Path to a file receiving the generated program's output. Empty means stdout.
	Verbose     bool   // Set true if compiler should log every pipeline stage.
	TokenStream bool   // Set true if compiler should output token stream and exit.
	DumpAST     bool   // Set true if compiler should print the checked syntax tree.
	DumpIR      bool   // Set true if compiler should print the typed IR listing.
	DumpIRTree  bool   // Set true if compiler should draw every IR expression tree.
	DumpLLVM    bool   // Set true if compiler should print the generated LLVM IR after running it.
	OptLevel    int    // MCJIT code generation optimisation level.
}

// ---------------------
// ----- Constants -----
// ---------------------

// AppVersion is printed by the -version flag.
const AppVersion = "illusio compiler 0.1"

// MaxOptLevel is the highest optimisation level accepted by the JIT.
const MaxOptLevel = 3

// ---------------------
// ----- functions -----
// ---------------------

// Validate checks that the Options are consistent.
func (opt *Options) Validate() error {
	if opt.OptLevel < 0 || opt.OptLevel > MaxOptLevel {
		return errors.New("optimisation level must be integer in range [0, %d], got %d", MaxOptLevel, opt.OptLevel)
	}
	if len(opt.Out) > 0 && opt.Out == opt.Src {
		return errors.New("output file %q would overwrite the source file", opt.Out)
	}
	return nil
}
