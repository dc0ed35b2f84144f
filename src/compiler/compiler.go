// Package compiler drives the whole pipeline: it lexes, parses, resolves and type checks a source program,
// lowers it into typed IR and compiles and runs the result in memory.
package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"illusio/src/ast"
	"illusio/src/frontend"
	"illusio/src/ir"
	"illusio/src/ir/builder"
	"illusio/src/lower"
	"illusio/src/util"
)

// RunFile reads the source named by opt, or stdin, and runs it. Dumps requested by opt are written to w.
func RunFile(ctx context.Context, opt util.Options, w io.Writer) (res int64, err error) {
	src, err := util.ReadSource(opt)
	if err != nil {
		return 0, errors.Wrap(err, "read source")
	}

	tlog.SpanFromContext(ctx).Printw("read source", "size", len(src), "name", opt.Src)

	return Run(ctx, opt, src, w)
}

// Run compiles src and runs it once, returning the result of the program's entry point.
// With opt.TokenStream set the token stream of src is written to w and nothing is compiled.
//
// Broken invariants inside the compiler panic with a *util.Fatal.
func Run(ctx context.Context, opt util.Options, src string, w io.Writer) (res int64, err error) {
	if err = opt.Validate(); err != nil {
		return 0, errors.Wrap(err, "options")
	}

	if opt.TokenStream {
		return 0, frontend.TokenStream(w, src)
	}

	b, err := Compile(ctx, opt, src, w)
	if err != nil {
		return 0, err
	}

	var listing strings.Builder
	if opt.DumpLLVM {
		b.ListTo(&listing)
	}

	res, err = finish(ctx, opt, b)
	if err != nil {
		return 0, errors.Wrap(err, "run")
	}

	if opt.DumpLLVM {
		if _, err = io.WriteString(w, listing.String()); err != nil {
			return 0, errors.Wrap(err, "dump llvm")
		}
	}

	return res, nil
}

// finish runs b with the native standard output pointed at opt.Out, if set.
func finish(ctx context.Context, opt util.Options, b *builder.Builder) (res int64, err error) {
	if len(opt.Out) > 0 {
		restore, rerr := redirect(opt.Out)
		if rerr != nil {
			return 0, rerr
		}
		defer func() {
			if rerr := restore(); err == nil {
				err = rerr
			}
		}()
	}

	return b.Finish(ctx, opt)
}

// Compile runs the front end on src and lowers the program into a Builder holding its typed IR.
func Compile(ctx context.Context, opt util.Options, src string, w io.Writer) (b *builder.Builder, err error) {
	root, err := parse(ctx, src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	types, err := analyse(ctx, root)
	if err != nil {
		return nil, errors.Wrap(err, "analyse")
	}

	if opt.DumpAST {
		root.Print(w, 0, false)
	}

	b = builder.New()
	prog := lowerProgram(ctx, b, types, root)

	if opt.DumpIR {
		if _, err = fmt.Fprint(w, prog.String()); err != nil {
			return nil, errors.Wrap(err, "dump ir")
		}
	}

	if opt.DumpIRTree {
		for _, e1 := range prog {
			if _, err = fmt.Fprintln(w, ir.StmtTree(e1)); err != nil {
				return nil, errors.Wrap(err, "dump ir tree")
			}
		}
	}

	return b, nil
}

// parse builds the syntax tree of src.
func parse(ctx context.Context, src string) (root *ast.Node, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "parse", "size", len(src))
	defer tr.Finish("err", &err)

	root, err = frontend.Parse(src)
	if err != nil {
		return nil, err
	}

	tr.Printw("parsed", "statements", len(root.Children))

	return root, nil
}

// analyse resolves the names under root and type checks the program.
func analyse(ctx context.Context, root *ast.Node) (c *ast.Checker, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "analyse")
	defer tr.Finish("err", &err)

	syms, err := ast.Resolve(root)
	if err != nil {
		return nil, errors.Wrap(err, "resolve")
	}

	c, err = ast.Check(root, syms)
	if err != nil {
		return nil, errors.Wrap(err, "check")
	}

	if tr.If("dump_ast") {
		tr.Printw("symbols", "count", len(syms))
	}

	return c, nil
}

// lowerProgram lowers the statements under root into b.
func lowerProgram(ctx context.Context, b *builder.Builder, types lower.TypeQuery, root *ast.Node) ir.Program {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "lower")
	defer tr.Finish()

	prog := lower.New(b, types).Program(root.Children)

	if tr.If("dump_ir") {
		tr.Printw("typed ir", "program", prog.String())
	}

	return prog
}

// redirect points the native standard output at the file name until the returned function is called.
func redirect(name string) (restore func() error, err error) {
	f, err := os.OpenFile(name, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open output")
	}

	undo, err := util.RedirectStdout(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		err := undo()
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close output")
		}
		return err
	}, nil
}
