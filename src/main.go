package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"illusio/src/compiler"
	"illusio/src/util"
)

// exitFatal is the exit status after a broken compiler invariant.
const exitFatal = 2

func main() {
	app := &cli.Command{
		Name:        "illusio",
		Description: "illusio compiles a source file in memory and runs it",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("o", "", "write the program's output to file"),
			cli.NewFlag("v", false, "log every pipeline stage"),
			cli.NewFlag("ts", false, "print the token stream and exit"),
			cli.NewFlag("dump-ast", false, "print the checked syntax tree"),
			cli.NewFlag("dump-ir", false, "print the typed IR listing"),
			cli.NewFlag("dump-ir-tree", false, "draw every typed IR statement"),
			cli.NewFlag("dump-llvm", false, "print the LLVM IR after running it"),
			cli.NewFlag("O", 0, "JIT optimisation level, 0 to 3"),
			cli.NewFlag("version", false, "print version and exit"),
			cli.HelpFlag,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func runAct(c *cli.Command) (err error) {
	if c.Bool("version") {
		fmt.Println(util.AppVersion)
		return nil
	}

	opt := util.Options{
		Out:         c.String("o"),
		Verbose:     c.Bool("v"),
		TokenStream: c.Bool("ts"),
		DumpAST:     c.Bool("dump-ast"),
		DumpIR:      c.Bool("dump-ir"),
		DumpIRTree:  c.Bool("dump-ir-tree"),
		DumpLLVM:    c.Bool("dump-llvm"),
		OptLevel:    c.Int("O"),
	}

	switch len(c.Args) {
	case 0:
		// Read stdin.
	case 1:
		opt.Src = c.Args[0]
	default:
		return errors.New("expected one source file, got %d", len(c.Args))
	}

	ctx := context.Background()
	if opt.Verbose {
		tlog.SetVerbosity("*")
		ctx = tlog.ContextWithSpan(ctx, tlog.Root())
	}

	defer func() {
		if f := util.AsFatal(recover()); f != nil {
			fmt.Fprintln(os.Stderr, f)
			os.Exit(exitFatal)
		}
	}()

	res, err := compiler.RunFile(ctx, opt, os.Stdout)
	if err != nil {
		return errors.Wrap(err, "illusio %v", opt.Src)
	}

	if res != 0 {
		os.Exit(int(res))
	}

	return nil
}
