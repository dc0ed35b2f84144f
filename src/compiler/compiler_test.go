package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"illusio/src/util"
)

// ----------------------
// ----- Constants ------
// ----------------------

// testdata holds source programs and the output they print, name.ill and name.out.
const testdata = "testdata"

// ----------------------
// ----- Functions ------
// ----------------------

// run runs src and returns what the program printed and the dumps written.
func run(t *testing.T, opt util.Options, src string) (out, dump string) {
	t.Helper()

	var sb strings.Builder
	var err error
	out, cerr := util.CaptureStdout(func() {
		_, err = Run(context.Background(), opt, src, &sb)
	})
	require.NoError(t, cerr)
	require.NoError(t, err)
	return out, sb.String()
}

// TestPrograms compiles and runs all bundled source files and compares their output.
func TestPrograms(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(testdata, "*.ill"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, e1 := range files {
		name := strings.TrimSuffix(filepath.Base(e1), ".ill")
		t.Run(name, func(t *testing.T) {
			exp, err := os.ReadFile(filepath.Join(testdata, name+".out"))
			require.NoError(t, err)

			var res int64
			var sb strings.Builder
			out, cerr := util.CaptureStdout(func() {
				res, err = RunFile(context.Background(), util.Options{Src: e1, OptLevel: 2}, &sb)
			})
			require.NoError(t, cerr)
			require.NoError(t, err)
			assert.Equal(t, string(exp), out)
			assert.Equal(t, int64(0), res)
			assert.Empty(t, sb.String())
		})
	}
}

func TestOutputFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")

	out, _ := run(t, util.Options{Out: dst}, `puts("to file")`)
	assert.Empty(t, out)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "to file\n", string(b))
}

func TestOutputFileWithListing(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")

	out, dump := run(t, util.Options{Out: dst, DumpLLVM: true}, `puts("to file")`)
	assert.Empty(t, out)
	assert.Contains(t, dump, "define i64 @main()")

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "to file\n", string(b))
}

func TestDumps(t *testing.T) {
	src := `x int = 10
if x > 5
	puts("big")
end
`

	out, dump := run(t, util.Options{DumpIR: true}, src)
	assert.Equal(t, "big\n", out)
	assert.Equal(t, `var x int = 10:int
if (x > 5:int):int {
	puts("big":str)
} else {
}
`, dump)

	_, dump = run(t, util.Options{DumpAST: true}, src)
	assert.True(t, strings.HasPrefix(dump, "DECLARATION [\"x\"]\n  TYPE_DATA [int]\n  INTEGER_DATA [10]\nIF_STATEMENT\n"), dump)

	_, dump = run(t, util.Options{DumpIRTree: true}, src)
	assert.Contains(t, dump, "var x int")
	assert.Contains(t, dump, ">:int")

	_, dump = run(t, util.Options{DumpLLVM: true}, src)
	assert.Contains(t, dump, "define i64 @main()")
	assert.Contains(t, dump, "declare i64 @puts(i64)")
	assert.Contains(t, dump, "icmp sgt i64")
}

func TestTokenStream(t *testing.T) {
	out, dump := run(t, util.Options{TokenStream: true}, `x int = 1`)
	assert.Empty(t, out)

	lines := strings.Split(strings.TrimSpace(dump), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Value"))
	assert.Contains(t, lines[4], "line: 1:9")
}

func TestErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		opt  util.Options
		src  string
		msg  string
	}{
		{"syntax", util.Options{}, `x int = )`, "parse: syntax: line 1:9: expected expression"},
		{"scope", util.Options{}, `puts_int(y)`, `analyse: resolve: line 1:10: undeclared variable "y"`},
		{"types", util.Options{}, `x int = 1.5`, `analyse: check:`},
		{"options", util.Options{OptLevel: 9}, `puts("a")`, "options: optimisation level"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(context.Background(), tc.opt, tc.src, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestRunFileMissing(t *testing.T) {
	_, err := RunFile(context.Background(), util.Options{Src: filepath.Join(t.TempDir(), "nope.ill")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read source")
}
