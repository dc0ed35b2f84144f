package util

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	var s Stack[int]

	_, ok := s.Pop()
	assert.False(t, ok)

	for i1 := 1; i1 <= 3; i1++ {
		s.Push(i1)
	}
	assert.Equal(t, 3, s.Size())

	top, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 3, top)

	bottom, ok := s.Get(s.Size())
	require.True(t, ok)
	assert.Equal(t, 1, bottom)

	_, ok = s.Get(4)
	assert.False(t, ok)

	e, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, e)
	assert.Equal(t, 2, s.Size())
}

func TestLabels(t *testing.T) {
	var l Labels

	assert.Equal(t, "then0", l.New(LabelThen))
	assert.Equal(t, "then1", l.New(LabelThen))
	assert.Equal(t, "merge0", l.New(LabelMerge))
	assert.Equal(t, "label", l.New(42))
}

func TestErrorList(t *testing.T) {
	el := NewErrorList(0)
	assert.NoError(t, el.Err())

	assert.Equal(t, 0, el.Len())

	el.Errorf(3, 7, "undefined %q", "x")
	require.Error(t, el.Err())
	assert.EqualError(t, el.Err(), `line 3:7: undefined "x"`)

	el.Errorf(4, 1, "second")
	assert.Equal(t, 2, el.Len())
	assert.Contains(t, el.Err().Error(), "2 errors:")
	assert.Contains(t, el.Err().Error(), "\n\tline 4:1: second")
}

func TestFatal(t *testing.T) {
	f := func() (f *Fatal) {
		defer func() {
			f = AsFatal(recover())
		}()

		Fatalf("unbound variable %q", "y")
		return nil
	}()

	require.NotNil(t, f)
	assert.Equal(t, `unbound variable "y"`, f.Msg)
	assert.Contains(t, f.Error(), "fatal: unbound variable")

	assert.Panics(t, func() {
		AsFatal("not a report")
	})
}

func TestOptionsValidate(t *testing.T) {
	opt := Options{Src: "a.ill", OptLevel: 2}
	assert.NoError(t, opt.Validate())

	opt.OptLevel = 4
	assert.Error(t, opt.Validate())

	opt = Options{Src: "a.ill", Out: "a.ill"}
	assert.Error(t, opt.Validate())
}

func TestReadSourceFile(t *testing.T) {
	p := t.TempDir() + "/prog.ill"
	require.NoError(t, os.WriteFile(p, []byte("x int = 1\n"), 0o600))

	src, err := ReadSource(Options{Src: p})
	require.NoError(t, err)
	assert.Equal(t, "x int = 1\n", src)

	_, err = ReadSource(Options{Src: p + ".missing"})
	assert.Error(t, err)
}

func TestCaptureStdout(t *testing.T) {
	out, err := CaptureStdout(func() {
		fmt.Println("captured")
	})
	require.NoError(t, err)
	assert.Equal(t, "captured\n", out)
}
