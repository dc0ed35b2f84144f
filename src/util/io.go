package util

import (
	"bufio"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"tlog.app/go/errors"
)

// ---------------------
// ----- Constants -----
// ---------------------

// stdinTimeout is how long ReadSource waits for a program on stdin.
const stdinTimeout = 500 * time.Millisecond

// ---------------------
// ----- Functions -----
// ---------------------

// ReadSource reads source code from file or stdin.
// If the Options structure holds a string for source the file will be opened and read.
// Else the function waits for a short period for input on stdin. If no input on stdin is
// provided the function returns an error.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		// Read from file.
		b, err := os.ReadFile(opt.Src)
		if err != nil {
			return "", errors.Wrap(err, "read %v", opt.Src)
		}
		return string(b), nil
	}

	// Read stdin.
	c := make(chan string, 1)
	cerr := make(chan error, 1)

	// Concurrently wait for input on stdin.
	go func() {
		text, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			cerr <- err
			return
		}
		c <- string(text)
	}()

	// Select between input from stdin or timer expiry.
	select {
	case <-time.After(stdinTimeout):
		return "", errors.New("expected input from stdin, got none")
	case err := <-cerr:
		return "", errors.Wrap(err, "read stdin")
	case s := <-c:
		return s, nil
	}
}

// RedirectStdout points the process' native standard output, file descriptor 1, at f. Output written by
// generated code through libc ends up in f until the returned restore function is called.
// Go's os.Stdout is redirected as well because it shares the descriptor.
func RedirectStdout(f *os.File) (restore func() error, err error) {
	saved, err := unix.Dup(unix.Stdout)
	if err != nil {
		return nil, errors.Wrap(err, "dup stdout")
	}

	if err = unix.Dup2(int(f.Fd()), unix.Stdout); err != nil {
		_ = unix.Close(saved)
		return nil, errors.Wrap(err, "redirect stdout")
	}

	restore = func() error {
		defer func() {
			_ = unix.Close(saved)
		}()
		if err := unix.Dup2(saved, unix.Stdout); err != nil {
			return errors.Wrap(err, "restore stdout")
		}
		return nil
	}
	return restore, nil
}

// CaptureStdout runs fn with the native standard output redirected into a pipe and returns everything
// written to it.
func CaptureStdout(fn func()) (_ string, err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return "", errors.Wrap(err, "pipe")
	}
	defer func() {
		_ = r.Close()
	}()

	restore, err := RedirectStdout(w)
	if err != nil {
		_ = w.Close()
		return "", err
	}

	// Drain concurrently so fn never blocks on a full pipe.
	out := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(r)
		out <- b
	}()

	func() {
		defer func() {
			if rerr := restore(); rerr != nil && err == nil {
				err = rerr
			}
			_ = w.Close()
		}()
		fn()
	}()

	b := <-out
	return string(b), err
}
