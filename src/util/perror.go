package util

import (
	"fmt"
	"strings"

	"tlog.app/go/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ErrorList collects diagnostics reported while a front-end pass keeps going after the first error.
type ErrorList struct {
	errors []error // Buffer of error messages.
}

// ----------------------
// ----- Constants ------
// ----------------------

// defaultBufferSize defines the fallback buffer size of the error array.
const defaultBufferSize = 16

// ---------------------
// ----- functions -----
// ---------------------

// NewErrorList returns an ErrorList with n number of pre-allocated slots for errors in the buffer.
func NewErrorList(n int) *ErrorList {
	if n < 1 {
		n = defaultBufferSize
	}
	return &ErrorList{
		errors: make([]error, 0, n),
	}
}

// Errorf records a diagnostic positioned at line:pos of the source.
func (el *ErrorList) Errorf(line, pos int, format string, args ...interface{}) {
	el.errors = append(el.errors, errors.New("line %d:%d: %s", line, pos, fmt.Sprintf(format, args...)))
}

// Len returns the number of buffered errors.
func (el *ErrorList) Len() int {
	return len(el.errors)
}

// Err returns <nil> if no error was reported, else one error listing every reported diagnostic.
func (el *ErrorList) Err() error {
	switch len(el.errors) {
	case 0:
		return nil
	case 1:
		return el.errors[0]
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%d errors:", len(el.errors)))
	for _, e1 := range el.errors {
		sb.WriteString("\n\t")
		sb.WriteString(e1.Error())
	}
	return errors.New("%s", sb.String())
}
