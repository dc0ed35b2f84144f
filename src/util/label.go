// label.go generates basic block labels for the code generator.

package util

import (
	"fmt"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Labels hands out unique basic block labels. A Labels value belongs to one function being generated.
type Labels struct {
	indices [LabelMerge + 1]int
}

// ---------------------
// ----- Constants -----
// ---------------------

// Labels for conditionals.
const (
	LabelEntry = iota
	LabelThen
	LabelElse
	LabelMerge
)

// -------------------
// ----- globals -----
// -------------------

// labelPrefixes stores the string literal prefixes for labels of types.
var labelPrefixes = [LabelMerge + 1]string{
	"entry",
	"then",
	"else",
	"merge",
}

// ---------------------
// ----- functions -----
// ---------------------

// New returns a new label of type typ.
func (l *Labels) New(typ int) string {
	if typ < 0 || typ >= len(l.indices) {
		return "label"
	}
	s := fmt.Sprintf("%s%d", labelPrefixes[typ], l.indices[typ])
	l.indices[typ]++
	return s
}
