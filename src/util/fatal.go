package util

import (
	"fmt"

	"tlog.app/go/loc"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Fatal is a report of a broken compiler invariant. It is raised with panic and never returned
// as an ordinary error from the code generation core.
type Fatal struct {
	PC      loc.PC // Where the invariant broke.
	Msg     string // What broke.
	Listing string // Optional instruction listing of the function being generated.
}

// ---------------------
// ----- functions -----
// ---------------------

// Error implements the error interface.
func (f *Fatal) Error() string {
	if len(f.Listing) == 0 {
		return fmt.Sprintf("fatal: %s (at %v)", f.Msg, f.PC)
	}
	return fmt.Sprintf("fatal: %s (at %v)\n%s", f.Msg, f.PC, f.Listing)
}

// Fatalf panics with a Fatal report recording the caller's location.
func Fatalf(format string, args ...interface{}) {
	panic(&Fatal{
		PC:  loc.Caller(1),
		Msg: fmt.Sprintf(format, args...),
	})
}

// FatalListing panics with a Fatal report carrying listing.
func FatalListing(listing, format string, args ...interface{}) {
	panic(&Fatal{
		PC:      loc.Caller(1),
		Msg:     fmt.Sprintf(format, args...),
		Listing: listing,
	})
}

// AsFatal converts a recovered panic value into a Fatal. Values that are not Fatal reports are
// re-raised.
func AsFatal(r interface{}) *Fatal {
	if r == nil {
		return nil
	}
	if f, ok := r.(*Fatal); ok {
		return f
	}
	panic(r)
}
