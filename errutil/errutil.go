package errutil

import (
	"fmt"
)

// Debug toggles the Bug* assertions. Navigation over a well-formed index
// never trips them; they exist to catch indexes produced by a buggy
// construction before a select/rank walks out of range.
const Debug = false

func Bug(format string, msg ...any) {
	if Debug {
		panic(fmt.Sprintf(format, msg...))
	}
}

func BugOn(cond bool, format string, msg ...any) {
	if Debug && cond {
		Bug(format, msg...)
	}
}
