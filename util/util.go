package util

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Can be set by tests if they want to catch asserts
var AssertsPanic bool = false

// assertFailed aborts the program on a broken internal invariant, or panics
// with msg when AssertsPanic is set.
func assertFailed(msg string) {
	if AssertsPanic {
		panic(msg)
	}
	debug.PrintStack()
	fmt.Fprintln(os.Stderr, "Assertion failed:", msg)
	os.Exit(1)
}

func Assert(cond bool, o ...interface{}) {
	if !cond {
		assertFailed(fmt.Sprint(o...))
	}
}

func Assertf(cond bool, fmtstr string, o ...interface{}) {
	if !cond {
		assertFailed(fmt.Sprintf(fmtstr, o...))
	}
}

func Tern[T any](cond bool, a T, b T) T {
	if cond {
		return a
	}
	return b
}
