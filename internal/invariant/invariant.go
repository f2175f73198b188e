// Package invariant reports programming errors. A failed check panics; it is
// never turned into a recoverable error or clamped, since a broken accounting
// or alignment invariant means the caller has a bug.
package invariant

import "fmt"

// Violation is the panic value raised by Check.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	return "invariant: " + v.Msg
}

// Check panics with a *Violation when cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(&Violation{Msg: fmt.Sprintf(format, args...)})
	}
}
