package sizing

import "errors"

var (
	// ErrNoWorkers indicates the worker policy returned zero parallel workers.
	ErrNoWorkers = errors.New("sizing: zero parallel worker threads")

	// ErrInconsistentHeapSize indicates explicitly configured heap sizes that
	// contradict each other and cannot be resolved ergonomically.
	ErrInconsistentHeapSize = errors.New("sizing: inconsistent heap sizes")
)

// ExitNoWorkers is the exit status used when the process stops because no
// parallel worker threads are available (EX_CONFIG).
const ExitNoWorkers = 78

// FatalError is an unrecoverable configuration error. The process must stop
// with Code; retrying with the same configuration cannot succeed.
type FatalError struct {
	Code int
	Msg  string
	Err  error
}

func (e *FatalError) Error() string { return e.Msg }

func (e *FatalError) Unwrap() error { return e.Err }
