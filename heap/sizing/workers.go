package sizing

import (
	"runtime"

	"github.com/joshuapare/heapkit/heap/flags"
)

// WorkerPolicy supplies the number of parallel collector workers.
type WorkerPolicy interface {
	ParallelWorkers() uint
}

// DefaultWorkers uses Threads when it was configured and otherwise scales
// with the CPU count: every CPU up to eight, then five of every further eight.
type DefaultWorkers struct {
	Threads flags.Value[uint]

	// CPUs overrides runtime.NumCPU when non-zero.
	CPUs int
}

// ParallelWorkers implements WorkerPolicy.
func (d DefaultWorkers) ParallelWorkers() uint {
	if !d.Threads.IsDefault() {
		return d.Threads.Get()
	}
	ncpu := d.CPUs
	if ncpu == 0 {
		ncpu = runtime.NumCPU()
	}
	return scaledWorkers(uint(ncpu))
}

func scaledWorkers(ncpu uint) uint {
	if ncpu <= 8 {
		return ncpu
	}
	return 8 + (ncpu-8)*5/8
}

// FixedWorkers always returns the same count.
type FixedWorkers uint

// ParallelWorkers implements WorkerPolicy.
func (f FixedWorkers) ParallelWorkers() uint { return uint(f) }
