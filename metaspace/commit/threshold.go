package commit

import (
	"math"

	"github.com/joshuapare/heapkit/internal/align"
)

// ThresholdPolicy recomputes the GC threshold after a collection so that a
// bounded share of it stays free.
type ThresholdPolicy struct {
	// MinFreeRatio is the percentage of the threshold that should be free
	// after a collection; below it the threshold grows.
	// Default: 40
	MinFreeRatio uint64

	// MaxFreeRatio is the percentage above which the threshold shrinks.
	// 100 disables shrinking.
	// Default: 70
	MaxFreeRatio uint64

	// MinThreshold is the floor the threshold never shrinks below.
	// Default: DefaultInitialThreshold
	MinThreshold uint64

	// Granule is the unit the threshold moves in, a power of two.
	// Default: DefaultGranule
	Granule uint64
}

// DefaultThresholdPolicy returns the policy with its default ratios.
func DefaultThresholdPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		MinFreeRatio: 40,
		MaxFreeRatio: 70,
		MinThreshold: DefaultInitialThreshold,
		Granule:      DefaultGranule,
	}
}

// Validate checks the ratios and the granule.
func (tp ThresholdPolicy) Validate() error {
	if !align.IsPowerOfTwo(tp.Granule) {
		return ErrBadGranule
	}
	if tp.MinFreeRatio >= 100 || tp.MaxFreeRatio > 100 || tp.MinFreeRatio > tp.MaxFreeRatio {
		return ErrBadFreeRatio
	}
	return nil
}

// Compute returns the threshold to use after a collection left used bytes
// committed, given the current threshold and the hard ceiling.
//
// The result keeps at least MinFreeRatio percent free, keeps at most
// MaxFreeRatio percent free, and lies within [MinThreshold, ceiling].
func (tp ThresholdPolicy) Compute(used, current, ceiling uint64) uint64 {
	granule := tp.Granule
	if granule == 0 {
		granule = DefaultGranule
	}

	minDesired := desiredCapacity(used, tp.MinFreeRatio)
	minDesired = max(min(minDesired, ceiling), tp.MinThreshold)

	next := current
	if current < minDesired {
		next = alignUpSaturating(minDesired, granule)
	} else if tp.MaxFreeRatio < 100 {
		maxDesired := desiredCapacity(used, tp.MaxFreeRatio)
		maxDesired = max(min(maxDesired, ceiling), tp.MinThreshold)
		if current > maxDesired {
			next = alignUpSaturating(maxDesired, granule)
		}
	}
	return min(next, ceiling)
}

// Update recomputes the threshold from the budget's committed total and
// publishes it. It returns the new threshold.
func (tp ThresholdPolicy) Update(b *Budget) uint64 {
	next := tp.Compute(b.Committed(), b.Threshold(), b.Ceiling())
	b.SetThreshold(next)
	return next
}

// desiredCapacity returns the capacity at which used bytes leave freePct
// percent free: used / (1 - freePct/100).
func desiredCapacity(used, freePct uint64) uint64 {
	if freePct >= 100 || used > math.MaxUint64/100 {
		return math.MaxUint64
	}
	return used * 100 / (100 - freePct)
}

func alignUpSaturating(n, granule uint64) uint64 {
	if n > math.MaxUint64-granule {
		return math.MaxUint64
	}
	return align.Up(n, granule)
}
