package commit

import "errors"

var (
	// ErrBadGranule indicates a commit granule that is not a power of two.
	ErrBadGranule = errors.New("commit: granule must be a power of two")

	// ErrBadFreeRatio indicates free ratios outside 0..99 or min above max.
	ErrBadFreeRatio = errors.New("commit: bad free ratio")
)
