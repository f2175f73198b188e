package sizing

import (
	"github.com/joshuapare/heapkit/internal/align"
	"github.com/joshuapare/heapkit/internal/invariant"
)

// Layout is the initial split of the heap into generations, in bytes.
type Layout struct {
	Young    uint64 `json:"young"`
	Eden     uint64 `json:"eden"`
	Survivor uint64 `json:"survivor"` // size of each of the two survivor spaces
	Old      uint64 `json:"old"`
}

// Generations splits the initial heap using NewRatio and
// InitialSurvivorRatio. Every part is a multiple of SpaceAlignment and
// at least one alignment unit large.
func (s SizeParameters) Generations() Layout {
	sa := s.SpaceAlignment
	invariant.Check(align.IsPowerOfTwo(sa), "space alignment %d is not a power of two", sa)

	heap := s.InitialHeapSize.Get().Bytes()
	newRatio := uint64(max(s.NewRatio.Get(), 1))
	young := max(align.Down(heap/(newRatio+1), sa), sa)
	if young >= heap {
		young = align.Down(heap/2, sa)
	}

	ratio := uint64(max(s.InitialSurvivorRatio.Get(), 3))
	survivor := max(align.Down(young/ratio, sa), sa)
	if survivor*2 >= young {
		// too small to carve survivors out of
		survivor = 0
	}
	eden := young - 2*survivor

	return Layout{
		Young:    young,
		Eden:     eden,
		Survivor: survivor,
		Old:      heap - young,
	}
}
