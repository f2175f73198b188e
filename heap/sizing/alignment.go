package sizing

import (
	"github.com/joshuapare/heapkit/internal/align"
	"github.com/joshuapare/heapkit/internal/invariant"
)

// DefaultSpaceAlignment is SpaceAlignmentWords expressed in bytes.
const DefaultSpaceAlignment = SpaceAlignmentWords * WordSize

// InitializeAlignments sets SpaceAlignment to its default and derives
// HeapAlignment from the structural requirements.
func (p *Policy) InitializeAlignments() {
	p.params.SpaceAlignment = DefaultSpaceAlignment
	p.params.HeapAlignment = p.computeHeapAlignment()
	p.checkAlignments()
	p.log.Debug("alignments initialized",
		"space_alignment", p.params.SpaceAlignment,
		"heap_alignment", p.params.HeapAlignment)
}

// computeHeapAlignment returns the strictest of:
//   - the card table constraint: one page of cards, cardSize*pageSize bytes
//   - the region granularity, when configured
//   - the large page size, when large pages are in use
//   - the space alignment
func (p *Policy) computeHeapAlignment() uint64 {
	card := p.cfg.CardSize
	if card == 0 {
		card = DefaultCardSize
	}
	invariant.Check(align.IsPowerOfTwo(card), "card size %d is not a power of two", card)
	alignment := align.Max(card*p.pages.VMPageSize(), p.params.SpaceAlignment)

	if g := p.cfg.RegionGranularity; g != 0 {
		invariant.Check(align.IsPowerOfTwo(g), "region granularity %d is not a power of two", g)
		alignment = align.Max(alignment, g)
	}
	if p.cfg.UseLargePages {
		if lp := p.pages.LargePage(); lp != 0 {
			alignment = align.Max(alignment, lp)
		}
	}
	return alignment
}

// checkAlignments enforces the alignment invariants other components rely on
// without re-checking.
func (p *Policy) checkAlignments() {
	sa, ha := p.params.SpaceAlignment, p.params.HeapAlignment
	invariant.Check(align.IsPowerOfTwo(sa), "space alignment %d is not a power of two", sa)
	invariant.Check(align.IsPowerOfTwo(ha), "heap alignment %d is not a power of two", ha)
	invariant.Check(align.IsAligned(ha, sa), "heap alignment %d is not a multiple of space alignment %d", ha, sa)
}
