// Package osmem reports the operating system's memory geometry: the base
// page size, the large page sizes the kernel offers, and the amount of
// physical memory. The sizing policy uses it to pick the page size a heap
// region has to honor.
package osmem

import (
	"slices"

	"github.com/joshuapare/heapkit/internal/align"
	"github.com/joshuapare/heapkit/internal/invariant"
)

// PageSizes is an ordered set of supported page sizes, all powers of two.
type PageSizes struct {
	sizes []uint64 // ascending, no duplicates
}

// NewPageSizes builds a set from sizes in any order. Zero entries are ignored.
func NewPageSizes(sizes ...uint64) PageSizes {
	out := make([]uint64, 0, len(sizes))
	for _, s := range sizes {
		if s == 0 {
			continue
		}
		invariant.Check(align.IsPowerOfTwo(s), "page size %d is not a power of two", s)
		out = append(out, s)
	}
	slices.Sort(out)
	return PageSizes{sizes: slices.Compact(out)}
}

// Largest returns the largest size in the set, or 0 if the set is empty.
func (p PageSizes) Largest() uint64 {
	if len(p.sizes) == 0 {
		return 0
	}
	return p.sizes[len(p.sizes)-1]
}

// Smallest returns the smallest size in the set, or 0 if the set is empty.
func (p PageSizes) Smallest() uint64 {
	if len(p.sizes) == 0 {
		return 0
	}
	return p.sizes[0]
}

// NextSmaller returns the largest size strictly below size, or 0.
func (p PageSizes) NextSmaller(size uint64) uint64 {
	for i := len(p.sizes) - 1; i >= 0; i-- {
		if p.sizes[i] < size {
			return p.sizes[i]
		}
	}
	return 0
}

// Contains reports whether size is in the set.
func (p PageSizes) Contains(size uint64) bool {
	_, found := slices.BinarySearch(p.sizes, size)
	return found
}

// Len returns the number of sizes in the set.
func (p PageSizes) Len() int { return len(p.sizes) }

// Info describes the memory geometry of the host.
type Info struct {
	// PageSize is the base virtual memory page size.
	PageSize uint64

	// LargePageSize is the default large page size, 0 when the host has none.
	LargePageSize uint64

	// Sizes holds every page size the host supports, base page included.
	Sizes PageSizes

	// PhysicalMemory is the installed memory in bytes, 0 when unknown.
	PhysicalMemory uint64
}

// PageSizeForRegionAligned returns the page size a region of regionSize
// bytes should be backed with, such that the region holds at least minPages
// pages and is a whole number of them.
//
// Large pages are only considered when useLarge is set; otherwise, and when
// no large page fits, the base page size is returned.
func (i Info) PageSizeForRegionAligned(regionSize, minPages uint64, useLarge bool) uint64 {
	invariant.Check(minPages > 0, "minPages must be positive")
	if useLarge {
		maxPage := regionSize / minPages
		for size := i.Sizes.Largest(); size != 0; size = i.Sizes.NextSmaller(size) {
			if size <= maxPage && align.IsAligned(regionSize, size) {
				return size
			}
		}
	}
	return i.PageSize
}

// VMPageSize returns the base page size.
func (i Info) VMPageSize() uint64 { return i.PageSize }

// LargePage returns the default large page size, 0 when there is none.
func (i Info) LargePage() uint64 { return i.LargePageSize }

// TotalMemory returns the installed physical memory, 0 when unknown.
func (i Info) TotalMemory() uint64 { return i.PhysicalMemory }

// Probe inspects the running host.
func Probe() Info {
	base := pageSize()
	def := defaultLargePageSize()
	sizes := append([]uint64{base, def}, largePageSizes()...)
	return Info{
		PageSize:       base,
		LargePageSize:  def,
		Sizes:          NewPageSizes(sizes...),
		PhysicalMemory: physicalMemory(),
	}
}
