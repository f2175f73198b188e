//go:build darwin

package osmem

import (
	"golang.org/x/sys/unix"
)

func pageSize() uint64 {
	return uint64(unix.Getpagesize())
}

// Darwin has no hugetlb interface usable for anonymous heap mappings.
func largePageSizes() []uint64 { return nil }

func defaultLargePageSize() uint64 { return 0 }

func physicalMemory() uint64 {
	n, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return n
}
