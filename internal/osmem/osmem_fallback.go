//go:build !linux && !darwin && !windows

package osmem

import "os"

func pageSize() uint64 {
	return uint64(os.Getpagesize())
}

func largePageSizes() []uint64 { return nil }

func defaultLargePageSize() uint64 { return 0 }

func physicalMemory() uint64 { return 0 }
