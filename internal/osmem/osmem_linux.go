//go:build linux

package osmem

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	hugepagesDir = "/sys/kernel/mm/hugepages"
	meminfoPath  = "/proc/meminfo"
)

func pageSize() uint64 {
	return uint64(unix.Getpagesize())
}

// largePageSizes lists the hugetlbfs page sizes configured in sysfs.
func largePageSizes() []uint64 {
	entries, err := os.ReadDir(hugepagesDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return parseHugepageDirs(names)
}

func defaultLargePageSize() uint64 {
	f, err := os.Open(meminfoPath)
	if err != nil {
		return 0
	}
	defer f.Close()
	return parseMeminfoHugepagesize(f)
}

func physicalMemory() uint64 {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return 0
	}
	unit := uint64(si.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(si.Totalram) * unit
}
