//go:build windows

package osmem

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func pageSize() uint64 {
	return uint64(os.Getpagesize())
}

// Large pages on Windows need SeLockMemoryPrivilege; they are not probed.
func largePageSizes() []uint64 { return nil }

func defaultLargePageSize() uint64 { return 0 }

func physicalMemory() uint64 {
	var ms windows.MemoryStatusEx
	ms.Length = uint32(unsafe.Sizeof(ms))
	if err := windows.GlobalMemoryStatusEx(&ms); err != nil {
		return 0
	}
	return ms.TotalPhys
}
