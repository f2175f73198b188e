package osmem

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// parseHugepageDirs extracts page sizes from sysfs directory names of the
// form "hugepages-2048kB". Names that do not match are skipped.
func parseHugepageDirs(names []string) []uint64 {
	var sizes []uint64
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, "hugepages-")
		if !ok {
			continue
		}
		kb, ok := strings.CutSuffix(rest, "kB")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(kb, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		sizes = append(sizes, n*1024)
	}
	return sizes
}

// parseMeminfoHugepagesize reads the "Hugepagesize:" line of /proc/meminfo.
// Returns 0 when the line is absent or malformed.
func parseMeminfoHugepagesize(r io.Reader) uint64 {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		rest, ok := strings.CutPrefix(line, "Hugepagesize:")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) != 2 || fields[1] != "kB" {
			return 0
		}
		n, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return 0
		}
		return n * 1024
	}
	return 0
}
