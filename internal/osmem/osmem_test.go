package osmem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/align"
)

const (
	kb = 1 << 10
	mb = 1 << 20
	gb = 1 << 30
)

func TestPageSizes_Ordering(t *testing.T) {
	ps := NewPageSizes(2*mb, 4*kb, 0, gb, 2*mb)

	require.Equal(t, 3, ps.Len())
	require.Equal(t, uint64(4*kb), ps.Smallest())
	require.Equal(t, uint64(gb), ps.Largest())
	require.Equal(t, uint64(2*mb), ps.NextSmaller(gb))
	require.Equal(t, uint64(4*kb), ps.NextSmaller(2*mb))
	require.Equal(t, uint64(0), ps.NextSmaller(4*kb))
	require.True(t, ps.Contains(2*mb))
	require.False(t, ps.Contains(64*kb))
}

func TestPageSizes_Empty(t *testing.T) {
	var ps PageSizes
	require.Equal(t, uint64(0), ps.Largest())
	require.Equal(t, uint64(0), ps.Smallest())
	require.Equal(t, uint64(0), ps.NextSmaller(4*kb))
}

func TestNewPageSizes_RejectsNonPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { NewPageSizes(4*kb, 3*mb) })
}

func TestPageSizeForRegionAligned(t *testing.T) {
	info := Info{
		PageSize:      4 * kb,
		LargePageSize: 2 * mb,
		Sizes:         NewPageSizes(4*kb, 2*mb, gb),
	}

	tests := []struct {
		name     string
		region   uint64
		useLarge bool
		want     uint64
	}{
		{"large pages disabled", 64 * mb, false, 4 * kb},
		{"fits four 2M pages", 8 * mb, true, 2 * mb},
		{"too small for four 2M pages", 6 * mb, true, 4 * kb},
		{"not a multiple of 2M", 10*mb + 4*kb, true, 4 * kb},
		{"fits four 1G pages", 4 * gb, true, gb},
		{"1G pages but unaligned", 5*gb + 2*mb, true, 2 * mb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := info.PageSizeForRegionAligned(tt.region, 4, tt.useLarge)
			require.Equal(t, tt.want, got)
			require.True(t, align.IsAligned(tt.region, got) || got == info.PageSize)
		})
	}
}

func TestProbe(t *testing.T) {
	info := Probe()
	require.True(t, align.IsPowerOfTwo(info.PageSize), "page size %d", info.PageSize)
	require.True(t, info.Sizes.Contains(info.PageSize))
	if info.LargePageSize != 0 {
		require.True(t, info.Sizes.Contains(info.LargePageSize))
	}
}

func TestParseHugepageDirs(t *testing.T) {
	got := parseHugepageDirs([]string{
		"hugepages-2048kB",
		"hugepages-1048576kB",
		"README",
		"hugepages-kB",
		"hugepages-0kB",
	})
	require.Equal(t, []uint64{2 * mb, gb}, got)
}

func TestParseMeminfoHugepagesize(t *testing.T) {
	meminfo := strings.Join([]string{
		"MemTotal:       16318412 kB",
		"HugePages_Total:       0",
		"Hugepagesize:       2048 kB",
		"Hugetlb:              0 kB",
	}, "\n")
	require.Equal(t, uint64(2*mb), parseMeminfoHugepagesize(strings.NewReader(meminfo)))
	require.Equal(t, uint64(0), parseMeminfoHugepagesize(strings.NewReader("MemTotal: 1 kB\n")))
	require.Equal(t, uint64(0), parseMeminfoHugepagesize(strings.NewReader("Hugepagesize: lots\n")))
}
