package align

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []uint64{1, 2, 4, 512, 4096, 1 << 21, 1 << 30, 1 << 63} {
		require.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []uint64{0, 3, 6, 4095, 4097, 3 << 20} {
		require.False(t, IsPowerOfTwo(n), "%d", n)
	}
}

func TestUpDown(t *testing.T) {
	tests := []struct {
		n, alignment, up, down uint64
	}{
		{0, 4096, 0, 0},
		{1, 4096, 4096, 0},
		{4096, 4096, 4096, 4096},
		{4097, 4096, 8192, 4096},
		{8191, 4096, 8192, 4096},
		{9, 8, 16, 8},
		{1 << 20, 1 << 21, 1 << 21, 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.up, Up(tt.n, tt.alignment), "Up(%d, %d)", tt.n, tt.alignment)
		require.Equal(t, tt.down, Down(tt.n, tt.alignment), "Down(%d, %d)", tt.n, tt.alignment)
		require.True(t, IsAligned(Up(tt.n, tt.alignment), tt.alignment))
		require.True(t, IsAligned(Down(tt.n, tt.alignment), tt.alignment))
	}
}

func TestMax(t *testing.T) {
	require.Equal(t, uint64(4096), Max(4096))
	require.Equal(t, uint64(1<<21), Max(512, 1<<21, 4096))
	require.Equal(t, uint64(1<<19), Max(1<<19, 1<<12))
}
