package commit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/align"
)

const mb = 1 << 20

func TestThresholdPolicy_Validate(t *testing.T) {
	require.NoError(t, DefaultThresholdPolicy().Validate())

	bad := DefaultThresholdPolicy()
	bad.Granule = 1000
	require.ErrorIs(t, bad.Validate(), ErrBadGranule)

	bad = DefaultThresholdPolicy()
	bad.MinFreeRatio = 80
	require.ErrorIs(t, bad.Validate(), ErrBadFreeRatio)

	bad = DefaultThresholdPolicy()
	bad.MinFreeRatio = 100
	bad.MaxFreeRatio = 100
	require.ErrorIs(t, bad.Validate(), ErrBadFreeRatio)
}

func TestThresholdPolicy_Compute(t *testing.T) {
	tp := DefaultThresholdPolicy()

	tests := []struct {
		name                   string
		used, current, ceiling uint64
		want                   uint64
	}{
		{
			name: "grows to keep 40% free",
			used: 30 * mb, current: 21 * mb, ceiling: Unlimited,
			want: 50 * mb,
		},
		{
			name: "growth capped by ceiling",
			used: 30 * mb, current: 21 * mb, ceiling: 40 * mb,
			want: 40 * mb,
		},
		{
			name: "shrinks when more than 70% free",
			used: 10 * mb, current: 100 * mb, ceiling: Unlimited,
			want: align.Up(10*mb*100/30, DefaultGranule),
		},
		{
			name: "within band stays put",
			used: 10 * mb, current: 30 * mb, ceiling: Unlimited,
			want: 30 * mb,
		},
		{
			name: "never shrinks below the floor",
			used: 1 * mb, current: 100 * mb, ceiling: Unlimited,
			want: DefaultInitialThreshold,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tp.Compute(tt.used, tt.current, tt.ceiling)
			require.Equal(t, tt.want, got)
			require.LessOrEqual(t, got, tt.ceiling)
		})
	}
}

func TestThresholdPolicy_NoShrinkAt100(t *testing.T) {
	tp := DefaultThresholdPolicy()
	tp.MaxFreeRatio = 100
	require.Equal(t, uint64(100*mb), tp.Compute(1*mb, 100*mb, Unlimited))
}

func TestThresholdPolicy_Update(t *testing.T) {
	b := New(&Options{Ceiling: 64 * mb, InitialThreshold: 21 * mb})
	require.True(t, b.TryIncrease(20*mb, 20*mb).Granted())
	require.False(t, b.TryIncrease(2*mb, 2*mb).Granted(), "threshold reached")

	tp := DefaultThresholdPolicy()
	next := tp.Update(b)
	require.Equal(t, align.Up(20*mb*100/60, DefaultGranule), next)
	require.Equal(t, next, b.Threshold())

	require.True(t, b.TryIncrease(2*mb, 2*mb).Granted(), "raised threshold admits growth")
}
