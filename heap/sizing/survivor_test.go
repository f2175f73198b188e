package sizing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/flags"
	"github.com/joshuapare/heapkit/internal/diag"
)

func TestReconcileSurvivorRatios(t *testing.T) {
	tests := []struct {
		name        string
		survivor    *uint
		initial     *uint
		minimum     *uint
		wantInitial uint
		wantMin     uint
		wantWarning bool
	}{
		{
			name:        "unified ratio seeds both defaults",
			survivor:    ptr(10),
			wantInitial: 12,
			wantMin:     12,
		},
		{
			name:        "both explicit and inconsistent",
			initial:     ptr(3),
			minimum:     ptr(5),
			wantInitial: 3,
			wantMin:     3,
			wantWarning: true,
		},
		{
			name:        "only initial explicit",
			initial:     ptr(3),
			wantInitial: 3,
			wantMin:     3,
		},
		{
			name:        "only minimum explicit",
			minimum:     ptr(10),
			wantInitial: 10,
			wantMin:     10,
		},
		{
			name:        "unified ratio with explicit minimum",
			survivor:    ptr(10),
			minimum:     ptr(20),
			wantInitial: 20,
			wantMin:     20,
		},
		{
			name:        "unified ratio with explicit initial",
			survivor:    ptr(10),
			initial:     ptr(6),
			wantInitial: 6,
			wantMin:     6,
		},
		{
			name:        "defaults are already consistent",
			wantInitial: 8,
			wantMin:     5,
		},
		{
			name:        "explicit and consistent",
			initial:     ptr(9),
			minimum:     ptr(4),
			wantInitial: 9,
			wantMin:     4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.survivor != nil {
				cfg.SurvivorRatio = flags.ConfiguredValue(*tt.survivor)
			}
			if tt.initial != nil {
				cfg.InitialSurvivorRatio = flags.ConfiguredValue(*tt.initial)
			}
			if tt.minimum != nil {
				cfg.MinSurvivorRatio = flags.ConfiguredValue(*tt.minimum)
			}

			p, stderr := newTestPolicy(t, cfg, testHost(16*gb))
			p.ReconcileSurvivorRatios()

			params := p.Params()
			require.Equal(t, tt.wantInitial, params.InitialSurvivorRatio.Get())
			require.Equal(t, tt.wantMin, params.MinSurvivorRatio.Get())
			require.LessOrEqual(t, params.MinSurvivorRatio.Get(), params.InitialSurvivorRatio.Get())

			diags := p.Diagnostics()
			if tt.wantWarning {
				require.Len(t, diags, 1)
				require.Equal(t, diag.SevWarning, diags[0].Severity)
				require.Equal(t, diag.CodeSurvivorRatio, diags[0].Code)
				require.Equal(t,
					"Inconsistent MinSurvivorRatio vs InitialSurvivorRatio: 5 vs 3\n",
					stderr.String())
			} else {
				require.Empty(t, diags)
				require.Empty(t, stderr.String())
			}
		})
	}
}

func TestReconcileSurvivorRatios_OverridesKeepDefaultOrigin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SurvivorRatio = flags.ConfiguredValue[uint](10)
	p, _ := newTestPolicy(t, cfg, testHost(16*gb))
	p.ReconcileSurvivorRatios()

	params := p.Params()
	require.True(t, params.InitialSurvivorRatio.IsDefault())
	require.True(t, params.MinSurvivorRatio.IsDefault())
	require.True(t, params.SurvivorRatio.IsConfigured())
}

func ptr(v uint) *uint { return &v }
