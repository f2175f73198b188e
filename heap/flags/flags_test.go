package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_Provenance(t *testing.T) {
	v := DefaultValue[uint](8)
	require.Equal(t, uint(8), v.Get())
	require.True(t, v.IsDefault())
	require.False(t, v.IsConfigured())

	v.SetDefault(12)
	require.Equal(t, uint(12), v.Get())
	require.True(t, v.IsDefault(), "SetDefault must keep Default origin")

	v.SetErgo(16)
	require.Equal(t, Ergonomic, v.Origin())
	require.False(t, v.IsDefault())
	require.False(t, v.IsConfigured())

	v.Set(5)
	require.True(t, v.IsConfigured())
	require.Equal(t, "5 (configured)", v.String())
}

func TestConfiguredValue_SameValueAsDefault(t *testing.T) {
	def := DefaultValue[uint64](64)
	cfg := ConfiguredValue[uint64](64)

	require.Equal(t, def.Get(), cfg.Get())
	require.NotEqual(t, def.Origin(), cfg.Origin())
}

func TestOriginString(t *testing.T) {
	require.Equal(t, "default", Default.String())
	require.Equal(t, "configured", Configured.String())
	require.Equal(t, "ergonomic", Ergonomic.String())
	require.Equal(t, "unknown", Origin(9).String())
}
