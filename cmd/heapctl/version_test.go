package main

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildVersion(t *testing.T) {
	ver, rev := buildVersion(nil, false)
	require.Equal(t, "dev", ver)
	require.Equal(t, "none", rev)

	info := &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	}
	ver, rev = buildVersion(info, true)
	require.Equal(t, "v0.3.0", ver)
	require.Equal(t, "abc123", rev)
}

func TestBuildVersion_LdflagsWin(t *testing.T) {
	version, gitCommit = "v1.2.3", "deadbeef"
	t.Cleanup(func() { version, gitCommit = "", "" })

	info := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	ver, rev := buildVersion(info, true)
	require.Equal(t, "v1.2.3", ver)
	require.Equal(t, "deadbeef", rev)
}

func TestVersionCommand(t *testing.T) {
	out, err := captureOutput(t, func() error {
		rootCmd.SetArgs([]string{"version"})
		t.Cleanup(func() { rootCmd.SetArgs(nil) })
		return rootCmd.Execute()
	})
	require.NoError(t, err)
	require.Contains(t, out, "heapctl ")
	require.Contains(t, out, "commit: ")
}
