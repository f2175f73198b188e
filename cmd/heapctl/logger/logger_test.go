package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInit_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Enabled: true, LogDir: dir, Level: slog.LevelDebug}))
	t.Cleanup(func() { _ = Init(Options{}) })

	L.Debug("policy adjusted", "flag", "MaxHeapSize")

	data, err := os.ReadFile(filepath.Join(dir, logName(time.Now())))
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"policy adjusted"`)
	require.Contains(t, string(data), `"flag":"MaxHeapSize"`)
}

func TestInit_DisabledDiscards(t *testing.T) {
	require.NoError(t, Init(Options{}))
	require.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := logName(now.AddDate(0, 0, -45))
	recent := logName(now.AddDate(0, 0, -2))
	other := "notes.log"
	for _, name := range []string{old, recent, other} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	cleanOldLogs(dir, now)

	require.NoFileExists(t, filepath.Join(dir, old))
	require.FileExists(t, filepath.Join(dir, recent))
	require.FileExists(t, filepath.Join(dir, other))
}
