package dirtree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// writeFile creates a file of the given size, creating parent directories.
func writeFile(t *testing.T, path string, size int) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

// observed returns a logger recording every entry at debug level and above.
func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return zap.New(core), logs
}

// warningsFor returns the warnings logged for path.
func warningsFor(logs *observer.ObservedLogs, path string) []observer.LoggedEntry {
	var entries []observer.LoggedEntry

	for _, entry := range logs.FilterLevelExact(zapcore.WarnLevel).All() {
		if entry.ContextMap()["path"] == path {
			entries = append(entries, entry)
		}
	}

	return entries
}

// lock removes all permissions from path for the duration of the test.
func lock(t *testing.T, path string) {
	t.Helper()

	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed when running as root")
	}

	require.NoError(t, os.Chmod(path, 0))
	t.Cleanup(func() { _ = os.Chmod(path, 0o755) })
}
