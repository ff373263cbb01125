package dirtree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestComputeSize(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "a.txt"), 500)
	writeFile(t, filepath.Join(root, "sub", "b.txt"), 800)
	writeFile(t, filepath.Join(root, "sub", "deeper", "c.bin"), 4096)
	writeFile(t, filepath.Join(root, "empty.txt"), 0)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nothing", "here"), 0o755))

	log, logs := observed()
	agg := NewAggregator(log, false)

	require.Equal(t, int64(500+800+4096), agg.ComputeSize(context.Background(), root))
	require.Equal(t, int64(800+4096), agg.ComputeSize(context.Background(), filepath.Join(root, "sub")))
	require.Equal(t, int64(0), agg.ComputeSize(context.Background(), filepath.Join(root, "nothing")))
	require.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	require.Zero(t, agg.Errors())
}

func TestComputeSizeMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	log, logs := observed()
	agg := NewAggregator(log, false)

	require.Equal(t, int64(0), agg.ComputeSize(context.Background(), missing))
	require.Len(t, warningsFor(logs, missing), 1)
	require.Equal(t, int64(1), agg.Errors())
}

func TestComputeSizeNilLogger(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 10)

	require.Equal(t, int64(10), NewAggregator(nil, false).ComputeSize(context.Background(), root))
}

func TestComputeSizeSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target.bin")
	writeFile(t, target, 300)

	if err := os.Symlink(target, filepath.Join(root, "link.bin")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	broken := filepath.Join(root, "broken")
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), broken))

	log, logs := observed()
	agg := NewAggregator(log, false)

	// The link counts with its target's size, the broken link with zero.
	require.Equal(t, int64(600), agg.ComputeSize(context.Background(), root))
	require.Len(t, warningsFor(logs, broken), 1)
}

func TestComputeSizeLockedDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "big"), 2048)

	locked := filepath.Join(root, "locked_dir")
	writeFile(t, filepath.Join(locked, "secret"), 1000)
	lock(t, locked)

	log, logs := observed()
	agg := NewAggregator(log, false)

	require.Equal(t, int64(2048), agg.ComputeSize(context.Background(), root))
	require.Len(t, warningsFor(logs, locked), 1)
}

func TestComputeSizeCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	size := NewAggregator(nil, false).ComputeSize(ctx, root)
	require.GreaterOrEqual(t, size, int64(0))
	require.LessOrEqual(t, size, int64(10))
}

func TestComputeSizeProgress(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 10)
	writeFile(t, filepath.Join(root, "b"), 20)

	var files, bytes int64

	agg := NewAggregator(nil, false)
	agg.OnProgress(func(f, b int64) { files, bytes = f, b }, 1)

	require.Equal(t, int64(30), agg.ComputeSize(context.Background(), root))
	require.GreaterOrEqual(t, files, int64(1))
	require.Contains(t, []int64{10, 20, 30}, bytes)
}
