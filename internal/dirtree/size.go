package dirtree

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// Aggregator sums the sizes of regular files beneath a directory.
type Aggregator struct {
	log      *zap.Logger
	follow   bool
	progress *progress
	failed   failures
}

// NewAggregator creates an Aggregator. If follow is set, symlinked
// directories are walked as well. A nil logger discards diagnostics.
func NewAggregator(log *zap.Logger, follow bool) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Aggregator{log: log, follow: follow, failed: make(failures)}
}

// OnProgress registers a hook receiving the cumulative number of files
// sized and bytes summed so far, at most once per interval.
func (a *Aggregator) OnProgress(hook func(files, bytes int64), interval time.Duration) {
	a.progress = newProgress(hook, interval)
}

// Errors returns the number of distinct inaccessible paths reported so far.
func (a *Aggregator) Errors() int64 {
	return int64(len(a.failed))
}

// ComputeSize returns the total size in bytes of all regular files beneath path.
//
// Files or directories that cannot be read contribute zero bytes and are
// reported once per Aggregator, however many ancestors are sized; the walk continues with their siblings. Symbolic links
// to files count with the size of their target, broken links are reported.
// If ctx is cancelled the walk stops and the partial total is returned.
func (a *Aggregator) ComputeSize(ctx context.Context, path string) int64 {
	conf := &fastwalk.Config{
		Follow:     a.follow,
		NumWorkers: 1,
	}

	var total int64

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.report(path, err)

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			return nil
		}

		symlink := d.Type()&fs.ModeSymlink != 0
		if !symlink && !d.Type().IsRegular() {
			return nil
		}

		info, err := entryInfo(path, d, symlink)
		if err != nil {
			a.report(path, err)

			return nil
		}

		// Symlinks resolving to directories are walked (or not) by fastwalk itself.
		if !info.Mode().IsRegular() {
			return nil
		}

		total += info.Size()
		a.progress.add(info.Size())

		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.log.Debug("size aggregation interrupted", zap.String("path", path))
	default:
		// fastwalk returns errors on the root itself without invoking the callback.
		a.report(path, err)
	}

	return total
}

// entryInfo returns the file info for d, resolving symbolic links.
func entryInfo(path string, d fs.DirEntry, symlink bool) (fs.FileInfo, error) {
	if symlink {
		return fastwalk.StatDirEntry(path, d)
	}

	return d.Info()
}

func (a *Aggregator) report(path string, err error) {
	if !a.failed.add(path) {
		a.log.Debug("inaccessible path, already reported", zap.String("path", path))

		return
	}

	a.log.Warn("inaccessible path, counted as zero bytes", zap.String("path", path), zap.Error(err))
}

// failures is the set of paths that could not be read.
type failures map[string]struct{}

// add records path and reports whether it was not yet recorded.
func (f failures) add(path string) bool {
	if _, ok := f[path]; ok {
		return false
	}

	f[path] = struct{}{}

	return true
}

// union returns the number of distinct paths across f and others.
func (f failures) union(others ...failures) int64 {
	all := make(failures, len(f))
	for path := range f {
		all[path] = struct{}{}
	}

	for _, other := range others {
		for path := range other {
			all[path] = struct{}{}
		}
	}

	return int64(len(all))
}
