package dirtree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Run scans opt.Path and returns the flattened directory report.
//
// The root must be an existing directory; everything beneath it is scanned
// best-effort. The scan can be interrupted via ctx, in which case the
// context's error is returned. Progress updates are sent to progressHook if
// provided.
func Run(ctx context.Context, opt Options, log *zap.Logger, progressHook func(int64, int64)) (*Report, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	if opt.MaxLevel < 1 {
		return nil, fmt.Errorf("max level must be at least 1, got %d", opt.MaxLevel)
	}

	if opt.Threshold < 0 {
		return nil, errors.New("threshold cannot be negative")
	}

	// Normalize to native format to handle both C:/Path and C:\Path inputs
	opt.Path = filepath.Clean(opt.Path)

	if opt.Absolute {
		abs, err := filepath.Abs(opt.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving absolute path: %w", err)
		}

		opt.Path = abs
	}

	// validate path exists and is accessible
	if statInfo, err := os.Stat(opt.Path); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Path)
	}

	log.Debug("starting scan",
		zap.String("path", opt.Path),
		zap.Int("max_level", opt.MaxLevel),
		zap.Bool("threshold_enabled", opt.ThresholdEnabled),
		zap.Int64("threshold", opt.Threshold),
		zap.Bool("follow", opt.Follow))

	start := time.Now()

	aggregator := NewAggregator(log, opt.Follow)
	if progressHook != nil {
		aggregator.OnProgress(progressHook, opt.ProgressInterval)
	}

	collector := NewCollector(aggregator, log, opt)

	rows := collector.Collect(ctx, opt.Path, opt.MaxLevel, 0)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Root:       opt.Path,
		MaxLevel:   opt.MaxLevel,
		Headers:    Headers(opt.MaxLevel),
		Rows:       rows,
		Nodes:      collector.Nodes(),
		ErrorCount: collector.Failures(),
		Elapsed:    time.Since(start),
	}

	if report.Rows == nil {
		report.Rows = []Row{}
	}

	if report.Nodes == nil {
		report.Nodes = []Node{}
	}

	if len(report.Nodes) > 0 && report.Nodes[0].Level == 0 {
		report.TotalBytes = report.Nodes[0].Size
	}

	return report, nil
}
