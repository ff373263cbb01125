package dirtree

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Row is one table line. It has 2×maxLevel slots; the pair at 2×level holds
// the directory name and its formatted size, all other slots are empty.
type Row []string

// Node is a directory emitted as a Row.
type Node struct {
	// Path is the directory path.
	Path string `json:"path"`
	// Name is the displayed name.
	Name string `json:"name"`
	// Level is the distance from the scan root, starting at 0.
	Level int `json:"level"`
	// Size is the total size in bytes of all regular files in the subtree.
	Size int64 `json:"size"`
}

// Collector flattens a directory tree into level-indented rows.
type Collector struct {
	agg              *Aggregator
	log              *zap.Logger
	format           func(int64) string
	threshold        int64
	thresholdEnabled bool
	readDir          func(string) ([]fs.DirEntry, error)
	nodes            []Node
	failed           failures
}

// NewCollector creates a Collector sizing directories with agg. The
// threshold and formatting settings are taken from opt.
func NewCollector(agg *Aggregator, log *zap.Logger, opt Options) *Collector {
	if log == nil {
		log = zap.NewNop()
	}

	format := opt.Formatter
	if format == nil {
		format = Formatter(opt.Binary)
	}

	return &Collector{
		agg:              agg,
		log:              log,
		format:           format,
		threshold:        opt.Threshold,
		thresholdEnabled: opt.ThresholdEnabled,
		readDir:          os.ReadDir,
		failed:           make(failures),
	}
}

// Nodes returns the directories emitted by the last call to Collect, in row order.
func (c *Collector) Nodes() []Node {
	return c.nodes
}

// Errors returns the number of directories that could not be listed.
func (c *Collector) Errors() int64 {
	return int64(len(c.failed))
}

// Failures returns the number of distinct inaccessible paths met by the
// collector and its aggregator together.
func (c *Collector) Failures() int64 {
	return c.failed.union(c.agg.failed)
}

// frame is a pending directory on the work stack.
type frame struct {
	path  string
	level int
}

// Collect returns the rows for path and its descendants, depth-first in
// directory listing order, starting at level and stopping before maxLevel.
//
// A directory smaller than the threshold (when enabled) is dropped together
// with its whole subtree, even if a descendant alone would pass the
// threshold: pruning happens before the children are looked at.
//
// A directory whose children cannot be listed keeps its own row and is
// reported; the scan continues with the remaining directories.
//
// Symbolic links to directories are listed like directories. Each directory
// is visited at most once per call, by its canonical path, so link cycles end.
func (c *Collector) Collect(ctx context.Context, path string, maxLevel, level int) []Row {
	c.nodes = nil

	if level < 0 {
		return nil
	}

	var rows []Row

	visited := make(map[string]struct{})
	stack := []frame{{path: path, level: level}}

	for len(stack) > 0 && ctx.Err() == nil {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.level >= maxLevel {
			continue
		}

		if c.seen(current.path, visited) {
			c.log.Debug("skipping already visited directory", zap.String("path", current.path))

			continue
		}

		size := c.agg.ComputeSize(ctx, current.path)

		if c.thresholdEnabled && size < c.threshold {
			c.log.Debug("pruning directory below threshold",
				zap.String("path", current.path),
				zap.Int64("size", size),
				zap.Int64("threshold", c.threshold))

			continue
		}

		name := displayName(current.path)

		row := make(Row, 2*maxLevel)
		row[2*current.level] = name
		row[2*current.level+1] = c.format(size)

		rows = append(rows, row)
		c.nodes = append(c.nodes, Node{Path: current.path, Name: name, Level: current.level, Size: size})

		// Children would land on maxLevel and be dropped anyway.
		if current.level+1 >= maxLevel || !isDir(current.path) {
			continue
		}

		children, err := c.children(current.path)
		if err != nil {
			c.failed.add(current.path)
			c.log.Warn("access denied, size calculated only for accessible parts",
				zap.String("path", current.path), zap.Error(err))

			continue
		}

		// Reverse push keeps listing order on pop.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{path: children[i], level: current.level + 1})
		}
	}

	return rows
}

// children lists the immediate child directories of path.
func (c *Collector) children(path string) ([]string, error) {
	entries, err := c.readDir(path)
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(entries))

	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())

		switch {
		case entry.IsDir():
			dirs = append(dirs, child)
		case entry.Type()&fs.ModeSymlink != 0 && isDir(child):
			dirs = append(dirs, child)
		}
	}

	return dirs, nil
}

// seen records the canonical form of path and reports whether it was
// already visited during this traversal.
func (c *Collector) seen(path string, visited map[string]struct{}) bool {
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonical = path
	}

	if _, ok := visited[canonical]; ok {
		return true
	}

	visited[canonical] = struct{}{}

	return false
}

// isDir reports whether path resolves to a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// displayName returns the base name of path, or path itself if it has no
// base name component, such as "/" or `C:\`.
func displayName(path string) string {
	rest := path[len(filepath.VolumeName(path)):]
	if strings.TrimRight(rest, `/`+string(filepath.Separator)) == "" {
		return path
	}

	return filepath.Base(path)
}
