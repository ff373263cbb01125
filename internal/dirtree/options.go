package dirtree

import (
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultMaxLevel is the number of displayed levels when none is configured.
const DefaultMaxLevel = 3

// DefaultThreshold is the default minimum directory size (1 GiB).
const DefaultThreshold = 1 << 30

// Options configures a scan and CLI behavior.
type Options struct {
	// Path is the root directory to scan.
	Path string
	// MaxLevel is the number of levels to display; the root is level 0.
	MaxLevel int
	// Threshold is the minimum subtree size in bytes for a directory to be shown.
	Threshold int64
	// ThresholdEnabled toggles the Threshold filter.
	ThresholdEnabled bool
	// Follow enables descending into symlinked directories.
	Follow bool
	// Absolute displays the root by its absolute path.
	Absolute bool
	// Binary selects IEC units (KiB, MiB) instead of SI units (kB, MB).
	Binary bool
	// Formatter renders byte counts. Chosen from Binary when nil.
	Formatter func(int64) string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents the output format (grid, plain or json).
	Output string
	// Config is an optional configuration file.
	Config string
}

// Formatter returns the human-readable byte formatter for the given unit system.
func Formatter(binary bool) func(int64) string {
	return func(size int64) string {
		if size < 0 {
			size = 0
		}

		if binary {
			return humanize.IBytes(uint64(size))
		}

		return humanize.Bytes(uint64(size))
	}
}
