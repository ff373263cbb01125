package dirtree

import (
	"fmt"
	"time"
)

// Report holds the result of a scan.
type Report struct {
	// Root is the scanned directory.
	Root string `json:"root"`
	// MaxLevel is the number of displayed levels.
	MaxLevel int `json:"max_level"`
	// Headers are the table headers, two per level.
	Headers []string `json:"headers"`
	// Rows are the level-indented table lines.
	Rows []Row `json:"rows"`
	// Nodes describes each row's directory.
	Nodes []Node `json:"nodes"`
	// TotalBytes is the size of the root directory, or 0 if it was pruned.
	TotalBytes int64 `json:"total_bytes"`
	// ErrorCount is the number of inaccessible paths encountered.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// Headers returns the alternating "Level N" / "Space" headers for maxLevel levels.
func Headers(maxLevel int) []string {
	headers := make([]string, 0, 2*maxLevel)

	for i := 1; i <= maxLevel; i++ {
		headers = append(headers, fmt.Sprintf("Level %d", i), "Space")
	}

	return headers
}
