package dirtree

import "time"

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// progress throttles calls to a progress hook. It is driven synchronously
// from the walk callback, so no locking is involved. Counts are cumulative
// over all aggregations: a file is counted again for each sized ancestor.
type progress struct {
	hook     func(files, bytes int64)
	interval time.Duration
	last     time.Time
	files    int64
	bytes    int64
}

func newProgress(hook func(int64, int64), interval time.Duration) *progress {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	return &progress{hook: hook, interval: interval}
}

// add records one file and invokes the hook if the interval has elapsed.
func (p *progress) add(size int64) {
	if p == nil || p.hook == nil {
		return
	}

	p.files++
	p.bytes += size

	if now := time.Now(); now.Sub(p.last) >= p.interval {
		p.last = now
		p.hook(p.files, p.bytes)
	}
}
