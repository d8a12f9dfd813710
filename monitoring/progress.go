package monitoring

import (
	"sync"
	"time"
)

// ReplayProgress tracks how far a trace replay has advanced. The
// replay loop publishes absolute counts, so no delta bookkeeping is
// needed on either side.
type ReplayProgress struct {
	mu sync.Mutex

	name      string
	startTime time.Time
	total     uint64
	issued    uint64
	returned  uint64
}

// Update publishes the number of records issued and completed so far.
func (p *ReplayProgress) Update(issued, returned uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.issued = issued
	p.returned = returned
}

// progressSnapshot is the JSON view served by /api/progress. Total is
// zero when the trace length is unknown up front.
type progressSnapshot struct {
	Name            string  `json:"name"`
	Total           uint64  `json:"total"`
	Issued          uint64  `json:"issued"`
	Returned        uint64  `json:"returned"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	IssuedPerSecond float64 `json:"issued_per_second"`
}

func (p *ReplayProgress) snapshot() progressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime).Seconds()

	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.issued) / elapsed
	}

	return progressSnapshot{
		Name:            p.name,
		Total:           p.total,
		Issued:          p.issued,
		Returned:        p.returned,
		ElapsedSeconds:  elapsed,
		IssuedPerSecond: rate,
	}
}
