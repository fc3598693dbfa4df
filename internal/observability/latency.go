package observability

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// maxTrackedLatency caps recorded values; slower writes are clamped.
const maxTrackedLatency = time.Minute

// LatencyTracker keeps an in-process HDR histogram of operation latency.
// Values are recorded in microseconds with 3 significant figures.
type LatencyTracker struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// LatencySnapshot is a point-in-time percentile summary in milliseconds.
type LatencySnapshot struct {
	Count  int64   `json:"count"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
}

func NewLatencyTracker() *LatencyTracker {
	return &LatencyTracker{
		hist: hdrhistogram.New(1, maxTrackedLatency.Microseconds(), 3),
	}
}

// Record adds one observation.
func (t *LatencyTracker) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > maxTrackedLatency.Microseconds() {
		us = maxTrackedLatency.Microseconds()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.hist.RecordValue(us)
}

// Snapshot summarizes everything recorded so far.
func (t *LatencyTracker) Snapshot() LatencySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return LatencySnapshot{
		Count:  t.hist.TotalCount(),
		MeanMs: t.hist.Mean() / 1000,
		P50Ms:  float64(t.hist.ValueAtQuantile(50)) / 1000,
		P95Ms:  float64(t.hist.ValueAtQuantile(95)) / 1000,
		P99Ms:  float64(t.hist.ValueAtQuantile(99)) / 1000,
		MaxMs:  float64(t.hist.Max()) / 1000,
	}
}
