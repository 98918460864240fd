// Package telemetry aggregates the pipeline's observability state: hot-path
// counters, latency distributions, a per-second snapshot loop, and the
// monitoring publisher that exposes it all over HTTP.
//
// Hot paths only touch atomics here. The per-second copy-out takes a short
// mutex on the aggregate stats, never on anything a pinned thread owns.
package telemetry

import "sync/atomic"

const (
	// histBucketWidth is the linear bucket width in nanoseconds.
	histBucketWidth = 100
	// histBuckets covers 0–10µs; everything slower lands in the last bucket.
	histBuckets = 100
)

// LatencyHistogram is a fixed linear histogram with relaxed atomic
// increments. Safe for concurrent recording; readers get approximate but
// consistent-enough views for reporting.
type LatencyHistogram struct {
	buckets [histBuckets]atomic.Uint64
	count   atomic.Uint64
	sum     atomic.Uint64
}

// Record adds one observation in nanoseconds.
func (h *LatencyHistogram) Record(ns uint64) {
	idx := ns / histBucketWidth
	if idx >= histBuckets {
		idx = histBuckets - 1
	}
	h.buckets[idx].Add(1)
	h.count.Add(1)
	h.sum.Add(ns)
}

// Count returns the number of observations.
func (h *LatencyHistogram) Count() uint64 { return h.count.Load() }

// Mean returns the average observation in nanoseconds, 0 when empty.
func (h *LatencyHistogram) Mean() uint64 {
	n := h.count.Load()
	if n == 0 {
		return 0
	}
	return h.sum.Load() / n
}

// Percentile returns an upper bound for the p-th percentile (p in [0,100]),
// resolved to bucket width.
func (h *LatencyHistogram) Percentile(p float64) uint64 {
	total := h.count.Load()
	if total == 0 {
		return 0
	}
	target := uint64(float64(total) * p / 100.0)
	if target == 0 {
		target = 1
	}
	var cum uint64
	for i := 0; i < histBuckets; i++ {
		cum += h.buckets[i].Load()
		if cum >= target {
			return uint64(i+1) * histBucketWidth
		}
	}
	return histBuckets * histBucketWidth
}

// Reset zeroes the histogram.
func (h *LatencyHistogram) Reset() {
	for i := range h.buckets {
		h.buckets[i].Store(0)
	}
	h.count.Store(0)
	h.sum.Store(0)
}
