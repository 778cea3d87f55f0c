// Package latency implements the rolling latency window spec §4.1
// "latency policing" is built on: the last N tick spans and a P99 over
// them, used both by the event loop (render latency) and the content
// cache (access latency, spec §4.4 CacheMetrics).
//
// The ring buffer shape is grounded on the sliding-window event ring used
// by the reference corpus's rate limiter (catrate/ring.go): a fixed,
// power-of-two-sized slice with read/write cursors, so insertion never
// reallocates once warmed up.
package latency

import (
	"sort"
	"time"

	"golang.org/x/exp/constraints"
)

// ring is a fixed-capacity overwrite buffer: once full, the oldest
// sample is evicted to make room for the newest. Unlike catrate's
// growable ringBuffer (which expands to accommodate rate-limiter
// history), a latency window has a fixed retention count by spec (§4.1
// "rolling window of the last N (≥256) spans"), so overwrite-on-full is
// the right policy here.
type ring[E constraints.Ordered] struct {
	buf   []E
	next  int
	count int
}

func newRing[E constraints.Ordered](size int) *ring[E] {
	if size <= 0 {
		size = 256
	}
	return &ring[E]{buf: make([]E, size)}
}

func (r *ring[E]) push(v E) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring[E]) snapshot() []E {
	out := make([]E, r.count)
	if r.count < len(r.buf) {
		copy(out, r.buf[:r.count])
		return out
	}
	// full: oldest sample is at r.next, newest just before it
	copy(out, r.buf[r.next:])
	copy(out[len(r.buf)-r.next:], r.buf[:r.next])
	return out
}

// Window tracks a rolling set of durations and reports percentiles over
// them. Minimum capacity is 256, per spec §4.1.
type Window struct {
	r *ring[time.Duration]
}

// NewWindow creates a Window retaining at least 256 samples.
func NewWindow(capacity int) *Window {
	if capacity < 256 {
		capacity = 256
	}
	return &Window{r: newRing[time.Duration](capacity)}
}

// Observe records one latency sample.
func (w *Window) Observe(d time.Duration) { w.r.push(d) }

// Len reports how many samples are currently retained.
func (w *Window) Len() int { return w.r.count }

// Percentile returns the p-th percentile (0..100) over the retained
// samples, or 0 if the window is empty.
func (w *Window) Percentile(p float64) time.Duration {
	samples := w.r.snapshot()
	if len(samples) == 0 {
		return 0
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	idx := int(p/100*float64(len(samples)-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return samples[idx]
}

// P99 is a convenience wrapper for Percentile(99).
func (w *Window) P99() time.Duration { return w.Percentile(99) }
