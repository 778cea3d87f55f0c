// Package cache is the Content Cache of spec §4.4: a fingerprint → text
// mapping with LRU eviction, soft/hard memory limits, per-fingerprint
// synthesis deduplication, and optional background preload.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/centotype/centotype/internal/centerr"
	"github.com/centotype/centotype/internal/generator"
	"github.com/centotype/centotype/internal/latency"
	"github.com/centotype/centotype/internal/types"
	"github.com/centotype/centotype/internal/validate"
)

// Default memory thresholds for this cache alone (spec §4.4).
const (
	DefaultSoftLimit = 15 << 20 // 15 MiB
	DefaultHardLimit = 20 << 20 // 20 MiB
)

type entry struct {
	fingerprint types.Fingerprint
	text        string
	bytes       int
	lastAccess  time.Time
	elem        *list.Element
	refs        int // active foreground callers currently holding this value
}

// Metrics exposes the observability spec §4.4 "metrics()" requires.
type Metrics struct {
	Hits       int64
	Misses     int64
	Bytes      int64
	AccessP99  time.Duration
}

// Cache implements spec §4.4's Get/TryGet/Preload/Invalidate/Clear/Metrics
// surface. The critical section guarding the map is bounded to map
// operations only (spec §5): synthesis always happens outside the lock,
// coordinated through a per-fingerprint in-flight marker so concurrent
// cold misses on the same fingerprint collapse into one synthesis.
type Cache struct {
	mu         sync.RWMutex
	entries    map[types.Fingerprint]*entry
	lru        *list.List // front = most recently used
	totalBytes int64

	softLimit int64
	hardLimit int64

	inflight map[types.Fingerprint]*inflightCall

	hits, misses int64
	accessWindow *latency.Window

	currentLevel types.LevelId // hint for hard-limit eviction distance

	logger Logger
}

// Logger is the minimal logging seam the cache needs; satisfied by
// internal/tui.Logger without importing the tui package directly.
type Logger interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Debugf(string, ...any) {}

type inflightCall struct {
	done chan struct{}
	text string
	err  error
}

// Option configures a Cache at construction.
type Option func(*Cache)

func WithSoftLimit(bytes int64) Option { return func(c *Cache) { c.softLimit = bytes } }
func WithHardLimit(bytes int64) Option { return func(c *Cache) { c.hardLimit = bytes } }
func WithLogger(l Logger) Option       { return func(c *Cache) { c.logger = l } }

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:      make(map[types.Fingerprint]*entry),
		lru:          list.New(),
		softLimit:    DefaultSoftLimit,
		hardLimit:    DefaultHardLimit,
		inflight:     make(map[types.Fingerprint]*inflightCall),
		accessWindow: latency.NewWindow(1024),
		logger:       noopLogger{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.hardLimit < c.softLimit {
		c.hardLimit = c.softLimit
	}
	return c
}

// Get returns the content for fingerprint, synthesizing it via the
// Generator if absent. Concurrent callers for the same fingerprint share
// one synthesis.
func (c *Cache) Get(ctx context.Context, fp types.Fingerprint) (string, error) {
	start := time.Now()
	defer func() { c.accessWindow.Observe(time.Since(start)) }()

	if text, ok := c.lookup(fp); ok {
		c.release(fp)
		return text, nil
	}

	text, err := c.synthesizeOnce(ctx, fp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// TryGet is the non-blocking hot-path lookup used from the event loop
// (spec §4.4): it never triggers synthesis.
func (c *Cache) TryGet(fp types.Fingerprint) (string, bool) {
	start := time.Now()
	defer func() { c.accessWindow.Observe(time.Since(start)) }()

	text, ok := c.lookup(fp)
	if ok {
		c.release(fp)
	}
	return text, ok
}

func (c *Cache) lookup(fp types.Fingerprint) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fp]
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	e.lastAccess = time.Now()
	e.refs++
	c.lru.MoveToFront(e.elem)
	return e.text, true
}

func (c *Cache) release(fp types.Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[fp]; ok && e.refs > 0 {
		e.refs--
	}
}

// synthesizeOnce deduplicates concurrent cold misses on fp: the first
// caller synthesizes, later callers wait for its result (spec §4.4 "If
// another caller is currently synthesizing the same fingerprint, waits
// for that synthesis to complete").
func (c *Cache) synthesizeOnce(ctx context.Context, fp types.Fingerprint) (string, error) {
	c.mu.Lock()
	if call, ok := c.inflight[fp]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.text, call.err
		case <-ctx.Done():
			return "", centerr.Wrap(centerr.KindGeneration, "synthesis wait canceled", ctx.Err())
		}
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inflight[fp] = call
	c.mu.Unlock()

	text, err := c.synthesizeWithDeadline(ctx, fp)

	call.text, call.err = text, err
	close(call.done)

	c.mu.Lock()
	delete(c.inflight, fp)
	c.mu.Unlock()

	if err != nil {
		return "", err
	}

	c.store(fp, text)
	return text, nil
}

// synthesisDeadline is spec §5's 250ms synthesis timeout.
const synthesisDeadline = 250 * time.Millisecond

func (c *Cache) synthesizeWithDeadline(ctx context.Context, fp types.Fingerprint) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, synthesisDeadline)
	defer cancel()

	resCh := make(chan struct {
		text string
		err  error
	}, 1)
	go func() {
		text, err := generator.Generate(fp.Level, fp.Seed, fp.Category)
		resCh <- struct {
			text string
			err  error
		}{text, err}
	}()

	select {
	case r := <-resCh:
		return r.text, r.err
	case <-cctx.Done():
		return "", centerr.Wrap(centerr.KindGeneration, "synthesis deadline exceeded", centerr.ErrGenerationTimeout)
	}
}

func (c *Cache) store(fp types.Fingerprint, text string) {
	// Validator is the boundary: the generator already validates
	// internally, but the cache never stores content it hasn't verified
	// itself, so a future generator bug can't smuggle rejected content
	// into the cache (spec §4.6 "Cache never stores rejected content").
	if res := validate.Validate(text); !res.Approved {
		c.logger.Warnf("refusing to cache rejected content for %s: %v", fp.Key(), res.Reasons)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[fp]; ok {
		c.totalBytes -= int64(old.bytes)
		c.lru.Remove(old.elem)
		delete(c.entries, fp)
	}

	e := &entry{fingerprint: fp, text: text, bytes: len(text), lastAccess: time.Now()}
	e.elem = c.lru.PushFront(e)
	c.entries[fp] = e
	c.totalBytes += int64(e.bytes)

	c.evictLocked()
}

// evictLocked applies the two-threshold eviction policy of spec §4.4.
// Callers must hold c.mu.
func (c *Cache) evictLocked() {
	if c.totalBytes > c.hardLimit {
		c.evictAggressiveLocked()
		return
	}
	if c.totalBytes <= c.softLimit {
		return
	}
	target := int64(float64(c.softLimit) * 0.8)
	for c.totalBytes > target {
		if !c.evictOneLRULocked() {
			return
		}
	}
}

// evictAggressiveLocked retains only entries within distance <=1 of
// currentLevel (spec §4.4 "on bytes > hard_limit").
func (c *Cache) evictAggressiveLocked() {
	for elem := c.lru.Back(); elem != nil; {
		e := elem.Value.(*entry)
		prev := elem.Prev()
		if e.refs == 0 && distance(e.fingerprint.Level, c.currentLevel) > 1 {
			c.removeEntryLocked(e)
		}
		elem = prev
	}
}

func distance(a, b types.LevelId) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func (c *Cache) evictOneLRULocked() bool {
	for elem := c.lru.Back(); elem != nil; elem = elem.Prev() {
		e := elem.Value.(*entry)
		if e.refs == 0 {
			c.removeEntryLocked(e)
			return true
		}
	}
	return false // every entry is currently in use by an active caller
}

func (c *Cache) removeEntryLocked(e *entry) {
	c.lru.Remove(e.elem)
	delete(c.entries, e.fingerprint)
	c.totalBytes -= int64(e.bytes)
}

// SetCurrentLevel records the session's current level so hard-limit
// eviction can protect it (spec §8 boundary case "current level's text
// is never evicted").
func (c *Cache) SetCurrentLevel(l types.LevelId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentLevel = l
}

// Strategy selects which neighboring fingerprints Preload should warm
// (spec §4.4 "Preload strategies").
type Strategy int

const (
	StrategyOff Strategy = iota
	StrategySequential
	StrategyAdaptive
)

// adaptive preload probabilities (spec §4.4).
const (
	probNext      = 0.7
	probRetry     = 0.4
	probPrevious  = 0.2
	probJumpAhead = 0.1
)

// Preload warms the cache in the background for fingerprints the session
// is likely to need next, according to strategy. It never blocks the
// caller: synthesis happens on its own goroutine and errors are swallowed
// (a failed preload just means a later Get falls back to a cold
// synthesis).
func (c *Cache) Preload(ctx context.Context, current types.Fingerprint, strategy Strategy, k int) {
	switch strategy {
	case StrategyOff:
		return
	case StrategySequential:
		for i := 1; i <= k; i++ {
			c.preloadAsync(ctx, bump(current, i))
		}
	case StrategyAdaptive:
		for offset, prob := range map[int]float64{1: probNext, 0: probRetry, -1: probPrevious, 2: probJumpAhead} {
			if prob >= adaptiveThreshold(offset) {
				c.preloadAsync(ctx, bump(current, offset))
			}
		}
	}
}

// adaptiveThreshold is a fixed cutoff so the probabilities of spec §4.4
// act as a deterministic "preload if likely enough" gate rather than a
// second source of nondeterminism layered on top of the generator's own
// seeded randomness.
func adaptiveThreshold(offset int) float64 {
	if offset == 1 {
		return 0 // next level always preloaded, it is the likeliest continuation
	}
	return 0.35
}

func bump(fp types.Fingerprint, delta int) types.Fingerprint {
	lvl := int(fp.Level) + delta
	if lvl < int(types.MinLevel) {
		lvl = int(types.MinLevel)
	}
	if lvl > int(types.MaxLevel) {
		lvl = int(types.MaxLevel)
	}
	return types.NewFingerprint(types.LevelId(lvl), fp.Seed, fp.Category)
}

func (c *Cache) preloadAsync(ctx context.Context, fp types.Fingerprint) {
	c.mu.RLock()
	_, cached := c.entries[fp]
	_, inflight := c.inflight[fp]
	c.mu.RUnlock()
	if cached || inflight {
		return
	}
	go func() {
		_, _ = c.synthesizeOnce(ctx, fp)
	}()
}

// Invalidate removes one fingerprint's entry, if present.
func (c *Cache) Invalidate(fp types.Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[fp]; ok {
		c.removeEntryLocked(e)
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[types.Fingerprint]*entry)
	c.lru = list.New()
	c.totalBytes = 0
}

// Metrics reports the cache's observability surface.
func (c *Cache) Metrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Metrics{
		Hits:      c.hits,
		Misses:    c.misses,
		Bytes:     c.totalBytes,
		AccessP99: c.accessWindow.P99(),
	}
}
