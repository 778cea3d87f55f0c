package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/centotype/centotype/internal/types"
)

func TestCacheColdMissThenHit(t *testing.T) {
	c := New()
	fp := types.NewFingerprint(5, 1, types.CategoryNone)

	ctx := context.Background()
	text, err := c.Get(ctx, fp)
	if err != nil {
		t.Fatalf("cold get: %v", err)
	}
	if text == "" {
		t.Fatal("expected non-empty content")
	}

	got, ok := c.TryGet(fp)
	if !ok {
		t.Fatal("expected cache hit after synthesis")
	}
	if got != text {
		t.Fatalf("hit content mismatch: %q vs %q", got, text)
	}

	m := c.Metrics()
	if m.Hits != 1 || m.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", m)
	}
}

// Concurrent cold misses on the same fingerprint must collapse into
// exactly one synthesis.
func TestCacheConcurrentMissDedups(t *testing.T) {
	c := New()
	fp := types.NewFingerprint(10, 99, types.CategoryNone)
	ctx := context.Background()

	const n = 16
	results := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			text, err := c.Get(ctx, fp)
			if err != nil {
				t.Errorf("get %d: %v", i, err)
				return
			}
			results[i] = text
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent synthesis diverged at %d: %q vs %q", i, results[i], results[0])
		}
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := New()
	fp := types.NewFingerprint(3, 1, types.CategoryNone)
	ctx := context.Background()

	if _, err := c.Get(ctx, fp); err != nil {
		t.Fatalf("get: %v", err)
	}
	c.Invalidate(fp)
	if _, ok := c.TryGet(fp); ok {
		t.Fatal("expected entry to be gone after Invalidate")
	}

	if _, err := c.Get(ctx, fp); err != nil {
		t.Fatalf("get: %v", err)
	}
	c.Clear()
	if m := c.Metrics(); m.Bytes != 0 {
		t.Fatalf("expected 0 bytes after Clear, got %d", m.Bytes)
	}
}

// Hard-limit eviction must never remove the current level's entry, even
// when a caller is mid-read on an unrelated fingerprint.
func TestCacheHardLimitProtectsCurrentLevel(t *testing.T) {
	c := New(WithSoftLimit(1), WithHardLimit(2))
	ctx := context.Background()

	current := types.NewFingerprint(50, 1, types.CategoryNone)
	if _, err := c.Get(ctx, current); err != nil {
		t.Fatalf("get current: %v", err)
	}
	c.SetCurrentLevel(50)

	for lvl := types.LevelId(1); lvl <= 20; lvl++ {
		if _, err := c.Get(ctx, types.NewFingerprint(lvl, 1, types.CategoryNone)); err != nil {
			t.Fatalf("get level %d: %v", lvl, err)
		}
	}

	if _, ok := c.TryGet(current); !ok {
		t.Fatal("hard-limit eviction removed the current level's entry")
	}
}

func TestCacheWarmHitRate(t *testing.T) {
	c := New()
	ctx := context.Background()
	fp := types.NewFingerprint(7, 3, types.CategoryNone)

	if _, err := c.Get(ctx, fp); err != nil {
		t.Fatalf("warm-up get: %v", err)
	}
	const lookups = 50
	for i := 0; i < lookups; i++ {
		if _, ok := c.TryGet(fp); !ok {
			t.Fatalf("lookup %d missed after warm-up", i)
		}
	}

	m := c.Metrics()
	hitRate := float64(m.Hits) / float64(m.Hits+m.Misses)
	if hitRate < 0.90 {
		t.Fatalf("expected hit rate >= 0.90 after warm-up, got %f", hitRate)
	}
}

func TestCachePreloadSequentialWarmsNeighbors(t *testing.T) {
	c := New()
	ctx := context.Background()
	fp := types.NewFingerprint(20, 5, types.CategoryNone)

	c.Preload(ctx, fp, StrategySequential, 2)

	deadline := time.After(2 * time.Second)
	for {
		_, ok1 := c.TryGet(types.NewFingerprint(21, 5, types.CategoryNone))
		_, ok2 := c.TryGet(types.NewFingerprint(22, 5, types.CategoryNone))
		if ok1 && ok2 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("preloaded neighbors never appeared in cache")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCachePreloadOffDoesNothing(t *testing.T) {
	c := New()
	ctx := context.Background()
	fp := types.NewFingerprint(20, 5, types.CategoryNone)

	c.Preload(ctx, fp, StrategyOff, 3)
	time.Sleep(20 * time.Millisecond)

	if m := c.Metrics(); m.Hits+m.Misses != 0 {
		t.Fatalf("expected no cache activity with StrategyOff, got %+v", m)
	}
}
