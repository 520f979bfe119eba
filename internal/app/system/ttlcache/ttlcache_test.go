package ttlcache_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/shopadmin/internal/app/system/ttlcache"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGet_Missing(t *testing.T) {
	c := ttlcache.New()
	if v, ok := c.Get("nope"); ok || v != nil {
		t.Errorf("Get(missing) = (%v, %v), want (nil, false)", v, ok)
	}
}

func TestSetGet_BeforeAndAfterTTL(t *testing.T) {
	clock := newFakeClock()
	c := ttlcache.New(ttlcache.WithClock(clock.Now))

	base := clock.Now()
	cats := []string{"beauty", "laptops", "smartphones"}
	c.SetMinutes("cats", cats, 60)

	for _, step := range []time.Duration{0, time.Minute, 30 * time.Minute, 59*time.Minute + 59*time.Second} {
		clock.Set(base.Add(step))
		got, ok := ttlcache.GetAs[[]string](c, "cats")
		if !ok {
			t.Fatalf("at +%v: expected hit", step)
		}
		if !reflect.DeepEqual(got, cats) {
			t.Fatalf("at +%v: got %v, want %v", step, got, cats)
		}
	}

	clock.Set(base.Add(60 * time.Minute)) // now - storedAt == ttl is expired
	if _, ok := c.Get("cats"); ok {
		t.Error("at +60m: expected miss")
	}
}

func TestSet_OverwritesWholesale(t *testing.T) {
	clock := newFakeClock()
	c := ttlcache.New(ttlcache.WithClock(clock.Now))

	c.Set("k", "v1", time.Minute)
	clock.Advance(50 * time.Second)
	c.Set("k", "v2", time.Minute)
	clock.Advance(50 * time.Second)

	v, ok := c.Get("k")
	if !ok || v != "v2" {
		t.Errorf("Get after overwrite = (%v, %v), want (v2, true)", v, ok)
	}
}

func TestSet_NonPositiveTTLIsMiss(t *testing.T) {
	c := ttlcache.New()
	c.Set("k", 1, 0)
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss for zero TTL")
	}
}

func TestClear(t *testing.T) {
	c := ttlcache.New()
	c.Set("a", 1, time.Hour)
	c.Set("b", 2, time.Hour)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestPurge(t *testing.T) {
	clock := newFakeClock()
	c := ttlcache.New(ttlcache.WithClock(clock.Now))
	c.Set("short", 1, time.Minute)
	c.Set("long", 2, time.Hour)

	clock.Advance(2 * time.Minute)
	if n := c.Purge(); n != 1 {
		t.Errorf("Purge: got %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len: got %d, want 1", c.Len())
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("expected long-lived entry to survive Purge")
	}
}

func TestGetAs_WrongType(t *testing.T) {
	c := ttlcache.New()
	c.Set("n", 42, time.Hour)
	if _, ok := ttlcache.GetAs[string](c, "n"); ok {
		t.Error("expected miss for mismatched type")
	}
}

func TestRemember_RefetchesAfterExpiry(t *testing.T) {
	clock := newFakeClock()
	c := ttlcache.New(ttlcache.WithClock(clock.Now))
	ctx := context.Background()

	hits := 0
	load := func(context.Context) ([]string, error) {
		hits++
		return []string{"beauty", "fragrances"}, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := ttlcache.Remember(ctx, c, "cats", 60*time.Minute, load); err != nil {
			t.Fatalf("Remember: %v", err)
		}
	}
	if hits != 1 {
		t.Fatalf("upstream hits before expiry: got %d, want 1", hits)
	}

	clock.Advance(61 * time.Minute)
	if _, err := ttlcache.Remember(ctx, c, "cats", 60*time.Minute, load); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if hits != 2 {
		t.Errorf("upstream hits after expiry: got %d, want 2", hits)
	}
}

func TestRemember_ErrorNotCached(t *testing.T) {
	c := ttlcache.New()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := ttlcache.Remember(ctx, c, "k", time.Hour, func(context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err: got %v, want %v", err, boom)
	}
	if c.Len() != 0 {
		t.Errorf("Len: got %d, want 0", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := ttlcache.New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("k", i*j, time.Minute)
				c.Get("k")
				c.Purge()
			}
		}(i)
	}
	wg.Wait()
}
