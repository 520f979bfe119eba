// Package ttlcache is a small in-memory key/value store with per-entry
// expiry, used for rarely-changing reference data such as category lists.
//
// A Cache is an explicit instance owned by whoever builds the service layer;
// there is no package-level cache. Entries are never updated in place: Set
// replaces the whole entry. There is no eviction other than TTL expiry,
// Purge, and Clear.
package ttlcache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data     any
	storedAt time.Time
	ttl      time.Duration
}

// valid reports whether the entry is still live at now.
func (e entry) valid(now time.Time) bool {
	return now.Sub(e.storedAt) < e.ttl
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Tests use it to simulate TTL expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key, or false if it is absent or
// expired. Expired entries are treated as absent but left in place until
// the next Set, Purge, or Clear.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.valid(c.now()) {
		return nil, false
	}
	return e.data, true
}

// Set stores value under key for ttl. A non-positive ttl stores an entry
// that is already expired, which is equivalent to deleting the key.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: value, storedAt: c.now(), ttl: ttl}
}

// SetMinutes stores value under key for the given number of minutes.
func (c *Cache) SetMinutes(key string, value any, minutes int) {
	c.Set(key, value, time.Duration(minutes)*time.Minute)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Purge removes expired entries and returns how many were dropped.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.entries {
		if !e.valid(now) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, including expired ones not yet
// purged.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetAs is Get with a type assertion. A stored value of a different type is
// reported as a miss.
func GetAs[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Remember returns the cached value for key, or calls load and caches its
// result for ttl. Errors from load are returned as-is and nothing is cached.
//
// Concurrent misses for the same key may each call load; the last writer
// wins. That is acceptable for the low-churn reference data this serves.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := GetAs[T](c, key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}
