// Package timeouts provides centralized deadlines for upstream API work.
//
// Every remote call made by the service layer runs under one of these
// deadlines. A call that exceeds its deadline fails like any other transport
// error, so a slow upstream degrades a dashboard tile to its fallback value
// instead of stalling the whole response.
//
// Timeouts can be configured at startup using Configure(). If not configured,
// the defaults below are used.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks against the upstream API
//   - Upstream: one paginated request to the upstream API
//   - Search: a combined multi-filter search (several requests in parallel)
//   - Aggregate: building the whole dashboard (several nested fan-outs)
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing      = 2 * time.Second
	DefaultUpstream  = 5 * time.Second
	DefaultSearch    = 8 * time.Second
	DefaultAggregate = 10 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping      = DefaultPing
	upstream  = DefaultUpstream
	search    = DefaultSearch
	aggregate = DefaultAggregate
)

// Ping returns the timeout for upstream health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Upstream returns the timeout for a single upstream request.
func Upstream() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return upstream
}

// Search returns the timeout for a combined multi-filter search.
func Search() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return search
}

// Aggregate returns the timeout for building a composite dashboard.
func Aggregate() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return aggregate
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping      time.Duration
	Upstream  time.Duration
	Search    time.Duration
	Aggregate time.Duration
}

// Configure sets custom timeout values. Zero values in the config are ignored,
// keeping the current (or default) values. Call it during startup before
// handlers are registered.
//
// Example:
//
//	timeouts.Configure(timeouts.Config{
//	    Upstream:  3 * time.Second,
//	    Aggregate: 6 * time.Second,
//	})
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Upstream > 0 {
		upstream = cfg.Upstream
	}
	if cfg.Search > 0 {
		search = cfg.Search
	}
	if cfg.Aggregate > 0 {
		aggregate = cfg.Aggregate
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	upstream = DefaultUpstream
	search = DefaultSearch
	aggregate = DefaultAggregate
}

// Current returns the current timeout configuration as a Config struct.
// Useful for logging at startup.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		Ping:      ping,
		Upstream:  upstream,
		Search:    search,
		Aggregate: aggregate,
	}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context ended because the deadline passed.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Aggregate(), h.Log, "dashboard")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
