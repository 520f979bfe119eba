// internal/app/system/workers/sweeper.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Purger drops expired entries and reports how many were removed.
// ttlcache.Cache and ratelimit.Limiter both satisfy it.
type Purger interface {
	Purge() int
}

type target struct {
	name string
	p    Purger
}

// Sweeper is a background worker that periodically purges expired entries
// from in-memory stores.
type Sweeper struct {
	targets  []target
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSweeper creates a new sweeper worker.
//
// Parameters:
//   - logger: zap logger for logging
//   - interval: how often to purge (e.g., 5 minutes)
func NewSweeper(logger *zap.Logger, interval time.Duration) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Add registers a store under name. Call before Start.
func (w *Sweeper) Add(name string, p Purger) {
	w.targets = append(w.targets, target{name: name, p: p})
}

// Start begins the background sweep loop.
func (w *Sweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("sweeper worker started",
		zap.Duration("interval", w.interval),
		zap.Int("targets", len(w.targets)))
}

// Stop signals the worker to stop and waits for it to finish. It is safe to
// call more than once.
func (w *Sweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("sweeper worker stopped")
	})
}

func (w *Sweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep purges every registered store once and returns the total number of
// entries removed.
func (w *Sweeper) Sweep() int {
	total := 0
	for _, t := range w.targets {
		n := t.p.Purge()
		if n > 0 {
			w.log.Debug("purged expired entries", zap.String("store", t.name), zap.Int("count", n))
		}
		total += n
	}
	return total
}
