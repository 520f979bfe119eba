// Package gather runs a fixed set of named, unrelated tasks concurrently and
// joins on all of them, substituting a static fallback for every task that
// fails.
//
// Typical usage:
//
//	g := gather.New(ctx, gather.WithLogger(log), gather.WithTaskTimeout(timeouts.Upstream()))
//	users := gather.Go(g, "users", 0, countUsers)
//	products := gather.Go(g, "products", 0, countProducts)
//	g.Wait()
//	total := users.Value() + products.Value()
//
// Tasks start in the order Go is called and may finish in any order. A
// failing task never cancels its siblings. Values are read through the
// handle returned by Go, so the assembled result depends only on the order
// tasks were issued, never on the order they completed.
package gather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrPanic wraps a value recovered from a panicking task.
var ErrPanic = errors.New("task panicked")

// Group is a set of tasks joined by Wait. A Group is single-use.
type Group struct {
	ctx         context.Context
	log         *zap.Logger
	taskTimeout time.Duration

	eg errgroup.Group

	mu      sync.Mutex
	names   []string
	errs    []error // indexed like names
	waited  bool
	started time.Time
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger used to report failed tasks.
func WithLogger(log *zap.Logger) Option {
	return func(g *Group) {
		if log != nil {
			g.log = log
		}
	}
}

// WithTaskTimeout bounds each task individually. Zero means the tasks only
// inherit the parent context's deadline.
func WithTaskTimeout(d time.Duration) Option {
	return func(g *Group) { g.taskTimeout = d }
}

// New creates a Group whose tasks run under ctx.
func New(ctx context.Context, opts ...Option) *Group {
	g := &Group{
		ctx:     ctx,
		log:     zap.NewNop(),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the handle for one task. Read it only after Group.Wait returns.
type Result[T any] struct {
	name     string
	value    T
	fallback T
	err      error
}

// Name returns the task name.
func (r *Result[T]) Name() string { return r.name }

// Value returns the task's value, or its fallback if the task failed.
func (r *Result[T]) Value() T {
	if r.err != nil {
		return r.fallback
	}
	return r.value
}

// Err returns the task's error, or nil on success.
func (r *Result[T]) Err() error { return r.err }

// OK reports whether the task succeeded.
func (r *Result[T]) OK() bool { return r.err == nil }

// Go starts fn as a named task. If fn returns an error, exceeds its
// deadline, or panics, the handle reports fallback as its value.
func Go[T any](g *Group, name string, fallback T, fn func(context.Context) (T, error)) *Result[T] {
	r := &Result[T]{name: name, fallback: fallback}

	g.mu.Lock()
	if g.waited {
		g.mu.Unlock()
		panic("gather: Go called after Wait")
	}
	idx := len(g.names)
	g.names = append(g.names, name)
	g.errs = append(g.errs, nil)
	g.mu.Unlock()

	g.eg.Go(func() error {
		ctx := g.ctx
		if g.taskTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.taskTimeout)
			defer cancel()
		}

		v, err := call(ctx, fn)
		r.value, r.err = v, err
		if err != nil {
			g.mu.Lock()
			g.errs[idx] = err
			g.mu.Unlock()
		}
		// Failures are recorded on the handle, never returned, so the
		// errgroup does not short-circuit anything.
		return nil
	})
	return r
}

func call[T any](ctx context.Context, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			v, err = zero, fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every task has settled, then logs each failure in
// issuance order.
func (g *Group) Wait() {
	_ = g.eg.Wait()

	g.mu.Lock()
	g.waited = true
	names := append([]string(nil), g.names...)
	errs := append([]error(nil), g.errs...)
	g.mu.Unlock()

	for i, name := range names {
		if err := errs[i]; err != nil {
			g.log.Warn("task failed, using fallback",
				zap.String("task", name),
				zap.Error(err),
				zap.Duration("elapsed", time.Since(g.started)))
		}
	}
}

// Failed returns the names of failed tasks in issuance order.
func (g *Group) Failed() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []string
	for i, name := range g.names {
		if g.errs[i] != nil {
			out = append(out, name)
		}
	}
	return out
}

// Err joins every task error in issuance order, or returns nil when all
// tasks succeeded.
func (g *Group) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs []error
	for i, name := range g.names {
		if err := g.errs[i]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
