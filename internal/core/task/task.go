// Package task runs advisory work that the critical path never waits on.
package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of a detached task. Ignoring it is allowed.
type Result struct {
	done chan struct{}
	err  error
}

// Go runs fn in its own goroutine. The task keeps the values of ctx but not
// its cancellation, and is bounded by timeout when timeout is positive.
// Failures and panics are logged under name.
func Go(ctx context.Context, logger *zap.Logger, name string, timeout time.Duration,
	fn func(ctx context.Context) error) *Result {
	r := &Result{done: make(chan struct{})}
	detached := context.WithoutCancel(ctx)

	go func() {
		defer close(r.done)
		defer func() {
			if p := recover(); p != nil {
				r.err = fmt.Errorf("panic in %s: %v", name, p)
				logger.Error("advisory task panicked", zap.String("task", name), zap.Any("panic", p))
			}
		}()

		runCtx := detached
		if timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(detached, timeout)
			defer cancel()
		}

		r.err = fn(runCtx)
		if r.err != nil {
			logger.Warn("advisory task failed", zap.String("task", name), zap.Error(r.err))
		}
	}()

	return r
}

// Done returns a result that has already finished with err.
func Done(err error) *Result {
	r := &Result{done: make(chan struct{}), err: err}
	close(r.done)
	return r
}

// Wait blocks until the task finishes or ctx ends.
func (r *Result) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Group tracks detached tasks so shutdown can wait for them.
type Group struct {
	wg sync.WaitGroup
}

func (g *Group) Go(ctx context.Context, logger *zap.Logger, name string, timeout time.Duration,
	fn func(ctx context.Context) error) *Result {
	g.wg.Add(1)
	return Go(ctx, logger, name, timeout, func(ctx context.Context) error {
		defer g.wg.Done()
		return fn(ctx)
	})
}

// Wait blocks until every task started so far finishes or ctx ends.
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
