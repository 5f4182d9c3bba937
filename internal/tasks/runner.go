package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrShuttingDown is returned by Go when the runner no longer accepts tasks.
var ErrShuttingDown = errors.New("tasks: runner shutting down")

// Logger defines the logging interface used by the Runner.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Runner executes callables as detached background units.
//
// Callers deliberately discard the result of submitted tasks; the runner
// still observes every outcome by logging failures and recovering panics,
// so detached work is never truly unobserved. The group event reactor uses
// this for queue resumes and power-off cascades that must not run inline
// on the notifying call path.
//
// All methods are safe for concurrent use.
type Runner struct {
	logger Logger

	ctx    context.Context
	cancel context.CancelFunc

	wg     sync.WaitGroup
	active atomic.Int64

	mu     sync.Mutex
	closed bool
}

// NewRunner creates a runner whose tasks inherit from the background context.
func NewRunner(logger Logger) *Runner {
	if logger == nil {
		logger = noopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go runs fn as a detached background task.
//
// The task receives a context that is cancelled when the runner shuts
// down. Errors and panics are logged, never propagated to the caller.
// Returns ErrShuttingDown if Shutdown has already begun; the task is not
// started in that case.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrShuttingDown
	}
	r.wg.Add(1)
	r.mu.Unlock()

	r.active.Add(1)

	go func() {
		defer r.wg.Done()
		defer r.active.Add(-1)
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("background task panic recovered",
					"task", name,
					"panic", rec,
				)
			}
		}()

		if err := fn(r.ctx); err != nil {
			r.logger.Warn("background task failed", "task", name, "error", err)
			return
		}
		r.logger.Debug("background task completed", "task", name)
	}()

	return nil
}

// Active returns the number of tasks currently running.
func (r *Runner) Active() int {
	return int(r.active.Load())
}

// Shutdown stops accepting new tasks, cancels the task context, and waits
// for running tasks to finish or for ctx to expire.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
