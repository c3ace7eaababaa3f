// Package workerpool runs tasks over a bounded set of reusable, exclusively owned
// contexts (browser tabs in production) with a per-attempt timeout and retries.
//
// Admission is FIFO: a task waits behind every task submitted before it, and at most
// MaxConcurrency tasks hold a context at any instant. Contexts are created lazily,
// reused after successful attempts and replaced after failed ones.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"shipment-tracker/internal/core/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned for tasks submitted after Shutdown.
var ErrPoolClosed = errors.New("worker pool is closed")

// Factory creates and destroys pooled contexts.
type Factory[C any] interface {
	// Create builds a fresh context. ctx bounds the creation only.
	Create(ctx context.Context) (C, error)
	// Destroy releases a context that will not be reused.
	Destroy(c C) error
}

// Config sizes the pool.
type Config struct {
	// MaxConcurrency is the number of tasks that may run at once.
	MaxConcurrency int
	// Timeout bounds each attempt, including context creation.
	Timeout time.Duration
	// Retries is the number of extra attempts after the first failure.
	Retries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// TaskError reports a task that failed on every attempt.
// Its message is the message of the last failure.
type TaskError struct {
	Label    string
	Attempts int
	Err      error
}

func (e *TaskError) Error() string {
	return e.Err.Error()
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Stats is a point-in-time snapshot of the pool.
type Stats struct {
	MaxConcurrency int    `json:"max_concurrency"`
	Active         int64  `json:"active"`
	Queued         int64  `json:"queued"`
	Idle           int    `json:"idle"`
	Live           int    `json:"live"`
	Peak           int64  `json:"peak"`
	Completed      uint64 `json:"completed"`
	Failed         uint64 `json:"failed"`
}

// Pool is a process-wide bounded executor. Construct it with New and release it with Shutdown.
type Pool[C any] struct {
	cfg     Config
	factory Factory[C]
	sem     *semaphore.Weighted
	logger  *zap.Logger

	mu     sync.Mutex
	idle   []C
	live   int
	closed bool

	active    atomic.Int64
	queued    atomic.Int64
	peak      atomic.Int64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// New validates cfg and returns an empty pool.
func New[C any](cfg Config, factory Factory[C]) (*Pool[C], error) {
	switch {
	case cfg.MaxConcurrency < 1:
		return nil, fmt.Errorf("max concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	case cfg.Timeout <= 0:
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	case cfg.Retries < 0:
		return nil, fmt.Errorf("retries must not be negative, got %d", cfg.Retries)
	case factory == nil:
		return nil, errors.New("factory is required")
	}

	return &Pool[C]{
		cfg:     cfg,
		factory: factory,
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		logger:  logger.Named("pool"),
	}, nil
}

// Do runs fn with an exclusively owned context, retrying the whole task on failure.
// label identifies the task in logs and in the returned *TaskError.
func (p *Pool[C]) Do(ctx context.Context, label string, fn func(ctx context.Context, c C) error) error {
	var err error
	attempts := 0

	for attempts <= p.cfg.Retries {
		if attempts > 0 && p.cfg.RetryDelay > 0 {
			select {
			case <-time.After(p.cfg.RetryDelay):
			case <-ctx.Done():
				err = ctx.Err()
			}
			if ctx.Err() != nil {
				break
			}
		}

		attempts++
		err = p.attempt(ctx, fn)
		if err == nil {
			p.completed.Add(1)
			return nil
		}
		if errors.Is(err, ErrPoolClosed) || ctx.Err() != nil {
			break
		}

		p.logger.Warn("Task attempt failed",
			zap.String("task", label),
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", p.cfg.Retries+1),
			zap.Error(err),
		)
	}

	p.failed.Add(1)
	p.logger.Error("Task failed",
		zap.String("task", label),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	return &TaskError{Label: label, Attempts: attempts, Err: err}
}

// attempt waits for a slot, checks out a context and runs fn once.
func (p *Pool[C]) attempt(ctx context.Context, fn func(ctx context.Context, c C) error) error {
	if p.isClosed() {
		return ErrPoolClosed
	}

	p.queued.Add(1)
	err := p.sem.Acquire(ctx, 1)
	p.queued.Add(-1)
	if err != nil {
		return fmt.Errorf("waiting for a free worker: %w", err)
	}
	defer p.sem.Release(1)

	taskCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	c, err := p.checkout(taskCtx)
	if err != nil {
		return err
	}

	p.markActive()
	err = p.run(taskCtx, c, fn)
	p.active.Add(-1)

	// A result delivered after the deadline is a timeout even when fn reports success.
	if ctx.Err() == nil && errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
		if err != nil {
			err = fmt.Errorf("timeout after %s: %w", p.cfg.Timeout, err)
		} else {
			err = fmt.Errorf("timeout after %s", p.cfg.Timeout)
		}
	}

	p.checkin(c, err == nil)
	return err
}

// run calls fn, turning a panic into an error so one task cannot take the pool down.
func (p *Pool[C]) run(ctx context.Context, c C, fn func(ctx context.Context, c C) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(ctx, c)
}

func (p *Pool[C]) checkout(ctx context.Context) (C, error) {
	var zero C

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return c, nil
	}
	p.live++
	p.mu.Unlock()

	c, err := p.factory.Create(ctx)
	if err != nil {
		p.mu.Lock()
		p.live--
		p.mu.Unlock()
		return zero, fmt.Errorf("failed to create browsing context: %w", err)
	}

	p.logger.Debug("Created pooled context")
	return c, nil
}

// checkin keeps a healthy context for reuse and destroys anything else.
func (p *Pool[C]) checkin(c C, healthy bool) {
	p.mu.Lock()
	if healthy && !p.closed {
		p.idle = append(p.idle, c)
		p.mu.Unlock()
		return
	}
	p.live--
	p.mu.Unlock()

	p.destroy(c)
}

func (p *Pool[C]) destroy(c C) {
	if err := p.factory.Destroy(c); err != nil {
		p.logger.Debug("Failed to destroy pooled context", zap.Error(err))
	}
}

func (p *Pool[C]) markActive() {
	n := p.active.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (p *Pool[C]) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Stats returns current pool statistics.
func (p *Pool[C]) Stats() Stats {
	p.mu.Lock()
	idle, live := len(p.idle), p.live
	p.mu.Unlock()

	return Stats{
		MaxConcurrency: p.cfg.MaxConcurrency,
		Active:         p.active.Load(),
		Queued:         p.queued.Load(),
		Idle:           idle,
		Live:           live,
		Peak:           p.peak.Load(),
		Completed:      p.completed.Load(),
		Failed:         p.failed.Load(),
	}
}

// Shutdown stops admitting tasks, waits for running ones until ctx is done and
// destroys every pooled context. Contexts still in use when ctx expires are
// destroyed as soon as their task returns.
func (p *Pool[C]) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	weight := int64(p.cfg.MaxConcurrency)
	err := p.sem.Acquire(ctx, weight)
	if err == nil {
		defer p.sem.Release(weight)
	}

	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.live -= len(idle)
	p.mu.Unlock()

	for _, c := range idle {
		p.destroy(c)
	}

	p.logger.Info("Worker pool stopped",
		zap.Int("destroyed", len(idle)),
		zap.Uint64("completed", p.completed.Load()),
		zap.Uint64("failed", p.failed.Load()),
	)

	if err != nil {
		return fmt.Errorf("worker pool shutdown interrupted: %w", err)
	}
	return nil
}
