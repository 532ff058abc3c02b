// Package pool wraps panjf2000/ants with task accounting. Pools are sized
// per run and released when the pipeline finishes.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
	"github.com/panjf2000/ants/v2"
)

// Type identifies what a pool is used for.
type Type string

const (
	// PreprocessPool fans review preprocessing out across workers.
	PreprocessPool Type = "preprocess"
	// BackgroundPool runs side tasks (report writing, storage flushes).
	BackgroundPool Type = "background"
)

// Config defines the configuration for a worker pool.
type Config struct {
	// Capacity is the maximum number of concurrent goroutines.
	Capacity int
	// ExpiryDuration is how long an idle worker is kept alive.
	ExpiryDuration time.Duration
	// PreAlloc preallocates worker memory up front.
	PreAlloc bool
	// Nonblocking makes Submit return ErrPoolOverload instead of waiting
	// when the pool is saturated.
	Nonblocking bool
	// MaxBlockingTasks caps queued submitters when Nonblocking is false.
	// 0 means unlimited.
	MaxBlockingTasks int
	// PanicHandler receives recovered panics from worker goroutines.
	PanicHandler func(interface{})
}

// PreprocessConfig returns the configuration used for the preprocessing
// fan-out. Submissions block so a slow pool applies backpressure to the
// orchestrator instead of dropping reviews.
func PreprocessConfig(workers int) *Config {
	if workers <= 0 {
		workers = 1
	}
	return &Config{
		Capacity:       workers,
		ExpiryDuration: 10 * time.Second,
	}
}

// BackgroundConfig returns the configuration for background side tasks.
func BackgroundConfig() *Config {
	return &Config{
		Capacity:         8,
		ExpiryDuration:   60 * time.Second,
		Nonblocking:      true,
		MaxBlockingTasks: 32,
	}
}

// Pool is a named worker pool with task accounting.
type Pool struct {
	name     string
	typ      Type
	pool     *ants.Pool
	config   *Config
	stats    *statsCounter
	closed   atomic.Bool
	closedMu sync.Mutex
}

type statsCounter struct {
	Submitted       atomic.Int64
	Completed       atomic.Int64
	Failed          atomic.Int64
	Rejected        atomic.Int64
	PanicRecovered  atomic.Int64
	TotalWaitTimeNs atomic.Int64
}

// Stats is an atomic snapshot of pool counters.
type Stats struct {
	Submitted       int64
	Completed       int64
	Failed          int64
	Rejected        int64
	PanicRecovered  int64
	TotalWaitTimeNs int64
}

// New creates a worker pool with the given configuration.
func New(name string, typ Type, config *Config) (*Pool, error) {
	if config == nil {
		config = PreprocessConfig(0)
	}

	p := &Pool{
		name:   name,
		typ:    typ,
		config: config,
		stats:  &statsCounter{},
	}

	inner, err := ants.NewPool(config.Capacity, buildAntsOptions(name, config)...)
	if err != nil {
		return nil, fmt.Errorf("create worker pool %q: %w", name, err)
	}
	p.pool = inner

	logger.Infow("Worker pool created",
		"name", name,
		"type", string(typ),
		"capacity", config.Capacity,
	)

	return p, nil
}

func buildAntsOptions(name string, config *Config) []ants.Option {
	opts := []ants.Option{
		ants.WithExpiryDuration(config.ExpiryDuration),
		ants.WithPreAlloc(config.PreAlloc),
		ants.WithNonblocking(config.Nonblocking),
		ants.WithMaxBlockingTasks(config.MaxBlockingTasks),
	}

	if config.PanicHandler != nil {
		opts = append(opts, ants.WithPanicHandler(config.PanicHandler))
	} else {
		opts = append(opts, ants.WithPanicHandler(func(p interface{}) {
			logger.Errorw("Worker panic recovered",
				"pool", name,
				"panic", p,
			)
		}))
	}

	return opts
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// Type returns the pool type.
func (p *Pool) Type() Type {
	return p.typ
}

// Cap returns the pool capacity.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Running returns the number of busy workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Free returns the number of available workers.
func (p *Pool) Free() int {
	return p.pool.Free()
}

// Waiting returns the number of queued tasks.
func (p *Pool) Waiting() int {
	return p.pool.Waiting()
}

// Submit schedules a task on the pool.
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	startTime := time.Now()
	err := p.pool.Submit(func() {
		p.stats.TotalWaitTimeNs.Add(int64(time.Since(startTime)))
		p.stats.Submitted.Add(1)

		defer func() {
			if r := recover(); r != nil {
				p.stats.PanicRecovered.Add(1)
				p.stats.Failed.Add(1)
				// Re-panic so the ants panic handler sees it.
				panic(r)
			}
			p.stats.Completed.Add(1)
		}()

		task()
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			p.stats.Rejected.Add(1)
			return ErrPoolOverload
		}
		p.stats.Failed.Add(1)
		return err
	}

	return nil
}

// SubmitWithContext schedules a task that is skipped if ctx is cancelled
// before it starts running.
func (p *Pool) SubmitWithContext(ctx context.Context, task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return p.Submit(func() {
		select {
		case <-ctx.Done():
			return
		default:
			task()
		}
	})
}

// Release closes the pool and frees its workers.
func (p *Pool) Release() {
	p.closedMu.Lock()
	defer p.closedMu.Unlock()

	if p.closed.Load() {
		return
	}

	p.closed.Store(true)
	p.pool.Release()
	logger.Infow("Worker pool released", "name", p.name)
}

// ReleaseTimeout closes the pool, waiting for running tasks up to timeout.
func (p *Pool) ReleaseTimeout(timeout time.Duration) error {
	p.closedMu.Lock()
	defer p.closedMu.Unlock()

	if p.closed.Load() {
		return nil
	}

	p.closed.Store(true)
	return p.pool.ReleaseTimeout(timeout)
}

// Tune adjusts the pool capacity at runtime.
func (p *Pool) Tune(size int) {
	p.pool.Tune(size)
	p.config.Capacity = size
	logger.Infow("Worker pool tuned", "name", p.name, "new_capacity", size)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted:       p.stats.Submitted.Load(),
		Completed:       p.stats.Completed.Load(),
		Failed:          p.stats.Failed.Load(),
		Rejected:        p.stats.Rejected.Load(),
		PanicRecovered:  p.stats.PanicRecovered.Load(),
		TotalWaitTimeNs: p.stats.TotalWaitTimeNs.Load(),
	}
}
