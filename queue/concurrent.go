package queue

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Processor transforms one item into a result.
type Processor[T, R any] func(ctx context.Context, item T) (R, error)

// Config configures a ConcurrentQueue.
type Config struct {
	// Concurrency caps simultaneously running processor invocations.
	// Default: 4.
	Concurrency int

	// PreserveOrder returns outcomes in input order instead of
	// completion order.
	PreserveOrder bool

	// StopOnError stops scheduling new items after the first failure.
	// Already-running items still finish and are recorded; never-started
	// items are absent from the outcomes.
	StopOnError bool

	// OnProgress, if set, is called after every settlement with the
	// number of settled items and the batch size.
	OnProgress func(completed, total int)
}

// DefaultConcurrency is used when Config.Concurrency is zero.
const DefaultConcurrency = 4

// ConcurrentQueue processes one batch of items with bounded parallelism.
// Each item settles independently; a failure never tears down the batch.
// A queue instance serves a single Process call.
type ConcurrentQueue[T any, K comparable, R any] struct {
	proc  Processor[T, R]
	keyOf func(T) K
	cfg   Config

	mu        sync.Mutex
	pending   int
	running   int
	completed int
	failed    bool
	settled   []Outcome[K, R]
}

// Status is a point-in-time snapshot of batch progress.
type Status struct {
	// Running counts processor invocations currently in flight.
	Running int

	// Pending counts items that have not started yet.
	Pending int

	// Completed counts items that have settled.
	Completed int
}

// NewConcurrentQueue creates a batch scheduler. keyOf derives each item's
// identity; keys must be unique within a batch.
func NewConcurrentQueue[T any, K comparable, R any](proc Processor[T, R], keyOf func(T) K, cfg Config) *ConcurrentQueue[T, K, R] {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &ConcurrentQueue[T, K, R]{
		proc:  proc,
		keyOf: keyOf,
		cfg:   cfg,
	}
}

// Process runs the batch and returns one outcome per settled item. With
// PreserveOrder set the outcomes follow input order, otherwise completion
// order. Cancelling ctx stops new items from starting; in-flight items
// finish and are recorded. Returns a validation fault if two items map
// to the same key.
func (q *ConcurrentQueue[T, K, R]) Process(ctx context.Context, items []T) ([]Outcome[K, R], error) {
	keys := make([]K, len(items))
	seen := make(map[K]struct{}, len(items))
	for i, item := range items {
		k := q.keyOf(item)
		if _, dup := seen[k]; dup {
			return nil, duplicateKeyFault(k)
		}
		seen[k] = struct{}{}
		keys[i] = k
	}

	total := len(items)
	q.mu.Lock()
	q.pending = total
	q.running = 0
	q.completed = 0
	q.failed = false
	q.settled = nil
	q.mu.Unlock()

	// Index-stamped slots keep input order without sorting afterwards.
	slots := make([]*Outcome[K, R], total)

	g := new(errgroup.Group)
	g.SetLimit(q.cfg.Concurrency)

	for i, item := range items {
		g.Go(func() error {
			if !q.claim(ctx) {
				return nil
			}
			start := time.Now()
			v, err := q.proc(ctx, item)
			out := Outcome[K, R]{
				Key:    keys[i],
				Result: Result[R]{Value: v, Err: err, Duration: time.Since(start)},
			}
			q.settle(out, slots, i, total)
			return nil
		})
	}
	_ = g.Wait()

	if q.cfg.PreserveOrder {
		outcomes := make([]Outcome[K, R], 0, total)
		for _, s := range slots {
			if s != nil {
				outcomes = append(outcomes, *s)
			}
		}
		return outcomes, nil
	}

	q.mu.Lock()
	outcomes := make([]Outcome[K, R], len(q.settled))
	copy(outcomes, q.settled)
	q.mu.Unlock()
	return outcomes, nil
}

// Status reports progress counts at this instant.
func (q *ConcurrentQueue[T, K, R]) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Status{
		Running:   q.running,
		Pending:   q.pending,
		Completed: q.completed,
	}
}

// claim moves an item from pending to running, or drops it when the
// batch has been cancelled or stopped on error.
func (q *ConcurrentQueue[T, K, R]) claim(ctx context.Context) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if ctx.Err() != nil || (q.cfg.StopOnError && q.failed) {
		return false
	}
	q.running++
	return true
}

func (q *ConcurrentQueue[T, K, R]) settle(out Outcome[K, R], slots []*Outcome[K, R], idx, total int) {
	q.mu.Lock()
	q.running--
	q.completed++
	if out.Result.Err != nil {
		q.failed = true
	}
	if q.cfg.PreserveOrder {
		slots[idx] = &out
	} else {
		q.settled = append(q.settled, out)
	}
	completed := q.completed
	q.mu.Unlock()

	// Counters are updated before the callback observes them.
	if q.cfg.OnProgress != nil {
		q.cfg.OnProgress(completed, total)
	}
}
