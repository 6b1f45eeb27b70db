package queue

import (
	"container/heap"
	"context"
	"errors"
	"sync"
)

// PriorityQueue drains a growing set of items in descending priority
// order, ties broken by insertion order. Dispatch is eager: an item may
// start as soon as a worker slot is free, even while higher-priority
// items are still being added. The ordering guarantee is therefore
// "highest priority among items enqueued so far starts next", not a
// total order over the whole batch.
type PriorityQueue[T any] struct {
	proc        func(ctx context.Context, item T) error
	priority    func(T) float64
	concurrency int

	mu      sync.Mutex
	heap    pqHeap[T]
	seq     uint64
	running int
	errs    []error
	waiters []chan struct{}
}

// NewPriorityQueue creates a priority scheduler. priority scores items;
// higher scores start first. concurrency defaults to 1 when not
// positive.
func NewPriorityQueue[T any](proc func(ctx context.Context, item T) error, priority func(T) float64, concurrency int) *PriorityQueue[T] {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &PriorityQueue[T]{
		proc:        proc,
		priority:    priority,
		concurrency: concurrency,
	}
}

// Add enqueues one item. Dispatch may begin before Add returns.
func (q *PriorityQueue[T]) Add(item T) {
	q.mu.Lock()
	q.pushLocked(item)
	q.dispatchLocked()
	q.mu.Unlock()
}

// AddAll enqueues items as one group before any of them can dispatch.
func (q *PriorityQueue[T]) AddAll(items ...T) {
	q.mu.Lock()
	for _, item := range items {
		q.pushLocked(item)
	}
	q.dispatchLocked()
	q.mu.Unlock()
}

// Pending reports the number of items waiting to start.
func (q *PriorityQueue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// WaitForAll blocks until the queue has fully drained, then returns the
// joined processor failures, if any. A cancelled ctx unblocks the wait
// without affecting queued or running work.
func (q *PriorityQueue[T]) WaitForAll(ctx context.Context) error {
	q.mu.Lock()
	if q.running == 0 && q.heap.Len() == 0 {
		err := errors.Join(q.errs...)
		q.mu.Unlock()
		return err
	}
	drained := make(chan struct{})
	q.waiters = append(q.waiters, drained)
	q.mu.Unlock()

	select {
	case <-drained:
		q.mu.Lock()
		err := errors.Join(q.errs...)
		q.mu.Unlock()
		return err
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

func (q *PriorityQueue[T]) pushLocked(item T) {
	heap.Push(&q.heap, pqEntry[T]{item: item, pri: q.priority(item), seq: q.seq})
	q.seq++
}

func (q *PriorityQueue[T]) dispatchLocked() {
	for q.running < q.concurrency && q.heap.Len() > 0 {
		e := heap.Pop(&q.heap).(pqEntry[T])
		q.running++
		go q.run(e.item)
	}
}

func (q *PriorityQueue[T]) run(item T) {
	err := q.proc(context.Background(), item)

	q.mu.Lock()
	q.running--
	if err != nil {
		q.errs = append(q.errs, err)
	}
	q.dispatchLocked()
	if q.running == 0 && q.heap.Len() == 0 {
		for _, w := range q.waiters {
			close(w)
		}
		q.waiters = nil
	}
	q.mu.Unlock()
}

// pqEntry orders by priority descending, then by insertion sequence.
type pqEntry[T any] struct {
	item T
	pri  float64
	seq  uint64
}

type pqHeap[T any] []pqEntry[T]

func (h pqHeap[T]) Len() int { return len(h) }

func (h pqHeap[T]) Less(i, j int) bool {
	if h[i].pri != h[j].pri {
		return h[i].pri > h[j].pri
	}
	return h[i].seq < h[j].seq
}

func (h pqHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pqHeap[T]) Push(x any) { *h = append(*h, x.(pqEntry[T])) }

func (h *pqHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
