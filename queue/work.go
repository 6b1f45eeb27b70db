package queue

import (
	"context"
	"sync"
)

// WorkQueue is a long-lived scheduler for a stream of items. Each Add
// returns a Ticket that settles when its item finishes. Pause stops new
// items from starting; Clear discards everything still waiting.
type WorkQueue[T, R any] struct {
	proc        Processor[T, R]
	concurrency int

	mu      sync.Mutex
	pending []workItem[T, R]
	running int
	paused  bool
}

type workItem[T, R any] struct {
	item   T
	ticket *Ticket[R]
}

// Ticket is the pending settlement of one queued item.
type Ticket[R any] struct {
	done  chan struct{}
	value R
	err   error
}

// Wait blocks until the ticket settles or ctx is cancelled. A cancelled
// wait does not remove the item from the queue.
func (t *Ticket[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero R
		return zero, context.Cause(ctx)
	}
}

// Done returns a channel closed when the ticket settles.
func (t *Ticket[R]) Done() <-chan struct{} {
	return t.done
}

// NewWorkQueue creates a long-lived scheduler. concurrency defaults to 1
// when not positive.
func NewWorkQueue[T, R any](proc Processor[T, R], concurrency int) *WorkQueue[T, R] {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &WorkQueue[T, R]{
		proc:        proc,
		concurrency: concurrency,
	}
}

// Add enqueues one item and returns its ticket.
func (q *WorkQueue[T, R]) Add(item T) *Ticket[R] {
	t := &Ticket[R]{done: make(chan struct{})}
	q.mu.Lock()
	q.pending = append(q.pending, workItem[T, R]{item: item, ticket: t})
	q.dispatchLocked()
	q.mu.Unlock()
	return t
}

// AddBatch enqueues items in order and returns their tickets.
func (q *WorkQueue[T, R]) AddBatch(items ...T) []*Ticket[R] {
	tickets := make([]*Ticket[R], len(items))
	q.mu.Lock()
	for i, item := range items {
		t := &Ticket[R]{done: make(chan struct{})}
		tickets[i] = t
		q.pending = append(q.pending, workItem[T, R]{item: item, ticket: t})
	}
	q.dispatchLocked()
	q.mu.Unlock()
	return tickets
}

// Pause stops dequeuing. In-flight work is unaffected.
func (q *WorkQueue[T, R]) Pause() {
	q.mu.Lock()
	q.paused = true
	q.mu.Unlock()
}

// Resume restarts dequeuing.
func (q *WorkQueue[T, R]) Resume() {
	q.mu.Lock()
	q.paused = false
	q.dispatchLocked()
	q.mu.Unlock()
}

// Clear discards every item that has not started and settles its ticket
// with a queue-cleared fault. Running work settles normally.
func (q *WorkQueue[T, R]) Clear() {
	q.mu.Lock()
	dropped := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, w := range dropped {
		w.ticket.err = clearedFault()
		close(w.ticket.done)
	}
}

// Size reports the number of items waiting to start. Running items are
// excluded.
func (q *WorkQueue[T, R]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *WorkQueue[T, R]) dispatchLocked() {
	for !q.paused && q.running < q.concurrency && len(q.pending) > 0 {
		w := q.pending[0]
		q.pending = q.pending[1:]
		q.running++
		go q.run(w)
	}
}

func (q *WorkQueue[T, R]) run(w workItem[T, R]) {
	v, err := q.proc(context.Background(), w.item)
	w.ticket.value = v
	w.ticket.err = err
	close(w.ticket.done)

	q.mu.Lock()
	q.running--
	q.dispatchLocked()
	q.mu.Unlock()
}
