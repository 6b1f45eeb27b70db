package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPriorityQueue_DescendingPriority(t *testing.T) {
	var mu sync.Mutex
	var order []int

	q := NewPriorityQueue(
		func(ctx context.Context, n int) error {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			return nil
		},
		func(n int) float64 { return float64(n) },
		1,
	)

	q.AddAll(3, 1, 4, 2)
	if err := q.WaitForAll(context.Background()); err != nil {
		t.Fatalf("WaitForAll() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []int{4, 3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("processed %d items, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestPriorityQueue_InsertionOrderTiebreak(t *testing.T) {
	var mu sync.Mutex
	var order []string

	q := NewPriorityQueue(
		func(ctx context.Context, s string) error {
			mu.Lock()
			order = append(order, s)
			mu.Unlock()
			return nil
		},
		func(string) float64 { return 1 },
		1,
	)

	q.AddAll("first", "second", "third")
	if err := q.WaitForAll(context.Background()); err != nil {
		t.Fatalf("WaitForAll() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"first", "second", "third"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestPriorityQueue_EagerDispatch(t *testing.T) {
	started := make(chan int, 3)
	release := make(chan struct{})

	q := NewPriorityQueue(
		func(ctx context.Context, n int) error {
			started <- n
			<-release
			return nil
		},
		func(n int) float64 { return float64(n) },
		1,
	)

	// The low-priority item starts immediately because a slot is free.
	q.Add(1)
	first := <-started

	// A higher-priority item added afterwards cannot displace it.
	q.Add(10)
	if first != 1 {
		t.Errorf("first started = %d, want 1 (eager dispatch)", first)
	}

	close(release)
	if err := q.WaitForAll(context.Background()); err != nil {
		t.Fatalf("WaitForAll() error = %v", err)
	}
}

func TestPriorityQueue_WaitForAllEmpty(t *testing.T) {
	q := NewPriorityQueue(
		func(ctx context.Context, n int) error { return nil },
		func(n int) float64 { return 0 },
		2,
	)

	if err := q.WaitForAll(context.Background()); err != nil {
		t.Errorf("WaitForAll() on empty queue = %v, want nil", err)
	}
}

func TestPriorityQueue_CollectsFailures(t *testing.T) {
	bad := errors.New("item rejected")
	q := NewPriorityQueue(
		func(ctx context.Context, n int) error {
			if n%2 == 0 {
				return bad
			}
			return nil
		},
		func(n int) float64 { return float64(n) },
		2,
	)

	q.AddAll(1, 2, 3, 4)
	err := q.WaitForAll(context.Background())
	if !errors.Is(err, bad) {
		t.Errorf("WaitForAll() = %v, want failures joined", err)
	}
}

func TestPriorityQueue_WaitForAllCancelled(t *testing.T) {
	release := make(chan struct{})
	q := NewPriorityQueue(
		func(ctx context.Context, n int) error {
			<-release
			return nil
		},
		func(n int) float64 { return 0 },
		1,
	)
	q.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.WaitForAll(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForAll() = %v, want deadline exceeded", err)
	}

	// The queue keeps draining after the abandoned wait.
	close(release)
	if err := q.WaitForAll(context.Background()); err != nil {
		t.Errorf("second WaitForAll() = %v, want nil", err)
	}
}

func TestPriorityQueue_BoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	q := NewPriorityQueue(
		func(ctx context.Context, n int) error {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		},
		func(n int) float64 { return float64(n) },
		2,
	)

	q.AddAll(1, 2, 3, 4, 5, 6)
	if err := q.WaitForAll(context.Background()); err != nil {
		t.Fatalf("WaitForAll() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak in-flight = %d, want <= 2", peak)
	}
}

func TestPriorityQueue_Pending(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	q := NewPriorityQueue(
		func(ctx context.Context, n int) error {
			if n == 1 {
				close(started)
			}
			<-release
			return nil
		},
		func(n int) float64 { return -float64(n) },
		1,
	)

	q.Add(1)
	<-started
	q.AddAll(2, 3)

	if got := q.Pending(); got != 2 {
		t.Errorf("Pending() = %d, want 2 (running item excluded)", got)
	}

	close(release)
	if err := q.WaitForAll(context.Background()); err != nil {
		t.Fatalf("WaitForAll() error = %v", err)
	}
	if got := q.Pending(); got != 0 {
		t.Errorf("Pending() after drain = %d, want 0", got)
	}
}
