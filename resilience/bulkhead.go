package resilience

import (
	"context"
	"sync"
	"time"
)

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// MaxInFlight is the maximum number of operations running at once.
	// Default: 10
	MaxInFlight int

	// MaxWait is how long Acquire may wait for a slot before rejecting.
	// Default: 0 (reject immediately)
	MaxWait time.Duration
}

// Bulkhead bounds the number of in-flight operations so one misbehaving
// dependency cannot exhaust the process. Like the other guards it is
// long-lived and shared by reference.
type Bulkhead struct {
	config BulkheadConfig
	slots  chan struct{}

	mu       sync.Mutex
	inFlight int
	peak     int
	rejected int64
}

// NewBulkhead creates a bulkhead, applying defaults for zero fields.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxInFlight <= 0 {
		config.MaxInFlight = 10
	}
	return &Bulkhead{
		config: config,
		slots:  make(chan struct{}, config.MaxInFlight),
	}
}

// Acquire claims a slot, waiting up to MaxWait when none is free. It
// fails with a bulkhead fault when capacity stays exhausted and an abort
// fault when ctx fires first.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		b.noteAcquired()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.noteRejected()
		return bulkheadFault()
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		b.noteAcquired()
		return nil
	case <-timer.C:
		b.noteRejected()
		return bulkheadFault()
	case <-ctx.Done():
		return abortFault(context.Cause(ctx))
	}
}

// Release returns a slot claimed by Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.slots:
		b.mu.Lock()
		b.inFlight--
		b.mu.Unlock()
	default:
		// Release without a matching Acquire.
	}
}

// Execute runs op inside a bulkhead slot.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

func (b *Bulkhead) noteAcquired() {
	b.mu.Lock()
	b.inFlight++
	if b.inFlight > b.peak {
		b.peak = b.inFlight
	}
	b.mu.Unlock()
}

func (b *Bulkhead) noteRejected() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}

// BulkheadMetrics is a snapshot of bulkhead counters.
type BulkheadMetrics struct {
	InFlight    int
	Peak        int
	Available   int
	MaxInFlight int
	Rejected    int64
}

// Metrics returns a snapshot of the bulkhead's counters.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		InFlight:    b.inFlight,
		Peak:        b.peak,
		Available:   b.config.MaxInFlight - b.inFlight,
		MaxInFlight: b.config.MaxInFlight,
		Rejected:    b.rejected,
	}
}
