package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/sturdy/fault"
)

// TokenBucketConfig configures the token bucket limiter.
type TokenBucketConfig struct {
	// Capacity is the maximum number of tokens the bucket holds; it
	// bounds the largest permitted burst. Required, must be positive.
	Capacity float64

	// RefillRate is how many tokens accrue per second. Required, must be
	// positive.
	RefillRate float64

	// WaitOnLimit makes Consume block until enough tokens accrue instead
	// of rejecting immediately.
	// Default: false
	WaitOnLimit bool

	// MaxWait caps how long a blocking Consume may wait. Zero means no
	// cap.
	MaxWait time.Duration
}

// TokenBucket bounds throughput with a lazily refilled token bucket.
// Tokens are computed from elapsed time on each call; there is no
// background timer. A TokenBucket is long-lived and meant to be shared by
// reference in front of one logical dependency.
type TokenBucket struct {
	config TokenBucketConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewTokenBucket creates a token bucket starting at full capacity.
// Returns a validation fault when Capacity or RefillRate is not positive.
func NewTokenBucket(config TokenBucketConfig) (*TokenBucket, error) {
	if config.Capacity <= 0 {
		return nil, fault.Validation("token bucket capacity must be positive",
			fault.WithContext("capacity", config.Capacity))
	}
	if config.RefillRate <= 0 {
		return nil, fault.Validation("token bucket refill rate must be positive",
			fault.WithContext("refill_rate", config.RefillRate))
	}

	return &TokenBucket{
		config:     config,
		tokens:     config.Capacity,
		lastRefill: time.Now(),
	}, nil
}

// Allow reports whether one token could be taken.
func (tb *TokenBucket) Allow() bool {
	ok, _ := tb.AllowN(1)
	return ok
}

// AllowN takes n tokens without blocking. It returns false when the
// bucket holds fewer than n tokens, and a validation fault when n is not
// in (0, capacity].
func (tb *TokenBucket) AllowN(n float64) (bool, error) {
	if err := tb.validateN(n); err != nil {
		return false, err
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	if tb.tokens >= n {
		tb.tokens -= n
		return true, nil
	}
	return false, nil
}

// Wait blocks until one token is available or ctx fires.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.WaitN(ctx, 1)
}

// WaitN blocks until n tokens can be taken, computing the exact wait from
// the refill rate. It fails with an abort fault when ctx fires and a
// rate-limit fault when MaxWait is set and would be exceeded.
func (tb *TokenBucket) WaitN(ctx context.Context, n float64) error {
	if err := tb.validateN(n); err != nil {
		return err
	}
	if err := Check(ctx); err != nil {
		return err
	}

	start := time.Now()
	for {
		tb.mu.Lock()
		tb.refillLocked()
		if tb.tokens >= n {
			tb.tokens -= n
			tb.mu.Unlock()
			return nil
		}
		// Time until the deficit accrues.
		wait := time.Duration((n - tb.tokens) / tb.config.RefillRate * float64(time.Second))
		tb.mu.Unlock()

		if tb.config.MaxWait > 0 && time.Since(start)+wait > tb.config.MaxWait {
			return rateLimitedFault()
		}

		select {
		case <-ctx.Done():
			return abortFault(context.Cause(ctx))
		case <-time.After(wait):
			// Another caller may have drained the refill; recheck.
		}
	}
}

// Consume takes n tokens, blocking when WaitOnLimit is set and rejecting
// with a rate-limit fault otherwise.
func (tb *TokenBucket) Consume(ctx context.Context, n float64) error {
	if tb.config.WaitOnLimit {
		return tb.WaitN(ctx, n)
	}
	ok, err := tb.AllowN(n)
	if err != nil {
		return err
	}
	if !ok {
		return rateLimitedFault()
	}
	return nil
}

// Execute runs op once a token has been consumed.
func (tb *TokenBucket) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := tb.Consume(ctx, 1); err != nil {
		return err
	}
	return op(ctx)
}

// Tokens returns the current token balance after a lazy refill.
func (tb *TokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked()
	return tb.tokens
}

// Reset restores the bucket to full capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.tokens = tb.config.Capacity
	tb.lastRefill = time.Now()
}

func (tb *TokenBucket) validateN(n float64) error {
	if n <= 0 {
		return fault.Validation("token count must be positive",
			fault.WithContext("n", n))
	}
	if n > tb.config.Capacity {
		return fault.Validation("token count exceeds bucket capacity",
			fault.WithContext("n", n),
			fault.WithContext("capacity", tb.config.Capacity))
	}
	return nil
}

// refillLocked adds tokens for the elapsed time, clamped to capacity.
func (tb *TokenBucket) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.lastRefill = now

	tb.tokens += elapsed.Seconds() * tb.config.RefillRate
	if tb.tokens > tb.config.Capacity {
		tb.tokens = tb.config.Capacity
	}
}
