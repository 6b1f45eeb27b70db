package resilience

import (
	"context"
	"time"
)

// Executor chains guards around a single operation. Failures flow inward
// to outward: the rate limiter rejects before the bulkhead is consulted,
// the circuit breaker sees the retried outcome, and so on.
type Executor struct {
	rateLimit *TokenBucket
	bulkhead  *Bulkhead
	circuit   *CircuitBreaker
	retry     *Retry
	timeout   *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor from the given guards. Omitted guards
// are skipped in the chain.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimit places a token bucket at the outermost position.
func WithRateLimit(tb *TokenBucket) ExecutorOption {
	return func(e *Executor) { e.rateLimit = tb }
}

// WithBulkhead bounds in-flight executions.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithCircuitBreaker guards the retried operation with a breaker.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.circuit = cb }
}

// WithRetry retries the timed-out-or-failed operation.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithTimeout bounds each individual attempt.
func WithTimeout(limit time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = NewTimeout(TimeoutConfig{Limit: limit}) }
}

// WithTimeoutGuard installs a preconfigured timeout guard.
func WithTimeoutGuard(t *Timeout) ExecutorOption {
	return func(e *Executor) { e.timeout = t }
}

// Execute runs op through the configured guards, outermost first:
// rate limit, bulkhead, circuit breaker, retry, timeout.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op

	if e.timeout != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.circuit != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.circuit.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.rateLimit != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.rateLimit.Execute(ctx, inner)
		}
	}

	return run(ctx)
}
