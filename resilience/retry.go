package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/sturdy/fault"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts including the first.
	// 1 disables retrying entirely.
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier grows the delay each attempt.
	// Default: 2.0
	Multiplier float64

	// Jitter scales each delay by a uniform random factor in [0.5, 1.5]
	// to avoid synchronized retry storms.
	// Default: false
	Jitter bool

	// Timeout bounds the whole retry loop, independent of per-attempt
	// timing. Zero means unbounded.
	Timeout time.Duration

	// RetryIf decides whether an error at the given attempt should
	// trigger another attempt.
	// Default: fault.IsRetryable, which retries unless the error
	// explicitly says not to.
	RetryIf func(err error, attempt int) bool

	// OnRetry is called before each retry wait with the failed attempt
	// number, its error, and the delay about to be taken. Internal state
	// is already settled when it fires.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry repeats a fallible operation with backoff. A Retry holds no state
// across invocations and may be shared freely.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry guard, applying defaults for zero fields.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error, attempt int) bool {
			return fault.IsRetryable(err)
		}
	}

	return &Retry{config: config}
}

// Execute runs op until it succeeds, the attempt budget is exhausted, the
// error is ruled non-retryable, or ctx fires. Exhaustion and non-retryable
// verdicts are reported as a fault naming the attempt count with the last
// error as cause; cancellation is reported as an abort fault without
// invoking op again.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, r.config.Timeout, ErrTimeout)
		defer cancel()
	}

	if err := Check(ctx); err != nil {
		return err
	}

	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		attempts = attempt
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.config.MaxAttempts || !r.config.RetryIf(err, attempt) {
			break
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return abortFault(context.Cause(ctx))
		case <-time.After(delay):
		}
	}

	return retriesFault(attempts, lastErr)
}

// delay computes min(MaxDelay, InitialDelay * Multiplier^(attempt-1)),
// jittered when configured.
func (r *Retry) delay(attempt int) time.Duration {
	backoff := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	delay := time.Duration(backoff)
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}

	return delay
}

// Config returns the effective configuration after defaults.
func (r *Retry) Config() RetryConfig {
	return r.config
}
