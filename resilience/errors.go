package resilience

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/sturdy/fault"
)

// Sentinel errors for resilience operations. Guard rejections are
// surfaced as fault values wrapping these sentinels, so callers can match
// with errors.Is and still read the fault metadata.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRetriesExceeded is returned when retry attempts are exhausted.
	ErrRetriesExceeded = errors.New("resilience: retries exceeded")

	// ErrRateLimited is returned when the token bucket is drained.
	ErrRateLimited = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrAborted is returned when a cancellation signal fires before or
	// during a guarded operation.
	ErrAborted = errors.New("resilience: operation aborted")
)

// Error codes carried by the fault values this package produces.
const (
	CodeCircuitOpen     = "CIRCUIT_OPEN"
	CodeRetriesExceeded = "RETRIES_EXCEEDED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeBulkheadFull    = "BULKHEAD_FULL"
	CodeTimeout         = "TIMEOUT"
	CodeAborted         = "ABORTED"
)

// A circuit-open rejection is not retryable by the immediate caller: it
// signals "wait out the cooldown", not "try again now".
func circuitOpenFault() error {
	return fault.Integration("circuit breaker is open",
		fault.WithCode(CodeCircuitOpen),
		fault.WithRetryable(false),
		fault.WithStatus(503),
		fault.WithCause(ErrCircuitOpen),
	)
}

func retriesFault(attempts int, last error) error {
	return fault.Integration(fmt.Sprintf("operation failed after %d attempts", attempts),
		fault.WithCode(CodeRetriesExceeded),
		fault.WithRetryable(false),
		fault.WithContext("attempts", attempts),
		fault.WithCause(fmt.Errorf("%w: %w", ErrRetriesExceeded, last)),
	)
}

func rateLimitedFault() error {
	return fault.Resource("rate limit exceeded",
		fault.WithCode(CodeRateLimited),
		fault.WithRetryable(false),
		fault.WithStatus(429),
		fault.WithCause(ErrRateLimited),
	)
}

func bulkheadFault() error {
	return fault.Resource("bulkhead at capacity",
		fault.WithCode(CodeBulkheadFull),
		fault.WithRetryable(false),
		fault.WithStatus(429),
		fault.WithCause(ErrBulkheadFull),
	)
}

func timeoutFault(limit time.Duration) error {
	return fault.Timeout(fmt.Sprintf("operation timed out after %v", limit),
		fault.WithCode(CodeTimeout),
		fault.WithCause(ErrTimeout),
	)
}

func abortFault(cause error) error {
	opts := []fault.Option{
		fault.WithCode(CodeAborted),
		fault.WithRetryable(false),
		fault.WithCause(ErrAborted),
	}
	if cause != nil {
		opts = append(opts, fault.WithContext("reason", cause.Error()))
	}
	return fault.New("operation aborted", opts...)
}

// IsAborted reports whether err is a cancellation rejection produced by
// this package.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
