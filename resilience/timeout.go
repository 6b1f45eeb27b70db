package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout guard.
type TimeoutConfig struct {
	// Limit is the maximum duration for one operation.
	// Default: 30 seconds
	Limit time.Duration
}

// Timeout bounds the duration of an operation by racing it against a
// deadline-derived context.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout guard, applying the default limit when
// zero.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Limit <= 0 {
		config.Limit = 30 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs op and fails with a timeout fault when the limit elapses
// first. The operation observes the deadline through its context; the
// losing timer is always released.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeoutCause(ctx, t.config.Limit, ErrTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cause := context.Cause(ctx)
		if errors.Is(cause, ErrTimeout) {
			return timeoutFault(t.config.Limit)
		}
		return abortFault(cause)
	}
}

// Config returns the effective configuration after defaults.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout runs op with a one-off timeout guard.
func ExecuteWithTimeout(ctx context.Context, limit time.Duration, op func(context.Context) error) error {
	return NewTimeout(TimeoutConfig{Limit: limit}).Execute(ctx, op)
}
