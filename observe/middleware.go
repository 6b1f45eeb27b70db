package observe

import (
	"context"
	"time"
)

// Operation is the function signature Middleware wraps.
type Operation func(ctx context.Context) error

// Middleware wraps operations with logging and metrics.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe Operation.
//   - Errors: errors from the wrapped function are recorded and
//     propagated unchanged.
type Middleware struct {
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware from the given components.
func NewMiddleware(metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap instruments op under the given name: duration and outcome are
// recorded around every invocation.
func (m *Middleware) Wrap(name string, op Operation) Operation {
	log := m.logger.WithComponent(name)
	return func(ctx context.Context) error {
		start := time.Now()
		err := op(ctx)
		duration := time.Since(start)

		m.metrics.RecordSettlement(ctx, name, duration, err)

		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			log.Error(ctx, "operation failed", fields...)
		} else {
			log.Info(ctx, "operation completed", fields...)
		}

		return err
	}
}
