package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics records guard and queue activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRetry records one retry attempt against a named operation.
	RecordRetry(ctx context.Context, op string, attempt int, err error)

	// RecordTransition records a circuit breaker state change.
	RecordTransition(ctx context.Context, breaker, from, to string)

	// RecordSettlement records one queue item settling, with the time
	// the processor ran and its error status.
	RecordSettlement(ctx context.Context, queue string, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	retryCount      metric.Int64Counter
	transitionCount metric.Int64Counter
	settlementCount metric.Int64Counter
	durationHist    metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	retryCount, err := meter.Int64Counter(
		"guard.retry.attempts",
		metric.WithDescription("Total number of retry attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	transitionCount, err := meter.Int64Counter(
		"guard.circuit.transitions",
		metric.WithDescription("Total number of circuit breaker state changes"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	settlementCount, err := meter.Int64Counter(
		"queue.settlements",
		metric.WithDescription("Total number of settled queue items"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"queue.item.duration_ms",
		metric.WithDescription("Queue item processing duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		retryCount:      retryCount,
		transitionCount: transitionCount,
		settlementCount: settlementCount,
		durationHist:    durationHist,
	}, nil
}

func (m *metricsImpl) RecordRetry(ctx context.Context, op string, attempt int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", op),
		attribute.Bool("failed", err != nil),
	}
	m.retryCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metricsImpl) RecordTransition(ctx context.Context, breaker, from, to string) {
	attrs := []attribute.KeyValue{
		attribute.String("breaker", breaker),
		attribute.String("from", from),
		attribute.String("to", to),
	}
	m.transitionCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metricsImpl) RecordSettlement(ctx context.Context, queue string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("queue", queue),
		attribute.Bool("failed", err != nil),
	}
	opt := metric.WithAttributes(attrs...)

	m.settlementCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// NewNopMetrics returns a Metrics that records nothing.
func NewNopMetrics() Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}
