package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/sturdy/resilience"
)

// RetryHook builds an OnRetry callback that logs each retry and counts
// it against op. The returned func matches resilience.RetryConfig.OnRetry.
func RetryHook(logger Logger, metrics Metrics, op string) func(attempt int, err error, delay time.Duration) {
	log := logger.WithComponent("retry")
	return func(attempt int, err error, delay time.Duration) {
		ctx := context.Background()
		metrics.RecordRetry(ctx, op, attempt, err)
		log.Warn(ctx, "attempt failed, retrying",
			Field{Key: "operation", Value: op},
			Field{Key: "attempt", Value: attempt},
			Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
			Field{Key: "error", Value: err.Error()},
		)
	}
}

// CircuitHook builds an OnStateChange callback that logs and counts
// breaker transitions. The returned func matches
// resilience.CircuitBreakerConfig.OnStateChange.
//
// The breaker invokes OnStateChange while holding its own lock; the hook
// must not call back into the breaker.
func CircuitHook(logger Logger, metrics Metrics, breaker string) func(from, to resilience.State) {
	log := logger.WithComponent("circuit")
	return func(from, to resilience.State) {
		ctx := context.Background()
		metrics.RecordTransition(ctx, breaker, from.String(), to.String())

		fields := []Field{
			{Key: "breaker", Value: breaker},
			{Key: "from", Value: from.String()},
			{Key: "to", Value: to.String()},
		}
		if to == resilience.StateOpen {
			log.Error(ctx, "circuit opened", fields...)
		} else {
			log.Info(ctx, "circuit state changed", fields...)
		}
	}
}

// ProgressHook builds an OnProgress callback that logs batch progress.
// The returned func matches queue.Config.OnProgress.
func ProgressHook(logger Logger, queue string) func(completed, total int) {
	log := logger.WithComponent("queue")
	return func(completed, total int) {
		log.Debug(context.Background(), "batch progress",
			Field{Key: "queue", Value: queue},
			Field{Key: "completed", Value: completed},
			Field{Key: "total", Value: total},
		)
	}
}
