package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/sturdy/resilience"
)

// CircuitCheck reports a circuit breaker's state as health: closed is
// healthy, half-open is degraded, open is unhealthy.
func CircuitCheck(name string, cb *resilience.CircuitBreaker) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		m := cb.Metrics()
		details := map[string]any{
			"state":           m.State.String(),
			"window_failures": m.WindowFailures,
		}

		switch m.State {
		case resilience.StateOpen:
			details["opened_at"] = m.OpenedAt
			return Unhealthy("circuit open", resilience.ErrCircuitOpen).WithDetails(details)
		case resilience.StateHalfOpen:
			details["trial_successes"] = m.TrialSuccesses
			return Degraded("circuit half-open, trialing recovery").WithDetails(details)
		default:
			return Healthy("circuit closed").WithDetails(details)
		}
	})
}

// BulkheadCheck reports a bulkhead's saturation as health: free slots is
// healthy, full is degraded. A full bulkhead is load, not breakage, so
// it never reports unhealthy.
func BulkheadCheck(name string, b *resilience.Bulkhead) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		m := b.Metrics()
		details := map[string]any{
			"in_flight": m.InFlight,
			"available": m.Available,
			"max":       m.MaxInFlight,
			"rejected":  m.Rejected,
		}

		if m.Available == 0 {
			return Degraded(fmt.Sprintf("bulkhead saturated at %d in flight", m.InFlight)).WithDetails(details)
		}
		return Healthy("bulkhead has capacity").WithDetails(details)
	})
}

// TokenBucketCheck reports a token bucket as degraded once its balance
// drops below lowWater tokens.
func TokenBucketCheck(name string, tb *resilience.TokenBucket, lowWater float64) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		tokens := tb.Tokens()
		details := map[string]any{
			"tokens":    tokens,
			"low_water": lowWater,
		}

		if tokens < lowWater {
			return Degraded(fmt.Sprintf("token balance %.1f below low water %.1f", tokens, lowWater)).WithDetails(details)
		}
		return Healthy("token balance sufficient").WithDetails(details)
	})
}
