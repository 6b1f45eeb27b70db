// Package resilience provides composable guards for fallible async
// operations.
//
// Each guard wraps a single operation of the form
// func(context.Context) error and either lets it through, retries it, or
// rejects it with a typed fault from the fault package. Guards hold no
// reference to the operations they protect: a CircuitBreaker or
// TokenBucket is meant to be created once per logical dependency and
// shared by reference across every call site that talks to it.
//
// # Guards
//
//   - Retry: repeats a failed operation with exponential backoff and
//     jitter, honoring per-error retryability verdicts.
//
//   - CircuitBreaker: stops calling a dependency after a threshold of
//     failures inside a sliding time window, periodically letting one
//     trial call through to probe recovery.
//
//   - TokenBucket: bounds throughput, either rejecting immediately or
//     waiting until enough tokens accrue.
//
//   - Bulkhead: bounds the number of in-flight operations.
//
//   - Timeout: bounds the duration of one operation.
//
// # Cancellation
//
// Cancellation is cooperative and carried by context.Context. Combine
// merges many contexts into one that fires on the first cancellation,
// Expire derives a context from a deadline, and Check fails fast when a
// context has already fired. Guards observe cancellation at operation
// entry and between retry attempts, never by interrupting running work.
//
// # Composition
//
// Executor chains guards around one operation:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithRateLimit(bucket),
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return callDependency(ctx)
//	})
package resilience
