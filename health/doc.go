// Package health reports the condition of long-lived guards.
//
// Circuit breakers, bulkheads, and token buckets are shared-by-reference
// guards in front of one logical dependency; their internal state is a
// direct health signal for that dependency. This package turns guard
// snapshots into health results and aggregates them into one composite
// status.
//
// Basic usage:
//
//	agg := health.NewAggregator()
//	agg.Register("upstream", health.CircuitCheck("upstream", breaker))
//	agg.Register("workers", health.BulkheadCheck("workers", bulkhead))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
package health
