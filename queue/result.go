package queue

import "time"

// Result records the settlement of a single item: either a value or an
// error, plus how long the processor ran.
type Result[R any] struct {
	// Value is the processor's return value. Zero when Err is set.
	Value R

	// Err is the processor's failure, nil on success.
	Err error

	// Duration is the wall time the processor invocation took.
	Duration time.Duration
}

// Ok reports whether the item settled successfully.
func (r Result[R]) Ok() bool {
	return r.Err == nil
}

// Outcome pairs an item's key with its result.
type Outcome[K comparable, R any] struct {
	Key    K
	Result Result[R]
}

// Collect indexes outcomes by key.
func Collect[K comparable, R any](outcomes []Outcome[K, R]) map[K]Result[R] {
	m := make(map[K]Result[R], len(outcomes))
	for _, o := range outcomes {
		m[o.Key] = o.Result
	}
	return m
}
