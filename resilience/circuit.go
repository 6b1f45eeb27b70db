package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without invoking the operation.
	StateOpen
	// StateHalfOpen means a single trial call is probing recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures within TimeWindow that
	// opens the circuit.
	// Default: 5
	FailureThreshold int

	// SuccessThreshold is the number of consecutive half-open successes
	// required to close the circuit again.
	// Default: 1
	SuccessThreshold int

	// TimeWindow is the sliding window that failures are counted in;
	// older failures are pruned lazily.
	// Default: 1 minute
	TimeWindow time.Duration

	// CooldownPeriod is how long an open circuit waits before letting a
	// trial call through.
	// Default: 30 seconds
	CooldownPeriod time.Duration

	// OnStateChange is called after each state transition, with internal
	// state already settled.
	OnStateChange func(from, to State)

	// IsFailure decides whether an error counts against the failure
	// threshold.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

// CircuitBreaker guards one logical dependency. It is long-lived: create
// one per dependency and share it by reference across call sites.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu        sync.Mutex
	state     State
	failures  []time.Time // failure timestamps inside the sliding window
	successes int         // consecutive half-open successes
	openedAt  time.Time
	trial     bool // a half-open trial call is in flight
}

// NewCircuitBreaker creates a circuit breaker, applying defaults for zero
// fields.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.TimeWindow <= 0 {
		config.TimeWindow = time.Minute
	}
	if config.CooldownPeriod <= 0 {
		config.CooldownPeriod = 30 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs op through the circuit breaker. While open it rejects with
// a non-retryable circuit-open fault without invoking op; once the
// cooldown has elapsed the next call becomes the half-open trial, with at
// most one trial in flight at a time.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	trial, err := cb.admit()
	if err != nil {
		return err
	}

	opErr := op(ctx)
	cb.settle(trial, opErr)
	return opErr
}

// State returns the current state without side effects.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset forces the circuit back to closed and clears all counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	from := cb.state
	cb.state = StateClosed
	cb.failures = nil
	cb.successes = 0
	cb.trial = false

	if from != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, StateClosed)
	}
}

// admit decides whether a call may proceed, transitioning open half-open
// when the cooldown has elapsed. The returned flag marks the call as the
// half-open trial.
func (cb *CircuitBreaker) admit() (bool, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.openedAt) < cb.config.CooldownPeriod {
			return false, circuitOpenFault()
		}
		cb.transition(StateHalfOpen)
		cb.trial = true
		return true, nil

	case StateHalfOpen:
		if cb.trial {
			// Only one trial call at a time.
			return false, circuitOpenFault()
		}
		cb.trial = true
		return true, nil
	}

	return false, nil
}

func (cb *CircuitBreaker) settle(trial bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failed := cb.config.IsFailure(err)

	if trial {
		cb.trial = false
		if cb.state != StateHalfOpen {
			// Reset raced with the trial; nothing to settle.
			return
		}
		if failed {
			cb.openedAt = time.Now()
			cb.successes = 0
			cb.transition(StateOpen)
			return
		}
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.failures = nil
			cb.successes = 0
			cb.transition(StateClosed)
		}
		return
	}

	if cb.state != StateClosed || !failed {
		return
	}

	now := time.Now()
	cb.recordFailure(now)
	if len(cb.failures) >= cb.config.FailureThreshold {
		cb.openedAt = now
		cb.transition(StateOpen)
	}
}

// recordFailure appends a failure timestamp, pruning entries that have
// slid out of the window.
func (cb *CircuitBreaker) recordFailure(now time.Time) {
	cutoff := now.Add(-cb.config.TimeWindow)
	kept := cb.failures[:0]
	for _, ts := range cb.failures {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	cb.failures = append(kept, now)
}

func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// CircuitBreakerMetrics is a snapshot of breaker counters.
type CircuitBreakerMetrics struct {
	State          State
	WindowFailures int
	TrialSuccesses int
	OpenedAt       time.Time
	TrialInFlight  bool
}

// Metrics returns a snapshot of the breaker's counters.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:          cb.state,
		WindowFailures: len(cb.failures),
		TrialSuccesses: cb.successes,
		OpenedAt:       cb.openedAt,
		TrialInFlight:  cb.trial,
	}
}
