package fault

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// RecoveryFunc attempts to produce a replacement value for a fault.
type RecoveryFunc func(ctx context.Context, err *Error) (any, error)

// RecoveryRegistry maps error codes to recovery strategies.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Isolation: a strategy that fails or panics yields the caller's
//     fallback, never a panic.
type RecoveryRegistry struct {
	mu         sync.RWMutex
	strategies map[string]RecoveryFunc
}

// NewRecoveryRegistry creates an empty registry.
func NewRecoveryRegistry() *RecoveryRegistry {
	return &RecoveryRegistry{strategies: make(map[string]RecoveryFunc)}
}

// Register adds a strategy for the given error code, replacing any
// previous one.
func (r *RecoveryRegistry) Register(code string, fn RecoveryFunc) error {
	code = strings.TrimSpace(code)
	if code == "" || fn == nil {
		return Validation("invalid recovery registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[code] = fn
	return nil
}

// Unregister removes the strategy for code.
func (r *RecoveryRegistry) Unregister(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.strategies, code)
}

// TryRecover looks up a strategy by the error's code and returns its
// value. The fallback is returned when err is nil, no strategy exists for
// the code, or the strategy itself fails.
func (r *RecoveryRegistry) TryRecover(ctx context.Context, err error, fallback any) any {
	if err == nil {
		return fallback
	}
	fe := From(err)

	r.mu.RLock()
	fn, ok := r.strategies[fe.Code()]
	r.mu.RUnlock()
	if !ok {
		return fallback
	}

	value, rerr := invokeRecovery(ctx, fn, fe)
	if rerr != nil {
		return fallback
	}
	return value
}

func invokeRecovery(ctx context.Context, fn RecoveryFunc, fe *Error) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovery strategy panicked: %v", rec)
		}
	}()
	return fn(ctx, fe)
}
