package fault

import (
	"context"
	"fmt"
)

// BoundaryOptions configures Protect.
type BoundaryOptions[T any] struct {
	// Fallback is returned when fn fails.
	Fallback T

	// FallbackFunc, when set, produces the fallback lazily and takes
	// precedence over Fallback.
	FallbackFunc func() T

	// OnError observes the normalized fault before the fallback is
	// returned.
	OnError func(err *Error)
}

// Protect runs fn and converts any failure, including a panic, into the
// configured fallback value. It is the terminal point for code that
// cannot itself recover: nothing escapes the boundary.
func Protect[T any](ctx context.Context, fn func(context.Context) (T, error), opts BoundaryOptions[T]) T {
	value, err := runGuarded(ctx, fn)
	if err == nil {
		return value
	}

	if opts.OnError != nil {
		opts.OnError(From(err))
	}
	if opts.FallbackFunc != nil {
		return opts.FallbackFunc()
	}
	return opts.Fallback
}

func runGuarded[T any](ctx context.Context, fn func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = New(fmt.Sprintf("panic recovered at boundary: %v", rec),
				WithCode("PANIC"),
				WithSeverity(SeverityCritical),
				WithRetryable(false),
			)
		}
	}()
	return fn(ctx)
}
