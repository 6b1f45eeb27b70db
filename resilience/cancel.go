package resilience

import (
	"context"
	"time"
)

// Combine returns a context that is cancelled as soon as the first of
// ctxs is cancelled, carrying that context's cause. With no inputs the
// returned context never fires. An input that has already fired
// propagates immediately.
//
// The returned stop function releases the watchers and cancels the
// combined context; call it once the combined context is no longer
// needed.
func Combine(ctxs ...context.Context) (context.Context, context.CancelFunc) {
	if len(ctxs) == 0 {
		return context.Background(), func() {}
	}

	combined, cancel := context.WithCancelCause(context.Background())

	stops := make([]func() bool, 0, len(ctxs))
	for _, in := range ctxs {
		if in.Err() != nil {
			cancel(context.Cause(in))
			break
		}
		stops = append(stops, context.AfterFunc(in, func() {
			cancel(context.Cause(in))
		}))
	}

	return combined, func() {
		for _, stop := range stops {
			stop()
		}
		cancel(context.Canceled)
	}
}

// Expire returns a context that self-cancels after d. The underlying
// timer is released when the context fires by any means.
func Expire(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeoutCause(context.Background(), d, ErrTimeout)
}

// Check fails fast with an abort fault when ctx has already been
// cancelled. A nil context is a no-op.
func Check(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return abortFault(context.Cause(ctx))
	default:
		return nil
	}
}
