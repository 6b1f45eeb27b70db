package fault

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Handler reacts to a dispatched fault. Meta carries caller-supplied
// key/value context about where the fault surfaced.
type Handler func(ctx context.Context, err *Error, meta map[string]any) error

// HandlerRegistry fans errors out to named handlers.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Ordering: Dispatch invokes handlers in registration order.
//   - Isolation: a handler that fails or panics is reported through the
//     registry's error hook and never interrupts the remaining handlers.
type HandlerRegistry struct {
	onError func(ctx context.Context, handler string, err error)

	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
}

// NewHandlerRegistry creates an empty registry. onError receives failures
// from the handlers themselves; nil drops them.
func NewHandlerRegistry(onError func(ctx context.Context, handler string, err error)) *HandlerRegistry {
	return &HandlerRegistry{
		onError:  onError,
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler under name.
func (r *HandlerRegistry) Register(name string, handler Handler) error {
	name = strings.TrimSpace(name)
	if name == "" || handler == nil {
		return Validation("invalid handler registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return Validation(fmt.Sprintf("handler %q already registered", name))
	}
	r.handlers[name] = handler
	r.order = append(r.order, name)
	return nil
}

// Unregister removes the named handler. Removing an unknown name is a
// no-op.
func (r *HandlerRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; !exists {
		return
	}
	delete(r.handlers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Names returns the registered handler names in registration order.
func (r *HandlerRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Dispatch normalizes err into a fault and invokes every registered
// handler sequentially. A nil error is a no-op.
func (r *HandlerRegistry) Dispatch(ctx context.Context, err error, meta map[string]any) {
	if err == nil {
		return
	}
	fe := From(err)

	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	handlers := make([]Handler, 0, len(names))
	for _, name := range names {
		handlers = append(handlers, r.handlers[name])
	}
	r.mu.RUnlock()

	for i, handler := range handlers {
		if herr := r.invoke(ctx, handler, fe, meta); herr != nil && r.onError != nil {
			r.onError(ctx, names[i], herr)
		}
	}
}

func (r *HandlerRegistry) invoke(ctx context.Context, handler Handler, fe *Error, meta map[string]any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panicked: %v", rec)
		}
	}()
	return handler(ctx, fe, meta)
}
