package fault

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// Severity ranks how serious a fault is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category classifies a fault by the kind of failure it represents.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryConfiguration Category = "configuration"
	CategoryNetwork       Category = "network"
	CategoryPermission    Category = "permission"
	CategoryResource      Category = "resource"
	CategoryBusinessLogic Category = "business_logic"
	CategoryIntegration   Category = "integration"
	CategoryUnknown       Category = "unknown"
)

const maxStackDepth = 32

// Error is a structured, immutable error value. Use the category
// constructors (Validation, Network, ...) or New to build one; the zero
// value is not usable.
type Error struct {
	code      string
	message   string
	category  Category
	severity  Severity
	retryable bool
	status    int
	id        string
	timestamp time.Time
	context   map[string]any
	cause     error
	stack     []uintptr
}

// Option overrides a constructor default.
type Option func(*Error)

// WithCode sets the machine-readable error code.
func WithCode(code string) Option {
	return func(e *Error) { e.code = code }
}

// WithSeverity overrides the category's default severity.
func WithSeverity(s Severity) Option {
	return func(e *Error) { e.severity = s }
}

// WithStatus overrides the category's default status code.
func WithStatus(status int) Option {
	return func(e *Error) { e.status = status }
}

// WithRetryable overrides the category's default retryability.
func WithRetryable(retryable bool) Option {
	return func(e *Error) { e.retryable = retryable }
}

// WithCause attaches the wrapped error. A fault owns its cause
// exclusively; the chain is acyclic by construction.
func WithCause(cause error) Option {
	return func(e *Error) { e.cause = cause }
}

// WithContext attaches one key/value pair of opaque metadata.
func WithContext(key string, value any) Option {
	return func(e *Error) {
		if e.context == nil {
			e.context = make(map[string]any)
		}
		e.context[key] = value
	}
}

func newError(message string, category Category, severity Severity, code string, status int, retryable bool, opts []Option) *Error {
	e := &Error{
		code:      code,
		message:   message,
		category:  category,
		severity:  severity,
		retryable: retryable,
		status:    status,
		id:        uuid.NewString(),
		timestamp: time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(e)
	}

	pcs := make([]uintptr, maxStackDepth)
	// Skip runtime.Callers, newError, and the public constructor.
	n := runtime.Callers(3, pcs)
	e.stack = pcs[:n]

	return e
}

// New creates a fault of unknown category.
// Defaults: code UNKNOWN_ERROR, severity medium, status 500, retryable.
func New(message string, opts ...Option) *Error {
	return newError(message, CategoryUnknown, SeverityMedium, "UNKNOWN_ERROR", 500, true, opts)
}

// Validation creates a fault for invalid input.
// Defaults: code VALIDATION_ERROR, severity low, status 400, not retryable.
func Validation(message string, opts ...Option) *Error {
	return newError(message, CategoryValidation, SeverityLow, "VALIDATION_ERROR", 400, false, opts)
}

// Configuration creates a fault for bad or missing configuration.
// Defaults: code CONFIGURATION_ERROR, severity high, status 500, not retryable.
func Configuration(message string, opts ...Option) *Error {
	return newError(message, CategoryConfiguration, SeverityHigh, "CONFIGURATION_ERROR", 500, false, opts)
}

// Network creates a fault for a failed network interaction.
// Defaults: code NETWORK_ERROR, severity medium, status 503, retryable.
func Network(message string, opts ...Option) *Error {
	return newError(message, CategoryNetwork, SeverityMedium, "NETWORK_ERROR", 503, true, opts)
}

// Permission creates a fault for a denied operation.
// Defaults: code PERMISSION_DENIED, severity high, status 403, not retryable.
func Permission(message string, opts ...Option) *Error {
	return newError(message, CategoryPermission, SeverityHigh, "PERMISSION_DENIED", 403, false, opts)
}

// Resource creates a fault for a missing or exhausted resource.
// Defaults: code RESOURCE_ERROR, severity medium, status 404, not retryable.
func Resource(message string, opts ...Option) *Error {
	return newError(message, CategoryResource, SeverityMedium, "RESOURCE_ERROR", 404, false, opts)
}

// BusinessLogic creates a fault for a violated business rule.
// Defaults: code BUSINESS_LOGIC_ERROR, severity medium, status 422, not retryable.
func BusinessLogic(message string, opts ...Option) *Error {
	return newError(message, CategoryBusinessLogic, SeverityMedium, "BUSINESS_LOGIC_ERROR", 422, false, opts)
}

// Integration creates a fault for a failing external collaborator.
// Defaults: code INTEGRATION_ERROR, severity high, status 502, retryable.
func Integration(message string, opts ...Option) *Error {
	return newError(message, CategoryIntegration, SeverityHigh, "INTEGRATION_ERROR", 502, true, opts)
}

// Timeout creates a fault for an operation that exceeded its time limit.
// Defaults: code TIMEOUT, severity medium, status 504, retryable.
func Timeout(message string, opts ...Option) *Error {
	return newError(message, CategoryNetwork, SeverityMedium, "TIMEOUT", 504, true, opts)
}

// Wrap creates an unknown-category fault around cause. It is shorthand for
// New(message, WithCause(cause), opts...).
func Wrap(cause error, message string, opts ...Option) *Error {
	opts = append([]Option{WithCause(cause)}, opts...)
	return newError(message, CategoryUnknown, SeverityMedium, "UNKNOWN_ERROR", 500, true, opts)
}

// Error implements the error interface. The cause's message is appended
// so the chain reads outermost to root.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the cause for errors.Is and errors.As traversal.
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the machine-readable error code.
func (e *Error) Code() string { return e.code }

// Message returns the message of this fault alone, without the cause.
func (e *Error) Message() string { return e.message }

// Category returns the fault's category.
func (e *Error) Category() Category { return e.category }

// Severity returns the fault's severity.
func (e *Error) Severity() Severity { return e.severity }

// Retryable reports whether this fault alone is considered transient.
// Most callers want IsRetryable, which consults the whole chain.
func (e *Error) Retryable() bool { return e.retryable }

// Status returns the status code associated with the fault.
func (e *Error) Status() int { return e.status }

// ID returns the unique identifier generated at construction.
func (e *Error) ID() string { return e.id }

// Timestamp returns the construction time in UTC.
func (e *Error) Timestamp() time.Time { return e.timestamp }

// Context returns a copy of the attached metadata. Returns nil when no
// metadata was attached.
func (e *Error) Context() map[string]any {
	if e.context == nil {
		return nil
	}
	out := make(map[string]any, len(e.context))
	for k, v := range e.context {
		out[k] = v
	}
	return out
}

func (e *Error) callStack() []string {
	if len(e.stack) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(e.stack)
	out := make([]string, 0, len(e.stack))
	for {
		frame, more := frames.Next()
		out = append(out, fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return out
}
