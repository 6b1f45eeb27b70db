package fault

import "time"

// Report is the full serializable form of a fault, including the cause
// chain and call stack. It is intended for internal diagnostics and must
// not cross a trust boundary.
type Report struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Category  Category       `json:"category"`
	Severity  Severity       `json:"severity"`
	Retryable bool           `json:"retryable"`
	Status    int            `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Context   map[string]any `json:"context,omitempty"`
	Stack     []string       `json:"stack,omitempty"`
	Cause     *Report        `json:"cause,omitempty"`
}

// PublicError is the externally safe form of a fault. The cause chain and
// call stack are stripped so nothing internal leaks to a caller.
type PublicError struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Category  Category       `json:"category"`
	Severity  Severity       `json:"severity"`
	Retryable bool           `json:"retryable"`
	Status    int            `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Context   map[string]any `json:"context,omitempty"`
}

// Report serializes the fault and its whole cause chain. A cause outside
// the taxonomy becomes a chain entry with only a message and code.
func (e *Error) Report() *Report {
	r := &Report{
		ID:        e.id,
		Code:      e.code,
		Message:   e.message,
		Category:  e.category,
		Severity:  e.severity,
		Retryable: e.retryable,
		Status:    e.status,
		Timestamp: e.timestamp,
		Context:   e.Context(),
		Stack:     e.callStack(),
	}

	if e.cause != nil {
		if fe, ok := e.cause.(*Error); ok {
			r.Cause = fe.Report()
		} else {
			r.Cause = &Report{
				Code:     "UNKNOWN_ERROR",
				Message:  e.cause.Error(),
				Category: CategoryUnknown,
			}
		}
	}

	return r
}

// Public serializes the fault without its stack or cause.
func (e *Error) Public() *PublicError {
	return &PublicError{
		ID:        e.id,
		Code:      e.code,
		Message:   e.message,
		Category:  e.category,
		Severity:  e.severity,
		Retryable: e.retryable,
		Status:    e.status,
		Timestamp: e.timestamp,
		Context:   e.Context(),
	}
}
