package fault

import "errors"

// Chain returns the error chain from this fault (outermost wrapper) down
// to the root cause. Entries that are not faults are included as-is.
func (e *Error) Chain() []error {
	var chain []error
	var cur error = e
	for cur != nil {
		chain = append(chain, cur)
		cur = errors.Unwrap(cur)
	}
	return chain
}

// RootCause returns the innermost error in the chain. For a fault with no
// cause, that is the fault itself.
func (e *Error) RootCause() error {
	var cur error = e
	for {
		next := errors.Unwrap(cur)
		if next == nil {
			return cur
		}
		cur = next
	}
}

// From normalizes err into a fault. A fault anywhere in err's chain is
// returned directly; anything else is wrapped as an unknown-category
// fault with err as cause. Returns nil for a nil error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return Wrap(err, "unclassified error")
}

// IsRetryable reports whether err may be retried. The first fault in the
// chain decides; errors outside the taxonomy are retryable by default, so
// only an explicit verdict stops a retry loop. A nil error is not
// retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.retryable
	}
	return true
}

// IsCategory reports whether any fault in err's chain has the given
// category.
func IsCategory(err error, category Category) bool {
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if fe, ok := cur.(*Error); ok && fe.category == category {
			return true
		}
	}
	return false
}

// HasCode reports whether any fault in err's chain carries the given
// code.
func HasCode(err error, code string) bool {
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if fe, ok := cur.(*Error); ok && fe.code == code {
			return true
		}
	}
	return false
}

// GetCode returns the code of the first fault in err's chain, or
// UNKNOWN_ERROR when the chain contains no fault.
func GetCode(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.code
	}
	return "UNKNOWN_ERROR"
}
