package queue

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/sturdy/fault"
)

// Sentinel errors for queue operations. Rejections are surfaced as fault
// values wrapping these sentinels, so callers can match with errors.Is
// and still read the fault metadata.
var (
	// ErrQueueCleared is returned by tickets whose items were discarded
	// by WorkQueue.Clear before they started running.
	ErrQueueCleared = errors.New("queue: queue cleared")

	// ErrDuplicateKey is returned when a batch contains two items that
	// map to the same key.
	ErrDuplicateKey = errors.New("queue: duplicate key in batch")
)

// Error codes carried by the fault values this package produces.
const (
	CodeQueueCleared = "QUEUE_CLEARED"
	CodeDuplicateKey = "DUPLICATE_KEY"
)

func clearedFault() error {
	return fault.Resource("queue cleared before item started",
		fault.WithCode(CodeQueueCleared),
		fault.WithRetryable(false),
		fault.WithCause(ErrQueueCleared),
	)
}

func duplicateKeyFault(key any) error {
	return fault.Validation(fmt.Sprintf("duplicate key %v in batch", key),
		fault.WithCode(CodeDuplicateKey),
		fault.WithContext("key", fmt.Sprint(key)),
		fault.WithCause(ErrDuplicateKey),
	)
}
