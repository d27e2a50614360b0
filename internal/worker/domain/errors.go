package domain

import "errors"

var (
	// ErrUnknownEventType is returned for event types this worker does not handle
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrInvalidPayload is returned when an event payload is malformed
	ErrInvalidPayload = errors.New("invalid event payload")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
