package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpan is returned when a sub-range span is not positive.
	ErrInvalidSpan = errors.New("sub-range span must be positive")

	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("range end is before range start")

	// ErrTimestampOutOfRange is returned when epoch milliseconds cannot be
	// represented as a wall-clock timestamp.
	ErrTimestampOutOfRange = errors.New("timestamp out of range")
)

// UnexpectedStatusError reports a provider response with a non-200 status.
type UnexpectedStatusError struct {
	Code   int
	Status string // e.g. "400 Bad Request"
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %s", e.Status)
}

// TransportError wraps a network failure or a response body that could not
// be decoded. The two are not distinguished.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is one of the fetch error kinds.
func IsFetchError(err error) bool {
	var statusErr *UnexpectedStatusError
	var transportErr *TransportError
	return errors.As(err, &statusErr) || errors.As(err, &transportErr)
}
