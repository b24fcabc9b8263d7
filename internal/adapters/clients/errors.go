// Package clients provides the resilient HTTP client used by the remote
// quote gateway.
package clients

import (
	"errors"
	"fmt"
)

// Client errors are infrastructure failures. The acl package translates
// them into domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrBodyNotRewindable is returned when a retry needs to resend a body
	// that cannot be replayed.
	ErrBodyNotRewindable = errors.New("request body cannot be rewound for retry")
)

// StatusError is a 5xx response that exhausted its retries.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}
