package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// TransportError is the only error kind returned by remote operations. It
// carries a human-readable Message suitable for a notification, the failed
// operation and the HTTP status (0 when no response was received).
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error

	unavailable bool
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrUnavailable for network failures and
// ErrUnauthorized for 401/403 responses.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.unavailable
	case ErrUnauthorized:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}
