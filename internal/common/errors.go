// Package common defines shared constants and sentinel errors used across
// the client layers of userdesk. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// View errors.
	ErrInvalidPage = errors.New("page number must be >= 1")
	ErrInvalidID   = errors.New("user id must be a positive integer")

	// ErrSuperseded is returned by a view fetch whose result arrived after a
	// newer fetch had started; the result is discarded.
	ErrSuperseded = errors.New("superseded by a newer request")

	// ErrRefresh wraps a failed refetch that followed a successful mutation.
	// The mutation itself is already applied.
	ErrRefresh = errors.New("refresh after mutation failed")
)
