// Package metadata is the key/value table of the local store. userdesk keeps
// the overlay entries and the session token in it, the way a browser keeps
// them in localStorage.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value store.
type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set inserts or overwrites key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the given keys; absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
