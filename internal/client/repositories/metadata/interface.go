// Package metadata is the durable key/value store of the client. It holds the
// session credential and identity record; resource bodies are never persisted.
package metadata

import "context"

// Repository stores opaque values by key. Multi-key calls let a caller treat
// related keys, such as the session token and user, as one record.
type Repository interface {
	// Lookup returns the stored values of keys. Absent keys are left out
	// of the result.
	Lookup(ctx context.Context, keys ...string) (map[string][]byte, error)
	// Put upserts every pair of values.
	Put(ctx context.Context, values map[string][]byte) error
	// Remove deletes keys. Absent keys are ignored.
	Remove(ctx context.Context, keys ...string) error
}
