package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key does not exist.
	//
	// Implementations must return an error that satisfies
	// `errors.Is(err, ErrNotFound)` so callers never depend on
	// backend-specific not-found types.
	ErrNotFound = errors.New("kvstore: key not found")

	// ErrQuotaExceeded is returned by Put when the write would exceed the
	// store's byte quota. Callers are expected to free space (delete keys)
	// and retry; the store itself never evicts.
	ErrQuotaExceeded = errors.New("kvstore: storage quota exceeded")
)

// Store is an abstraction for a flat key-value namespace holding opaque
// byte values.
//
// Writes are whole-value and atomic: a Put either stores the complete value
// under the key or leaves the previous state untouched. Readers never observe
// a partially written value. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	// Returns ErrQuotaExceeded if the write would exceed the byte quota.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key.
	// Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys with the given prefix, sorted lexicographically.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}
