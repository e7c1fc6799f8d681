package repository

import "context"

// KeyValueStorage is the durable storage collaborator.
// Values are opaque serialized collections; the store owns the encoding.
type KeyValueStorage interface {
	// Get returns the stored value for key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the backend's resources
	Close() error
}
