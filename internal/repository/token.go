package repository

import "context"

// TokenStore holds the single bearer token of the running shell.
// The session depends on this interface, so the backing storage (memory, file,
// postgres) can be swapped without touching it and faked in tests.
type TokenStore interface {
	// Get returns the stored token. ok is false when the slot is empty.
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string) error
	// Remove empties the slot. Removing an empty slot is not an error.
	Remove(ctx context.Context) error
}
