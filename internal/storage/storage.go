// Package storage is the console's durable client storage: a flat string
// key/value space that survives restarts, plus an in-memory variant.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: closed")

// KV is a durable string key/value store.
type KV interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// SetMany stores all pairs atomically.
	SetMany(ctx context.Context, pairs map[string]string) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
	// Close releases resources.
	Close() error
}
