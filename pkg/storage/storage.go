// Package storage wraps key/value backends behind a type-safe read/write/clear
// interface with JSON serialization.
//
// A Backend is the raw byte store: session-scoped (MemoryBackend), persistent
// on disk (SQLiteBackend) or shared (NATSBackend). A Value binds one backend
// and one key to a Go type; its operations never propagate failures to the
// caller. A read that misses, fails, or cannot be deserialized reports absent,
// and writes and clears log their failures and move on. The worst case is
// always "behaves as if no value exists", never a crash.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Get when the key has no entry.
var ErrNotFound = errors.New("storage: key not found")

// ErrClosed is returned by backend operations after Close.
var ErrClosed = errors.New("storage: backend closed")

// Backend is a raw byte-oriented key/value store.
type Backend interface {
	// Get returns the stored bytes for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous entry.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the entry for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Name identifies the backend in logs and metrics.
	Name() string

	// Close releases backend resources.
	Close() error
}
