// Package kv provides the key-value backends behind the persisted session
// store.
//
// A Backend stores opaque string blobs under string keys. Three backends are
// available:
//   - SQLite: a single-file store, the default for a local client
//   - Redis: a shared store for clients running on several hosts
//   - Memory: a process-local map used by tests and ephemeral runs
//
// MultiRemove deletes every listed key in one operation, so a reader never
// observes a half-cleared session from the backend's side.
package kv

import (
	"context"

	"github.com/roach88/smartfarm/internal/errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// Backend is the storage primitive the session store is built on.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	MultiRemove(ctx context.Context, keys ...string) error
	Close() error
}
