// Package kv provides the named key to JSON document store that holds all
// site state: users, catalog, the live cart, orders and settings. Backends
// share one contract so the entity layer never cares where documents live.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document exists under a key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a named mapping from string keys to JSON documents.
type Store interface {
	// Get unmarshals the document under key into dest. Returns ErrNotFound
	// when the key is absent.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set marshals value and stores it under key, replacing any previous
	// document.
	Set(ctx context.Context, key string, value interface{}) error
	// Delete removes the document under key. Deleting an absent key is a
	// no-op.
	Delete(ctx context.Context, key string) error
	Close() error
}
