/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
)

// Backend is the raw key-value contract the entity store is built on. Keys
// are opaque strings and values opaque bytes. Each call is atomic for its
// single key; there are no multi-key transactions.
type Backend interface {
	// Get returns the value stored at key, or an error matching
	// errors.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value at key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// ConditionalPutter is implemented by backends that can create a key only if
// it is absent, atomically. PutIfAbsent reports whether the value was written.
type ConditionalPutter interface {
	PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
}
