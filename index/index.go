/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package index maintains named, insertion-ordered sets of entity ids. Each
// index is stored as a single backend record so it shares the backend's
// per-key atomicity with the data it describes.
package index

import (
	"context"
	"slices"
	"sync"

	"github.com/suparena/tenantstore/codec"
	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// Manager reads and mutates index records. Mutations are read-modify-write
// cycles on one backend key; they are serialized per key inside this
// process, while writers in other processes remain last-write-wins.
type Manager struct {
	backend datastore.Backend
	codec   codec.Codec[[]string]
	locks   sync.Map // index key -> *sync.Mutex
}

// NewManager creates a Manager storing indexes in backend.
func NewManager(backend datastore.Backend) *Manager {
	return &Manager{
		backend: backend,
		codec:   codec.NewJSON[[]string](),
	}
}

// Add appends id to the index at key unless it is already a member. It
// reports whether the index changed.
func (m *Manager) Add(ctx context.Context, key, id string) (bool, error) {
	unlock := m.lock(key)
	defer unlock()

	ids, err := m.load(ctx, key)
	if err != nil {
		return false, err
	}
	if slices.Contains(ids, id) {
		return false, nil
	}
	return true, m.store(ctx, key, append(ids, id))
}

// Remove deletes id from the index at key if present. It reports whether the
// index changed.
func (m *Manager) Remove(ctx context.Context, key, id string) (bool, error) {
	unlock := m.lock(key)
	defer unlock()

	ids, err := m.load(ctx, key)
	if err != nil {
		return false, err
	}
	i := slices.Index(ids, id)
	if i < 0 {
		return false, nil
	}
	return true, m.store(ctx, key, slices.Delete(ids, i, i+1))
}

// List returns the members of the index at key in insertion order. An index
// that was never written is empty.
func (m *Manager) List(ctx context.Context, key string) ([]string, error) {
	return m.load(ctx, key)
}

// Len returns the number of members of the index at key.
func (m *Manager) Len(ctx context.Context, key string) (int, error) {
	ids, err := m.load(ctx, key)
	return len(ids), err
}

func (m *Manager) load(ctx context.Context, key string) ([]string, error) {
	raw, err := m.backend.Get(ctx, key)
	if errors.IsNotFound(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.NewBackendError("get", key, err)
	}
	ids, err := m.codec.Decode(raw)
	if err != nil {
		return nil, errors.NewDecodeError("index", key, err)
	}
	return ids, nil
}

func (m *Manager) store(ctx context.Context, key string, ids []string) error {
	raw, err := m.codec.Encode(ids)
	if err != nil {
		return err
	}
	return errors.NewBackendError("put", key, m.backend.Put(ctx, key, raw))
}

func (m *Manager) lock(key string) func() {
	v, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
