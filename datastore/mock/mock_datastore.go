/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.Backend for testing
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// DataStore is an in-memory datastore.Backend with error injection
type DataStore struct {
	mu          sync.RWMutex
	data        map[string][]byte
	calls       map[string]int
	getError    error
	putError    error
	deleteError error
	putHook     func(key string)
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		data:  make(map[string][]byte),
		calls: make(map[string]int),
	}
}

// WithGetError makes Get operations return an error
func (m *DataStore) WithGetError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
	return m
}

// WithPutError makes Put and PutIfAbsent operations return an error
func (m *DataStore) WithPutError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
	return m
}

// WithPutHook registers a callback invoked before every write, outside the lock.
func (m *DataStore) WithPutHook(f func(key string)) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putHook = f
	return m
}

// Get retrieves the value stored at key
func (m *DataStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["get"]++

	if m.getError != nil {
		return nil, m.getError
	}
	v, exists := m.data[key]
	if !exists {
		return nil, errors.NewNotFoundError("key", key)
	}
	return append([]byte(nil), v...), nil
}

// Put stores a value
func (m *DataStore) Put(ctx context.Context, key string, value []byte) error {
	m.firePutHook(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["put"]++

	if m.putError != nil {
		return m.putError
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// PutIfAbsent stores a value only if key is absent
func (m *DataStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	m.firePutHook(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["putIfAbsent"]++

	if m.putError != nil {
		return false, m.putError
	}
	if _, exists := m.data[key]; exists {
		return false, nil
	}
	m.data[key] = append([]byte(nil), value...)
	return true, nil
}

// Delete removes a key; absent keys are ignored
func (m *DataStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["delete"]++

	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.data, key)
	return nil
}

// Close is a no-op
func (m *DataStore) Close() error {
	return nil
}

// Helper methods for testing

// Unconditional returns a view of the store that hides PutIfAbsent, for
// exercising the check-then-write fallback.
func (m *DataStore) Unconditional() datastore.Backend {
	return plain{m}
}

// SetRaw writes bytes directly, bypassing hooks and injected errors
func (m *DataStore) SetRaw(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
}

// Raw returns the stored bytes for key
func (m *DataStore) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return append([]byte(nil), v...), ok
}

// Keys returns all stored keys with the given prefix in lexicographic order
func (m *DataStore) Keys(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Calls returns how many times op ("get", "put", "putIfAbsent", "delete") ran
func (m *DataStore) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// Count returns the number of stored keys
func (m *DataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
}

func (m *DataStore) firePutHook(key string) {
	m.mu.RLock()
	hook := m.putHook
	m.mu.RUnlock()
	if hook != nil {
		hook(key)
	}
}

type plain struct {
	m *DataStore
}

func (p plain) Get(ctx context.Context, key string) ([]byte, error) { return p.m.Get(ctx, key) }
func (p plain) Put(ctx context.Context, key string, value []byte) error {
	return p.m.Put(ctx, key, value)
}
func (p plain) Delete(ctx context.Context, key string) error { return p.m.Delete(ctx, key) }
func (p plain) Close() error                                 { return p.m.Close() }

var (
	_ datastore.Backend           = (*DataStore)(nil)
	_ datastore.ConditionalPutter = (*DataStore)(nil)
)
