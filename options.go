/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tenantstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/suparena/tenantstore/index"
)

// IntegrityEvent describes an inconsistency tolerated by List.
type IntegrityEvent struct {
	Type   string // entity type
	Index  string // index name, e.g. "plan:acme"
	ID     string
	Reason string
}

// Option configures a Store or TenantStore.
type Option func(*options)

type options struct {
	integrityHook    func(IntegrityEvent)
	fetchConcurrency int
	indexManager     *index.Manager
	now              func() time.Time
	newID            func() string
}

func defaultOptions() options {
	return options{
		integrityHook:    func(IntegrityEvent) {},
		fetchConcurrency: 8,
		now:              time.Now,
		newID:            func() string { return uuid.NewString() },
	}
}

// WithIntegrityHook registers a callback for index entries whose record is
// missing. The hook may be called concurrently.
func WithIntegrityHook(hook func(IntegrityEvent)) Option {
	return func(o *options) {
		if hook != nil {
			o.integrityHook = hook
		}
	}
}

// WithFetchConcurrency bounds the number of parallel record reads in List.
func WithFetchConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.fetchConcurrency = n
		}
	}
}

// WithIndexManager shares an index manager between stores on the same
// backend so their index mutations are serialized together.
func WithIndexManager(m *index.Manager) Option {
	return func(o *options) {
		o.indexManager = m
	}
}

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the id source for tenant-scoped creates.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}
