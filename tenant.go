/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tenantstore

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// TenantStore scopes a Store to tenant partitions: every tenant has its own
// index "<type>:<tenantID>". Records carry their tenant id and every lookup by
// id verifies it, so a record of another tenant behaves as absent even when
// its id is known.
type TenantStore[T TenantEntity[T]] struct {
	store *Store[T]
}

// NewTenantStore creates the tenant-scoped store for desc. Tenant-scoped
// types cannot be seeded.
func NewTenantStore[T TenantEntity[T]](backend datastore.Backend, desc Descriptor[T], opts ...Option) (*TenantStore[T], error) {
	if len(desc.Seed) > 0 {
		return nil, fmt.Errorf("tenantstore: tenant-scoped type %q cannot have a seed", desc.Type)
	}
	s, err := NewStore(backend, desc, opts...)
	if err != nil {
		return nil, err
	}
	return &TenantStore[T]{store: s}, nil
}

// Store returns the underlying entity store.
func (ts *TenantStore[T]) Store() *Store[T] {
	return ts.store
}

// IndexName returns the index name of tenantID.
func (ts *TenantStore[T]) IndexName(tenantID string) string {
	return ts.store.IndexName(tenantID)
}

// CreateForTenant stores draft under a freshly generated id and creation
// time. Any id already set on draft is discarded.
func (ts *TenantStore[T]) CreateForTenant(ctx context.Context, tenantID string, draft T) (T, error) {
	var zero T
	if err := validateTenant(tenantID); err != nil {
		return zero, err
	}
	e := draft.WithIdentity(Identity{
		ID:        ts.store.opts.newID(),
		TenantID:  tenantID,
		CreatedAt: ts.store.opts.now().UTC().Truncate(time.Millisecond),
	})
	return ts.store.Create(ctx, tenantID, e)
}

// ListForTenant returns the tenant's records in creation order.
func (ts *TenantStore[T]) ListForTenant(ctx context.Context, tenantID string) ([]T, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	all, err := ts.store.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if e.EntityTenant() != tenantID {
			ts.store.opts.integrityHook(IntegrityEvent{
				Type:   ts.store.typ,
				Index:  ts.IndexName(tenantID),
				ID:     e.EntityID(),
				Reason: fmt.Sprintf("record owned by tenant %q", e.EntityTenant()),
			})
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// GetForTenant returns the tenant's record with id.
func (ts *TenantStore[T]) GetForTenant(ctx context.Context, tenantID, id string) (T, error) {
	var zero T
	if err := validateTenant(tenantID); err != nil {
		return zero, err
	}
	e, err := ts.store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if e.EntityTenant() != tenantID {
		return zero, errors.NewNotFoundError(ts.store.typ, id)
	}
	return e, nil
}

// UpdateForTenant applies fn to the tenant's record with id. fn must not
// change the id or the tenant.
func (ts *TenantStore[T]) UpdateForTenant(ctx context.Context, tenantID, id string, fn func(T) (T, error)) (T, error) {
	var zero T
	if err := validateTenant(tenantID); err != nil {
		return zero, err
	}
	return ts.store.Mutate(ctx, id, func(current T) (T, error) {
		if current.EntityTenant() != tenantID {
			return zero, errors.NewNotFoundError(ts.store.typ, id)
		}
		next, err := fn(current)
		if err != nil {
			return zero, err
		}
		if next.EntityTenant() != tenantID {
			return zero, errors.NewValidationError("tenantId", "update must not change the tenant")
		}
		return next, nil
	})
}

// DeleteForTenant removes the tenant's record with id. It returns false when
// no such record exists for this tenant; records of other tenants are left
// untouched.
func (ts *TenantStore[T]) DeleteForTenant(ctx context.Context, tenantID, id string) (bool, error) {
	if err := validateTenant(tenantID); err != nil {
		return false, err
	}
	e, err := ts.store.Get(ctx, id)
	if errors.IsNotFound(err) {
		// Drop a dangling entry from this tenant's index, if any.
		return ts.store.Delete(ctx, tenantID, id)
	}
	if err != nil {
		return false, err
	}
	if e.EntityTenant() != tenantID {
		return false, nil
	}
	return ts.store.Delete(ctx, tenantID, id)
}

func validateTenant(tenantID string) error {
	if tenantID == "" {
		return errors.NewValidationError("tenantId", "tenant context is required")
	}
	return nil
}
