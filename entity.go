/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tenantstore

import (
	"time"

	"github.com/suparena/tenantstore/codec"
)

// Entity is a record with a mandatory unique id.
type Entity interface {
	EntityID() string
}

// TenantEntity is an entity partitioned by tenant. WithIdentity returns a
// copy of the entity stamped with a new identity; the receiver is not modified.
type TenantEntity[T any] interface {
	Entity
	EntityTenant() string
	WithIdentity(Identity) T
}

// Identity is assigned to tenant-scoped entities on creation.
type Identity struct {
	ID        string
	TenantID  string
	CreatedAt time.Time
}

// Descriptor describes one entity type.
type Descriptor[T Entity] struct {
	// Type names the entity type and its primary-key namespace, e.g. "plan".
	Type string

	// Codec serializes records. Defaults to codec.JSON.
	Codec codec.Codec[T]

	// Initial is the default state returned by GetOrInitial for absent ids.
	// It is never persisted.
	Initial T

	// Seed is loaded into the global index the first time it is found empty.
	Seed []T
}
