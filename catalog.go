/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tenantstore

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog holds one store per entity type. Registering a second store for a
// type name fails, so each type owns exactly one primary-key namespace.
type Catalog struct {
	mu     sync.RWMutex
	stores map[string]any
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		stores: make(map[string]any),
	}
}

// RegisterStore adds s under its entity-type name.
func RegisterStore[T Entity](c *Catalog, s *Store[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.stores[s.Type()]; exists {
		return fmt.Errorf("store for entity type %q already registered", s.Type())
	}
	c.stores[s.Type()] = s
	return nil
}

// LookupStore returns the store registered for entityType.
func LookupStore[T Entity](c *Catalog, entityType string) (*Store[T], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, exists := c.stores[entityType]
	if !exists {
		return nil, fmt.Errorf("store for entity type %q not found", entityType)
	}
	s, ok := v.(*Store[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("store for entity type %q does not hold %T", entityType, zero)
	}
	return s, nil
}

// Types returns the registered entity-type names in sorted order.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]string, 0, len(c.stores))
	for k := range c.stores {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}
