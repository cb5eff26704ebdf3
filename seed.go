/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tenantstore

import (
	"context"

	"github.com/suparena/tenantstore/errors"
	"github.com/suparena/tenantstore/keyspace"
)

// EnsureSeed loads the descriptor's seed into the global index if that index
// is empty. Concurrent callers in this process share one load; seeders in
// other processes are tolerated because a seed that already exists is only
// (re)added to the index. Calling it on a type without a seed is a no-op.
func (s *Store[T]) EnsureSeed(ctx context.Context) error {
	if len(s.seed) == 0 {
		return nil
	}
	key := keyspace.IndexKey(s.typ, "")
	_, err, _ := s.seeding.Do(key, func() (any, error) {
		return nil, s.seedIfEmpty(ctx, key)
	})
	return err
}

func (s *Store[T]) seedIfEmpty(ctx context.Context, indexKey string) error {
	n, err := s.index.Len(ctx, indexKey)
	if err != nil || n > 0 {
		return err
	}

	for _, e := range s.seed {
		_, err := s.Create(ctx, "", e)
		if errors.IsAlreadyExists(err) {
			if _, err := s.index.Add(ctx, indexKey, e.EntityID()); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
