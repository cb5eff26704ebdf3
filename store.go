/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tenantstore

import (
	"context"
	stderrors "errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/suparena/tenantstore/codec"
	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
	"github.com/suparena/tenantstore/index"
	"github.com/suparena/tenantstore/keyspace"
)

// Store provides typed CRUD and listing for one entity type on top of a raw
// key-value backend. Records live at keyspace.PrimaryKey and are enumerated
// through indexes; a partition selects the index ("" is the global index).
//
// Create uses the backend's conditional put when available. Without it,
// create is check-then-write and two concurrent creates of the same id may
// both succeed. Update and Mutate are unsynchronized read-modify-write: the
// last writer wins.
type Store[T Entity] struct {
	typ     string
	codec   codec.Codec[T]
	initial T
	seed    []T

	backend datastore.Backend
	cond    datastore.ConditionalPutter
	index   *index.Manager
	opts    options

	seeding singleflight.Group
}

// NewStore creates the store for the entity type described by desc.
func NewStore[T Entity](backend datastore.Backend, desc Descriptor[T], opts ...Option) (*Store[T], error) {
	if backend == nil {
		return nil, fmt.Errorf("tenantstore: nil backend for %q", desc.Type)
	}
	if err := keyspace.ValidateEntityType(desc.Type); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.indexManager == nil {
		o.indexManager = index.NewManager(backend)
	}

	c := desc.Codec
	if c == nil {
		c = codec.NewJSON[T]()
	}

	seen := make(map[string]bool, len(desc.Seed))
	for _, e := range desc.Seed {
		id := e.EntityID()
		if err := keyspace.ValidateID(id); err != nil {
			return nil, fmt.Errorf("tenantstore: seed for %q: %w", desc.Type, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("tenantstore: seed for %q repeats id %q", desc.Type, id)
		}
		seen[id] = true
	}

	s := &Store[T]{
		typ:     desc.Type,
		codec:   c,
		initial: desc.Initial,
		seed:    desc.Seed,
		backend: backend,
		index:   o.indexManager,
		opts:    o,
	}
	if cp, ok := backend.(datastore.ConditionalPutter); ok {
		s.cond = cp
	}
	return s, nil
}

// Type returns the entity-type name.
func (s *Store[T]) Type() string {
	return s.typ
}

// IndexName returns the name of the index for partition.
func (s *Store[T]) IndexName(partition string) string {
	return keyspace.IndexName(s.typ, partition)
}

// Exists reports whether a record with id is stored.
func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	if err := s.validateID(id); err != nil {
		return false, err
	}
	_, err := s.read(ctx, id)
	if errors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the record with id, or an error matching errors.ErrNotFound.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := s.validateID(id); err != nil {
		return zero, err
	}
	raw, err := s.read(ctx, id)
	if err != nil {
		return zero, err
	}
	return s.decode(id, raw)
}

// GetOrInitial returns the record with id, or the descriptor's initial state
// when it is absent.
func (s *Store[T]) GetOrInitial(ctx context.Context, id string) (T, error) {
	v, err := s.Get(ctx, id)
	if errors.IsNotFound(err) {
		return s.initial, nil
	}
	return v, err
}

// Create stores entity and adds its id to the partition's index. It fails
// with errors.ErrAlreadyExists when the id is taken. A failure after the
// record write leaves the record unindexed. The returned entity is the
// stored one as Get would return it.
func (s *Store[T]) Create(ctx context.Context, partition string, entity T) (T, error) {
	var zero T
	id := entity.EntityID()
	if err := s.validateID(id); err != nil {
		return zero, err
	}
	raw, err := s.encode(entity)
	if err != nil {
		return zero, err
	}

	key := keyspace.PrimaryKey(s.typ, id)
	if s.cond != nil {
		written, err := s.cond.PutIfAbsent(ctx, key, raw)
		if errors.IsConditionFailed(err) {
			return zero, err
		}
		if err != nil {
			return zero, errors.NewBackendError("put-if-absent", key, err)
		}
		if !written {
			return zero, errors.NewAlreadyExistsError(s.typ, id)
		}
	} else {
		exists, err := s.Exists(ctx, id)
		if err != nil {
			return zero, err
		}
		if exists {
			return zero, errors.NewAlreadyExistsError(s.typ, id)
		}
		if err := s.backend.Put(ctx, key, raw); err != nil {
			return zero, errors.NewBackendError("put", key, err)
		}
	}

	if _, err := s.index.Add(ctx, keyspace.IndexKey(s.typ, partition), id); err != nil {
		return zero, err
	}
	return s.decode(id, raw)
}

// Update replaces the record with id. The replacement must carry the same id.
func (s *Store[T]) Update(ctx context.Context, id string, replacement T) (T, error) {
	var zero T
	if err := s.validateID(id); err != nil {
		return zero, err
	}
	if replacement.EntityID() != id {
		return zero, errors.NewValidationError("id", fmt.Sprintf("replacement id %q does not match %q", replacement.EntityID(), id))
	}
	if _, err := s.read(ctx, id); err != nil {
		return zero, err
	}
	return s.write(ctx, id, replacement)
}

// Mutate applies fn to the current record with id and stores the result. fn
// must not change the id.
func (s *Store[T]) Mutate(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	var zero T
	current, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	next, err := fn(current)
	if err != nil {
		return zero, err
	}
	if next.EntityID() != id {
		return zero, errors.NewValidationError("id", "mutation must not change the id")
	}
	return s.write(ctx, id, next)
}

// Delete removes the record with id and its membership in the partition's
// index. It reports whether a record existed; deleting an absent id is not
// an error.
func (s *Store[T]) Delete(ctx context.Context, partition, id string) (bool, error) {
	existed, err := s.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if existed {
		key := keyspace.PrimaryKey(s.typ, id)
		if err := s.backend.Delete(ctx, key); err != nil {
			return false, errors.NewBackendError("delete", key, err)
		}
	}
	if _, err := s.index.Remove(ctx, keyspace.IndexKey(s.typ, partition), id); err != nil {
		return existed, err
	}
	return existed, nil
}

// List returns the records of the partition's index in index order. Ids whose
// record is missing are skipped and reported to the integrity hook; any other
// failure, including an undecodable record, fails the listing. Listing the
// global index of a seeded type loads the seed first if the index is empty.
func (s *Store[T]) List(ctx context.Context, partition string) ([]T, error) {
	if partition == "" {
		if err := s.EnsureSeed(ctx); err != nil {
			return nil, err
		}
	}

	ids, err := s.index.List(ctx, keyspace.IndexKey(s.typ, partition))
	if err != nil {
		return nil, err
	}

	records := make([]T, len(ids))
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.fetchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			v, err := s.Get(gctx, id)
			if errors.IsNotFound(err) {
				s.opts.integrityHook(IntegrityEvent{
					Type:   s.typ,
					Index:  s.IndexName(partition),
					ID:     id,
					Reason: "index entry without record",
				})
				return nil
			}
			if err != nil {
				return err
			}
			records[i] = v
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for i, v := range records {
		if found[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// Count returns the number of ids in the partition's index.
func (s *Store[T]) Count(ctx context.Context, partition string) (int, error) {
	return s.index.Len(ctx, keyspace.IndexKey(s.typ, partition))
}

func (s *Store[T]) validateID(id string) error {
	if err := keyspace.ValidateID(id); err != nil {
		return errors.NewValidationError("id", err.Error())
	}
	return nil
}

func (s *Store[T]) read(ctx context.Context, id string) ([]byte, error) {
	key := keyspace.PrimaryKey(s.typ, id)
	raw, err := s.backend.Get(ctx, key)
	if errors.IsNotFound(err) {
		return nil, errors.NewNotFoundError(s.typ, id)
	}
	if err != nil {
		return nil, errors.NewBackendError("get", key, err)
	}
	return raw, nil
}

// write stores v and returns it as it reads back, so callers never see
// precision the codec drops.
func (s *Store[T]) write(ctx context.Context, id string, v T) (T, error) {
	var zero T
	raw, err := s.encode(v)
	if err != nil {
		return zero, err
	}
	key := keyspace.PrimaryKey(s.typ, id)
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return zero, errors.NewBackendError("put", key, err)
	}
	return s.decode(id, raw)
}

func (s *Store[T]) encode(v T) ([]byte, error) {
	raw, err := s.codec.Encode(v)
	if err != nil {
		return nil, errors.NewValidationError("", fmt.Sprintf("%s: %v", s.typ, err))
	}
	return raw, nil
}

func (s *Store[T]) decode(id string, raw []byte) (T, error) {
	v, err := s.codec.Decode(raw)
	if err == nil {
		return v, nil
	}
	cause := err
	var de *errors.DecodeError
	if stderrors.As(err, &de) {
		cause = de.Err
	}
	var zero T
	return zero, errors.NewDecodeError(s.typ, keyspace.PrimaryKey(s.typ, id), cause)
}
