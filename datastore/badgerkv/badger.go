/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package badgerkv implements datastore.Backend on an embedded BadgerDB.
package badgerkv

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// maxConflictRetries bounds PutIfAbsent retries after a transaction conflict.
var maxConflictRetries = 10

// Options configures the BadgerDB store.
type Options struct {
	// Dir is the directory for BadgerDB data files. Required unless InMemory.
	Dir string

	// InMemory runs BadgerDB without disk persistence.
	InMemory bool

	// Logger receives badger's warnings and errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// DataStore is a Backend backed by BadgerDB v4.
type DataStore struct {
	db *badger.DB
}

// Open opens (or creates) the database described by opts.
func Open(opts Options) (*DataStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, stderrors.New("badgerkv: Options.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(slogLogger{logger.With("component", "badger")})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("badgerkv: open: %w", err)
	}
	return &DataStore{db: db}, nil
}

func (s *DataStore) Get(_ context.Context, key string) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.NewNotFoundError("key", key)
	}
	return val, err
}

func (s *DataStore) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// PutIfAbsent reads and writes key in one transaction. A concurrent writer
// of the same key makes the commit fail with ErrConflict; the check is then
// repeated against the new state. When every attempt conflicts the outcome
// is undecided and PutIfAbsent fails with errors.ErrConditionFailed.
func (s *DataStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		written := false
		err := s.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get([]byte(key))
			if err == nil {
				return nil
			}
			if !stderrors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			written = true
			return txn.Set([]byte(key), value)
		})
		if stderrors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return false, err
		}
		return written, nil
	}
	return false, errors.NewConditionFailedError("put-if-absent",
		fmt.Sprintf("key %q still contended after %d attempts", key, maxConflictRetries))
}

func (s *DataStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *DataStore) Close() error {
	return s.db.Close()
}

// slogLogger routes badger output to slog, dropping debug and info chatter.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Errorf(f string, v ...interface{})   { s.l.Error(fmt.Sprintf(f, v...)) }
func (s slogLogger) Warningf(f string, v ...interface{}) { s.l.Warn(fmt.Sprintf(f, v...)) }
func (slogLogger) Infof(string, ...interface{})          {}
func (slogLogger) Debugf(string, ...interface{})         {}

var (
	_ datastore.Backend           = (*DataStore)(nil)
	_ datastore.ConditionalPutter = (*DataStore)(nil)
)
