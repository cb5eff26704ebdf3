/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package cassandrakv implements datastore.Backend on a Cassandra table
//
//	CREATE TABLE <keyspace>.kv (key text PRIMARY KEY, value blob)
//
// Conditional creates are lightweight transactions (IF NOT EXISTS).
package cassandrakv

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/gocql/gocql"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

var identifier = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Options configures the cluster connection.
type Options struct {
	Hosts    []string
	Keyspace string
	// Timeout bounds connection setup and queries. Zero uses the driver default.
	Timeout time.Duration
}

// DataStore is a Backend backed by a gocql session.
type DataStore struct {
	session *gocql.Session
	stmts   statements
}

type statements struct {
	get, put, putIfAbsent, del string
}

func newStatements(keyspace string) statements {
	table := keyspace + ".kv"
	return statements{
		get:         "SELECT value FROM " + table + " WHERE key = ?",
		put:         "INSERT INTO " + table + " (key, value) VALUES (?, ?)",
		putIfAbsent: "INSERT INTO " + table + " (key, value) VALUES (?, ?) IF NOT EXISTS",
		del:         "DELETE FROM " + table + " WHERE key = ?",
	}
}

// Open connects to the cluster and creates the table if needed.
func Open(opts Options) (*DataStore, error) {
	if !identifier.MatchString(opts.Keyspace) {
		return nil, fmt.Errorf("cassandrakv: invalid keyspace %q", opts.Keyspace)
	}
	cluster := gocql.NewCluster(opts.Hosts...)
	cluster.Consistency = gocql.Quorum
	cluster.SerialConsistency = gocql.Serial
	cluster.NumConns = 2
	if opts.Timeout > 0 {
		cluster.ConnectTimeout = opts.Timeout
		cluster.Timeout = opts.Timeout
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("cassandrakv: connect: %w", err)
	}

	ddl := []string{
		"CREATE KEYSPACE IF NOT EXISTS " + opts.Keyspace +
			" WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}",
		"CREATE TABLE IF NOT EXISTS " + opts.Keyspace + ".kv (key text PRIMARY KEY, value blob)",
	}
	for _, stmt := range ddl {
		if err := session.Query(stmt).Exec(); err != nil {
			session.Close()
			return nil, fmt.Errorf("cassandrakv: schema: %w", err)
		}
	}
	return &DataStore{session: session, stmts: newStatements(opts.Keyspace)}, nil
}

func (s *DataStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.session.Query(s.stmts.get, key).WithContext(ctx).Scan(&value)
	if err == gocql.ErrNotFound {
		return nil, errors.NewNotFoundError("key", key)
	}
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (s *DataStore) Put(ctx context.Context, key string, value []byte) error {
	return s.session.Query(s.stmts.put, key, value).WithContext(ctx).Exec()
}

// PutIfAbsent runs INSERT ... IF NOT EXISTS; the [applied] column reports
// whether the row was written.
func (s *DataStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	existing := make(map[string]interface{})
	applied, err := s.session.Query(s.stmts.putIfAbsent, key, value).WithContext(ctx).MapScanCAS(existing)
	if err != nil {
		return false, err
	}
	return applied, nil
}

// Delete removes the row; deleting a missing key is a no-op in CQL.
func (s *DataStore) Delete(ctx context.Context, key string) error {
	return s.session.Query(s.stmts.del, key).WithContext(ctx).Exec()
}

func (s *DataStore) Close() error {
	s.session.Close()
	return nil
}

var (
	_ datastore.Backend           = (*DataStore)(nil)
	_ datastore.ConditionalPutter = (*DataStore)(nil)
)
