/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package backend opens the datastore.Backend selected by the configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/datastore/badgerkv"
	"github.com/suparena/tenantstore/datastore/cassandrakv"
	"github.com/suparena/tenantstore/datastore/ddb"
	"github.com/suparena/tenantstore/datastore/metered"
	"github.com/suparena/tenantstore/datastore/mock"
	"github.com/suparena/tenantstore/datastore/rediskv"
	"github.com/suparena/tenantstore/datastore/s3kv"
	"github.com/suparena/tenantstore/datastore/sqlitekv"
	"github.com/suparena/tenantstore/internal/config"
)

// Open connects to the configured backend. When m is non-nil the backend is
// instrumented with it.
func Open(ctx context.Context, cfg *config.Config, m *metered.Metrics) (datastore.Backend, error) {
	b, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	slog.Info("backend opened", "backend", cfg.Backend)
	if m != nil {
		return metered.Wrap(b, cfg.Backend, m), nil
	}
	return b, nil
}

func open(ctx context.Context, cfg *config.Config) (datastore.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return mock.New(), nil

	case config.BackendBadger:
		return badgerkv.Open(badgerkv.Options{
			Dir:      cfg.Badger.Dir,
			InMemory: cfg.Badger.InMemory,
		})

	case config.BackendSQLite:
		return sqlitekv.Open(cfg.SQLite.Path)

	case config.BackendRedis:
		s := rediskv.NewDataStore(rediskv.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	case config.BackendDynamoDB:
		return ddb.NewDynamodbDataStore(ctx, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Region, cfg.DynamoDB.Table)

	case config.BackendS3:
		client, err := s3kv.NewClient(ctx, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Region, cfg.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		return s3kv.New(client, cfg.S3.Bucket, cfg.S3.Prefix), nil

	case config.BackendCassandra:
		return cassandrakv.Open(cassandrakv.Options{
			Hosts:    cfg.Cassandra.Hosts,
			Keyspace: cfg.Cassandra.Keyspace,
			Timeout:  cfg.Cassandra.Timeout,
		})
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
