/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/datastore/metered"
	"github.com/suparena/tenantstore/internal/config"
)

func roundTrip(t *testing.T, b datastore.Backend) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, b.Put(ctx, "plan/p1", []byte(`{"id":"p1"}`)))
	got, err := b.Get(ctx, "plan/p1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"p1"}`, string(got))
	_, ok := b.(datastore.ConditionalPutter)
	assert.True(t, ok, "local backends support conditional put")
}

func TestOpenLocalBackends(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*config.Config)
	}{
		{"memory", func(c *config.Config) {}},
		{"badger", func(c *config.Config) {
			c.Backend = config.BackendBadger
			c.Badger.InMemory = true
		}},
		{"sqlite", func(c *config.Config) {
			c.Backend = config.BackendSQLite
			c.SQLite.Path = filepath.Join(t.TempDir(), "kv.db")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.cfg(cfg)
			b, err := Open(context.Background(), cfg, nil)
			require.NoError(t, err)
			defer b.Close()
			roundTrip(t, b)
		})
	}
}

func TestOpenMetered(t *testing.T) {
	m, err := metered.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	b, err := Open(context.Background(), config.Default(), m)
	require.NoError(t, err)
	defer b.Close()
	roundTrip(t, b)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations().WithLabelValues("memory", "put", metered.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations().WithLabelValues("memory", "get", metered.ResultOK)))
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "etcd"
	_, err := Open(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unknown backend")
}
