/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metered decorates a datastore.Backend with Prometheus metrics.
package metered

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// Operation results recorded in the "result" label.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// Metrics holds the collectors shared by all wrapped backends.
type Metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantstore_backend_operations_total",
			Help: "Backend operations by backend, operation and result",
		}, []string{"backend", "op", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tenantstore_backend_latency_seconds",
			Help:    "Backend operation latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"backend", "op"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.latency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Operations returns the operation counter.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}

// Wrap instruments b under the label name. The result implements
// datastore.ConditionalPutter exactly when b does.
func Wrap(b datastore.Backend, name string, m *Metrics) datastore.Backend {
	base := &Backend{next: b, name: name, m: m}
	if cp, ok := b.(datastore.ConditionalPutter); ok {
		return &ConditionalBackend{Backend: base, cond: cp}
	}
	return base
}

// Backend is an instrumented datastore.Backend.
type Backend struct {
	next datastore.Backend
	name string
	m    *Metrics
}

func (b *Backend) observe(op string, start time.Time, result string) {
	b.m.latency.WithLabelValues(b.name, op).Observe(time.Since(start).Seconds())
	b.m.operations.WithLabelValues(b.name, op, result).Inc()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.IsNotFound(err):
		return ResultNotFound
	default:
		return ResultError
	}
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := b.next.Get(ctx, key)
	b.observe("get", start, resultOf(err))
	return v, err
}

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := b.next.Put(ctx, key, value)
	b.observe("put", start, resultOf(err))
	return err
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := b.next.Delete(ctx, key)
	b.observe("delete", start, resultOf(err))
	return err
}

func (b *Backend) Close() error {
	return b.next.Close()
}

// ConditionalBackend is an instrumented backend with conditional put.
type ConditionalBackend struct {
	*Backend
	cond datastore.ConditionalPutter
}

func (b *ConditionalBackend) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	start := time.Now()
	written, err := b.cond.PutIfAbsent(ctx, key, value)
	result := resultOf(err)
	if err == nil && !written {
		result = ResultConflict
	}
	b.observe("put_if_absent", start, result)
	return written, err
}

var (
	_ datastore.Backend           = (*Backend)(nil)
	_ datastore.ConditionalPutter = (*ConditionalBackend)(nil)
)
