/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package rediskv implements datastore.Backend on Redis. Values are stored
// as plain strings without expiry.
package rediskv

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// DataStore is a Backend backed by a Redis client.
type DataStore struct {
	client redis.UniversalClient
	prefix string
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, separated by ':'. Empty means none.
	Prefix string
}

// NewDataStore connects to a single Redis server.
func NewDataStore(opts Options) *DataStore {
	return New(redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), opts.Prefix)
}

// New wraps an existing client. Close closes the client.
func New(client redis.UniversalClient, prefix string) *DataStore {
	return &DataStore{client: client, prefix: prefix}
}

func (r *DataStore) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Ping checks connectivity.
func (r *DataStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get retrieves the value stored at key
func (r *DataStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewNotFoundError("key", key)
	}
	return val, err
}

// Put stores a value with no expiry
func (r *DataStore) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

// PutIfAbsent stores a value with SETNX
func (r *DataStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	return r.client.SetNX(ctx, r.key(key), value, 0).Result()
}

// Delete removes a value
func (r *DataStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close closes the Redis client connection
func (r *DataStore) Close() error {
	return r.client.Close()
}

var (
	_ datastore.Backend           = (*DataStore)(nil)
	_ datastore.ConditionalPutter = (*DataStore)(nil)
)
