/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package s3kv implements datastore.Backend on Amazon S3 or any
// S3-compatible object store. Each backend key is one object.
package s3kv

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/errors"
)

// Client is the subset of the S3 API used by DataStore. *s3.Client
// satisfies it.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// DataStore stores values as objects under an optional prefix.
type DataStore struct {
	client Client
	bucket string
	prefix string
}

// New wraps a configured client. Prefix is prepended to every object key;
// pass "" for none.
func New(client Client, bucket, prefix string) *DataStore {
	return &DataStore{client: client, bucket: bucket, prefix: prefix}
}

// NewClient builds an S3 client with static credentials. A non-empty
// endpoint selects an S3-compatible service and enables path-style
// addressing.
func NewClient(ctx context.Context, accessKey, secretKey, region, endpoint string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *DataStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *DataStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		if hasCode(err, "NotFound", "NoSuchKey") {
			return nil, errors.NewNotFoundError("key", key)
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *DataStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/octet-stream"),
	})
	return err
}

// PutIfAbsent uses a conditional write (If-None-Match: *). The service
// answers PreconditionFailed when the object exists, or
// ConditionalRequestConflict when another conditional write is in flight.
func (s *DataStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/octet-stream"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if hasCode(err, "PreconditionFailed", "ConditionalRequestConflict") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the object. S3 DeleteObject succeeds for missing keys.
func (s *DataStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	return err
}

func (s *DataStore) Close() error {
	return nil
}

func hasCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !stderrors.As(err, &apiErr) {
		return false
	}
	for _, c := range codes {
		if apiErr.ErrorCode() == c {
			return true
		}
	}
	return false
}

var (
	_ datastore.Backend           = (*DataStore)(nil)
	_ datastore.ConditionalPutter = (*DataStore)(nil)
	_ Client                      = (*s3.Client)(nil)
)
