/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package s3kv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/suparena/tenantstore/errors"
)

// apiError implements smithy.APIError for test assertions.
type apiError struct {
	code string
}

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// mockS3 is an in-memory bucket that honours If-None-Match: *.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte)}
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.IfNoneMatch != nil && *in.IfNoneMatch == "*" {
		if _, exists := m.objects[*in.Key]; exists {
			return nil, &apiError{code: "PreconditionFailed"}
		}
	}
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestGetPutDelete(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	s := New(mock, "bucket", "billing")

	if _, err := s.Get(ctx, "plan/p1"); !errors.IsNotFound(err) {
		t.Fatalf("Get(absent) = %v, want NotFound", err)
	}
	if err := s.Put(ctx, "plan/p1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if _, ok := mock.objects["billing/plan/p1"]; !ok {
		t.Fatalf("object keys = %v, want prefixed key", mock.objects)
	}
	got, err := s.Get(ctx, "plan/p1")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "plan/p1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "plan/p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "plan/p1"); !errors.IsNotFound(err) {
		t.Fatalf("Get after delete = %v", err)
	}
}

func TestPutIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New(newMockS3(), "bucket", "")

	ok, err := s.PutIfAbsent(ctx, "k", []byte("first"))
	if err != nil || !ok {
		t.Fatalf("first = %v, %v", ok, err)
	}
	ok, err = s.PutIfAbsent(ctx, "k", []byte("second"))
	if err != nil || ok {
		t.Fatalf("second = %v, %v", ok, err)
	}
	got, _ := s.Get(ctx, "k")
	if string(got) != "first" {
		t.Fatalf("stored %q", got)
	}
}

func TestPutIfAbsentErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"conditional conflict", &apiError{code: "ConditionalRequestConflict"}, false},
		{"access denied", &apiError{code: "AccessDenied"}, true},
		{"transport", fmt.Errorf("dial tcp: connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockS3()
			mock.putErr = tt.err
			ok, err := New(mock, "bucket", "").PutIfAbsent(ctx, "k", []byte("v"))
			if ok {
				t.Fatal("nothing should be written")
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
