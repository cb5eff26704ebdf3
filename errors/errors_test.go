/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("customer", "c-123")

	expected := `customer with key "c-123" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
	if IsDecodeError(err) {
		t.Error("NotFoundError must not match ErrDecode")
	}
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("plan", "p1")

	expected := `plan with key "p1" already exists`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrAlreadyExists) {
		t.Error("AlreadyExistsError should match ErrAlreadyExists")
	}
	if !IsAlreadyExists(err) {
		t.Error("IsAlreadyExists should return true for AlreadyExistsError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "email",
			message:  "invalid format",
			expected: `validation failed for field "email": invalid format`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing required fields",
			expected: "validation failed: missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}
			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestConditionFailedError(t *testing.T) {
	err := NewConditionFailedError("put", "attribute_not_exists(PK)")

	expected := "condition check failed for put operation: attribute_not_exists(PK)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsConditionFailed(err) {
		t.Error("IsConditionFailed should return true for ConditionFailedError")
	}
}

func TestDecodeError(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := NewDecodeError("plan", "plan/p1", cause)

	expected := `decode plan at key "plan/p1": unexpected EOF`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsDecodeError(err) {
		t.Error("IsDecodeError should return true for DecodeError")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("DecodeError should unwrap to its cause")
	}
	if IsNotFound(err) {
		t.Error("DecodeError must never be reported as not found")
	}

	noKey := NewDecodeError("plan", "", cause)
	if noKey.Error() != "decode plan: unexpected EOF" {
		t.Errorf("unexpected message without key: %q", noKey.Error())
	}
}

func TestBackendError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewBackendError("get", "plan/p1", cause)

	if !IsBackendUnavailable(err) {
		t.Error("IsBackendUnavailable should return true for BackendError")
	}
	if !errors.Is(err, cause) {
		t.Error("BackendError should unwrap to its cause")
	}

	if NewBackendError("get", "plan/p1", nil) != nil {
		t.Error("NewBackendError(nil) should return nil")
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewNotFoundError("customer", "123")
	wrapped := fmt.Errorf("database operation failed: %w", original)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("Wrapped NotFoundError should still match ErrNotFound")
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should work with wrapped errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrConditionFailed,
		ErrDecode,
		ErrBackendUnavailable,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
