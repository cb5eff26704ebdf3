/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package codec converts typed entity state to and from the byte values held
// by a key-value backend.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/suparena/tenantstore/errors"
)

// Codec serializes values of type T. Decode must fail with an error matching
// errors.ErrDecode when b does not hold a T, and Decode(Encode(v)) must equal v.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(b []byte) (T, error)
}

// JSON is a strict JSON codec: unknown fields, trailing data and null are
// rejected on decode.
type JSON[T any] struct{}

// NewJSON returns the JSON codec for T.
func NewJSON[T any]() JSON[T] {
	return JSON[T]{}
}

func (JSON[T]) Encode(v T) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: encode %T: %w", v, err)
	}
	return b, nil
}

func (JSON[T]) Decode(b []byte) (T, error) {
	var v T
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		return v, errors.NewDecodeError(typeName[T](), "", fmt.Errorf("unexpected null"))
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		var zero T
		return zero, errors.NewDecodeError(typeName[T](), "", err)
	}
	if dec.More() {
		var zero T
		return zero, errors.NewDecodeError(typeName[T](), "", fmt.Errorf("trailing data after value"))
	}
	return v, nil
}

// Msgpack encodes values with MessagePack, reusing the json struct tags so a
// type can switch codecs without retagging.
type Msgpack[T any] struct{}

// NewMsgpack returns the MessagePack codec for T.
func NewMsgpack[T any]() Msgpack[T] {
	return Msgpack[T]{}
}

func (Msgpack[T]) Encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("codec: encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func (Msgpack[T]) Decode(b []byte) (T, error) {
	var v T
	if len(b) == 0 {
		return v, errors.NewDecodeError(typeName[T](), "", io.ErrUnexpectedEOF)
	}
	if b[0] == msgpackNil {
		return v, errors.NewDecodeError(typeName[T](), "", fmt.Errorf("unexpected nil"))
	}

	r := bytes.NewReader(b)
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	dec.DisallowUnknownFields(true)
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, errors.NewDecodeError(typeName[T](), "", err)
	}
	if r.Len() > 0 {
		var zero T
		return zero, errors.NewDecodeError(typeName[T](), "", fmt.Errorf("trailing data after value"))
	}
	return v, nil
}

const msgpackNil = 0xc0

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

var (
	_ Codec[struct{}] = JSON[struct{}]{}
	_ Codec[struct{}] = Msgpack[struct{}]{}
)
