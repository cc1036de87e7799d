// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// MaxNestingDepth bounds how deeply nested a decoded JSON value may be.
// Wire input is untrusted; open-ended metadata and data maps could
// otherwise drive unbounded recursion during decoding.
const MaxNestingDepth = 64

// SchemaErrorKind classifies a decode failure.
type SchemaErrorKind string

// Schema error kinds.
const (
	// SchemaErrorUnknownDiscriminant indicates the discriminant field is
	// missing or its value names no registered variant.
	SchemaErrorUnknownDiscriminant SchemaErrorKind = "unknown-discriminant"

	// SchemaErrorShapeMismatch indicates the discriminant is recognized
	// but required fields for that variant are absent, mistyped, or a
	// field belonging to another variant is present.
	SchemaErrorShapeMismatch SchemaErrorKind = "shape-mismatch"

	// SchemaErrorInvalidEnumValue indicates a closed enumeration received
	// a value outside its registered set.
	SchemaErrorInvalidEnumValue SchemaErrorKind = "invalid-enum-value"

	// SchemaErrorTooDeep indicates the input exceeds MaxNestingDepth.
	SchemaErrorTooDeep SchemaErrorKind = "too-deep"
)

// SchemaError reports malformed or incomplete wire input detected during
// decoding. It is always recoverable locally and maps to the JSON-RPC
// invalid-params or invalid-request error codes at the dispatch layer.
type SchemaError struct {
	// Kind classifies the failure.
	Kind SchemaErrorKind
	// Entity names the type being decoded, e.g. "Part" or "TaskState".
	Entity string
	// Variant is the recognized discriminant value, for shape mismatches.
	Variant string
	// MissingFields lists required wire fields that were absent.
	MissingFields []string
	// Err is the underlying decode error, if any.
	Err error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Entity, e.Kind)
	if e.Variant != "" {
		fmt.Fprintf(&b, " (variant %q)", e.Variant)
	}
	if len(e.MissingFields) > 0 {
		fmt.Fprintf(&b, ": missing required fields %s", strings.Join(e.MissingFields, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// AsSchemaError reports the SchemaError in err's chain, if any.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func errUnknownDiscriminant(entity, value string) *SchemaError {
	return &SchemaError{
		Kind:    SchemaErrorUnknownDiscriminant,
		Entity:  entity,
		Variant: value,
	}
}

func errShapeMismatch(entity, variant string, missing []string, err error) *SchemaError {
	return &SchemaError{
		Kind:          SchemaErrorShapeMismatch,
		Entity:        entity,
		Variant:       variant,
		MissingFields: missing,
		Err:           err,
	}
}

func errInvalidEnumValue(entity, value string) *SchemaError {
	return &SchemaError{
		Kind:    SchemaErrorInvalidEnumValue,
		Entity:  entity,
		Variant: value,
	}
}

func errTooDeep(entity string) *SchemaError {
	return &SchemaError{
		Kind:   SchemaErrorTooDeep,
		Entity: entity,
	}
}

// CheckDepth verifies that data nests no deeper than MaxNestingDepth,
// returning a too-deep SchemaError otherwise. Decoders call it before
// traversing open-ended maps from untrusted input.
func CheckDepth(entity string, data []byte) error {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	for {
		if _, err := dec.ReadToken(); err != nil {
			if err == io.EOF {
				return nil
			}
			// Malformed JSON is reported by the actual decode that
			// follows; depth checking only guards recursion.
			return nil
		}
		if dec.StackDepth() > MaxNestingDepth {
			return errTooDeep(entity)
		}
	}
}
