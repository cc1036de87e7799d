// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrConfigNotFound reports a push notification config that does not
// exist for the given task.
var ErrConfigNotFound = errors.New("push notification config not found")

// StoreError reports a failed store operation.
type StoreError struct {
	// Op is the operation that failed: save, get, delete, list, count,
	// initialize.
	Op string
	// Entity names the stored entity kind.
	Entity string
	// ID identifies the record involved, when known.
	ID uuid.UUID
	// Err is the underlying failure.
	Err error
}

// Error returns the error message.
func (e *StoreError) Error() string {
	if e.ID == uuid.Nil {
		return fmt.Sprintf("%s store %s failed: %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("%s store %s failed for %s: %v", e.Entity, e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(op, entity string, id uuid.UUID, err error) *StoreError {
	return &StoreError{Op: op, Entity: entity, ID: id, Err: err}
}
