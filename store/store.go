// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

// Package store provides persistence adapters for protocol entities:
// tasks, contexts, and push notification configs. An in-memory
// implementation backs tests and single-process agents; a GORM-backed
// implementation persists to a relational database.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/go-pebble/pebble"
)

// TaskStore abstracts task persistence so different backends can serve
// the same protocol surface.
type TaskStore interface {
	// Save persists a task, updating it if it already exists.
	Save(ctx context.Context, task *pebble.Task) error

	// Get retrieves a task by ID. Returns pebble.TaskNotFoundError if
	// the task does not exist.
	Get(ctx context.Context, taskID uuid.UUID) (*pebble.Task, error)

	// Delete removes a task. Returns pebble.TaskNotFoundError if the
	// task does not exist.
	Delete(ctx context.Context, taskID uuid.UUID) error

	// List retrieves tasks, optionally filtered by context. A nil
	// context ID returns all tasks.
	List(ctx context.Context, contextID uuid.UUID, limit, offset int) ([]*pebble.Task, error)

	// Count returns the number of stored tasks, optionally filtered by
	// context.
	Count(ctx context.Context, contextID uuid.UUID) (int64, error)

	// Initialize prepares the backend for use.
	Initialize(ctx context.Context) error

	// Close shuts the backend down.
	Close(ctx context.Context) error
}

// ContextStore abstracts context persistence.
type ContextStore interface {
	// Save persists a context, updating it if it already exists.
	Save(ctx context.Context, c *pebble.Context) error

	// Get retrieves a context by ID. Returns pebble.ContextNotFoundError
	// if the context does not exist.
	Get(ctx context.Context, contextID uuid.UUID) (*pebble.Context, error)

	// Delete removes a context. Returns pebble.ContextNotFoundError if
	// the context does not exist.
	Delete(ctx context.Context, contextID uuid.UUID) error

	// List retrieves contexts, optionally filtered by lifecycle status.
	List(ctx context.Context, status pebble.ContextStatus, limit, offset int) ([]*pebble.Context, error)

	// Initialize prepares the backend for use.
	Initialize(ctx context.Context) error

	// Close shuts the backend down.
	Close(ctx context.Context) error
}

// PushNotificationConfigStore abstracts push notification config
// persistence. A task may carry several configs.
type PushNotificationConfigStore interface {
	// Save persists a config for a task.
	Save(ctx context.Context, config *pebble.TaskPushNotificationConfig) error

	// Get retrieves one config of a task.
	Get(ctx context.Context, taskID, configID uuid.UUID) (*pebble.TaskPushNotificationConfig, error)

	// List retrieves every config registered for a task.
	List(ctx context.Context, taskID uuid.UUID) ([]*pebble.TaskPushNotificationConfig, error)

	// Delete removes one config of a task.
	Delete(ctx context.Context, taskID, configID uuid.UUID) error

	// Initialize prepares the backend for use.
	Initialize(ctx context.Context) error

	// Close shuts the backend down.
	Close(ctx context.Context) error
}
