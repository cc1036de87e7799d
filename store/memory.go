// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"

	"github.com/go-pebble/pebble"
)

// roundTrip deep-copies a value through its JSON form, so callers can
// mutate what they get back without touching stored state.
func roundTrip[T any](v *T) (*T, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InMemoryTaskStore is a map-backed TaskStore guarded by a RWMutex.
// Stored tasks are isolated from callers by deep copy on both save and
// get.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*pebble.Task
}

var _ TaskStore = (*InMemoryTaskStore)(nil)

// NewInMemoryTaskStore creates an empty InMemoryTaskStore.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[uuid.UUID]*pebble.Task),
	}
}

// Save persists a task.
func (s *InMemoryTaskStore) Save(ctx context.Context, task *pebble.Task) error {
	if task == nil {
		return newStoreError("save", "task", uuid.Nil, fmt.Errorf("task cannot be nil"))
	}
	if err := task.Validate(); err != nil {
		return newStoreError("save", "task", task.ID, err)
	}

	stored, err := roundTrip(task)
	if err != nil {
		return newStoreError("save", "task", task.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = stored
	return nil
}

// Get retrieves a task by ID.
func (s *InMemoryTaskStore) Get(ctx context.Context, taskID uuid.UUID) (*pebble.Task, error) {
	s.mu.RLock()
	stored, ok := s.tasks[taskID]
	s.mu.RUnlock()
	if !ok {
		return nil, &pebble.TaskNotFoundError{TaskID: taskID}
	}

	task, err := roundTrip(stored)
	if err != nil {
		return nil, newStoreError("get", "task", taskID, err)
	}
	return task, nil
}

// Delete removes a task.
func (s *InMemoryTaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return &pebble.TaskNotFoundError{TaskID: taskID}
	}
	delete(s.tasks, taskID)
	return nil
}

// List retrieves tasks, optionally filtered by context.
func (s *InMemoryTaskStore) List(ctx context.Context, contextID uuid.UUID, limit, offset int) ([]*pebble.Task, error) {
	s.mu.RLock()
	matched := make([]*pebble.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if contextID != uuid.Nil && t.ContextID != contextID {
			continue
		}
		matched = append(matched, t)
	}
	s.mu.RUnlock()

	if offset > 0 {
		if offset >= len(matched) {
			return nil, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	tasks := make([]*pebble.Task, len(matched))
	for i, t := range matched {
		task, err := roundTrip(t)
		if err != nil {
			return nil, newStoreError("list", "task", t.ID, err)
		}
		tasks[i] = task
	}
	return tasks, nil
}

// Count returns the number of stored tasks, optionally filtered by
// context.
func (s *InMemoryTaskStore) Count(ctx context.Context, contextID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if contextID == uuid.Nil {
		return int64(len(s.tasks)), nil
	}
	var count int64
	for _, t := range s.tasks {
		if t.ContextID == contextID {
			count++
		}
	}
	return count, nil
}

// Initialize prepares the store for use.
func (s *InMemoryTaskStore) Initialize(ctx context.Context) error {
	return nil
}

// Close shuts the store down, dropping all state.
func (s *InMemoryTaskStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[uuid.UUID]*pebble.Task)
	return nil
}

// InMemoryContextStore is a map-backed ContextStore guarded by a
// RWMutex.
type InMemoryContextStore struct {
	mu       sync.RWMutex
	contexts map[uuid.UUID]*pebble.Context
}

var _ ContextStore = (*InMemoryContextStore)(nil)

// NewInMemoryContextStore creates an empty InMemoryContextStore.
func NewInMemoryContextStore() *InMemoryContextStore {
	return &InMemoryContextStore{
		contexts: make(map[uuid.UUID]*pebble.Context),
	}
}

// Save persists a context.
func (s *InMemoryContextStore) Save(ctx context.Context, c *pebble.Context) error {
	if c == nil {
		return newStoreError("save", "context", uuid.Nil, fmt.Errorf("context cannot be nil"))
	}
	if err := c.Validate(); err != nil {
		return newStoreError("save", "context", c.ContextID, err)
	}

	stored, err := roundTrip(c)
	if err != nil {
		return newStoreError("save", "context", c.ContextID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[c.ContextID] = stored
	return nil
}

// Get retrieves a context by ID.
func (s *InMemoryContextStore) Get(ctx context.Context, contextID uuid.UUID) (*pebble.Context, error) {
	s.mu.RLock()
	stored, ok := s.contexts[contextID]
	s.mu.RUnlock()
	if !ok {
		return nil, &pebble.ContextNotFoundError{ContextID: contextID}
	}

	c, err := roundTrip(stored)
	if err != nil {
		return nil, newStoreError("get", "context", contextID, err)
	}
	return c, nil
}

// Delete removes a context.
func (s *InMemoryContextStore) Delete(ctx context.Context, contextID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[contextID]; !ok {
		return &pebble.ContextNotFoundError{ContextID: contextID}
	}
	delete(s.contexts, contextID)
	return nil
}

// List retrieves contexts, optionally filtered by lifecycle status.
func (s *InMemoryContextStore) List(ctx context.Context, status pebble.ContextStatus, limit, offset int) ([]*pebble.Context, error) {
	s.mu.RLock()
	matched := make([]*pebble.Context, 0, len(s.contexts))
	for _, c := range s.contexts {
		if status != "" && c.Status != status {
			continue
		}
		matched = append(matched, c)
	}
	s.mu.RUnlock()

	if offset > 0 {
		if offset >= len(matched) {
			return nil, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	contexts := make([]*pebble.Context, len(matched))
	for i, c := range matched {
		copied, err := roundTrip(c)
		if err != nil {
			return nil, newStoreError("list", "context", c.ContextID, err)
		}
		contexts[i] = copied
	}
	return contexts, nil
}

// Initialize prepares the store for use.
func (s *InMemoryContextStore) Initialize(ctx context.Context) error {
	return nil
}

// Close shuts the store down, dropping all state.
func (s *InMemoryContextStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts = make(map[uuid.UUID]*pebble.Context)
	return nil
}

type configKey struct {
	taskID   uuid.UUID
	configID uuid.UUID
}

// InMemoryPushNotificationConfigStore is a map-backed
// PushNotificationConfigStore guarded by a RWMutex, keyed by
// (task, config) pairs.
type InMemoryPushNotificationConfigStore struct {
	mu      sync.RWMutex
	configs map[configKey]*pebble.TaskPushNotificationConfig
}

var _ PushNotificationConfigStore = (*InMemoryPushNotificationConfigStore)(nil)

// NewInMemoryPushNotificationConfigStore creates an empty
// InMemoryPushNotificationConfigStore.
func NewInMemoryPushNotificationConfigStore() *InMemoryPushNotificationConfigStore {
	return &InMemoryPushNotificationConfigStore{
		configs: make(map[configKey]*pebble.TaskPushNotificationConfig),
	}
}

// Save persists a config for a task.
func (s *InMemoryPushNotificationConfigStore) Save(ctx context.Context, config *pebble.TaskPushNotificationConfig) error {
	if config == nil {
		return newStoreError("save", "push config", uuid.Nil, fmt.Errorf("config cannot be nil"))
	}
	if err := config.Validate(); err != nil {
		return newStoreError("save", "push config", config.ID, err)
	}

	stored, err := roundTrip(config)
	if err != nil {
		return newStoreError("save", "push config", config.ID, err)
	}

	key := configKey{taskID: config.ID, configID: config.PushNotificationConfig.ID}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[key] = stored
	return nil
}

// Get retrieves one config of a task.
func (s *InMemoryPushNotificationConfigStore) Get(ctx context.Context, taskID, configID uuid.UUID) (*pebble.TaskPushNotificationConfig, error) {
	s.mu.RLock()
	stored, ok := s.configs[configKey{taskID: taskID, configID: configID}]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("task %s config %s: %w", taskID, configID, ErrConfigNotFound)
	}

	config, err := roundTrip(stored)
	if err != nil {
		return nil, newStoreError("get", "push config", configID, err)
	}
	return config, nil
}

// List retrieves every config registered for a task.
func (s *InMemoryPushNotificationConfigStore) List(ctx context.Context, taskID uuid.UUID) ([]*pebble.TaskPushNotificationConfig, error) {
	s.mu.RLock()
	matched := make([]*pebble.TaskPushNotificationConfig, 0)
	for key, c := range s.configs {
		if key.taskID == taskID {
			matched = append(matched, c)
		}
	}
	s.mu.RUnlock()

	configs := make([]*pebble.TaskPushNotificationConfig, len(matched))
	for i, c := range matched {
		copied, err := roundTrip(c)
		if err != nil {
			return nil, newStoreError("list", "push config", taskID, err)
		}
		configs[i] = copied
	}
	return configs, nil
}

// Delete removes one config of a task.
func (s *InMemoryPushNotificationConfigStore) Delete(ctx context.Context, taskID, configID uuid.UUID) error {
	key := configKey{taskID: taskID, configID: configID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[key]; !ok {
		return fmt.Errorf("task %s config %s: %w", taskID, configID, ErrConfigNotFound)
	}
	delete(s.configs, key)
	return nil
}

// Initialize prepares the store for use.
func (s *InMemoryPushNotificationConfigStore) Initialize(ctx context.Context) error {
	return nil
}

// Close shuts the store down, dropping all state.
func (s *InMemoryPushNotificationConfigStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = make(map[configKey]*pebble.TaskPushNotificationConfig)
	return nil
}
