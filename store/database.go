// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/go-pebble/pebble"
)

// DatabaseTaskStore is a GORM-backed TaskStore.
type DatabaseTaskStore struct {
	db          *gorm.DB
	createTable bool
}

var _ TaskStore = (*DatabaseTaskStore)(nil)

// DatabaseTaskStoreConfig holds configuration for DatabaseTaskStore.
type DatabaseTaskStoreConfig struct {
	DB *gorm.DB
	// CreateTable runs AutoMigrate in Initialize.
	CreateTable bool
}

// NewDatabaseTaskStore creates a DatabaseTaskStore.
func NewDatabaseTaskStore(config DatabaseTaskStoreConfig) (*DatabaseTaskStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &DatabaseTaskStore{
		db:          config.DB,
		createTable: config.CreateTable,
	}, nil
}

// Save persists a task to the database.
func (s *DatabaseTaskStore) Save(ctx context.Context, task *pebble.Task) error {
	if task == nil {
		return newStoreError("save", "task", uuid.Nil, fmt.Errorf("task cannot be nil"))
	}

	model, err := NewTaskModel(task)
	if err != nil {
		return newStoreError("save", "task", task.ID, err)
	}
	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return newStoreError("save", "task", task.ID, err)
	}
	return nil
}

// Get retrieves a task by ID.
func (s *DatabaseTaskStore) Get(ctx context.Context, taskID uuid.UUID) (*pebble.Task, error) {
	var model TaskModel
	if err := s.db.WithContext(ctx).Where("id = ?", taskID.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &pebble.TaskNotFoundError{TaskID: taskID}
		}
		return nil, newStoreError("get", "task", taskID, err)
	}
	task, err := model.ToTask()
	if err != nil {
		return nil, newStoreError("get", "task", taskID, err)
	}
	return task, nil
}

// Delete removes a task.
func (s *DatabaseTaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", taskID.String()).Delete(&TaskModel{})
	if result.Error != nil {
		return newStoreError("delete", "task", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &pebble.TaskNotFoundError{TaskID: taskID}
	}
	return nil
}

// List retrieves tasks, optionally filtered by context.
func (s *DatabaseTaskStore) List(ctx context.Context, contextID uuid.UUID, limit, offset int) ([]*pebble.Task, error) {
	db := s.db.WithContext(ctx)
	if contextID != uuid.Nil {
		db = db.Where("context_id = ?", contextID.String())
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}

	var models []TaskModel
	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, newStoreError("list", "task", uuid.Nil, err)
	}

	tasks := make([]*pebble.Task, len(models))
	for i := range models {
		task, err := models[i].ToTask()
		if err != nil {
			return nil, newStoreError("list", "task", uuid.Nil, err)
		}
		tasks[i] = task
	}
	return tasks, nil
}

// Count returns the number of stored tasks, optionally filtered by
// context.
func (s *DatabaseTaskStore) Count(ctx context.Context, contextID uuid.UUID) (int64, error) {
	query := s.db.WithContext(ctx).Model(&TaskModel{})
	if contextID != uuid.Nil {
		query = query.Where("context_id = ?", contextID.String())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, newStoreError("count", "task", uuid.Nil, err)
	}
	return count, nil
}

// Initialize prepares the database, migrating the table when requested.
func (s *DatabaseTaskStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&TaskModel{}); err != nil {
		return newStoreError("initialize", "task", uuid.Nil, err)
	}
	return nil
}

// Close shuts the store down. The connection is owned by the caller.
func (s *DatabaseTaskStore) Close(ctx context.Context) error {
	return nil
}

// Transaction runs fn within a database transaction, passing it a
// store bound to the transaction.
func (s *DatabaseTaskStore) Transaction(ctx context.Context, fn func(TaskStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DatabaseTaskStore{db: tx, createTable: s.createTable})
	})
}

// DatabaseContextStore is a GORM-backed ContextStore.
type DatabaseContextStore struct {
	db          *gorm.DB
	createTable bool
}

var _ ContextStore = (*DatabaseContextStore)(nil)

// DatabaseContextStoreConfig holds configuration for
// DatabaseContextStore.
type DatabaseContextStoreConfig struct {
	DB *gorm.DB
	// CreateTable runs AutoMigrate in Initialize.
	CreateTable bool
}

// NewDatabaseContextStore creates a DatabaseContextStore.
func NewDatabaseContextStore(config DatabaseContextStoreConfig) (*DatabaseContextStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &DatabaseContextStore{
		db:          config.DB,
		createTable: config.CreateTable,
	}, nil
}

// Save persists a context to the database.
func (s *DatabaseContextStore) Save(ctx context.Context, c *pebble.Context) error {
	if c == nil {
		return newStoreError("save", "context", uuid.Nil, fmt.Errorf("context cannot be nil"))
	}

	model, err := NewContextModel(c)
	if err != nil {
		return newStoreError("save", "context", c.ContextID, err)
	}
	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return newStoreError("save", "context", c.ContextID, err)
	}
	return nil
}

// Get retrieves a context by ID.
func (s *DatabaseContextStore) Get(ctx context.Context, contextID uuid.UUID) (*pebble.Context, error) {
	var model ContextModel
	if err := s.db.WithContext(ctx).Where("context_id = ?", contextID.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &pebble.ContextNotFoundError{ContextID: contextID}
		}
		return nil, newStoreError("get", "context", contextID, err)
	}
	c, err := model.ToContext()
	if err != nil {
		return nil, newStoreError("get", "context", contextID, err)
	}
	return c, nil
}

// Delete removes a context.
func (s *DatabaseContextStore) Delete(ctx context.Context, contextID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("context_id = ?", contextID.String()).Delete(&ContextModel{})
	if result.Error != nil {
		return newStoreError("delete", "context", contextID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &pebble.ContextNotFoundError{ContextID: contextID}
	}
	return nil
}

// List retrieves contexts, optionally filtered by lifecycle status.
func (s *DatabaseContextStore) List(ctx context.Context, status pebble.ContextStatus, limit, offset int) ([]*pebble.Context, error) {
	db := s.db.WithContext(ctx)
	if status != "" {
		db = db.Where("status = ?", string(status))
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}

	var models []ContextModel
	if err := db.Order("context_id").Find(&models).Error; err != nil {
		return nil, newStoreError("list", "context", uuid.Nil, err)
	}

	contexts := make([]*pebble.Context, len(models))
	for i := range models {
		c, err := models[i].ToContext()
		if err != nil {
			return nil, newStoreError("list", "context", uuid.Nil, err)
		}
		contexts[i] = c
	}
	return contexts, nil
}

// Initialize prepares the database, migrating the table when requested.
func (s *DatabaseContextStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&ContextModel{}); err != nil {
		return newStoreError("initialize", "context", uuid.Nil, err)
	}
	return nil
}

// Close shuts the store down. The connection is owned by the caller.
func (s *DatabaseContextStore) Close(ctx context.Context) error {
	return nil
}

// DatabasePushNotificationConfigStore is a GORM-backed
// PushNotificationConfigStore.
type DatabasePushNotificationConfigStore struct {
	db          *gorm.DB
	createTable bool
}

var _ PushNotificationConfigStore = (*DatabasePushNotificationConfigStore)(nil)

// DatabasePushNotificationConfigStoreConfig holds configuration for
// DatabasePushNotificationConfigStore.
type DatabasePushNotificationConfigStoreConfig struct {
	DB *gorm.DB
	// CreateTable runs AutoMigrate in Initialize.
	CreateTable bool
}

// NewDatabasePushNotificationConfigStore creates a
// DatabasePushNotificationConfigStore.
func NewDatabasePushNotificationConfigStore(config DatabasePushNotificationConfigStoreConfig) (*DatabasePushNotificationConfigStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &DatabasePushNotificationConfigStore{
		db:          config.DB,
		createTable: config.CreateTable,
	}, nil
}

// Save persists a config for a task.
func (s *DatabasePushNotificationConfigStore) Save(ctx context.Context, config *pebble.TaskPushNotificationConfig) error {
	if config == nil {
		return newStoreError("save", "push config", uuid.Nil, fmt.Errorf("config cannot be nil"))
	}

	model, err := NewPushNotificationConfigModel(config)
	if err != nil {
		return newStoreError("save", "push config", config.ID, err)
	}
	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return newStoreError("save", "push config", config.ID, err)
	}
	return nil
}

// Get retrieves one config of a task.
func (s *DatabasePushNotificationConfigStore) Get(ctx context.Context, taskID, configID uuid.UUID) (*pebble.TaskPushNotificationConfig, error) {
	var model PushNotificationConfigModel
	err := s.db.WithContext(ctx).
		Where("task_id = ? AND config_id = ?", taskID.String(), configID.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s config %s: %w", taskID, configID, ErrConfigNotFound)
		}
		return nil, newStoreError("get", "push config", configID, err)
	}
	config, err := model.ToConfig()
	if err != nil {
		return nil, newStoreError("get", "push config", configID, err)
	}
	return config, nil
}

// List retrieves every config registered for a task.
func (s *DatabasePushNotificationConfigStore) List(ctx context.Context, taskID uuid.UUID) ([]*pebble.TaskPushNotificationConfig, error) {
	var models []PushNotificationConfigModel
	if err := s.db.WithContext(ctx).Where("task_id = ?", taskID.String()).Find(&models).Error; err != nil {
		return nil, newStoreError("list", "push config", taskID, err)
	}

	configs := make([]*pebble.TaskPushNotificationConfig, len(models))
	for i := range models {
		config, err := models[i].ToConfig()
		if err != nil {
			return nil, newStoreError("list", "push config", taskID, err)
		}
		configs[i] = config
	}
	return configs, nil
}

// Delete removes one config of a task.
func (s *DatabasePushNotificationConfigStore) Delete(ctx context.Context, taskID, configID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("task_id = ? AND config_id = ?", taskID.String(), configID.String()).
		Delete(&PushNotificationConfigModel{})
	if result.Error != nil {
		return newStoreError("delete", "push config", configID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task %s config %s: %w", taskID, configID, ErrConfigNotFound)
	}
	return nil
}

// Initialize prepares the database, migrating the table when requested.
func (s *DatabasePushNotificationConfigStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&PushNotificationConfigModel{}); err != nil {
		return newStoreError("initialize", "push config", uuid.Nil, err)
	}
	return nil
}

// Close shuts the store down. The connection is owned by the caller.
func (s *DatabasePushNotificationConfigStore) Close(ctx context.Context) error {
	return nil
}
