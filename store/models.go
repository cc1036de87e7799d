// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"database/sql/driver"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/go-pebble/pebble"
)

// jsonColumn stores any JSON-encodable value in a single database
// column. Value and Scan go through the protocol codec so custom
// marshalers apply.
type jsonColumn[T any] struct {
	V T
}

// Value implements driver.Valuer.
func (c jsonColumn[T]) Value() (driver.Value, error) {
	encoded, err := json.Marshal(c.V)
	if err != nil {
		return nil, err
	}
	return []byte(encoded), nil
}

// Scan implements sql.Scanner.
func (c *jsonColumn[T]) Scan(value any) error {
	if value == nil {
		var zero T
		c.V = zero
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", value)
	}

	return json.Unmarshal(data, &c.V)
}

// TaskModel is the row shape tasks persist as. IDs are stored in their
// canonical string form; nested structures live in JSON columns.
type TaskModel struct {
	ID        string                        `gorm:"primaryKey;size:36"`
	ContextID string                        `gorm:"size:36;not null;index"`
	Status    jsonColumn[pebble.TaskStatus] `gorm:"type:json"`
	History   jsonColumn[[]*pebble.Message] `gorm:"type:json"`
	Artifacts jsonColumn[[]*pebble.Artifact] `gorm:"type:json"`
	Metadata  jsonColumn[map[string]any]    `gorm:"type:json"`
}

// TableName returns the table name for the TaskModel.
func (TaskModel) TableName() string {
	return "tasks"
}

// BeforeCreate is a GORM hook called before creating a record.
func (m *TaskModel) BeforeCreate(tx *gorm.DB) error {
	return m.validate()
}

// BeforeUpdate is a GORM hook called before updating a record.
func (m *TaskModel) BeforeUpdate(tx *gorm.DB) error {
	return m.validate()
}

func (m *TaskModel) validate() error {
	if m.ID == "" {
		return fmt.Errorf("task id cannot be empty")
	}
	if m.ContextID == "" {
		return fmt.Errorf("task context id cannot be empty")
	}
	return nil
}

// NewTaskModel converts a task to its row shape.
func NewTaskModel(task *pebble.Task) (*TaskModel, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return &TaskModel{
		ID:        task.ID.String(),
		ContextID: task.ContextID.String(),
		Status:    jsonColumn[pebble.TaskStatus]{V: task.Status},
		History:   jsonColumn[[]*pebble.Message]{V: task.History},
		Artifacts: jsonColumn[[]*pebble.Artifact]{V: task.Artifacts},
		Metadata:  jsonColumn[map[string]any]{V: task.Metadata},
	}, nil
}

// ToTask converts a row back to a task.
func (m *TaskModel) ToTask() (*pebble.Task, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}
	contextID, err := uuid.Parse(m.ContextID)
	if err != nil {
		return nil, fmt.Errorf("task context id: %w", err)
	}

	task := &pebble.Task{
		ID:        id,
		ContextID: contextID,
		Status:    m.Status.V,
		History:   m.History.V,
		Artifacts: m.Artifacts.V,
		Metadata:  m.Metadata.V,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// ContextModel is the row shape contexts persist as.
type ContextModel struct {
	ContextID string                     `gorm:"primaryKey;size:36"`
	Status    string                     `gorm:"size:16;index"`
	CreatedAt string                     `gorm:"size:40"`
	UpdatedAt string                     `gorm:"size:40"`
	Body      jsonColumn[pebble.Context] `gorm:"type:json"`
}

// TableName returns the table name for the ContextModel.
func (ContextModel) TableName() string {
	return "contexts"
}

// NewContextModel converts a context to its row shape. The full entity
// lives in the JSON body; status and timestamps are lifted into
// queryable columns.
func NewContextModel(c *pebble.Context) (*ContextModel, error) {
	if c == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &ContextModel{
		ContextID: c.ContextID.String(),
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Body:      jsonColumn[pebble.Context]{V: *c},
	}, nil
}

// ToContext converts a row back to a context.
func (m *ContextModel) ToContext() (*pebble.Context, error) {
	c := m.Body.V
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// PushNotificationConfigModel is the row shape push notification
// configs persist as, keyed by (task, config).
type PushNotificationConfigModel struct {
	TaskID   string                                          `gorm:"primaryKey;size:36"`
	ConfigID string                                          `gorm:"primaryKey;size:36"`
	Body     jsonColumn[pebble.TaskPushNotificationConfig] `gorm:"type:json"`
}

// TableName returns the table name for the PushNotificationConfigModel.
func (PushNotificationConfigModel) TableName() string {
	return "push_notification_configs"
}

// NewPushNotificationConfigModel converts a config to its row shape.
func NewPushNotificationConfigModel(config *pebble.TaskPushNotificationConfig) (*PushNotificationConfigModel, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &PushNotificationConfigModel{
		TaskID:   config.ID.String(),
		ConfigID: config.PushNotificationConfig.ID.String(),
		Body:     jsonColumn[pebble.TaskPushNotificationConfig]{V: *config},
	}, nil
}

// ToConfig converts a row back to a config.
func (m *PushNotificationConfigModel) ToConfig() (*pebble.TaskPushNotificationConfig, error) {
	config := m.Body.V
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
