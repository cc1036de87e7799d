// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
)

// ContextStatus is the lifecycle state of a context.
type ContextStatus string

// Registered context states.
const (
	ContextStatusActive    ContextStatus = "active"
	ContextStatusPaused    ContextStatus = "paused"
	ContextStatusCompleted ContextStatus = "completed"
	ContextStatusArchived  ContextStatus = "archived"
)

// Valid reports whether s is a registered context status.
func (s ContextStatus) Valid() bool {
	switch s {
	case ContextStatusActive, ContextStatusPaused, ContextStatusCompleted, ContextStatusArchived:
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler, rejecting values outside
// the closed status set.
func (s *ContextStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return errInvalidEnumValue("ContextStatus", string(data))
	}
	if !ContextStatus(v).Valid() {
		return errInvalidEnumValue("ContextStatus", v)
	}
	*s = ContextStatus(v)
	return nil
}

// contextKind is the constant kind discriminant emitted for contexts.
const contextKind = "context"

// Context is a long-lived grouping of related tasks and the shared
// state they operate over. UpdatedAt never precedes CreatedAt.
type Context struct {
	// ContextID identifies the context.
	ContextID uuid.UUID
	// Tasks lists the IDs of tasks belonging to this context.
	Tasks []uuid.UUID
	// Name is an optional human-readable name.
	Name string
	// Description is an optional human-readable description.
	Description string
	// Role describes the function this context serves.
	Role string
	// CreatedAt is the RFC 3339 creation time.
	CreatedAt string
	// UpdatedAt is the RFC 3339 time of the latest modification.
	UpdatedAt string
	// Status is the lifecycle state.
	Status ContextStatus
	// Tags holds free-form labels for filtering.
	Tags []string
	// Metadata carries arbitrary context metadata.
	Metadata map[string]any
	// ParentContextID optionally links a parent context.
	ParentContextID uuid.UUID
	// ReferenceContextIDs lists related contexts.
	ReferenceContextIDs []uuid.UUID
	// Extensions maps extension URIs to extension data.
	Extensions map[string]any
}

type contextWire struct {
	Kind                string         `json:"kind"`
	ContextID           uuid.UUID      `json:"contextId"`
	Tasks               []uuid.UUID    `json:"tasks,omitzero"`
	Name                string         `json:"name,omitzero"`
	Description         string         `json:"description,omitzero"`
	Role                string         `json:"role,omitzero"`
	CreatedAt           string         `json:"createdAt,omitzero"`
	UpdatedAt           string         `json:"updatedAt,omitzero"`
	Status              ContextStatus  `json:"status,omitzero"`
	Tags                []string       `json:"tags,omitzero"`
	Metadata            map[string]any `json:"metadata,omitzero"`
	ParentContextID     uuid.UUID      `json:"parentContextId"`
	ReferenceContextIDs []uuid.UUID    `json:"referenceContextIds,omitzero"`
	Extensions          map[string]any `json:"extensions,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (c *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind                string         `json:"kind"`
		ContextID           uuid.UUID      `json:"contextId"`
		Tasks               []uuid.UUID    `json:"tasks,omitzero"`
		Name                string         `json:"name,omitzero"`
		Description         string         `json:"description,omitzero"`
		Role                string         `json:"role,omitzero"`
		CreatedAt           string         `json:"createdAt,omitzero"`
		UpdatedAt           string         `json:"updatedAt,omitzero"`
		Status              ContextStatus  `json:"status,omitzero"`
		Tags                []string       `json:"tags,omitzero"`
		Metadata            map[string]any `json:"metadata,omitzero"`
		ParentContextID     uuid.UUID      `json:"parentContextId,omitzero"`
		ReferenceContextIDs []uuid.UUID    `json:"referenceContextIds,omitzero"`
		Extensions          map[string]any `json:"extensions,omitzero"`
	}{
		Kind:                contextKind,
		ContextID:           c.ContextID,
		Tasks:               c.Tasks,
		Name:                c.Name,
		Description:         c.Description,
		Role:                c.Role,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		Status:              c.Status,
		Tags:                c.Tags,
		Metadata:            c.Metadata,
		ParentContextID:     c.ParentContextID,
		ReferenceContextIDs: c.ReferenceContextIDs,
		Extensions:          c.Extensions,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Context) UnmarshalJSON(data []byte) error {
	if err := CheckDepth("Context", data); err != nil {
		return err
	}

	var wire contextWire
	if err := json.Unmarshal(data, &wire); err != nil {
		if se, ok := AsSchemaError(err); ok {
			return se
		}
		return errShapeMismatch("Context", "", nil, err)
	}
	if wire.Kind != "" && wire.Kind != contextKind {
		return errUnknownDiscriminant("Context", wire.Kind)
	}
	if wire.ContextID == uuid.Nil {
		return errShapeMismatch("Context", "", []string{"contextId"}, nil)
	}

	*c = Context{
		ContextID:           wire.ContextID,
		Tasks:               wire.Tasks,
		Name:                wire.Name,
		Description:         wire.Description,
		Role:                wire.Role,
		CreatedAt:           wire.CreatedAt,
		UpdatedAt:           wire.UpdatedAt,
		Status:              wire.Status,
		Tags:                wire.Tags,
		Metadata:            wire.Metadata,
		ParentContextID:     wire.ParentContextID,
		ReferenceContextIDs: wire.ReferenceContextIDs,
		Extensions:          wire.Extensions,
	}
	return nil
}

// Validate ensures the Context is valid. UpdatedAt must not precede
// CreatedAt when both are set.
func (c *Context) Validate() error {
	if c.ContextID == uuid.Nil {
		return errShapeMismatch("Context", "", []string{"contextId"}, nil)
	}
	if c.Status != "" && !c.Status.Valid() {
		return errInvalidEnumValue("ContextStatus", string(c.Status))
	}
	if c.CreatedAt != "" && c.UpdatedAt != "" {
		created, err := time.Parse(time.RFC3339, c.CreatedAt)
		if err != nil {
			return errShapeMismatch("Context", "", nil, err)
		}
		updated, err := time.Parse(time.RFC3339, c.UpdatedAt)
		if err != nil {
			return errShapeMismatch("Context", "", nil, err)
		}
		if updated.Before(created) {
			return errShapeMismatch("Context", "", []string{"updatedAt"}, nil)
		}
	}
	return nil
}

// Touch records a modification time. Timestamps never move backwards:
// a now earlier than the current UpdatedAt is ignored.
func (c *Context) Touch(now time.Time) {
	stamp := now.UTC().Format(time.RFC3339)
	if c.UpdatedAt != "" && stamp < c.UpdatedAt {
		return
	}
	c.UpdatedAt = stamp
}

// AddTask registers a task ID with the context and records the
// modification time. Duplicate IDs are ignored.
func (c *Context) AddTask(taskID uuid.UUID, now time.Time) {
	for _, id := range c.Tasks {
		if id == taskID {
			return
		}
	}
	c.Tasks = append(c.Tasks, taskID)
	c.Touch(now)
}

// NewContext creates an active context with a fresh ID and matching
// creation and update timestamps.
func NewContext() *Context {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Context{
		ContextID: uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Status:    ContextStatusActive,
	}
}
