// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
)

// TaskState is the lifecycle state of a task.
type TaskState string

// Registered task states.
const (
	TaskStateSubmitted                 TaskState = "submitted"
	TaskStateWorking                   TaskState = "working"
	TaskStateInputRequired             TaskState = "input-required"
	TaskStateCompleted                 TaskState = "completed"
	TaskStateCanceled                  TaskState = "canceled"
	TaskStateFailed                    TaskState = "failed"
	TaskStateRejected                  TaskState = "rejected"
	TaskStateAuthRequired              TaskState = "auth-required"
	TaskStateUnknown                   TaskState = "unknown"
	TaskStateTrustVerificationRequired TaskState = "trust-verification-required"
	TaskStatePending                   TaskState = "pending"
	TaskStateSuspended                 TaskState = "suspended"
	TaskStateResumed                   TaskState = "resumed"
	TaskStateNegotiationBidSubmitted   TaskState = "negotiation-bid-submitted"
	TaskStateNegotiationBidLost        TaskState = "negotiation-bid-lost"
	TaskStateNegotiationBidWon         TaskState = "negotiation-bid-won"
)

// Valid reports whether s is a registered task state.
func (s TaskState) Valid() bool {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired,
		TaskStateCompleted, TaskStateCanceled, TaskStateFailed,
		TaskStateRejected, TaskStateAuthRequired, TaskStateUnknown,
		TaskStateTrustVerificationRequired, TaskStatePending,
		TaskStateSuspended, TaskStateResumed,
		TaskStateNegotiationBidSubmitted, TaskStateNegotiationBidLost,
		TaskStateNegotiationBidWon:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state. No further status
// transitions are permitted once a task reaches a terminal state.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed,
		TaskStateRejected, TaskStateNegotiationBidLost:
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler, rejecting values outside
// the closed state set.
func (s *TaskState) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return errInvalidEnumValue("TaskState", string(data))
	}
	if !TaskState(v).Valid() {
		return errInvalidEnumValue("TaskState", v)
	}
	*s = TaskState(v)
	return nil
}

// TaskStatus is a snapshot of a task's state at a point in time.
type TaskStatus struct {
	// State is the lifecycle state.
	State TaskState
	// Message optionally carries agent commentary about the status.
	Message *Message
	// Timestamp is the RFC 3339 time the status was recorded.
	Timestamp string
}

type taskStatusWire struct {
	State     TaskState `json:"state,omitzero"`
	Message   *Message  `json:"message,omitzero"`
	Timestamp *string   `json:"timestamp"`
}

// MarshalJSON implements json.Marshaler.
func (ts *TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		State     TaskState `json:"state"`
		Message   *Message  `json:"message,omitzero"`
		Timestamp string    `json:"timestamp"`
	}{
		State:     ts.State,
		Message:   ts.Message,
		Timestamp: ts.Timestamp,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *TaskStatus) UnmarshalJSON(data []byte) error {
	var wire taskStatusWire
	if err := json.Unmarshal(data, &wire); err != nil {
		if se, ok := AsSchemaError(err); ok {
			return se
		}
		return errShapeMismatch("TaskStatus", "", nil, err)
	}

	var missing []string
	if wire.State == "" {
		missing = append(missing, "state")
	}
	if wire.Timestamp == nil || *wire.Timestamp == "" {
		missing = append(missing, "timestamp")
	}
	if len(missing) > 0 {
		return errShapeMismatch("TaskStatus", "", missing, nil)
	}

	*ts = TaskStatus{
		State:     wire.State,
		Message:   wire.Message,
		Timestamp: *wire.Timestamp,
	}
	return nil
}

// Validate ensures the TaskStatus is valid.
func (ts *TaskStatus) Validate() error {
	if !ts.State.Valid() {
		return errInvalidEnumValue("TaskState", string(ts.State))
	}
	if ts.Timestamp == "" {
		return errShapeMismatch("TaskStatus", "", []string{"timestamp"}, nil)
	}
	if _, err := time.Parse(time.RFC3339, ts.Timestamp); err != nil {
		return errShapeMismatch("TaskStatus", "", nil, err)
	}
	if ts.Message != nil {
		return ts.Message.Validate()
	}
	return nil
}

// taskKind is the constant kind discriminant emitted for tasks.
const taskKind = "task"

// Task is a stateful unit of work processed by an agent within a
// context. It accumulates an append-only message history and a set of
// artifacts produced during execution.
type Task struct {
	// ID identifies the task.
	ID uuid.UUID
	// ContextID is the context the task belongs to.
	ContextID uuid.UUID
	// Status is the current status snapshot.
	Status TaskStatus
	// History is the append-only sequence of exchanged messages.
	History []*Message
	// Artifacts holds the outputs produced so far.
	Artifacts []*Artifact
	// Metadata carries arbitrary task metadata.
	Metadata map[string]any
}

type taskWire struct {
	Kind      string         `json:"kind"`
	ID        uuid.UUID      `json:"id"`
	ContextID uuid.UUID      `json:"contextId"`
	Status    *TaskStatus    `json:"status"`
	History   []*Message     `json:"history,omitzero"`
	Artifacts []*Artifact    `json:"artifacts,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (t *Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string         `json:"kind"`
		ID        uuid.UUID      `json:"id"`
		ContextID uuid.UUID      `json:"contextId"`
		Status    *TaskStatus    `json:"status"`
		History   []*Message     `json:"history,omitzero"`
		Artifacts []*Artifact    `json:"artifacts,omitzero"`
		Metadata  map[string]any `json:"metadata,omitzero"`
	}{
		Kind:      taskKind,
		ID:        t.ID,
		ContextID: t.ContextID,
		Status:    &t.Status,
		History:   t.History,
		Artifacts: t.Artifacts,
		Metadata:  t.Metadata,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Task) UnmarshalJSON(data []byte) error {
	if err := CheckDepth("Task", data); err != nil {
		return err
	}

	var wire taskWire
	if err := json.Unmarshal(data, &wire); err != nil {
		if se, ok := AsSchemaError(err); ok {
			return se
		}
		return errShapeMismatch("Task", "", nil, err)
	}
	if wire.Kind != "" && wire.Kind != taskKind {
		return errUnknownDiscriminant("Task", wire.Kind)
	}

	var missing []string
	if wire.ID == uuid.Nil {
		missing = append(missing, "id")
	}
	if wire.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if wire.Status == nil {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return errShapeMismatch("Task", "", missing, nil)
	}

	*t = Task{
		ID:        wire.ID,
		ContextID: wire.ContextID,
		Status:    *wire.Status,
		History:   wire.History,
		Artifacts: wire.Artifacts,
		Metadata:  wire.Metadata,
	}
	return nil
}

// Validate ensures the Task is valid.
func (t *Task) Validate() error {
	var missing []string
	if t.ID == uuid.Nil {
		missing = append(missing, "id")
	}
	if t.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if len(missing) > 0 {
		return errShapeMismatch("Task", "", missing, nil)
	}
	if err := t.Status.Validate(); err != nil {
		return err
	}
	for _, m := range t.History {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	for _, a := range t.Artifacts {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus transitions the task to a new status. It fails when the
// task is already in a terminal state or when the new state is not a
// registered task state.
func (t *Task) UpdateStatus(status TaskStatus) error {
	if t.Status.State.Terminal() {
		return fmt.Errorf("task %s already in terminal state %q", t.ID, t.Status.State)
	}
	if !status.State.Valid() {
		return errInvalidEnumValue("TaskState", string(status.State))
	}
	if status.Timestamp == "" {
		status.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	t.Status = status
	return nil
}

// AppendMessage appends a message to the task's history.
func (t *Task) AppendMessage(m *Message) {
	t.History = append(t.History, m)
}

// NewTask creates a task in the submitted state from an initial user
// message, generating task and context IDs where the message does not
// already carry them.
func NewTask(message *Message) (*Task, error) {
	if message == nil {
		return nil, errShapeMismatch("Task", "", []string{"message"}, nil)
	}
	if message.ContextID == uuid.Nil {
		message.ContextID = uuid.New()
	}
	if message.TaskID == uuid.Nil {
		message.TaskID = uuid.New()
	}
	if err := message.Validate(); err != nil {
		return nil, err
	}

	return &Task{
		ID:        message.TaskID,
		ContextID: message.ContextID,
		Status: TaskStatus{
			State:     TaskStateSubmitted,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		History: []*Message{message},
	}, nil
}

// statusUpdateKind is the constant kind discriminant emitted for task
// status update events.
const statusUpdateKind = "status-update"

// TaskStatusUpdateEvent notifies subscribers that a task's status has
// changed. Final marks the last event of a stream.
type TaskStatusUpdateEvent struct {
	// TaskID is the task whose status changed.
	TaskID uuid.UUID
	// ContextID is the context the task belongs to.
	ContextID uuid.UUID
	// Status is the new status snapshot.
	Status TaskStatus
	// Final indicates the terminal event of the stream.
	Final bool
	// Metadata carries arbitrary event metadata.
	Metadata map[string]any
}

type taskStatusUpdateEventWire struct {
	Kind      string         `json:"kind"`
	TaskID    uuid.UUID      `json:"taskId"`
	ContextID uuid.UUID      `json:"contextId"`
	Status    *TaskStatus    `json:"status"`
	Final     bool           `json:"final,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (e *TaskStatusUpdateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string         `json:"kind"`
		TaskID    uuid.UUID      `json:"taskId"`
		ContextID uuid.UUID      `json:"contextId"`
		Status    *TaskStatus    `json:"status"`
		Final     bool           `json:"final"`
		Metadata  map[string]any `json:"metadata,omitzero"`
	}{
		Kind:      statusUpdateKind,
		TaskID:    e.TaskID,
		ContextID: e.ContextID,
		Status:    &e.Status,
		Final:     e.Final,
		Metadata:  e.Metadata,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *TaskStatusUpdateEvent) UnmarshalJSON(data []byte) error {
	if err := CheckDepth("TaskStatusUpdateEvent", data); err != nil {
		return err
	}

	var wire taskStatusUpdateEventWire
	if err := json.Unmarshal(data, &wire); err != nil {
		if se, ok := AsSchemaError(err); ok {
			return se
		}
		return errShapeMismatch("TaskStatusUpdateEvent", "", nil, err)
	}
	if wire.Kind != "" && wire.Kind != statusUpdateKind {
		return errUnknownDiscriminant("TaskStatusUpdateEvent", wire.Kind)
	}

	var missing []string
	if wire.TaskID == uuid.Nil {
		missing = append(missing, "taskId")
	}
	if wire.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if wire.Status == nil {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return errShapeMismatch("TaskStatusUpdateEvent", "", missing, nil)
	}

	*e = TaskStatusUpdateEvent{
		TaskID:    wire.TaskID,
		ContextID: wire.ContextID,
		Status:    *wire.Status,
		Final:     wire.Final,
		Metadata:  wire.Metadata,
	}
	return nil
}

// Validate ensures the TaskStatusUpdateEvent is valid.
func (e *TaskStatusUpdateEvent) Validate() error {
	var missing []string
	if e.TaskID == uuid.Nil {
		missing = append(missing, "taskId")
	}
	if e.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if len(missing) > 0 {
		return errShapeMismatch("TaskStatusUpdateEvent", "", missing, nil)
	}
	return e.Status.Validate()
}

// artifactUpdateKind is the constant kind discriminant emitted for task
// artifact update events.
const artifactUpdateKind = "artifact-update"

// TaskArtifactUpdateEvent notifies subscribers that a task produced or
// extended an artifact. Append distinguishes an incremental chunk from
// a full replacement; LastChunk marks the final chunk of the artifact.
type TaskArtifactUpdateEvent struct {
	// TaskID is the task that produced the artifact.
	TaskID uuid.UUID
	// ContextID is the context the task belongs to.
	ContextID uuid.UUID
	// Artifact is the new or incremental artifact data.
	Artifact *Artifact
	// Append indicates the parts extend an existing artifact.
	Append bool
	// LastChunk indicates the final chunk of this artifact.
	LastChunk bool
	// Metadata carries arbitrary event metadata.
	Metadata map[string]any
}

type taskArtifactUpdateEventWire struct {
	Kind      string         `json:"kind"`
	TaskID    uuid.UUID      `json:"taskId"`
	ContextID uuid.UUID      `json:"contextId"`
	Artifact  *Artifact      `json:"artifact"`
	Append    bool           `json:"append,omitzero"`
	LastChunk bool           `json:"lastChunk,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (e *TaskArtifactUpdateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string         `json:"kind"`
		TaskID    uuid.UUID      `json:"taskId"`
		ContextID uuid.UUID      `json:"contextId"`
		Artifact  *Artifact      `json:"artifact"`
		Append    bool           `json:"append,omitzero"`
		LastChunk bool           `json:"lastChunk,omitzero"`
		Metadata  map[string]any `json:"metadata,omitzero"`
	}{
		Kind:      artifactUpdateKind,
		TaskID:    e.TaskID,
		ContextID: e.ContextID,
		Artifact:  e.Artifact,
		Append:    e.Append,
		LastChunk: e.LastChunk,
		Metadata:  e.Metadata,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *TaskArtifactUpdateEvent) UnmarshalJSON(data []byte) error {
	if err := CheckDepth("TaskArtifactUpdateEvent", data); err != nil {
		return err
	}

	var wire taskArtifactUpdateEventWire
	if err := json.Unmarshal(data, &wire); err != nil {
		if se, ok := AsSchemaError(err); ok {
			return se
		}
		return errShapeMismatch("TaskArtifactUpdateEvent", "", nil, err)
	}
	if wire.Kind != "" && wire.Kind != artifactUpdateKind {
		return errUnknownDiscriminant("TaskArtifactUpdateEvent", wire.Kind)
	}

	var missing []string
	if wire.TaskID == uuid.Nil {
		missing = append(missing, "taskId")
	}
	if wire.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if wire.Artifact == nil {
		missing = append(missing, "artifact")
	}
	if len(missing) > 0 {
		return errShapeMismatch("TaskArtifactUpdateEvent", "", missing, nil)
	}

	*e = TaskArtifactUpdateEvent{
		TaskID:    wire.TaskID,
		ContextID: wire.ContextID,
		Artifact:  wire.Artifact,
		Append:    wire.Append,
		LastChunk: wire.LastChunk,
		Metadata:  wire.Metadata,
	}
	return nil
}

// Validate ensures the TaskArtifactUpdateEvent is valid.
func (e *TaskArtifactUpdateEvent) Validate() error {
	var missing []string
	if e.TaskID == uuid.Nil {
		missing = append(missing, "taskId")
	}
	if e.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if e.Artifact == nil {
		missing = append(missing, "artifact")
	}
	if len(missing) > 0 {
		return errShapeMismatch("TaskArtifactUpdateEvent", "", missing, nil)
	}
	return e.Artifact.Validate()
}

// AppendArtifact applies an artifact update event to a task.
//
// A non-append event adds a new artifact, or replaces the one sharing
// its ID. An append event extends the part list of the matching
// artifact; when no artifact with that ID exists yet, the chunk is
// dropped.
func AppendArtifact(ctx context.Context, task *Task, event *TaskArtifactUpdateEvent) error {
	if task == nil || event == nil || event.Artifact == nil {
		return errShapeMismatch("TaskArtifactUpdateEvent", "", []string{"artifact"}, nil)
	}

	logger := slog.Default()
	artifactID := event.Artifact.ArtifactID

	existingIndex := -1
	for i, artifact := range task.Artifacts {
		if artifact.ArtifactID == artifactID {
			existingIndex = i
			break
		}
	}

	switch {
	case !event.Append:
		if existingIndex == -1 {
			logger.InfoContext(ctx, "adding new artifact to task",
				slog.String("artifact_id", artifactID.String()),
				slog.String("task_id", task.ID.String()))
			task.Artifacts = append(task.Artifacts, event.Artifact)
		} else {
			logger.InfoContext(ctx, "replacing artifact on task",
				slog.String("artifact_id", artifactID.String()),
				slog.String("task_id", task.ID.String()))
			task.Artifacts[existingIndex] = event.Artifact
		}
	case existingIndex != -1:
		logger.InfoContext(ctx, "appending parts to artifact",
			slog.String("artifact_id", artifactID.String()),
			slog.String("task_id", task.ID.String()))
		task.Artifacts[existingIndex].Parts = append(task.Artifacts[existingIndex].Parts, event.Artifact.Parts...)
	default:
		// Append chunk for an artifact we have never seen. Drop it.
		logger.InfoContext(ctx, "ignoring append chunk for unknown artifact",
			slog.String("artifact_id", artifactID.String()),
			slog.String("task_id", task.ID.String()))
	}

	return nil
}
