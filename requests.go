// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// MessageSendConfiguration tunes how a message send is processed.
type MessageSendConfiguration struct {
	// AcceptedOutputModes lists the media types the caller can consume.
	AcceptedOutputModes []string `json:"acceptedOutputModes"`
	// Blocking requests that the call wait for a terminal task state.
	Blocking bool `json:"blocking,omitzero"`
	// HistoryLength limits how much history the returned task carries.
	HistoryLength int `json:"historyLength,omitzero"`
	// PushNotificationConfig optionally registers a push target.
	PushNotificationConfig *PushNotificationConfig `json:"pushNotificationConfig,omitzero"`
}

// Validate ensures the MessageSendConfiguration is valid.
func (c MessageSendConfiguration) Validate() error {
	if c.AcceptedOutputModes == nil {
		return errShapeMismatch("MessageSendConfiguration", "", []string{"acceptedOutputModes"}, nil)
	}
	if c.PushNotificationConfig != nil {
		return c.PushNotificationConfig.Validate()
	}
	return nil
}

// MessageSendParams carries the message/send and message/stream
// parameters.
type MessageSendParams struct {
	// Configuration tunes processing.
	Configuration *MessageSendConfiguration `json:"configuration"`
	// Message is the message to send.
	Message *Message `json:"message"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the MessageSendParams is valid.
func (p MessageSendParams) Validate() error {
	var missing []string
	if p.Configuration == nil {
		missing = append(missing, "configuration")
	}
	if p.Message == nil {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return errShapeMismatch("MessageSendParams", "", missing, nil)
	}
	if err := p.Message.Validate(); err != nil {
		return err
	}
	return p.Configuration.Validate()
}

// TaskIDParams identifies a task, for tasks/cancel and
// tasks/resubscribe.
type TaskIDParams struct {
	// TaskID is the target task.
	TaskID uuid.UUID `json:"taskId"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskIDParams is valid.
func (p TaskIDParams) Validate() error {
	if p.TaskID == uuid.Nil {
		return errShapeMismatch("TaskIDParams", "", []string{"taskId"}, nil)
	}
	return nil
}

// TaskQueryParams identifies a task and bounds the history returned
// with it, for tasks/get.
type TaskQueryParams struct {
	// TaskID is the target task.
	TaskID uuid.UUID `json:"taskId"`
	// HistoryLength limits how much history the returned task carries.
	HistoryLength int `json:"historyLength,omitzero"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskQueryParams is valid.
func (p TaskQueryParams) Validate() error {
	if p.TaskID == uuid.Nil {
		return errShapeMismatch("TaskQueryParams", "", []string{"taskId"}, nil)
	}
	if p.HistoryLength < 0 {
		return errShapeMismatch("TaskQueryParams", "", []string{"historyLength"}, nil)
	}
	return nil
}

// ListTasksParams filters a tasks/list call.
type ListTasksParams struct {
	// HistoryLength limits how much history each returned task carries.
	HistoryLength int `json:"historyLength,omitzero"`
	// ContextID optionally restricts the listing to one context.
	ContextID uuid.UUID `json:"contextId,omitzero"`
	// State optionally restricts the listing to one lifecycle state.
	State TaskState `json:"state,omitzero"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the ListTasksParams is valid.
func (p ListTasksParams) Validate() error {
	if p.HistoryLength < 0 {
		return errShapeMismatch("ListTasksParams", "", []string{"historyLength"}, nil)
	}
	if p.State != "" && !p.State.Valid() {
		return errInvalidEnumValue("TaskState", string(p.State))
	}
	return nil
}

// TaskFeedbackParams carries user feedback about a task, for
// tasks/feedback.
type TaskFeedbackParams struct {
	// TaskID is the target task.
	TaskID uuid.UUID `json:"taskId"`
	// Feedback is the free-form feedback text.
	Feedback string `json:"feedback"`
	// Rating is an optional score from 1 to 5.
	Rating int `json:"rating,omitzero"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskFeedbackParams is valid.
func (p TaskFeedbackParams) Validate() error {
	var missing []string
	if p.TaskID == uuid.Nil {
		missing = append(missing, "taskId")
	}
	if p.Feedback == "" {
		missing = append(missing, "feedback")
	}
	if len(missing) > 0 {
		return errShapeMismatch("TaskFeedbackParams", "", missing, nil)
	}
	if p.Rating != 0 && (p.Rating < 1 || p.Rating > 5) {
		return errShapeMismatch("TaskFeedbackParams", "", []string{"rating"}, nil)
	}
	return nil
}

// ContextIDParams identifies a context, for contexts/clear.
type ContextIDParams struct {
	// ContextID is the target context.
	ContextID uuid.UUID `json:"contextId"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the ContextIDParams is valid.
func (p ContextIDParams) Validate() error {
	if p.ContextID == uuid.Nil {
		return errShapeMismatch("ContextIDParams", "", []string{"contextId"}, nil)
	}
	return nil
}

// ListContextsParams filters a contexts/list call.
type ListContextsParams struct {
	// HistoryLength limits how much history each returned context
	// carries.
	HistoryLength int `json:"historyLength,omitzero"`
	// Status optionally restricts the listing to one lifecycle state.
	Status ContextStatus `json:"status,omitzero"`
	// Tags optionally restricts the listing to contexts carrying all
	// of the given tags.
	Tags []string `json:"tags,omitzero"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the ListContextsParams is valid.
func (p ListContextsParams) Validate() error {
	if p.HistoryLength < 0 {
		return errShapeMismatch("ListContextsParams", "", []string{"historyLength"}, nil)
	}
	if p.Status != "" && !p.Status.Valid() {
		return errInvalidEnumValue("ContextStatus", string(p.Status))
	}
	return nil
}

// ListTaskPushNotificationConfigParams identifies the task whose push
// notification configs are listed.
type ListTaskPushNotificationConfigParams struct {
	// TaskID is the target task.
	TaskID uuid.UUID `json:"id"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the ListTaskPushNotificationConfigParams is valid.
func (p ListTaskPushNotificationConfigParams) Validate() error {
	if p.TaskID == uuid.Nil {
		return errShapeMismatch("ListTaskPushNotificationConfigParams", "", []string{"id"}, nil)
	}
	return nil
}

// DeleteTaskPushNotificationConfigParams identifies one push
// notification config of a task for deletion.
type DeleteTaskPushNotificationConfigParams struct {
	// TaskID is the target task.
	TaskID uuid.UUID `json:"id"`
	// PushNotificationConfigID is the config to delete.
	PushNotificationConfigID uuid.UUID `json:"pushNotificationConfigId"`
	// Metadata carries arbitrary request metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the DeleteTaskPushNotificationConfigParams is valid.
func (p DeleteTaskPushNotificationConfigParams) Validate() error {
	var missing []string
	if p.TaskID == uuid.Nil {
		missing = append(missing, "id")
	}
	if p.PushNotificationConfigID == uuid.Nil {
		missing = append(missing, "pushNotificationConfigId")
	}
	if len(missing) > 0 {
		return errShapeMismatch("DeleteTaskPushNotificationConfigParams", "", missing, nil)
	}
	return nil
}

func newRequest(id uuid.UUID, method string, params any) (*JSONRPCRequest, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return &JSONRPCRequest{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Method:         method,
		Params:         jsontext.Value(raw),
	}, nil
}

// NewMessageSendRequest creates a message/send request.
func NewMessageSendRequest(id uuid.UUID, params MessageSendParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodMessageSend, params)
}

// NewMessageStreamRequest creates a message/stream request.
func NewMessageStreamRequest(id uuid.UUID, params MessageSendParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodMessageStream, params)
}

// NewTasksGetRequest creates a tasks/get request.
func NewTasksGetRequest(id uuid.UUID, params TaskQueryParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksGet, params)
}

// NewTasksCancelRequest creates a tasks/cancel request.
func NewTasksCancelRequest(id uuid.UUID, params TaskIDParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksCancel, params)
}

// NewTasksListRequest creates a tasks/list request.
func NewTasksListRequest(id uuid.UUID, params ListTasksParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksList, params)
}

// NewTasksFeedbackRequest creates a tasks/feedback request.
func NewTasksFeedbackRequest(id uuid.UUID, params TaskFeedbackParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksFeedback, params)
}

// NewContextsListRequest creates a contexts/list request.
func NewContextsListRequest(id uuid.UUID, params ListContextsParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodContextsList, params)
}

// NewContextsClearRequest creates a contexts/clear request.
func NewContextsClearRequest(id uuid.UUID, params ContextIDParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodContextsClear, params)
}

// NewTasksPushNotificationSetRequest creates a
// tasks/pushNotificationConfig/set request.
func NewTasksPushNotificationSetRequest(id uuid.UUID, params TaskPushNotificationConfig) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksPushNotificationSet, params)
}

// NewTasksPushNotificationGetRequest creates a
// tasks/pushNotificationConfig/get request.
func NewTasksPushNotificationGetRequest(id uuid.UUID, params TaskIDParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksPushNotificationGet, params)
}

// NewTasksResubscribeRequest creates a tasks/resubscribe request.
func NewTasksResubscribeRequest(id uuid.UUID, params TaskIDParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksResubscribe, params)
}

// NewTasksPushNotificationConfigListRequest creates a
// tasks/pushNotificationConfig/list request.
func NewTasksPushNotificationConfigListRequest(id uuid.UUID, params ListTaskPushNotificationConfigParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksPushNotificationConfigList, params)
}

// NewTasksPushNotificationConfigDeleteRequest creates a
// tasks/pushNotificationConfig/delete request.
func NewTasksPushNotificationConfigDeleteRequest(id uuid.UUID, params DeleteTaskPushNotificationConfigParams) (*JSONRPCRequest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newRequest(id, MethodTasksPushNotificationConfigDelete, params)
}
