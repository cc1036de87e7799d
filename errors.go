// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// JSON-RPC 2.0 standard error codes.
const (
	// JSONParseErrorCode indicates the payload is not valid JSON.
	JSONParseErrorCode = -32700
	// InvalidRequestErrorCode indicates a malformed request envelope.
	InvalidRequestErrorCode = -32600
	// MethodNotFoundErrorCode indicates an unknown method name.
	MethodNotFoundErrorCode = -32601
	// InvalidParamsErrorCode indicates params that fail schema decoding.
	InvalidParamsErrorCode = -32602
	// InternalErrorCode indicates an internal processing failure.
	InternalErrorCode = -32603
)

// Protocol-specific error codes.
const (
	// TaskNotFoundErrorCode indicates the referenced task does not exist.
	TaskNotFoundErrorCode = -32001
	// TaskNotCancelableErrorCode indicates the task is in a terminal state.
	TaskNotCancelableErrorCode = -32002
	// ContextNotFoundErrorCode indicates the referenced context does not exist.
	ContextNotFoundErrorCode = -32003
	// ContextNotCancelableErrorCode indicates the context cannot be cleared.
	ContextNotCancelableErrorCode = -32004
	// PushNotificationNotSupportedErrorCode indicates the agent has no push support.
	PushNotificationNotSupportedErrorCode = -32005
	// UnsupportedOperationErrorCode indicates the operation is not available.
	UnsupportedOperationErrorCode = -32006
	// ContentTypeNotSupportedErrorCode indicates an incompatible content type.
	ContentTypeNotSupportedErrorCode = -32007
	// InvalidAgentResponseErrorCode indicates the agent returned a malformed result.
	InvalidAgentResponseErrorCode = -32008
)

// errorMessages maps each registered code to its canonical message.
// The pairing is fixed; handlers attach detail through the data field.
var errorMessages = map[int]string{
	JSONParseErrorCode:                    "Failed to parse JSON payload. Please ensure the request body contains valid JSON syntax. See: https://www.jsonrpc.org/specification#error_object",
	InvalidRequestErrorCode:               "Request payload validation failed. The request structure does not conform to JSON-RPC 2.0 specification. See: https://www.jsonrpc.org/specification#request_object",
	MethodNotFoundErrorCode:               "The requested method is not available on this server. Please check the method name and try again. See API docs: /docs",
	InvalidParamsErrorCode:                "Invalid or missing parameters for the requested method. Please verify parameter types and required fields. See API docs: /docs",
	InternalErrorCode:                     "An internal server error occurred while processing the request. Please try again or contact support if the issue persists. See: /health",
	TaskNotFoundErrorCode:                 "The specified task ID was not found. The task may have been completed, canceled, or expired. Check task status: GET /tasks/{id}",
	TaskNotCancelableErrorCode:            "This task cannot be canceled in its current state. Tasks can only be canceled while pending or running. See task lifecycle: /docs/tasks",
	ContextNotFoundErrorCode:              "The specified context ID was not found. The context may have been deleted or expired. Check context status: GET /contexts/{id}",
	ContextNotCancelableErrorCode:         "This context cannot be canceled in its current state. Contexts can only be canceled while pending or running. See context lifecycle: /docs/contexts",
	PushNotificationNotSupportedErrorCode: "Push notifications are not supported by this server configuration. Please use polling to check task status. See: GET /tasks/{id}",
	UnsupportedOperationErrorCode:         "The requested operation is not supported by this agent or server configuration. See supported operations: /docs/capabilities",
	ContentTypeNotSupportedErrorCode:      "The content type in the request is not supported. Please use application/json or check supported content types. See: /docs/content-types",
	InvalidAgentResponseErrorCode:         "The agent returned an invalid or malformed response. This may indicate an agent configuration issue. See troubleshooting: /docs/troubleshooting",
}

// ErrorMessage returns the canonical message for a registered error
// code, or the empty string for an unknown code.
func ErrorMessage(code int) string {
	return errorMessages[code]
}

// KnownErrorCode reports whether code is a registered error code.
func KnownErrorCode(code int) bool {
	_, ok := errorMessages[code]
	return ok
}

func newError(code int) *JSONRPCError {
	return &JSONRPCError{Code: code, Message: errorMessages[code]}
}

// NewJSONParseError creates a [JSONRPCError] for malformed JSON.
func NewJSONParseError() *JSONRPCError {
	return newError(JSONParseErrorCode)
}

// NewInvalidRequestError creates a [JSONRPCError] for a malformed
// request envelope.
func NewInvalidRequestError() *JSONRPCError {
	return newError(InvalidRequestErrorCode)
}

// NewMethodNotFoundError creates a [JSONRPCError] for an unknown method.
func NewMethodNotFoundError() *JSONRPCError {
	return newError(MethodNotFoundErrorCode)
}

// NewInvalidParamsError creates a [JSONRPCError] for invalid params.
func NewInvalidParamsError() *JSONRPCError {
	return newError(InvalidParamsErrorCode)
}

// NewInternalError creates a [JSONRPCError] for an internal failure.
func NewInternalError() *JSONRPCError {
	return newError(InternalErrorCode)
}

// NewTaskNotFoundError creates a [JSONRPCError] for a missing task.
func NewTaskNotFoundError() *JSONRPCError {
	return newError(TaskNotFoundErrorCode)
}

// NewTaskNotCancelableError creates a [JSONRPCError] for a task in a
// terminal state.
func NewTaskNotCancelableError() *JSONRPCError {
	return newError(TaskNotCancelableErrorCode)
}

// NewContextNotFoundError creates a [JSONRPCError] for a missing context.
func NewContextNotFoundError() *JSONRPCError {
	return newError(ContextNotFoundErrorCode)
}

// NewContextNotCancelableError creates a [JSONRPCError] for a context
// that cannot be cleared.
func NewContextNotCancelableError() *JSONRPCError {
	return newError(ContextNotCancelableErrorCode)
}

// NewPushNotificationNotSupportedError creates a [JSONRPCError] for an
// agent without push notification support.
func NewPushNotificationNotSupportedError() *JSONRPCError {
	return newError(PushNotificationNotSupportedErrorCode)
}

// NewUnsupportedOperationError creates a [JSONRPCError] for an
// unavailable operation.
func NewUnsupportedOperationError() *JSONRPCError {
	return newError(UnsupportedOperationErrorCode)
}

// NewContentTypeNotSupportedError creates a [JSONRPCError] for an
// incompatible content type.
func NewContentTypeNotSupportedError() *JSONRPCError {
	return newError(ContentTypeNotSupportedErrorCode)
}

// NewInvalidAgentResponseError creates a [JSONRPCError] for a
// malformed agent result.
func NewInvalidAgentResponseError() *JSONRPCError {
	return newError(InvalidAgentResponseErrorCode)
}

// TaskNotFoundError reports that a task does not exist.
type TaskNotFoundError struct {
	TaskID uuid.UUID
}

// Error implements the error interface.
func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.TaskID)
}

// TaskNotCancelableError reports that a task is in a terminal state
// and can no longer be canceled.
type TaskNotCancelableError struct {
	TaskID uuid.UUID
	State  TaskState
}

// Error implements the error interface.
func (e *TaskNotCancelableError) Error() string {
	return fmt.Sprintf("task %s in state %q cannot be canceled", e.TaskID, e.State)
}

// ContextNotFoundError reports that a context does not exist.
type ContextNotFoundError struct {
	ContextID uuid.UUID
}

// Error implements the error interface.
func (e *ContextNotFoundError) Error() string {
	return fmt.Sprintf("context %s not found", e.ContextID)
}

// ContextNotCancelableError reports that a context cannot be cleared.
type ContextNotCancelableError struct {
	ContextID uuid.UUID
	Status    ContextStatus
}

// Error implements the error interface.
func (e *ContextNotCancelableError) Error() string {
	return fmt.Sprintf("context %s with status %q cannot be canceled", e.ContextID, e.Status)
}

// AsJSONRPCError maps a Go error onto the registered error code space.
// Typed domain errors map to their dedicated codes; schema errors map
// to invalid params; anything else becomes an internal error without
// leaking detail.
func AsJSONRPCError(err error) *JSONRPCError {
	if err == nil {
		return nil
	}

	var rpcErr *JSONRPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var taskNotFound *TaskNotFoundError
	if errors.As(err, &taskNotFound) {
		return NewTaskNotFoundError().WithData(taskNotFound.Error())
	}
	var taskNotCancelable *TaskNotCancelableError
	if errors.As(err, &taskNotCancelable) {
		return NewTaskNotCancelableError().WithData(taskNotCancelable.Error())
	}
	var contextNotFound *ContextNotFoundError
	if errors.As(err, &contextNotFound) {
		return NewContextNotFoundError().WithData(contextNotFound.Error())
	}
	var contextNotCancelable *ContextNotCancelableError
	if errors.As(err, &contextNotCancelable) {
		return NewContextNotCancelableError().WithData(contextNotCancelable.Error())
	}
	if se, ok := AsSchemaError(err); ok {
		return NewInvalidParamsError().WithData(se.Error())
	}
	return NewInternalError()
}
