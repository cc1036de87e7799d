// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"context"
	"fmt"

	"github.com/go-json-experiment/json"
)

// RPC method names.
const (
	// MethodMessageSend sends a message and returns a task or message.
	MethodMessageSend = "message/send"
	// MethodMessageStream sends a message and subscribes to updates.
	MethodMessageStream = "message/stream"
	// MethodTasksGet retrieves a task.
	MethodTasksGet = "tasks/get"
	// MethodTasksCancel cancels a task.
	MethodTasksCancel = "tasks/cancel"
	// MethodTasksList lists tasks.
	MethodTasksList = "tasks/list"
	// MethodTasksFeedback records feedback about a task.
	MethodTasksFeedback = "tasks/feedback"
	// MethodContextsList lists contexts.
	MethodContextsList = "contexts/list"
	// MethodContextsClear clears a context's accumulated state.
	MethodContextsClear = "contexts/clear"
	// MethodTasksPushNotificationSet sets a push notification config.
	MethodTasksPushNotificationSet = "tasks/pushNotification/set"
	// MethodTasksPushNotificationGet gets a push notification config.
	MethodTasksPushNotificationGet = "tasks/pushNotification/get"
	// MethodTasksResubscribe resubscribes to task updates.
	MethodTasksResubscribe = "tasks/resubscribe"
	// MethodTasksPushNotificationConfigList lists a task's push
	// notification configs.
	MethodTasksPushNotificationConfigList = "tasks/pushNotificationConfig/list"
	// MethodTasksPushNotificationConfigDelete deletes one of a task's
	// push notification configs.
	MethodTasksPushNotificationConfigDelete = "tasks/pushNotificationConfig/delete"
)

// decodeParamsAs decodes raw params strictly into T: unknown members
// are rejected and the decoded value must validate.
func decodeParamsAs[T any, PT interface {
	*T
	Validate() error
}](entity string, raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, errShapeMismatch(entity, "", []string{"params"}, nil)
	}
	if err := CheckDepth(entity, raw); err != nil {
		return nil, err
	}

	var params T
	if err := json.Unmarshal(raw, &params, json.RejectUnknownMembers(true)); err != nil {
		if se, ok := AsSchemaError(err); ok {
			return nil, se
		}
		return nil, errShapeMismatch(entity, "", nil, err)
	}
	if err := PT(&params).Validate(); err != nil {
		return nil, err
	}
	return &params, nil
}

func resultAs[T any](method string) func(any) error {
	return func(result any) error {
		if _, ok := result.(T); !ok {
			return fmt.Errorf("%s: result has type %T", method, result)
		}
		return nil
	}
}

// checkSendResult accepts the message/send result union: a task or a
// direct message reply.
func checkSendResult(method string) func(any) error {
	return func(result any) error {
		switch result.(type) {
		case *Task, *Message:
			return nil
		}
		return fmt.Errorf("%s: result has type %T, want *Task or *Message", method, result)
	}
}

func codeSet(codes ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(codes)+5)
	for _, code := range []int{
		JSONParseErrorCode,
		InvalidRequestErrorCode,
		MethodNotFoundErrorCode,
		InvalidParamsErrorCode,
		InternalErrorCode,
	} {
		set[code] = struct{}{}
	}
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// methodBinding pins a method to its params type, result type, and the
// error codes its handler may legitimately return.
type methodBinding struct {
	decodeParams func(raw []byte) (any, error)
	checkResult  func(result any) error
	errorCodes   map[int]struct{}
}

// methodRegistry binds every registered method at runtime. Unknown
// methods fail dispatch with a method-not-found error.
var methodRegistry = map[string]methodBinding{
	MethodMessageSend: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[MessageSendParams]("MessageSendParams", raw)
		},
		checkResult: checkSendResult(MethodMessageSend),
		errorCodes:  codeSet(),
	},
	MethodMessageStream: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[MessageSendParams]("MessageSendParams", raw)
		},
		checkResult: checkSendResult(MethodMessageStream),
		errorCodes:  codeSet(),
	},
	MethodTasksGet: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[TaskQueryParams]("TaskQueryParams", raw)
		},
		checkResult: resultAs[*Task](MethodTasksGet),
		errorCodes:  codeSet(TaskNotFoundErrorCode),
	},
	MethodTasksCancel: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[TaskIDParams]("TaskIDParams", raw)
		},
		checkResult: resultAs[*Task](MethodTasksCancel),
		errorCodes:  codeSet(TaskNotFoundErrorCode, TaskNotCancelableErrorCode),
	},
	MethodTasksList: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[ListTasksParams]("ListTasksParams", raw)
		},
		checkResult: resultAs[[]*Task](MethodTasksList),
		errorCodes:  codeSet(TaskNotFoundErrorCode, TaskNotCancelableErrorCode),
	},
	MethodTasksFeedback: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[TaskFeedbackParams]("TaskFeedbackParams", raw)
		},
		checkResult: resultAs[map[string]string](MethodTasksFeedback),
		errorCodes:  codeSet(TaskNotFoundErrorCode),
	},
	MethodContextsList: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[ListContextsParams]("ListContextsParams", raw)
		},
		checkResult: resultAs[[]*Context](MethodContextsList),
		errorCodes:  codeSet(ContextNotFoundErrorCode, ContextNotCancelableErrorCode),
	},
	MethodContextsClear: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[ContextIDParams]("ContextIDParams", raw)
		},
		checkResult: resultAs[*Context](MethodContextsClear),
		errorCodes:  codeSet(ContextNotFoundErrorCode, ContextNotCancelableErrorCode),
	},
	MethodTasksPushNotificationSet: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[TaskPushNotificationConfig]("TaskPushNotificationConfig", raw)
		},
		checkResult: resultAs[*TaskPushNotificationConfig](MethodTasksPushNotificationSet),
		errorCodes:  codeSet(PushNotificationNotSupportedErrorCode),
	},
	MethodTasksPushNotificationGet: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[TaskIDParams]("TaskIDParams", raw)
		},
		checkResult: resultAs[*TaskPushNotificationConfig](MethodTasksPushNotificationGet),
		errorCodes:  codeSet(PushNotificationNotSupportedErrorCode),
	},
	MethodTasksResubscribe: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[TaskIDParams]("TaskIDParams", raw)
		},
		checkResult: resultAs[*Task](MethodTasksResubscribe),
		errorCodes:  codeSet(TaskNotFoundErrorCode, TaskNotCancelableErrorCode),
	},
	MethodTasksPushNotificationConfigList: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[ListTaskPushNotificationConfigParams]("ListTaskPushNotificationConfigParams", raw)
		},
		checkResult: resultAs[[]*TaskPushNotificationConfig](MethodTasksPushNotificationConfigList),
		errorCodes:  codeSet(PushNotificationNotSupportedErrorCode),
	},
	MethodTasksPushNotificationConfigDelete: {
		decodeParams: func(raw []byte) (any, error) {
			return decodeParamsAs[DeleteTaskPushNotificationConfigParams]("DeleteTaskPushNotificationConfigParams", raw)
		},
		checkResult: resultAs[*TaskPushNotificationConfig](MethodTasksPushNotificationConfigDelete),
		errorCodes:  codeSet(PushNotificationNotSupportedErrorCode),
	},
}

// RegisteredMethod reports whether method has a dispatch binding.
func RegisteredMethod(method string) bool {
	_, ok := methodRegistry[method]
	return ok
}

// Handler processes one decoded request. Params is a pointer to the
// method's params type. A returned JSONRPCError must use a code
// registered for the method with its canonical message unchanged.
type Handler interface {
	Invoke(ctx context.Context, method string, params any) (any, *JSONRPCError)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, method string, params any) (any, *JSONRPCError)

// Invoke implements Handler.
func (f HandlerFunc) Invoke(ctx context.Context, method string, params any) (any, *JSONRPCError) {
	return f(ctx, method, params)
}

// Dispatch routes a parsed request to the handler, enforcing the
// method's params and result binding.
//
// Schema failures in params become an invalid-params error response;
// an unknown method becomes a method-not-found response. A handler
// that violates its binding — an unregistered error code, an altered
// canonical message, or a result of the wrong type — is a programming
// error and is returned as a Go error rather than serialized.
func Dispatch(ctx context.Context, h Handler, req *JSONRPCRequest) (*JSONRPCResponse, error) {
	binding, ok := methodRegistry[req.Method]
	if !ok {
		return NewErrorResponse(req.ID, NewMethodNotFoundError().WithData(req.Method)), nil
	}

	params, err := binding.decodeParams(req.Params)
	if err != nil {
		return NewErrorResponse(req.ID, NewInvalidParamsError().WithData(err.Error())), nil
	}

	result, rpcErr := h.Invoke(ctx, req.Method, params)
	if rpcErr != nil {
		if _, ok := binding.errorCodes[rpcErr.Code]; !ok {
			return nil, fmt.Errorf("%s: handler returned unregistered error code %d", req.Method, rpcErr.Code)
		}
		if rpcErr.Message != ErrorMessage(rpcErr.Code) {
			return nil, fmt.Errorf("%s: handler altered canonical message for code %d", req.Method, rpcErr.Code)
		}
		return NewErrorResponse(req.ID, rpcErr), nil
	}

	if err := binding.checkResult(result); err != nil {
		return nil, err
	}
	return NewResponse(req.ID, result), nil
}

// DispatchRaw parses a raw request payload and dispatches it,
// serializing the response. Parse and envelope failures become error
// responses; binding violations surface as Go errors.
func DispatchRaw(ctx context.Context, h Handler, data []byte) ([]byte, error) {
	req, rpcErr := ParseRequest(data)
	if rpcErr != nil {
		resp := &JSONRPCResponse{
			JSONRPCMessage: JSONRPCMessage{JSONRPC: JSONRPCVersion},
			Error:          rpcErr,
		}
		return json.Marshal(resp)
	}

	resp, err := Dispatch(ctx, h, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}
