// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
)

var testRequestID = uuid.MustParse("52a3b4c5-d6e7-48f9-80a1-b2c3d4e5f607")

func TestParseRequest(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantCode int
	}{
		"valid": {
			input: `{"jsonrpc":"2.0","id":"52a3b4c5-d6e7-48f9-80a1-b2c3d4e5f607","method":"tasks/get","params":{"taskId":"8b3c4d5e-6f70-4182-93a4-b5c6d7e8f901"}}`,
		},
		"malformed json": {
			input:    `{"jsonrpc":"2.0",`,
			wantCode: JSONParseErrorCode,
		},
		"wrong version": {
			input:    `{"jsonrpc":"1.0","id":"52a3b4c5-d6e7-48f9-80a1-b2c3d4e5f607","method":"tasks/get"}`,
			wantCode: InvalidRequestErrorCode,
		},
		"missing method": {
			input:    `{"jsonrpc":"2.0","id":"52a3b4c5-d6e7-48f9-80a1-b2c3d4e5f607"}`,
			wantCode: InvalidRequestErrorCode,
		},
		"missing id": {
			input:    `{"jsonrpc":"2.0","method":"tasks/get"}`,
			wantCode: InvalidRequestErrorCode,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req, rpcErr := ParseRequest([]byte(tt.input))
			if tt.wantCode != 0 {
				if rpcErr == nil {
					t.Fatal("ParseRequest() error = nil, want error")
				}
				if rpcErr.Code != tt.wantCode {
					t.Errorf("ParseRequest() error code = %v, want %v", rpcErr.Code, tt.wantCode)
				}
				if rpcErr.Message != ErrorMessage(tt.wantCode) {
					t.Errorf("ParseRequest() error message = %q, want %q", rpcErr.Message, ErrorMessage(tt.wantCode))
				}
				return
			}
			if rpcErr != nil {
				t.Fatalf("ParseRequest() error = %v", rpcErr)
			}
			if req.ID != testRequestID {
				t.Errorf("ParseRequest() ID = %v, want %v", req.ID, testRequestID)
			}
			if req.Method != MethodTasksGet {
				t.Errorf("ParseRequest() Method = %v, want %v", req.Method, MethodTasksGet)
			}
			if len(req.Params) == 0 {
				t.Error("ParseRequest() Params is empty")
			}
		})
	}
}

func TestJSONRPCResponseValidate(t *testing.T) {
	tests := map[string]struct {
		resp    JSONRPCResponse
		wantErr bool
	}{
		"result only": {
			resp: JSONRPCResponse{
				JSONRPCMessage: NewJSONRPCMessage(testRequestID),
				Result:         map[string]string{"ok": "true"},
			},
		},
		"error only": {
			resp: JSONRPCResponse{
				JSONRPCMessage: NewJSONRPCMessage(testRequestID),
				Error:          NewTaskNotFoundError(),
			},
		},
		"both": {
			resp: JSONRPCResponse{
				JSONRPCMessage: NewJSONRPCMessage(testRequestID),
				Result:         map[string]string{"ok": "true"},
				Error:          NewTaskNotFoundError(),
			},
			wantErr: true,
		},
		"neither": {
			resp: JSONRPCResponse{
				JSONRPCMessage: NewJSONRPCMessage(testRequestID),
			},
			wantErr: true,
		},
		"wrong version": {
			resp: JSONRPCResponse{
				JSONRPCMessage: JSONRPCMessage{JSONRPC: "1.0", ID: testRequestID},
				Result:         map[string]string{"ok": "true"},
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.resp.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("JSONRPCResponse.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJSONRPCErrorWithData(t *testing.T) {
	base := NewInvalidParamsError()
	detailed := base.WithData("missing field: id")

	if detailed == base {
		t.Error("WithData() returned the receiver, want a copy")
	}
	if base.Data != nil {
		t.Errorf("WithData() mutated the receiver: Data = %v", base.Data)
	}
	if detailed.Code != base.Code {
		t.Errorf("WithData() Code = %v, want %v", detailed.Code, base.Code)
	}
	if detailed.Message != base.Message {
		t.Errorf("WithData() Message = %q, want %q", detailed.Message, base.Message)
	}
	if detailed.Data != "missing field: id" {
		t.Errorf("WithData() Data = %v, want missing field: id", detailed.Data)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	resp := NewErrorResponse(testRequestID, NewMethodNotFoundError())

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var got JSONRPCResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.ID != testRequestID {
		t.Errorf("ID = %v, want %v", got.ID, testRequestID)
	}
	if got.Error == nil || got.Error.Code != MethodNotFoundErrorCode {
		t.Errorf("Error = %+v, want code %v", got.Error, MethodNotFoundErrorCode)
	}
}
