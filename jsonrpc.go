// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// JSONRPCVersion is the protocol version carried in every envelope.
const JSONRPCVersion = "2.0"

// JSONRPCMessage is the base structure for all JSON-RPC 2.0 envelopes.
type JSONRPCMessage struct {
	// JSONRPC version, always "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID correlates a request with its response.
	ID uuid.UUID `json:"id"`
}

// NewJSONRPCMessage creates a new [JSONRPCMessage] with the given id.
func NewJSONRPCMessage(id uuid.UUID) JSONRPCMessage {
	return JSONRPCMessage{
		JSONRPC: JSONRPCVersion,
		ID:      id,
	}
}

// JSONRPCRequest is a JSON-RPC 2.0 request envelope. Params is kept
// raw; method-specific decoding happens at dispatch time.
type JSONRPCRequest struct {
	JSONRPCMessage

	// Method identifies the operation to perform.
	Method string `json:"method"`
	// Params carries the method parameters, still encoded.
	Params jsontext.Value `json:"params,omitzero"`
}

// Validate ensures the request envelope is well formed.
func (r *JSONRPCRequest) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return fmt.Errorf("jsonrpc version must be %q, got %q", JSONRPCVersion, r.JSONRPC)
	}
	if r.Method == "" {
		return fmt.Errorf("method must not be empty")
	}
	if r.ID == uuid.Nil {
		return fmt.Errorf("id must not be empty")
	}
	return nil
}

// JSONRPCError is a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	// Code is the error code.
	Code int `json:"code"`
	// Message is the canonical short description for the code.
	Message string `json:"message"`
	// Data carries optional additional error details.
	Data any `json:"data,omitzero"`
}

// Error implements the error interface.
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// WithData returns a copy of the error carrying additional detail.
// The code and canonical message are preserved.
func (e *JSONRPCError) WithData(data any) *JSONRPCError {
	return &JSONRPCError{
		Code:    e.Code,
		Message: e.Message,
		Data:    data,
	}
}

// JSONRPCResponse is a JSON-RPC 2.0 response envelope. Exactly one of
// Result and Error is set.
type JSONRPCResponse struct {
	JSONRPCMessage

	// Result is the method result on success.
	Result any `json:"result,omitzero"`
	// Error is the failure description on error.
	Error *JSONRPCError `json:"error,omitzero"`
}

// Validate ensures the response envelope is well formed: exactly one
// of result and error must be populated.
func (r *JSONRPCResponse) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return fmt.Errorf("jsonrpc version must be %q, got %q", JSONRPCVersion, r.JSONRPC)
	}
	if r.Result != nil && r.Error != nil {
		return fmt.Errorf("response must not carry both result and error")
	}
	if r.Result == nil && r.Error == nil {
		return fmt.Errorf("response must carry a result or an error")
	}
	return nil
}

// NewResponse creates a success response echoing the request id.
func NewResponse(id uuid.UUID, result any) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Result:         result,
	}
}

// NewErrorResponse creates an error response echoing the request id.
func NewErrorResponse(id uuid.UUID, rpcErr *JSONRPCError) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Error:          rpcErr,
	}
}

// ParseRequest decodes a request envelope from raw bytes. Malformed
// JSON yields a parse error; a structurally valid envelope that
// violates JSON-RPC 2.0 yields an invalid request error.
func ParseRequest(data []byte) (*JSONRPCRequest, *JSONRPCError) {
	if err := CheckDepth("JSONRPCRequest", data); err != nil {
		return nil, NewJSONParseError().WithData(err.Error())
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, NewJSONParseError().WithData(err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, NewInvalidRequestError().WithData(err.Error())
	}
	return &req, nil
}
