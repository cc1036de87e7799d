// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// Role identifies the sender of a message.
type Role string

// Registered message roles.
const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// Valid reports whether r is a registered role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleSystem:
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler, rejecting values outside
// the closed role set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errInvalidEnumValue("Role", string(data))
	}
	if !Role(s).Valid() {
		return errInvalidEnumValue("Role", s)
	}
	*r = Role(s)
	return nil
}

// messageKind is the constant kind discriminant emitted for messages.
const messageKind = "message"

// Message is communication content exchanged between agents, users, and
// systems. A message is immutable once sent and forms part of a task's
// append-only history. Its parts sequence is never empty.
type Message struct {
	// MessageID is the identifier created by the message creator.
	MessageID uuid.UUID
	// ContextID is the context the message is associated with.
	ContextID uuid.UUID
	// TaskID is the task the message is related to.
	TaskID uuid.UUID
	// ReferenceTaskIDs lists other tasks this message relates to.
	ReferenceTaskIDs []uuid.UUID
	// Role is the sender role.
	Role Role
	// Parts is the ordered, non-empty content of the message.
	Parts []Part
	// Metadata carries arbitrary message metadata.
	Metadata map[string]any
	// Extensions lists protocol extensions in effect for the message.
	Extensions []string
}

type messageWire struct {
	Kind             string           `json:"kind"`
	MessageID        uuid.UUID        `json:"messageId"`
	ContextID        uuid.UUID        `json:"contextId"`
	TaskID           uuid.UUID        `json:"taskId"`
	ReferenceTaskIDs []uuid.UUID      `json:"referenceTaskIds,omitzero"`
	Role             Role             `json:"role,omitzero"`
	Parts            []jsontext.Value `json:"parts,omitzero"`
	Metadata         map[string]any   `json:"metadata,omitzero"`
	Extensions       []string         `json:"extensions,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (m *Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind             string         `json:"kind"`
		MessageID        uuid.UUID      `json:"messageId"`
		ContextID        uuid.UUID      `json:"contextId"`
		TaskID           uuid.UUID      `json:"taskId"`
		ReferenceTaskIDs []uuid.UUID    `json:"referenceTaskIds,omitzero"`
		Role             Role           `json:"role"`
		Parts            []Part         `json:"parts"`
		Metadata         map[string]any `json:"metadata,omitzero"`
		Extensions       []string       `json:"extensions,omitzero"`
	}{
		Kind:             messageKind,
		MessageID:        m.MessageID,
		ContextID:        m.ContextID,
		TaskID:           m.TaskID,
		ReferenceTaskIDs: m.ReferenceTaskIDs,
		Role:             m.Role,
		Parts:            m.Parts,
		Metadata:         m.Metadata,
		Extensions:       m.Extensions,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	if err := CheckDepth("Message", data); err != nil {
		return err
	}

	var wire messageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		if se, ok := AsSchemaError(err); ok {
			return se
		}
		return errShapeMismatch("Message", "", nil, err)
	}
	if wire.Kind != "" && wire.Kind != messageKind {
		return errUnknownDiscriminant("Message", wire.Kind)
	}

	var missing []string
	if wire.MessageID == uuid.Nil {
		missing = append(missing, "messageId")
	}
	if wire.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if wire.TaskID == uuid.Nil {
		missing = append(missing, "taskId")
	}
	if wire.Role == "" {
		missing = append(missing, "role")
	}
	if len(wire.Parts) == 0 {
		missing = append(missing, "parts")
	}
	if len(missing) > 0 {
		return errShapeMismatch("Message", "", missing, nil)
	}

	parts, err := unmarshalParts("Message", wire.Parts)
	if err != nil {
		return err
	}

	*m = Message{
		MessageID:        wire.MessageID,
		ContextID:        wire.ContextID,
		TaskID:           wire.TaskID,
		ReferenceTaskIDs: wire.ReferenceTaskIDs,
		Role:             wire.Role,
		Parts:            parts,
		Metadata:         wire.Metadata,
		Extensions:       wire.Extensions,
	}
	return nil
}

// Validate ensures the Message is valid.
func (m *Message) Validate() error {
	var missing []string
	if m.MessageID == uuid.Nil {
		missing = append(missing, "messageId")
	}
	if m.ContextID == uuid.Nil {
		missing = append(missing, "contextId")
	}
	if m.TaskID == uuid.Nil {
		missing = append(missing, "taskId")
	}
	if len(m.Parts) == 0 {
		missing = append(missing, "parts")
	}
	if len(missing) > 0 {
		return errShapeMismatch("Message", "", missing, nil)
	}
	if !m.Role.Valid() {
		return errInvalidEnumValue("Role", string(m.Role))
	}
	for _, p := range m.Parts {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NewAgentTextMessage creates an agent message containing a single
// TextPart, generating a fresh message ID.
func NewAgentTextMessage(contextID, taskID uuid.UUID, text string) *Message {
	return newTextMessage(RoleAgent, contextID, taskID, text)
}

// NewUserTextMessage creates a user message containing a single
// TextPart, generating a fresh message ID.
func NewUserTextMessage(contextID, taskID uuid.UUID, text string) *Message {
	return newTextMessage(RoleUser, contextID, taskID, text)
}

func newTextMessage(role Role, contextID, taskID uuid.UUID, text string) *Message {
	return &Message{
		MessageID: uuid.New(),
		ContextID: contextID,
		TaskID:    taskID,
		Role:      role,
		Parts:     []Part{&TextPart{Text: text}},
	}
}

// NewAgentPartsMessage creates an agent message from a list of parts,
// generating a fresh message ID.
func NewAgentPartsMessage(contextID, taskID uuid.UUID, parts []Part) (*Message, error) {
	m := &Message{
		MessageID: uuid.New(),
		ContextID: contextID,
		TaskID:    taskID,
		Role:      RoleAgent,
		Parts:     parts,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetTextParts extracts the text content of every TextPart in parts.
func GetTextParts(parts []Part) []string {
	var texts []string
	for _, p := range parts {
		if tp, ok := p.(*TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return texts
}

// GetDataParts extracts every DataPart in parts.
func GetDataParts(parts []Part) []*DataPart {
	var data []*DataPart
	for _, p := range parts {
		if dp, ok := p.(*DataPart); ok {
			data = append(data, dp)
		}
	}
	return data
}

// GetMessageText joins the text content of the message's TextParts with
// delimiter, returning the empty string when there are none.
func GetMessageText(m *Message, delimiter string) string {
	if m == nil {
		return ""
	}
	return strings.Join(GetTextParts(m.Parts), delimiter)
}
