// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// Artifact is an output produced by an agent while executing a task.
// Artifacts are identified within their task by ArtifactID and may be
// delivered incrementally across several update events.
type Artifact struct {
	// ArtifactID identifies the artifact within its task.
	ArtifactID uuid.UUID
	// Name is an optional human-readable name.
	Name string
	// Description is an optional human-readable description.
	Description string
	// Parts is the ordered content of the artifact.
	Parts []Part
	// Metadata carries arbitrary artifact metadata.
	Metadata map[string]any
	// Append signals that the parts extend a previously delivered
	// artifact with the same ID.
	Append bool
	// LastChunk signals the final chunk of an incremental delivery.
	LastChunk bool
	// Extensions lists protocol extensions in effect for the artifact.
	Extensions []string
}

type artifactWire struct {
	ArtifactID  uuid.UUID        `json:"artifactId"`
	Name        string           `json:"name,omitzero"`
	Description string           `json:"description,omitzero"`
	Parts       []jsontext.Value `json:"parts,omitzero"`
	Metadata    map[string]any   `json:"metadata,omitzero"`
	Append      bool             `json:"append,omitzero"`
	LastChunk   bool             `json:"lastChunk,omitzero"`
	Extensions  []string         `json:"extensions,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (a *Artifact) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ArtifactID  uuid.UUID      `json:"artifactId"`
		Name        string         `json:"name,omitzero"`
		Description string         `json:"description,omitzero"`
		Parts       []Part         `json:"parts"`
		Metadata    map[string]any `json:"metadata,omitzero"`
		Append      bool           `json:"append,omitzero"`
		LastChunk   bool           `json:"lastChunk,omitzero"`
		Extensions  []string       `json:"extensions,omitzero"`
	}{
		ArtifactID:  a.ArtifactID,
		Name:        a.Name,
		Description: a.Description,
		Parts:       a.Parts,
		Metadata:    a.Metadata,
		Append:      a.Append,
		LastChunk:   a.LastChunk,
		Extensions:  a.Extensions,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	if err := CheckDepth("Artifact", data); err != nil {
		return err
	}

	var wire artifactWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return errShapeMismatch("Artifact", "", nil, err)
	}
	if wire.ArtifactID == uuid.Nil {
		return errShapeMismatch("Artifact", "", []string{"artifactId"}, nil)
	}

	parts, err := unmarshalParts("Artifact", wire.Parts)
	if err != nil {
		return err
	}

	*a = Artifact{
		ArtifactID:  wire.ArtifactID,
		Name:        wire.Name,
		Description: wire.Description,
		Parts:       parts,
		Metadata:    wire.Metadata,
		Append:      wire.Append,
		LastChunk:   wire.LastChunk,
		Extensions:  wire.Extensions,
	}
	return nil
}

// Validate ensures the Artifact is valid.
func (a *Artifact) Validate() error {
	if a.ArtifactID == uuid.Nil {
		return errShapeMismatch("Artifact", "", []string{"artifactId"}, nil)
	}
	for _, p := range a.Parts {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NewArtifact creates an artifact from a list of parts, generating a
// fresh artifact ID.
func NewArtifact(name, description string, parts []Part) *Artifact {
	return &Artifact{
		ArtifactID:  uuid.New(),
		Name:        name,
		Description: description,
		Parts:       parts,
	}
}

// NewTextArtifact creates an artifact containing a single TextPart.
func NewTextArtifact(name, description, text string) *Artifact {
	return NewArtifact(name, description, []Part{&TextPart{Text: text}})
}

// NewDataArtifact creates an artifact containing a single DataPart.
func NewDataArtifact(name, description string, data map[string]any) *Artifact {
	return NewArtifact(name, description, []Part{&DataPart{Data: data}})
}
