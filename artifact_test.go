// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var testArtifactID = uuid.MustParse("9c4d5e6f-7081-4293-a4b5-c6d7e8f90a1b")

func TestArtifactRoundTrip(t *testing.T) {
	tests := map[string]struct {
		artifact *Artifact
	}{
		"text artifact": {
			artifact: &Artifact{
				ArtifactID:  testArtifactID,
				Name:        "report",
				Description: "quarterly report",
				Parts:       []Part{&TextPart{Text: "hello"}},
			},
		},
		"data artifact with metadata": {
			artifact: &Artifact{
				ArtifactID: testArtifactID,
				Parts:      []Part{&DataPart{Data: map[string]any{"k": "v"}}},
				Metadata:   map[string]any{"source": "agent"},
				Extensions: []string{"https://example.com/ext"},
			},
		},
		"file artifact": {
			artifact: &Artifact{
				ArtifactID: testArtifactID,
				Parts: []Part{&FilePart{File: &FileWithURI{
					Name:     "result.txt",
					MimeType: "text/plain",
					URI:      "https://example.com/result.txt",
				}}},
			},
		},
		"chunked artifact": {
			artifact: &Artifact{
				ArtifactID: testArtifactID,
				Parts:      []Part{&TextPart{Text: "...continued"}},
				Append:     true,
				LastChunk:  true,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(tt.artifact)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}

			var got Artifact
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}

			if diff := cmp.Diff(tt.artifact, &got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArtifactUnmarshalErrors(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantKind SchemaErrorKind
	}{
		"missing artifactId": {
			input:    `{"name":"report","parts":[]}`,
			wantKind: SchemaErrorShapeMismatch,
		},
		"invalid part": {
			input:    `{"artifactId":"9c4d5e6f-7081-4293-a4b5-c6d7e8f90a1b","parts":[{"kind":"bogus"}]}`,
			wantKind: SchemaErrorUnknownDiscriminant,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var a Artifact
			err := json.Unmarshal([]byte(tt.input), &a)
			if err == nil {
				t.Fatal("json.Unmarshal() error = nil, want error")
			}
			se, ok := AsSchemaError(err)
			if !ok {
				t.Fatalf("json.Unmarshal() error = %v, want SchemaError", err)
			}
			if se.Kind != tt.wantKind {
				t.Errorf("SchemaError.Kind = %v, want %v", se.Kind, tt.wantKind)
			}
		})
	}
}

func TestArtifactChunkFlagsDecode(t *testing.T) {
	input := `{"artifactId":"9c4d5e6f-7081-4293-a4b5-c6d7e8f90a1b","parts":[{"kind":"text","text":"chunk"}],"append":true,"lastChunk":true}`

	var a Artifact
	if err := json.Unmarshal([]byte(input), &a); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !a.Append {
		t.Error("Append = false, want true")
	}
	if !a.LastChunk {
		t.Error("LastChunk = false, want true")
	}

	data, err := json.Marshal(&a)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var peek map[string]any
	if err := json.Unmarshal(data, &peek); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if peek["append"] != true || peek["lastChunk"] != true {
		t.Errorf("marshaled artifact = %s, want append and lastChunk flags", data)
	}
}

func TestNewArtifact(t *testing.T) {
	parts := []Part{&TextPart{Text: "hello"}, &DataPart{Data: map[string]any{"k": "v"}}}

	artifact := NewArtifact("out", "combined result", parts)
	if artifact.ArtifactID == uuid.Nil {
		t.Error("NewArtifact() ArtifactID is nil")
	}
	if artifact.Name != "out" {
		t.Errorf("NewArtifact() Name = %v, want out", artifact.Name)
	}
	if artifact.Description != "combined result" {
		t.Errorf("NewArtifact() Description = %v, want combined result", artifact.Description)
	}
	if len(artifact.Parts) != 2 {
		t.Errorf("NewArtifact() Parts length = %v, want 2", len(artifact.Parts))
	}
	if err := artifact.Validate(); err != nil {
		t.Errorf("NewArtifact() created invalid artifact: %v", err)
	}

	other := NewArtifact("out", "combined result", parts)
	if other.ArtifactID == artifact.ArtifactID {
		t.Error("NewArtifact() generated identical artifact IDs")
	}
}

func TestNewTextArtifact(t *testing.T) {
	artifact := NewTextArtifact("greeting", "says hello", "Hello, World!")
	if len(artifact.Parts) != 1 {
		t.Fatalf("NewTextArtifact() Parts length = %v, want 1", len(artifact.Parts))
	}
	tp, ok := artifact.Parts[0].(*TextPart)
	if !ok {
		t.Fatalf("NewTextArtifact() Part = %T, want *TextPart", artifact.Parts[0])
	}
	if tp.Text != "Hello, World!" {
		t.Errorf("NewTextArtifact() Text = %v, want Hello, World!", tp.Text)
	}
}

func TestNewDataArtifact(t *testing.T) {
	data := map[string]any{"key": "value", "number": float64(42)}

	artifact := NewDataArtifact("payload", "structured result", data)
	if len(artifact.Parts) != 1 {
		t.Fatalf("NewDataArtifact() Parts length = %v, want 1", len(artifact.Parts))
	}
	dp, ok := artifact.Parts[0].(*DataPart)
	if !ok {
		t.Fatalf("NewDataArtifact() Part = %T, want *DataPart", artifact.Parts[0])
	}
	if diff := cmp.Diff(data, dp.Data); diff != "" {
		t.Errorf("NewDataArtifact() Data mismatch (-want +got):\n%s", diff)
	}
}
