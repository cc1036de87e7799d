// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"testing"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestContextRoundTrip(t *testing.T) {
	parentID := uuid.MustParse("1e6f7081-92a3-44b5-86c7-d8e9f0a1b2c3")

	ctx := &Context{
		ContextID:           testContextID,
		Tasks:               []uuid.UUID{testTaskID},
		Name:                "trip planning",
		Description:         "multi-agent trip planning session",
		Role:                "coordinator",
		CreatedAt:           "2026-01-02T03:04:05Z",
		UpdatedAt:           "2026-01-02T04:00:00Z",
		Status:              ContextStatusActive,
		Tags:                []string{"travel"},
		Metadata:            map[string]any{"origin": "web"},
		ParentContextID:     parentID,
		ReferenceContextIDs: []uuid.UUID{parentID},
		Extensions:          map[string]any{"https://example.com/ext": map[string]any{"enabled": true}},
	}

	data, err := json.Marshal(ctx)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var peek map[string]any
	if err := json.Unmarshal(data, &peek); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if peek["kind"] != "context" {
		t.Errorf("kind = %v, want context", peek["kind"])
	}

	var got Context
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(ctx, &got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	t.Run("unset status omitted", func(t *testing.T) {
		minimal := &Context{ContextID: testContextID}

		data, err := json.Marshal(minimal)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		var peek map[string]any
		if err := json.Unmarshal(data, &peek); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		if _, present := peek["status"]; present {
			t.Errorf("marshaled context carries status: %s", data)
		}

		var got Context
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		if diff := cmp.Diff(minimal, &got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestContextUnmarshalErrors(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantKind SchemaErrorKind
	}{
		"wrong kind": {
			input:    `{"kind":"task","contextId":"7a2b3c4d-5e6f-4071-8293-a4b5c6d7e8f9"}`,
			wantKind: SchemaErrorUnknownDiscriminant,
		},
		"missing contextId": {
			input:    `{"kind":"context","name":"orphan"}`,
			wantKind: SchemaErrorShapeMismatch,
		},
		"invalid status": {
			input:    `{"kind":"context","contextId":"7a2b3c4d-5e6f-4071-8293-a4b5c6d7e8f9","status":"dormant"}`,
			wantKind: SchemaErrorInvalidEnumValue,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var c Context
			err := json.Unmarshal([]byte(tt.input), &c)
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

func TestContextValidate(t *testing.T) {
	tests := map[string]struct {
		ctx     Context
		wantErr bool
	}{
		"valid": {
			ctx: Context{
				ContextID: testContextID,
				CreatedAt: "2026-01-02T03:04:05Z",
				UpdatedAt: "2026-01-02T04:00:00Z",
				Status:    ContextStatusActive,
			},
		},
		"equal timestamps": {
			ctx: Context{
				ContextID: testContextID,
				CreatedAt: "2026-01-02T03:04:05Z",
				UpdatedAt: "2026-01-02T03:04:05Z",
			},
		},
		"missing contextId": {
			ctx:     Context{},
			wantErr: true,
		},
		"updatedAt before createdAt": {
			ctx: Context{
				ContextID: testContextID,
				CreatedAt: "2026-01-02T04:00:00Z",
				UpdatedAt: "2026-01-02T03:04:05Z",
			},
			wantErr: true,
		},
		"malformed createdAt": {
			ctx: Context{
				ContextID: testContextID,
				CreatedAt: "yesterday",
				UpdatedAt: "2026-01-02T03:04:05Z",
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.ctx.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Context.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContextTouch(t *testing.T) {
	ctx := &Context{
		ContextID: testContextID,
		UpdatedAt: "2026-01-02T04:00:00Z",
	}

	later := time.Date(2026, 1, 2, 5, 0, 0, 0, time.UTC)
	ctx.Touch(later)
	if ctx.UpdatedAt != "2026-01-02T05:00:00Z" {
		t.Errorf("UpdatedAt = %v, want 2026-01-02T05:00:00Z", ctx.UpdatedAt)
	}

	earlier := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	ctx.Touch(earlier)
	if ctx.UpdatedAt != "2026-01-02T05:00:00Z" {
		t.Errorf("UpdatedAt = %v after earlier Touch, want 2026-01-02T05:00:00Z", ctx.UpdatedAt)
	}
}

func TestContextAddTask(t *testing.T) {
	ctx := &Context{ContextID: testContextID}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	ctx.AddTask(testTaskID, now)
	ctx.AddTask(testTaskID, now)
	if len(ctx.Tasks) != 1 {
		t.Errorf("Tasks length = %v, want 1", len(ctx.Tasks))
	}
	if ctx.UpdatedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("UpdatedAt = %v, want 2026-01-02T03:04:05Z", ctx.UpdatedAt)
	}
}

func TestNewContext(t *testing.T) {
	ctx := NewContext()
	if ctx.ContextID == uuid.Nil {
		t.Error("NewContext() ContextID is nil")
	}
	if ctx.Status != ContextStatusActive {
		t.Errorf("NewContext() Status = %v, want %v", ctx.Status, ContextStatusActive)
	}
	if ctx.CreatedAt == "" || ctx.CreatedAt != ctx.UpdatedAt {
		t.Errorf("NewContext() CreatedAt = %v, UpdatedAt = %v, want equal non-empty stamps", ctx.CreatedAt, ctx.UpdatedAt)
	}
	if err := ctx.Validate(); err != nil {
		t.Errorf("NewContext() created invalid context: %v", err)
	}
}
