// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/go-json-experiment/json"
)

func TestUnmarshalSecurityScheme(t *testing.T) {
	tests := []struct {
		name string
		json string
		want SecurityScheme
	}{
		{
			name: "http",
			json: `{"type":"http","scheme":"bearer","bearerFormat":"JWT"}`,
			want: &HTTPAuthSecurityScheme{Scheme: "bearer", BearerFormat: "JWT"},
		},
		{
			name: "apiKey",
			json: `{"type":"apiKey","name":"X-API-Key","in":"header"}`,
			want: &APIKeySecurityScheme{Name: "X-API-Key", In: APIKeyLocationHeader},
		},
		{
			name: "oauth2",
			json: `{"type":"oauth2","flows":{"clientCredentials":{"tokenUrl":"https://example.com/token"}}}`,
			want: &OAuth2SecurityScheme{Flows: map[string]any{
				"clientCredentials": map[string]any{"tokenUrl": "https://example.com/token"},
			}},
		},
		{
			name: "openIdConnect",
			json: `{"type":"openIdConnect","openIdConnectUrl":"https://example.com/.well-known/openid-configuration"}`,
			want: &OpenIDConnectSecurityScheme{OpenIDConnectURL: "https://example.com/.well-known/openid-configuration"},
		},
		{
			name: "mutualTLS",
			json: `{"type":"mutualTLS","description":"client certs"}`,
			want: &MutualTLSSecurityScheme{Description: "client certs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalSecurityScheme([]byte(tt.json))
			if err != nil {
				t.Fatalf("UnmarshalSecurityScheme() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("UnmarshalSecurityScheme() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalSecuritySchemeErrors(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantKind SchemaErrorKind
	}{
		{
			name:     "unknown type",
			json:     `{"type":"basic"}`,
			wantKind: SchemaErrorUnknownDiscriminant,
		},
		{
			name:     "missing type",
			json:     `{"scheme":"bearer"}`,
			wantKind: SchemaErrorUnknownDiscriminant,
		},
		{
			name:     "http missing scheme",
			json:     `{"type":"http"}`,
			wantKind: SchemaErrorShapeMismatch,
		},
		{
			name:     "apiKey missing in",
			json:     `{"type":"apiKey","name":"X-API-Key"}`,
			wantKind: SchemaErrorShapeMismatch,
		},
		{
			name:     "apiKey bad location",
			json:     `{"type":"apiKey","name":"X-API-Key","in":"body"}`,
			wantKind: SchemaErrorInvalidEnumValue,
		},
		{
			name:     "apiKey with foreign field",
			json:     `{"type":"apiKey","name":"k","in":"query","scheme":"bearer"}`,
			wantKind: SchemaErrorShapeMismatch,
		},
		{
			name:     "openIdConnect missing url",
			json:     `{"type":"openIdConnect"}`,
			wantKind: SchemaErrorShapeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSecurityScheme([]byte(tt.json))
			if err == nil {
				t.Fatal("UnmarshalSecurityScheme() expected error, got nil")
			}
			se, ok := AsSchemaError(err)
			if !ok {
				t.Fatalf("error = %v, want SchemaError", err)
			}
			if se.Kind != tt.wantKind {
				t.Errorf("SchemaError.Kind = %q, want %q", se.Kind, tt.wantKind)
			}
		})
	}
}

func TestSecuritySchemeRoundTrip(t *testing.T) {
	schemes := []SecurityScheme{
		&HTTPAuthSecurityScheme{Scheme: "bearer", BearerFormat: "JWT", Description: "d"},
		&APIKeySecurityScheme{Name: "X-API-Key", In: APIKeyLocationCookie},
		&OAuth2SecurityScheme{Flows: map[string]any{"implicit": map[string]any{"authorizationUrl": "https://a"}}},
		&OpenIDConnectSecurityScheme{OpenIDConnectURL: "https://example.com/oidc"},
		&MutualTLSSecurityScheme{},
	}

	for _, scheme := range schemes {
		encoded, err := json.Marshal(scheme)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		decoded, err := UnmarshalSecurityScheme(encoded)
		if err != nil {
			t.Fatalf("UnmarshalSecurityScheme(%s) error = %v", encoded, err)
		}
		if diff := cmp.Diff(scheme, decoded); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestPushNotificationConfigRoundTrip(t *testing.T) {
	config := &PushNotificationConfig{
		ID:    uuid.MustParse("0d3a9f6a-2c5e-4a8b-9c1d-7e6f5a4b3c2d"),
		URL:   "https://example.com/hook",
		Token: "secret",
		Authentication: &APIKeySecurityScheme{
			Name: "X-API-Key",
			In:   APIKeyLocationHeader,
		},
	}

	encoded, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded PushNotificationConfig
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(config, &decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPushNotificationConfigValidate(t *testing.T) {
	id := uuid.MustParse("1b2c3d4e-5f60-4718-92a3-b4c5d6e7f809")

	tests := []struct {
		name    string
		config  PushNotificationConfig
		wantErr bool
	}{
		{
			name:   "valid",
			config: PushNotificationConfig{ID: id, URL: "https://example.com/hook"},
		},
		{
			name:    "missing id",
			config:  PushNotificationConfig{URL: "https://example.com/hook"},
			wantErr: true,
		},
		{
			name:    "missing url",
			config:  PushNotificationConfig{ID: id},
			wantErr: true,
		},
		{
			name: "invalid authentication",
			config: PushNotificationConfig{
				ID:             id,
				URL:            "https://example.com/hook",
				Authentication: &APIKeySecurityScheme{In: APIKeyLocationHeader},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
