// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// SecuritySchemeType discriminates the variants of the SecurityScheme
// union.
type SecuritySchemeType string

// Registered SecurityScheme discriminant values.
const (
	SecuritySchemeHTTP          SecuritySchemeType = "http"
	SecuritySchemeAPIKey        SecuritySchemeType = "apiKey"
	SecuritySchemeOAuth2        SecuritySchemeType = "oauth2"
	SecuritySchemeOpenIDConnect SecuritySchemeType = "openIdConnect"
	SecuritySchemeMutualTLS     SecuritySchemeType = "mutualTLS"
)

// SecurityScheme describes an authentication mechanism, discriminated by
// its type field. It is consumed by PushNotificationConfig.
type SecurityScheme interface {
	// SchemeType returns the discriminant value of the variant.
	SchemeType() SecuritySchemeType
	// Validate ensures the variant's required fields are populated.
	Validate() error
}

var securitySchemeDecoders = map[SecuritySchemeType]func(data []byte) (SecurityScheme, error){
	SecuritySchemeHTTP:          decodeHTTPAuthSecurityScheme,
	SecuritySchemeAPIKey:        decodeAPIKeySecurityScheme,
	SecuritySchemeOAuth2:        decodeOAuth2SecurityScheme,
	SecuritySchemeOpenIDConnect: decodeOpenIDConnectSecurityScheme,
	SecuritySchemeMutualTLS:     decodeMutualTLSSecurityScheme,
}

// UnmarshalSecurityScheme decodes a security scheme, dispatching on the
// type discriminant.
func UnmarshalSecurityScheme(data []byte) (SecurityScheme, error) {
	if err := CheckDepth("SecurityScheme", data); err != nil {
		return nil, err
	}

	var peek struct {
		Type *SecuritySchemeType `json:"type"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return nil, errShapeMismatch("SecurityScheme", "", nil, err)
	}
	if peek.Type == nil {
		return nil, errUnknownDiscriminant("SecurityScheme", "")
	}

	decode, ok := securitySchemeDecoders[*peek.Type]
	if !ok {
		return nil, errUnknownDiscriminant("SecurityScheme", string(*peek.Type))
	}
	return decode(data)
}

// APIKeyLocation is the location of an API key in HTTP requests.
type APIKeyLocation string

// Valid locations for API keys.
const (
	APIKeyLocationQuery  APIKeyLocation = "query"
	APIKeyLocationHeader APIKeyLocation = "header"
	APIKeyLocationCookie APIKeyLocation = "cookie"
)

// HTTPAuthSecurityScheme describes HTTP authentication per RFC 7235.
type HTTPAuthSecurityScheme struct {
	// Scheme is the HTTP authorization scheme, e.g. "basic" or "bearer".
	Scheme string
	// BearerFormat hints at how the bearer token is formatted.
	BearerFormat string
	// Description describes the scheme.
	Description string
}

var _ SecurityScheme = (*HTTPAuthSecurityScheme)(nil)

// SchemeType implements SecurityScheme.
func (*HTTPAuthSecurityScheme) SchemeType() SecuritySchemeType { return SecuritySchemeHTTP }

// Validate implements SecurityScheme.
func (s *HTTPAuthSecurityScheme) Validate() error {
	if s.Scheme == "" {
		return errShapeMismatch("SecurityScheme", string(SecuritySchemeHTTP), []string{"scheme"}, nil)
	}
	return nil
}

type httpAuthSecuritySchemeWire struct {
	Type         SecuritySchemeType `json:"type"`
	Scheme       *string            `json:"scheme,omitzero"`
	BearerFormat string             `json:"bearerFormat,omitzero"`
	Description  string             `json:"description,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (s *HTTPAuthSecurityScheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(httpAuthSecuritySchemeWire{
		Type:         SecuritySchemeHTTP,
		Scheme:       &s.Scheme,
		BearerFormat: s.BearerFormat,
		Description:  s.Description,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *HTTPAuthSecurityScheme) UnmarshalJSON(data []byte) error {
	decoded, err := decodeHTTPAuthSecurityScheme(data)
	if err != nil {
		return err
	}
	*s = *decoded.(*HTTPAuthSecurityScheme)
	return nil
}

func decodeHTTPAuthSecurityScheme(data []byte) (SecurityScheme, error) {
	var wire httpAuthSecuritySchemeWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeHTTP), nil, err)
	}
	if wire.Scheme == nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeHTTP), []string{"scheme"}, nil)
	}
	return &HTTPAuthSecurityScheme{
		Scheme:       *wire.Scheme,
		BearerFormat: wire.BearerFormat,
		Description:  wire.Description,
	}, nil
}

// APIKeySecurityScheme describes authentication by API key.
type APIKeySecurityScheme struct {
	// Name is the name of the header, query parameter, or cookie.
	Name string
	// In is where the key is carried.
	In APIKeyLocation
	// Description describes the scheme.
	Description string
}

var _ SecurityScheme = (*APIKeySecurityScheme)(nil)

// SchemeType implements SecurityScheme.
func (*APIKeySecurityScheme) SchemeType() SecuritySchemeType { return SecuritySchemeAPIKey }

// Validate implements SecurityScheme.
func (s *APIKeySecurityScheme) Validate() error {
	if s.Name == "" {
		return errShapeMismatch("SecurityScheme", string(SecuritySchemeAPIKey), []string{"name"}, nil)
	}
	switch s.In {
	case APIKeyLocationQuery, APIKeyLocationHeader, APIKeyLocationCookie:
		return nil
	default:
		return errInvalidEnumValue("APIKeyLocation", string(s.In))
	}
}

type apiKeySecuritySchemeWire struct {
	Type        SecuritySchemeType `json:"type"`
	Name        *string            `json:"name,omitzero"`
	In          *APIKeyLocation    `json:"in,omitzero"`
	Description string             `json:"description,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (s *APIKeySecurityScheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(apiKeySecuritySchemeWire{
		Type:        SecuritySchemeAPIKey,
		Name:        &s.Name,
		In:          &s.In,
		Description: s.Description,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *APIKeySecurityScheme) UnmarshalJSON(data []byte) error {
	decoded, err := decodeAPIKeySecurityScheme(data)
	if err != nil {
		return err
	}
	*s = *decoded.(*APIKeySecurityScheme)
	return nil
}

func decodeAPIKeySecurityScheme(data []byte) (SecurityScheme, error) {
	var wire apiKeySecuritySchemeWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeAPIKey), nil, err)
	}
	var missing []string
	if wire.Name == nil {
		missing = append(missing, "name")
	}
	if wire.In == nil {
		missing = append(missing, "in")
	}
	if len(missing) > 0 {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeAPIKey), missing, nil)
	}
	scheme := &APIKeySecurityScheme{
		Name:        *wire.Name,
		In:          *wire.In,
		Description: wire.Description,
	}
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	return scheme, nil
}

// OAuth2SecurityScheme describes OAuth 2.0 authentication.
type OAuth2SecurityScheme struct {
	// Flows holds the supported OAuth 2.0 flow configurations.
	Flows map[string]any
	// Description describes the scheme.
	Description string
}

var _ SecurityScheme = (*OAuth2SecurityScheme)(nil)

// SchemeType implements SecurityScheme.
func (*OAuth2SecurityScheme) SchemeType() SecuritySchemeType { return SecuritySchemeOAuth2 }

// Validate implements SecurityScheme.
func (s *OAuth2SecurityScheme) Validate() error {
	if s.Flows == nil {
		return errShapeMismatch("SecurityScheme", string(SecuritySchemeOAuth2), []string{"flows"}, nil)
	}
	return nil
}

type oauth2SecuritySchemeWire struct {
	Type        SecuritySchemeType `json:"type"`
	Flows       map[string]any     `json:"flows,omitzero"`
	Description string             `json:"description,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (s *OAuth2SecurityScheme) MarshalJSON() ([]byte, error) {
	flows := s.Flows
	if flows == nil {
		flows = map[string]any{}
	}
	return json.Marshal(struct {
		Type        SecuritySchemeType `json:"type"`
		Flows       map[string]any     `json:"flows"`
		Description string             `json:"description,omitzero"`
	}{
		Type:        SecuritySchemeOAuth2,
		Flows:       flows,
		Description: s.Description,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *OAuth2SecurityScheme) UnmarshalJSON(data []byte) error {
	decoded, err := decodeOAuth2SecurityScheme(data)
	if err != nil {
		return err
	}
	*s = *decoded.(*OAuth2SecurityScheme)
	return nil
}

func decodeOAuth2SecurityScheme(data []byte) (SecurityScheme, error) {
	var wire oauth2SecuritySchemeWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeOAuth2), nil, err)
	}
	if wire.Flows == nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeOAuth2), []string{"flows"}, nil)
	}
	return &OAuth2SecurityScheme{
		Flows:       wire.Flows,
		Description: wire.Description,
	}, nil
}

// OpenIDConnectSecurityScheme describes OpenID Connect discovery-based
// authentication.
type OpenIDConnectSecurityScheme struct {
	// OpenIDConnectURL is the discovery endpoint.
	OpenIDConnectURL string
	// Description describes the scheme.
	Description string
}

var _ SecurityScheme = (*OpenIDConnectSecurityScheme)(nil)

// SchemeType implements SecurityScheme.
func (*OpenIDConnectSecurityScheme) SchemeType() SecuritySchemeType {
	return SecuritySchemeOpenIDConnect
}

// Validate implements SecurityScheme.
func (s *OpenIDConnectSecurityScheme) Validate() error {
	if s.OpenIDConnectURL == "" {
		return errShapeMismatch("SecurityScheme", string(SecuritySchemeOpenIDConnect), []string{"openIdConnectUrl"}, nil)
	}
	return nil
}

type openIDConnectSecuritySchemeWire struct {
	Type             SecuritySchemeType `json:"type"`
	OpenIDConnectURL *string            `json:"openIdConnectUrl,omitzero"`
	Description      string             `json:"description,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (s *OpenIDConnectSecurityScheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(openIDConnectSecuritySchemeWire{
		Type:             SecuritySchemeOpenIDConnect,
		OpenIDConnectURL: &s.OpenIDConnectURL,
		Description:      s.Description,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *OpenIDConnectSecurityScheme) UnmarshalJSON(data []byte) error {
	decoded, err := decodeOpenIDConnectSecurityScheme(data)
	if err != nil {
		return err
	}
	*s = *decoded.(*OpenIDConnectSecurityScheme)
	return nil
}

func decodeOpenIDConnectSecurityScheme(data []byte) (SecurityScheme, error) {
	var wire openIDConnectSecuritySchemeWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeOpenIDConnect), nil, err)
	}
	if wire.OpenIDConnectURL == nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeOpenIDConnect), []string{"openIdConnectUrl"}, nil)
	}
	return &OpenIDConnectSecurityScheme{
		OpenIDConnectURL: *wire.OpenIDConnectURL,
		Description:      wire.Description,
	}, nil
}

// MutualTLSSecurityScheme describes mutual TLS authentication.
type MutualTLSSecurityScheme struct {
	// Description describes the scheme.
	Description string
}

var _ SecurityScheme = (*MutualTLSSecurityScheme)(nil)

// SchemeType implements SecurityScheme.
func (*MutualTLSSecurityScheme) SchemeType() SecuritySchemeType { return SecuritySchemeMutualTLS }

// Validate implements SecurityScheme.
func (s *MutualTLSSecurityScheme) Validate() error { return nil }

type mutualTLSSecuritySchemeWire struct {
	Type        SecuritySchemeType `json:"type"`
	Description string             `json:"description,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (s *MutualTLSSecurityScheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(mutualTLSSecuritySchemeWire{
		Type:        SecuritySchemeMutualTLS,
		Description: s.Description,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *MutualTLSSecurityScheme) UnmarshalJSON(data []byte) error {
	decoded, err := decodeMutualTLSSecurityScheme(data)
	if err != nil {
		return err
	}
	*s = *decoded.(*MutualTLSSecurityScheme)
	return nil
}

func decodeMutualTLSSecurityScheme(data []byte) (SecurityScheme, error) {
	var wire mutualTLSSecuritySchemeWire
	if err := json.Unmarshal(data, &wire, json.RejectUnknownMembers(true)); err != nil {
		return nil, errShapeMismatch("SecurityScheme", string(SecuritySchemeMutualTLS), nil, err)
	}
	return &MutualTLSSecurityScheme{Description: wire.Description}, nil
}

// PushNotificationConfig configures how the server notifies the client
// of an update outside of a connected session.
type PushNotificationConfig struct {
	// ID identifies this configuration.
	ID uuid.UUID
	// URL is the endpoint notifications are delivered to.
	URL string
	// Token optionally authenticates notification deliveries.
	Token string
	// Authentication optionally describes the endpoint's auth scheme.
	Authentication SecurityScheme
}

type pushNotificationConfigWire struct {
	ID             uuid.UUID      `json:"id"`
	URL            *string        `json:"url,omitzero"`
	Token          string         `json:"token,omitzero"`
	Authentication jsontext.Value `json:"authentication,omitzero"`
}

// MarshalJSON implements json.Marshaler.
func (c *PushNotificationConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID             uuid.UUID      `json:"id"`
		URL            string         `json:"url"`
		Token          string         `json:"token,omitzero"`
		Authentication SecurityScheme `json:"authentication,omitzero"`
	}{
		ID:             c.ID,
		URL:            c.URL,
		Token:          c.Token,
		Authentication: c.Authentication,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *PushNotificationConfig) UnmarshalJSON(data []byte) error {
	var wire pushNotificationConfigWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return errShapeMismatch("PushNotificationConfig", "", nil, err)
	}
	var missing []string
	if wire.ID == uuid.Nil {
		missing = append(missing, "id")
	}
	if wire.URL == nil {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return errShapeMismatch("PushNotificationConfig", "", missing, nil)
	}

	var auth SecurityScheme
	if wire.Authentication != nil {
		var err error
		if auth, err = UnmarshalSecurityScheme(wire.Authentication); err != nil {
			return err
		}
	}

	*c = PushNotificationConfig{
		ID:             wire.ID,
		URL:            *wire.URL,
		Token:          wire.Token,
		Authentication: auth,
	}
	return nil
}

// Validate ensures the PushNotificationConfig is valid.
func (c *PushNotificationConfig) Validate() error {
	if c.ID == uuid.Nil {
		return errShapeMismatch("PushNotificationConfig", "", []string{"id"}, nil)
	}
	if c.URL == "" {
		return errShapeMismatch("PushNotificationConfig", "", []string{"url"}, nil)
	}
	if c.Authentication != nil {
		return c.Authentication.Validate()
	}
	return nil
}

// PushNotificationAuthenticationInfo describes how a push notification
// endpoint expects to be authenticated against.
type PushNotificationAuthenticationInfo struct {
	// Schemes lists supported authentication schemes, e.g. "Basic",
	// "Bearer".
	Schemes []string `json:"schemes"`
	// Credentials optionally carries credentials the endpoint requires.
	Credentials string `json:"credentials,omitzero"`
}

// TaskPushNotificationConfig associates a push notification
// configuration with a task.
type TaskPushNotificationConfig struct {
	// ID is the task the configuration applies to.
	ID uuid.UUID `json:"id"`
	// PushNotificationConfig is the delivery configuration.
	PushNotificationConfig PushNotificationConfig `json:"pushNotificationConfig"`
}

// Validate ensures the TaskPushNotificationConfig is valid.
func (c *TaskPushNotificationConfig) Validate() error {
	if c.ID == uuid.Nil {
		return errShapeMismatch("TaskPushNotificationConfig", "", []string{"id"}, nil)
	}
	return c.PushNotificationConfig.Validate()
}
