// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package ap2

import (
	"fmt"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/go-pebble/pebble"
)

// Data keys under which payment structures travel inside a DataPart's
// data map.
const (
	IntentMandateDataKey     = "ap2.mandates.IntentMandate"
	CartMandateDataKey       = "ap2.mandates.CartMandate"
	PaymentMandateDataKey    = "ap2.mandates.PaymentMandate"
	ContactAddressDataKey    = "contact_picker.ContactAddress"
	PaymentMethodDataDataKey = "payment_request.PaymentMethodData"
)

// IntentMandate represents the user's purchase intent, confirmed in
// natural language before any cart exists.
type IntentMandate struct {
	// UserCartConfirmationRequired forces the user to confirm the cart
	// before purchase. It must be true when the mandate is unsigned.
	UserCartConfirmationRequired bool `json:"userCartConfirmationRequired"`
	// NaturalLanguageDescription is the user-confirmed description of
	// the intent.
	NaturalLanguageDescription string `json:"naturalLanguageDescription"`
	// Merchants optionally restricts which merchants may fulfill the
	// intent.
	Merchants []string `json:"merchants,omitzero"`
	// SKUs optionally restricts the allowed product SKUs.
	SKUs []string `json:"skus,omitzero"`
	// RequiresRefundability restricts fulfillment to refundable items.
	RequiresRefundability bool `json:"requiresRefundability,omitzero"`
	// IntentExpiry is when the mandate expires, in ISO 8601 format.
	IntentExpiry string `json:"intentExpiry"`
}

// Validate ensures the IntentMandate is valid.
func (m *IntentMandate) Validate() error {
	if m.NaturalLanguageDescription == "" {
		return fmt.Errorf("intent mandate description must not be empty")
	}
	if m.IntentExpiry == "" {
		return fmt.Errorf("intent mandate expiry must not be empty")
	}
	if _, err := time.Parse(time.RFC3339, m.IntentExpiry); err != nil {
		return fmt.Errorf("intent mandate expiry: %w", err)
	}
	return nil
}

// Expired reports whether the mandate's expiry has passed at now.
func (m *IntentMandate) Expired(now time.Time) (bool, error) {
	expiry, err := time.Parse(time.RFC3339, m.IntentExpiry)
	if err != nil {
		return false, fmt.Errorf("intent mandate expiry: %w", err)
	}
	return now.After(expiry), nil
}

// CartContents is the detailed content of a cart. The merchant signs
// this object to produce a CartMandate.
type CartContents struct {
	// ID identifies the cart.
	ID string `json:"id"`
	// UserCartConfirmationRequired forces user confirmation of the
	// cart before purchase.
	UserCartConfirmationRequired bool `json:"userCartConfirmationRequired"`
	// PaymentRequest carries the items, prices, and accepted payment
	// methods for this cart.
	PaymentRequest PaymentRequest `json:"paymentRequest"`
	// CartExpiry is when this cart expires, in ISO 8601 format.
	CartExpiry string `json:"cartExpiry"`
	// MerchantName is the name of the merchant.
	MerchantName string `json:"merchantName"`
}

// Validate ensures the CartContents is valid.
func (c *CartContents) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cart id must not be empty")
	}
	if c.MerchantName == "" {
		return fmt.Errorf("cart merchant name must not be empty")
	}
	if c.CartExpiry == "" {
		return fmt.Errorf("cart expiry must not be empty")
	}
	if _, err := time.Parse(time.RFC3339, c.CartExpiry); err != nil {
		return fmt.Errorf("cart expiry: %w", err)
	}
	return c.PaymentRequest.Validate()
}

// CartMandate is a cart whose contents have been signed by the
// merchant, guaranteeing items and price for a limited time.
// MerchantAuthorization is a compact JWT whose cart_hash claim covers
// the canonical JSON form of Contents.
type CartMandate struct {
	// Contents is the cart being guaranteed.
	Contents CartContents `json:"contents"`
	// MerchantAuthorization is the merchant's signed JWT.
	MerchantAuthorization string `json:"merchantAuthorization,omitzero"`
}

// Validate ensures the CartMandate is valid.
func (m *CartMandate) Validate() error {
	return m.Contents.Validate()
}

// PaymentMandateContents is the data content of a PaymentMandate.
type PaymentMandateContents struct {
	// PaymentMandateID identifies this payment mandate.
	PaymentMandateID string `json:"paymentMandateId"`
	// PaymentDetailsID is the ID of the payment request.
	PaymentDetailsID string `json:"paymentDetailsId"`
	// PaymentDetailsTotal is the total payment amount.
	PaymentDetailsTotal PaymentItem `json:"paymentDetailsTotal"`
	// PaymentResponse records the payment method chosen by the user.
	PaymentResponse PaymentResponse `json:"paymentResponse"`
	// MerchantAgent identifies the merchant.
	MerchantAgent string `json:"merchantAgent"`
	// Timestamp is when the mandate was created, in ISO 8601 format.
	Timestamp string `json:"timestamp"`
}

// Validate ensures the PaymentMandateContents is valid.
func (c *PaymentMandateContents) Validate() error {
	if c.PaymentMandateID == "" {
		return fmt.Errorf("payment mandate id must not be empty")
	}
	if c.PaymentDetailsID == "" {
		return fmt.Errorf("payment details id must not be empty")
	}
	if c.MerchantAgent == "" {
		return fmt.Errorf("merchant agent must not be empty")
	}
	if c.Timestamp == "" {
		return fmt.Errorf("payment mandate timestamp must not be empty")
	}
	if _, err := time.Parse(time.RFC3339, c.Timestamp); err != nil {
		return fmt.Errorf("payment mandate timestamp: %w", err)
	}
	if err := c.PaymentDetailsTotal.Validate(); err != nil {
		return err
	}
	return c.PaymentResponse.Validate()
}

// PaymentMandate carries the user's payment authorization to the
// payments ecosystem. UserAuthorization is a verifiable presentation
// whose transaction_data claim binds the CartMandate and
// PaymentMandateContents hashes.
type PaymentMandate struct {
	// PaymentMandateContents is the data content of the mandate.
	PaymentMandateContents PaymentMandateContents `json:"paymentMandateContents"`
	// UserAuthorization is the user's signed presentation.
	UserAuthorization string `json:"userAuthorization,omitzero"`
}

// Validate ensures the PaymentMandate is valid.
func (m *PaymentMandate) Validate() error {
	return m.PaymentMandateContents.Validate()
}

// decodeMandate decodes a depth-checked JSON payload and validates it.
func decodeMandate[T any, PT interface {
	*T
	Validate() error
}](entity string, data []byte) (*T, error) {
	if err := pebble.CheckDepth(entity, data); err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", entity, err)
	}
	if err := PT(&v).Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// UnmarshalIntentMandate decodes and validates an IntentMandate.
func UnmarshalIntentMandate(data []byte) (*IntentMandate, error) {
	return decodeMandate[IntentMandate]("IntentMandate", data)
}

// UnmarshalCartMandate decodes and validates a CartMandate.
func UnmarshalCartMandate(data []byte) (*CartMandate, error) {
	return decodeMandate[CartMandate]("CartMandate", data)
}

// UnmarshalPaymentMandate decodes and validates a PaymentMandate.
func UnmarshalPaymentMandate(data []byte) (*PaymentMandate, error) {
	return decodeMandate[PaymentMandate]("PaymentMandate", data)
}

// extractFromParts finds the first DataPart carrying key and decodes
// the value under it.
func extractFromParts[T any, PT interface {
	*T
	Validate() error
}](entity, key string, parts []pebble.Part) (*T, error) {
	for _, dp := range pebble.GetDataParts(parts) {
		raw, ok := dp.Data[key]
		if !ok {
			continue
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", key, err)
		}
		return decodeMandate[T, PT](entity, encoded)
	}
	return nil, fmt.Errorf("no data part carries %q", key)
}

// IntentMandateFromParts extracts the IntentMandate carried in a
// message's parts under [IntentMandateDataKey].
func IntentMandateFromParts(parts []pebble.Part) (*IntentMandate, error) {
	return extractFromParts[IntentMandate]("IntentMandate", IntentMandateDataKey, parts)
}

// CartMandateFromParts extracts the CartMandate carried in a message's
// parts under [CartMandateDataKey].
func CartMandateFromParts(parts []pebble.Part) (*CartMandate, error) {
	return extractFromParts[CartMandate]("CartMandate", CartMandateDataKey, parts)
}

// PaymentMandateFromParts extracts the PaymentMandate carried in a
// message's parts under [PaymentMandateDataKey].
func PaymentMandateFromParts(parts []pebble.Part) (*PaymentMandate, error) {
	return extractFromParts[PaymentMandate]("PaymentMandate", PaymentMandateDataKey, parts)
}

// NewMandateDataPart wraps a mandate value in a DataPart under its
// data key, ready to attach to a message.
func NewMandateDataPart(key string, mandate any) *pebble.DataPart {
	return &pebble.DataPart{Data: map[string]any{key: mandate}}
}
