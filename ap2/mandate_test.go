// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package ap2

import (
	"testing"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"

	"github.com/go-pebble/pebble"
)

func testIntentMandate() *IntentMandate {
	return &IntentMandate{
		UserCartConfirmationRequired: true,
		NaturalLanguageDescription:   "trail running shoes under $100, refundable",
		Merchants:                    []string{"Trail Outfitters"},
		RequiresRefundability:        true,
		IntentExpiry:                 "2026-09-01T00:00:00Z",
	}
}

func TestIntentMandateValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(m *IntentMandate)
		wantErr bool
	}{
		"valid": {
			mutate: func(m *IntentMandate) {},
		},
		"missing description": {
			mutate:  func(m *IntentMandate) { m.NaturalLanguageDescription = "" },
			wantErr: true,
		},
		"missing expiry": {
			mutate:  func(m *IntentMandate) { m.IntentExpiry = "" },
			wantErr: true,
		},
		"malformed expiry": {
			mutate:  func(m *IntentMandate) { m.IntentExpiry = "next tuesday" },
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := testIntentMandate()
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("IntentMandate.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIntentMandateExpired(t *testing.T) {
	m := testIntentMandate()

	before := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	expired, err := m.Expired(before)
	if err != nil {
		t.Fatalf("Expired() error = %v", err)
	}
	if expired {
		t.Error("Expired() = true before expiry")
	}

	after := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	expired, err = m.Expired(after)
	if err != nil {
		t.Fatalf("Expired() error = %v", err)
	}
	if !expired {
		t.Error("Expired() = false after expiry")
	}

	m.IntentExpiry = "soon"
	if _, err := m.Expired(after); err == nil {
		t.Error("Expired() error = nil for malformed expiry")
	}
}

func TestUnmarshalCartMandate(t *testing.T) {
	data, err := json.Marshal(&CartMandate{Contents: *testCartContents()})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	mandate, err := UnmarshalCartMandate(data)
	if err != nil {
		t.Fatalf("UnmarshalCartMandate() error = %v", err)
	}
	if diff := cmp.Diff(testCartContents(), &mandate.Contents); diff != "" {
		t.Errorf("UnmarshalCartMandate() mismatch (-want +got):\n%s", diff)
	}

	if _, err := UnmarshalCartMandate([]byte(`{"contents":{"id":""}}`)); err == nil {
		t.Error("UnmarshalCartMandate() error = nil for invalid contents")
	}
	if _, err := UnmarshalCartMandate([]byte(`{"contents"`)); err == nil {
		t.Error("UnmarshalCartMandate() error = nil for malformed JSON")
	}
}

func TestUnmarshalPaymentMandate(t *testing.T) {
	data, err := json.Marshal(&PaymentMandate{PaymentMandateContents: *testPaymentMandateContents()})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	mandate, err := UnmarshalPaymentMandate(data)
	if err != nil {
		t.Fatalf("UnmarshalPaymentMandate() error = %v", err)
	}
	if diff := cmp.Diff(testPaymentMandateContents(), &mandate.PaymentMandateContents); diff != "" {
		t.Errorf("UnmarshalPaymentMandate() mismatch (-want +got):\n%s", diff)
	}

	if _, err := UnmarshalPaymentMandate([]byte(`{"paymentMandateContents":{"paymentMandateId":""}}`)); err == nil {
		t.Error("UnmarshalPaymentMandate() error = nil for invalid contents")
	}
}

func TestUnmarshalIntentMandate(t *testing.T) {
	data, err := json.Marshal(testIntentMandate())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	mandate, err := UnmarshalIntentMandate(data)
	if err != nil {
		t.Fatalf("UnmarshalIntentMandate() error = %v", err)
	}
	if diff := cmp.Diff(testIntentMandate(), mandate); diff != "" {
		t.Errorf("UnmarshalIntentMandate() mismatch (-want +got):\n%s", diff)
	}
}

func TestMandateFromParts(t *testing.T) {
	intent := testIntentMandate()
	cart := &CartMandate{Contents: *testCartContents()}

	parts := []pebble.Part{
		&pebble.TextPart{Text: "here is my cart"},
		NewMandateDataPart(IntentMandateDataKey, intent),
		NewMandateDataPart(CartMandateDataKey, cart),
	}

	gotIntent, err := IntentMandateFromParts(parts)
	if err != nil {
		t.Fatalf("IntentMandateFromParts() error = %v", err)
	}
	if diff := cmp.Diff(intent, gotIntent); diff != "" {
		t.Errorf("IntentMandateFromParts() mismatch (-want +got):\n%s", diff)
	}

	gotCart, err := CartMandateFromParts(parts)
	if err != nil {
		t.Fatalf("CartMandateFromParts() error = %v", err)
	}
	if diff := cmp.Diff(cart, gotCart); diff != "" {
		t.Errorf("CartMandateFromParts() mismatch (-want +got):\n%s", diff)
	}

	if _, err := PaymentMandateFromParts(parts); err == nil {
		t.Error("PaymentMandateFromParts() error = nil, want missing key error")
	}
	if _, err := IntentMandateFromParts(nil); err == nil {
		t.Error("IntentMandateFromParts(nil) error = nil, want missing key error")
	}
}

func TestMandateFromPartsRejectsInvalid(t *testing.T) {
	broken := testIntentMandate()
	broken.IntentExpiry = ""
	parts := []pebble.Part{NewMandateDataPart(IntentMandateDataKey, broken)}

	if _, err := IntentMandateFromParts(parts); err == nil {
		t.Error("IntentMandateFromParts() error = nil for invalid mandate")
	}
}
