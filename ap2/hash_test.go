// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package ap2

import (
	"testing"
)

func testCartContents() *CartContents {
	return &CartContents{
		ID:                           "cart-2001",
		UserCartConfirmationRequired: true,
		PaymentRequest:               testPaymentRequest(),
		CartExpiry:                   "2026-12-31T23:59:59Z",
		MerchantName:                 "Trail Outfitters",
	}
}

func testPaymentMandateContents() *PaymentMandateContents {
	return &PaymentMandateContents{
		PaymentMandateID: "pm-3001",
		PaymentDetailsID: "order-1001",
		PaymentDetailsTotal: PaymentItem{
			Label:  "Total",
			Amount: PaymentCurrencyAmount{Currency: "USD", Value: 94.98},
		},
		PaymentResponse: PaymentResponse{RequestID: "order-1001", MethodName: "basic-card"},
		MerchantAgent:   "merchant-agent",
		Timestamp:       "2026-06-01T10:00:00Z",
	}
}

func TestCartContentsHashDeterministic(t *testing.T) {
	first, err := CartContentsHash(testCartContents())
	if err != nil {
		t.Fatalf("CartContentsHash() error = %v", err)
	}
	second, err := CartContentsHash(testCartContents())
	if err != nil {
		t.Fatalf("CartContentsHash() error = %v", err)
	}
	if first != second {
		t.Errorf("CartContentsHash() = %q and %q for identical contents", first, second)
	}
	if first == "" {
		t.Error("CartContentsHash() returned empty hash")
	}
}

func TestCartContentsHashDistinguishesContents(t *testing.T) {
	base, err := CartContentsHash(testCartContents())
	if err != nil {
		t.Fatalf("CartContentsHash() error = %v", err)
	}

	changed := testCartContents()
	changed.PaymentRequest.Details.Total.Amount.Value = 1.00
	got, err := CartContentsHash(changed)
	if err != nil {
		t.Fatalf("CartContentsHash() error = %v", err)
	}
	if got == base {
		t.Error("CartContentsHash() identical for different totals")
	}
}

func TestCartMandateHashCoversAuthorization(t *testing.T) {
	unsigned := &CartMandate{Contents: *testCartContents()}
	signed := &CartMandate{Contents: *testCartContents(), MerchantAuthorization: "token"}

	unsignedHash, err := CartMandateHash(unsigned)
	if err != nil {
		t.Fatalf("CartMandateHash() error = %v", err)
	}
	signedHash, err := CartMandateHash(signed)
	if err != nil {
		t.Fatalf("CartMandateHash() error = %v", err)
	}
	if unsignedHash == signedHash {
		t.Error("CartMandateHash() identical with and without authorization")
	}
}

func TestPaymentMandateContentsHash(t *testing.T) {
	first, err := PaymentMandateContentsHash(testPaymentMandateContents())
	if err != nil {
		t.Fatalf("PaymentMandateContentsHash() error = %v", err)
	}
	second, err := PaymentMandateContentsHash(testPaymentMandateContents())
	if err != nil {
		t.Fatalf("PaymentMandateContentsHash() error = %v", err)
	}
	if first != second {
		t.Errorf("PaymentMandateContentsHash() = %q and %q for identical contents", first, second)
	}

	changed := testPaymentMandateContents()
	changed.PaymentResponse.MethodName = "https://pay.example.com"
	got, err := PaymentMandateContentsHash(changed)
	if err != nil {
		t.Fatalf("PaymentMandateContentsHash() error = %v", err)
	}
	if got == first {
		t.Error("PaymentMandateContentsHash() identical for different payment methods")
	}
}
