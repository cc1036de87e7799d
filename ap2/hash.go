// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package ap2

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// canonicalJSON encodes v and canonicalizes the result per RFC 8785,
// so that the hash of a structure does not depend on member order or
// number formatting.
func canonicalJSON(v any) ([]byte, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	val := jsontext.Value(encoded)
	if err := val.Canonicalize(); err != nil {
		return nil, err
	}
	return val, nil
}

func canonicalHash(entity string, v any) (string, error) {
	canonical, err := canonicalJSON(v)
	if err != nil {
		return "", fmt.Errorf("canonicalize %s: %w", entity, err)
	}
	sum := sha256.Sum256(canonical)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// CartContentsHash computes the base64url SHA-256 of the canonical
// JSON form of the cart contents. This is the value the merchant's
// cart_hash claim signs over.
func CartContentsHash(contents *CartContents) (string, error) {
	return canonicalHash("CartContents", contents)
}

// CartMandateHash computes the base64url SHA-256 of the canonical
// JSON form of the whole cart mandate, as referenced by a payment
// mandate's transaction_data claim.
func CartMandateHash(mandate *CartMandate) (string, error) {
	return canonicalHash("CartMandate", mandate)
}

// PaymentMandateContentsHash computes the base64url SHA-256 of the
// canonical JSON form of the payment mandate contents.
func PaymentMandateContentsHash(contents *PaymentMandateContents) (string, error) {
	return canonicalHash("PaymentMandateContents", contents)
}
