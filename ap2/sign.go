// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package ap2

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Claim names used by mandate tokens.
const (
	cartHashClaim        = "cart_hash"
	transactionDataClaim = "transaction_data"
	nonceClaim           = "nonce"
)

// SignOptions supplies the key material and token identity for mandate
// signing. The caller owns the private key; nothing is loaded here.
type SignOptions struct {
	// Algorithm is the JWS signature algorithm, e.g. jwa.ES256().
	Algorithm jwa.SignatureAlgorithm
	// Key is the private key matching Algorithm.
	Key any
	// Issuer is the signing party's identifier.
	Issuer string
	// Subject identifies the party the token is about.
	Subject string
	// Audience lists the intended recipients.
	Audience []string
	// IssuedAt is the token creation time.
	IssuedAt time.Time
	// Expiry is the token expiration time. Mandate tokens are short
	// lived; minutes, not days.
	Expiry time.Time
}

func (o *SignOptions) validate() error {
	if o.Key == nil {
		return fmt.Errorf("signing key must not be nil")
	}
	if o.IssuedAt.IsZero() || o.Expiry.IsZero() {
		return fmt.Errorf("issuedAt and expiry must be set")
	}
	if !o.Expiry.After(o.IssuedAt) {
		return fmt.Errorf("expiry must be after issuedAt")
	}
	return nil
}

// SignCartMandate signs the cart contents and returns a CartMandate
// whose MerchantAuthorization is a compact JWT. The token's cart_hash
// claim covers the canonical JSON form of the contents.
func SignCartMandate(contents *CartContents, opts SignOptions) (*CartMandate, error) {
	if err := contents.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	hash, err := CartContentsHash(contents)
	if err != nil {
		return nil, err
	}

	tok, err := jwt.NewBuilder().
		Issuer(opts.Issuer).
		Subject(opts.Subject).
		Audience(opts.Audience).
		IssuedAt(opts.IssuedAt).
		Expiration(opts.Expiry).
		JwtID(uuid.NewString()).
		Claim(cartHashClaim, hash).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build cart mandate token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(opts.Algorithm, opts.Key))
	if err != nil {
		return nil, fmt.Errorf("sign cart mandate: %w", err)
	}

	return &CartMandate{
		Contents:              *contents,
		MerchantAuthorization: string(signed),
	}, nil
}

// SignPaymentMandate signs the payment mandate contents and returns a
// PaymentMandate whose UserAuthorization is a compact JWT presentation.
// Its transaction_data claim carries the CartMandate hash and the
// PaymentMandateContents hash, binding the payment to the signed cart.
func SignPaymentMandate(contents *PaymentMandateContents, cartMandateHash string, opts SignOptions) (*PaymentMandate, error) {
	if err := contents.Validate(); err != nil {
		return nil, err
	}
	if cartMandateHash == "" {
		return nil, fmt.Errorf("cart mandate hash must not be empty")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	contentsHash, err := PaymentMandateContentsHash(contents)
	if err != nil {
		return nil, err
	}

	tok, err := jwt.NewBuilder().
		Issuer(opts.Issuer).
		Subject(opts.Subject).
		Audience(opts.Audience).
		IssuedAt(opts.IssuedAt).
		Expiration(opts.Expiry).
		JwtID(uuid.NewString()).
		Claim(nonceClaim, uuid.NewString()).
		Claim(transactionDataClaim, []string{cartMandateHash, contentsHash}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build payment mandate token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(opts.Algorithm, opts.Key))
	if err != nil {
		return nil, fmt.Errorf("sign payment mandate: %w", err)
	}

	return &PaymentMandate{
		PaymentMandateContents: *contents,
		UserAuthorization:      string(signed),
	}, nil
}
