// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package ap2

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Verification failures. Callers distinguish tampering from key and
// freshness problems with errors.Is.
var (
	// ErrMissingAuthorization reports a mandate without a signature.
	ErrMissingAuthorization = errors.New("mandate carries no authorization token")
	// ErrInvalidSignature reports a signature that does not verify
	// under the supplied key.
	ErrInvalidSignature = errors.New("mandate signature verification failed")
	// ErrExpired reports an authorization token past its expiry.
	ErrExpired = errors.New("mandate authorization expired")
	// ErrHashMismatch reports mandate contents that do not match the
	// hash the token signed over.
	ErrHashMismatch = errors.New("mandate contents do not match signed hash")
)

// VerifyCartMandate checks a cart mandate against the merchant's
// public key at time now.
//
// The checks run in a fixed order so callers can rely on which failure
// is reported first: the contents hash is recomputed and compared with
// the cart_hash claim, then the signature is verified, then expiry is
// checked against now.
func VerifyCartMandate(mandate *CartMandate, alg jwa.SignatureAlgorithm, key any, now time.Time) error {
	if mandate.MerchantAuthorization == "" {
		return ErrMissingAuthorization
	}

	buf := []byte(mandate.MerchantAuthorization)

	tok, err := jwt.ParseInsecure(buf)
	if err != nil {
		return fmt.Errorf("parse merchant authorization: %w", err)
	}

	var signedHash string
	if err := tok.Get(cartHashClaim, &signedHash); err != nil {
		return fmt.Errorf("merchant authorization lacks %s claim: %w", cartHashClaim, err)
	}
	hash, err := CartContentsHash(&mandate.Contents)
	if err != nil {
		return err
	}
	if hash != signedHash {
		return ErrHashMismatch
	}

	if _, err := jws.Verify(buf, jws.WithKey(alg, key)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if expiry, ok := tok.Expiration(); ok && now.After(expiry) {
		return ErrExpired
	}
	return nil
}

// VerifyPaymentMandate checks a payment mandate against the user's
// public key at time now. On top of the cart mandate checks, the
// transaction_data claim must bind both the given cart mandate hash
// and the recomputed PaymentMandateContents hash.
func VerifyPaymentMandate(mandate *PaymentMandate, cartMandateHash string, alg jwa.SignatureAlgorithm, key any, now time.Time) error {
	if mandate.UserAuthorization == "" {
		return ErrMissingAuthorization
	}

	buf := []byte(mandate.UserAuthorization)

	tok, err := jwt.ParseInsecure(buf)
	if err != nil {
		return fmt.Errorf("parse user authorization: %w", err)
	}

	// Private claims decode from JSON as []any; convert to strings
	// rather than asking Get for a []string it cannot assign.
	var rawTransactionData []any
	if err := tok.Get(transactionDataClaim, &rawTransactionData); err != nil {
		return fmt.Errorf("user authorization lacks %s claim: %w", transactionDataClaim, err)
	}
	transactionData := make([]string, 0, len(rawTransactionData))
	for _, v := range rawTransactionData {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("user authorization lacks %s claim: entry %T is not a string", transactionDataClaim, v)
		}
		transactionData = append(transactionData, s)
	}
	contentsHash, err := PaymentMandateContentsHash(&mandate.PaymentMandateContents)
	if err != nil {
		return err
	}
	if !slices.Contains(transactionData, cartMandateHash) || !slices.Contains(transactionData, contentsHash) {
		return ErrHashMismatch
	}

	if _, err := jws.Verify(buf, jws.WithKey(alg, key)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if expiry, ok := tok.Expiration(); ok && now.After(expiry) {
		return ErrExpired
	}
	return nil
}
