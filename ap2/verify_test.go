// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package ap2

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
)

func testSignOptions(t *testing.T) (SignOptions, *ecdsa.PublicKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("ecdsa.GenerateKey() error = %v", err)
	}
	issuedAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return SignOptions{
		Algorithm: jwa.ES256(),
		Key:       key,
		Issuer:    "merchant-agent",
		Subject:   "cart-2001",
		Audience:  []string{"shopping-agent"},
		IssuedAt:  issuedAt,
		Expiry:    issuedAt.Add(15 * time.Minute),
	}, &key.PublicKey
}

func TestSignOptionsValidate(t *testing.T) {
	valid, _ := testSignOptions(t)

	tests := map[string]struct {
		mutate  func(o *SignOptions)
		wantErr bool
	}{
		"valid":           {mutate: func(o *SignOptions) {}},
		"nil key":         {mutate: func(o *SignOptions) { o.Key = nil }, wantErr: true},
		"zero issued at":  {mutate: func(o *SignOptions) { o.IssuedAt = time.Time{} }, wantErr: true},
		"zero expiry":     {mutate: func(o *SignOptions) { o.Expiry = time.Time{} }, wantErr: true},
		"expiry precedes": {mutate: func(o *SignOptions) { o.Expiry = o.IssuedAt.Add(-time.Minute) }, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			err := opts.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("SignOptions.validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCartMandateSignAndVerify(t *testing.T) {
	opts, pub := testSignOptions(t)
	now := opts.IssuedAt.Add(time.Minute)

	mandate, err := SignCartMandate(testCartContents(), opts)
	if err != nil {
		t.Fatalf("SignCartMandate() error = %v", err)
	}
	if mandate.MerchantAuthorization == "" {
		t.Fatal("SignCartMandate() produced empty authorization")
	}

	if err := VerifyCartMandate(mandate, jwa.ES256(), pub, now); err != nil {
		t.Fatalf("VerifyCartMandate() error = %v", err)
	}
}

func TestVerifyCartMandateFailures(t *testing.T) {
	opts, pub := testSignOptions(t)
	now := opts.IssuedAt.Add(time.Minute)

	mandate, err := SignCartMandate(testCartContents(), opts)
	if err != nil {
		t.Fatalf("SignCartMandate() error = %v", err)
	}

	t.Run("missing authorization", func(t *testing.T) {
		unsigned := &CartMandate{Contents: *testCartContents()}
		if err := VerifyCartMandate(unsigned, jwa.ES256(), pub, now); !errors.Is(err, ErrMissingAuthorization) {
			t.Errorf("VerifyCartMandate() error = %v, want ErrMissingAuthorization", err)
		}
	})

	t.Run("tampered contents", func(t *testing.T) {
		tampered := *mandate
		tampered.Contents.PaymentRequest.Details.Total.Amount.Value = 0.01
		if err := VerifyCartMandate(&tampered, jwa.ES256(), pub, now); !errors.Is(err, ErrHashMismatch) {
			t.Errorf("VerifyCartMandate() error = %v, want ErrHashMismatch", err)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		_, otherPub := testSignOptions(t)
		if err := VerifyCartMandate(mandate, jwa.ES256(), otherPub, now); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("VerifyCartMandate() error = %v, want ErrInvalidSignature", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		late := opts.Expiry.Add(time.Minute)
		if err := VerifyCartMandate(mandate, jwa.ES256(), pub, late); !errors.Is(err, ErrExpired) {
			t.Errorf("VerifyCartMandate() error = %v, want ErrExpired", err)
		}
	})
}

func TestPaymentMandateSignAndVerify(t *testing.T) {
	merchantOpts, _ := testSignOptions(t)
	userOpts, userPub := testSignOptions(t)
	now := userOpts.IssuedAt.Add(time.Minute)

	cartMandate, err := SignCartMandate(testCartContents(), merchantOpts)
	if err != nil {
		t.Fatalf("SignCartMandate() error = %v", err)
	}
	cartHash, err := CartMandateHash(cartMandate)
	if err != nil {
		t.Fatalf("CartMandateHash() error = %v", err)
	}

	mandate, err := SignPaymentMandate(testPaymentMandateContents(), cartHash, userOpts)
	if err != nil {
		t.Fatalf("SignPaymentMandate() error = %v", err)
	}
	if mandate.UserAuthorization == "" {
		t.Fatal("SignPaymentMandate() produced empty authorization")
	}

	if err := VerifyPaymentMandate(mandate, cartHash, jwa.ES256(), userPub, now); err != nil {
		t.Fatalf("VerifyPaymentMandate() error = %v", err)
	}

	t.Run("wrong cart hash", func(t *testing.T) {
		otherCart := testCartContents()
		otherCart.ID = "cart-9999"
		otherMandate, err := SignCartMandate(otherCart, merchantOpts)
		if err != nil {
			t.Fatalf("SignCartMandate() error = %v", err)
		}
		otherHash, err := CartMandateHash(otherMandate)
		if err != nil {
			t.Fatalf("CartMandateHash() error = %v", err)
		}
		if err := VerifyPaymentMandate(mandate, otherHash, jwa.ES256(), userPub, now); !errors.Is(err, ErrHashMismatch) {
			t.Errorf("VerifyPaymentMandate() error = %v, want ErrHashMismatch", err)
		}
	})

	t.Run("tampered contents", func(t *testing.T) {
		tampered := *mandate
		tampered.PaymentMandateContents.PaymentDetailsTotal.Amount.Value = 0.01
		if err := VerifyPaymentMandate(&tampered, cartHash, jwa.ES256(), userPub, now); !errors.Is(err, ErrHashMismatch) {
			t.Errorf("VerifyPaymentMandate() error = %v, want ErrHashMismatch", err)
		}
	})

	t.Run("missing authorization", func(t *testing.T) {
		unsigned := &PaymentMandate{PaymentMandateContents: *testPaymentMandateContents()}
		if err := VerifyPaymentMandate(unsigned, cartHash, jwa.ES256(), userPub, now); !errors.Is(err, ErrMissingAuthorization) {
			t.Errorf("VerifyPaymentMandate() error = %v, want ErrMissingAuthorization", err)
		}
	})

	t.Run("empty cart hash rejected at signing", func(t *testing.T) {
		if _, err := SignPaymentMandate(testPaymentMandateContents(), "", userOpts); err == nil {
			t.Error("SignPaymentMandate() error = nil, want error")
		}
	})
}

func TestSignCartMandateRejectsInvalidContents(t *testing.T) {
	opts, _ := testSignOptions(t)
	contents := testCartContents()
	contents.MerchantName = ""
	if _, err := SignCartMandate(contents, opts); err == nil {
		t.Error("SignCartMandate() error = nil for invalid contents")
	}
}
