// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

// Package ap2 implements the payments layer of the protocol: W3C
// PaymentRequest data structures and the mandate chain that carries a
// user's purchase authorization from intent through cart to payment.
//
// All functions in this package are pure. Signing and verification
// take key material and the current time from the caller; nothing here
// performs I/O.
package ap2

import "fmt"

// ContactAddress is a physical address, after the W3C contact picker
// model.
type ContactAddress struct {
	City              string   `json:"city,omitzero"`
	Country           string   `json:"country,omitzero"`
	DependentLocality string   `json:"dependentLocality,omitzero"`
	Organization      string   `json:"organization,omitzero"`
	PhoneNumber       string   `json:"phoneNumber,omitzero"`
	PostalCode        string   `json:"postalCode,omitzero"`
	Recipient         string   `json:"recipient,omitzero"`
	Region            string   `json:"region,omitzero"`
	SortingCode       string   `json:"sortingCode,omitzero"`
	AddressLine       []string `json:"addressLine,omitzero"`
}

// PaymentCurrencyAmount is a monetary amount in an ISO 4217 currency.
type PaymentCurrencyAmount struct {
	// Currency is the three-letter ISO 4217 currency code.
	Currency string `json:"currency"`
	// Value is the monetary value.
	Value float64 `json:"value"`
}

// Validate ensures the PaymentCurrencyAmount is valid.
func (a *PaymentCurrencyAmount) Validate() error {
	if len(a.Currency) != 3 {
		return fmt.Errorf("currency must be a three-letter ISO 4217 code, got %q", a.Currency)
	}
	return nil
}

// PaymentItem is an item for purchase and the value asked for it.
type PaymentItem struct {
	// Label is a human-readable description of the item.
	Label string `json:"label"`
	// Amount is the monetary amount of the item.
	Amount PaymentCurrencyAmount `json:"amount"`
	// Pending indicates the amount is not final.
	Pending bool `json:"pending,omitzero"`
	// RefundPeriod is the refund duration for this item, in days.
	RefundPeriod int `json:"refundPeriod,omitzero"`
}

// Validate ensures the PaymentItem is valid.
func (p *PaymentItem) Validate() error {
	if p.Label == "" {
		return fmt.Errorf("payment item label must not be empty")
	}
	return p.Amount.Validate()
}

// PaymentShippingOption describes one way the order can be shipped.
type PaymentShippingOption struct {
	// ID identifies the shipping option.
	ID string `json:"id"`
	// Label is a human-readable description of the option.
	Label string `json:"label"`
	// Amount is the cost of this shipping option.
	Amount PaymentCurrencyAmount `json:"amount"`
	// Selected marks this as the default option.
	Selected bool `json:"selected,omitzero"`
}

// Validate ensures the PaymentShippingOption is valid.
func (o *PaymentShippingOption) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("shipping option id must not be empty")
	}
	if o.Label == "" {
		return fmt.Errorf("shipping option label must not be empty")
	}
	return o.Amount.Validate()
}

// PaymentOptions states what payer information should be collected.
type PaymentOptions struct {
	RequestPayerName  bool `json:"requestPayerName,omitzero"`
	RequestPayerEmail bool `json:"requestPayerEmail,omitzero"`
	RequestPayerPhone bool `json:"requestPayerPhone,omitzero"`
	RequestShipping   bool `json:"requestShipping,omitzero"`
	// ShippingType is one of shipping, delivery, or pickup.
	ShippingType string `json:"shippingType,omitzero"`
}

// PaymentMethodData names a payment method and carries method-specific
// data.
type PaymentMethodData struct {
	// SupportedMethods identifies the payment method.
	SupportedMethods string `json:"supportedMethods"`
	// Data holds payment method specific details.
	Data map[string]any `json:"data,omitzero"`
}

// Validate ensures the PaymentMethodData is valid.
func (d *PaymentMethodData) Validate() error {
	if d.SupportedMethods == "" {
		return fmt.Errorf("supportedMethods must not be empty")
	}
	return nil
}

// PaymentDetailsModifier adjusts payment details for one payment
// method.
type PaymentDetailsModifier struct {
	// SupportedMethods is the payment method this modifier applies to.
	SupportedMethods string `json:"supportedMethods"`
	// Total optionally overrides the original item total.
	Total *PaymentItem `json:"total,omitzero"`
	// AdditionalDisplayItems lists extra items for this method.
	AdditionalDisplayItems []PaymentItem `json:"additionalDisplayItems,omitzero"`
	// Data holds method-specific modifier data.
	Data any `json:"data,omitzero"`
}

// PaymentDetailsInit contains the details of the payment being
// requested.
type PaymentDetailsInit struct {
	// ID identifies the payment request.
	ID string `json:"id"`
	// DisplayItems lists the items shown to the user.
	DisplayItems []PaymentItem `json:"displayItems"`
	// ShippingOptions lists the available shipping options.
	ShippingOptions []PaymentShippingOption `json:"shippingOptions,omitzero"`
	// Modifiers lists price modifiers for particular payment methods.
	Modifiers []PaymentDetailsModifier `json:"modifiers,omitzero"`
	// Total is the total payment amount.
	Total PaymentItem `json:"total"`
	// Description describes the payment request.
	Description string `json:"description,omitzero"`
}

// Validate ensures the PaymentDetailsInit is valid.
func (d *PaymentDetailsInit) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("payment details id must not be empty")
	}
	for i := range d.DisplayItems {
		if err := d.DisplayItems[i].Validate(); err != nil {
			return err
		}
	}
	for i := range d.ShippingOptions {
		if err := d.ShippingOptions[i].Validate(); err != nil {
			return err
		}
	}
	return d.Total.Validate()
}

// PaymentRequest is a W3C-shaped request for payment.
type PaymentRequest struct {
	// MethodData lists the supported payment methods.
	MethodData []PaymentMethodData `json:"methodData"`
	// Details holds the financial details of the transaction.
	Details PaymentDetailsInit `json:"details"`
	// Options states what payer information to collect.
	Options *PaymentOptions `json:"options,omitzero"`
	// ShippingAddress is the user's provided shipping address.
	ShippingAddress *ContactAddress `json:"shippingAddress,omitzero"`
}

// Validate ensures the PaymentRequest is valid.
func (r *PaymentRequest) Validate() error {
	if len(r.MethodData) == 0 {
		return fmt.Errorf("payment request must list at least one payment method")
	}
	for i := range r.MethodData {
		if err := r.MethodData[i].Validate(); err != nil {
			return err
		}
	}
	return r.Details.Validate()
}

// PaymentResponse records the user's chosen payment method and their
// approval of a payment request.
type PaymentResponse struct {
	// RequestID is the ID of the original PaymentRequest.
	RequestID string `json:"requestId"`
	// MethodName is the payment method chosen by the user.
	MethodName string `json:"methodName"`
	// Details is method-generated data the merchant uses to process
	// the transaction.
	Details map[string]any `json:"details,omitzero"`
	// ShippingAddress is the user's provided shipping address.
	ShippingAddress *ContactAddress `json:"shippingAddress,omitzero"`
	// ShippingOption is the selected shipping option.
	ShippingOption *PaymentShippingOption `json:"shippingOption,omitzero"`
	// PayerName is the name of the payer.
	PayerName string `json:"payerName,omitzero"`
	// PayerEmail is the email of the payer.
	PayerEmail string `json:"payerEmail,omitzero"`
	// PayerPhone is the phone number of the payer.
	PayerPhone string `json:"payerPhone,omitzero"`
}

// Validate ensures the PaymentResponse is valid.
func (r *PaymentResponse) Validate() error {
	if r.RequestID == "" {
		return fmt.Errorf("payment response requestId must not be empty")
	}
	if r.MethodName == "" {
		return fmt.Errorf("payment response methodName must not be empty")
	}
	return nil
}
