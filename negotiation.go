// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
)

// NegotiationStatus is the state of a single negotiation proposal.
type NegotiationStatus string

// Registered proposal states.
const (
	NegotiationStatusProposed  NegotiationStatus = "proposed"
	NegotiationStatusAccepted  NegotiationStatus = "accepted"
	NegotiationStatusRejected  NegotiationStatus = "rejected"
	NegotiationStatusCountered NegotiationStatus = "countered"
)

// Valid reports whether s is a registered proposal status.
func (s NegotiationStatus) Valid() bool {
	switch s {
	case NegotiationStatusProposed, NegotiationStatusAccepted,
		NegotiationStatusRejected, NegotiationStatusCountered:
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler, rejecting values outside
// the closed status set.
func (s *NegotiationStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return errInvalidEnumValue("NegotiationStatus", string(data))
	}
	if !NegotiationStatus(v).Valid() {
		return errInvalidEnumValue("NegotiationStatus", v)
	}
	*s = NegotiationStatus(v)
	return nil
}

// NegotiationSessionStatus is the state of a negotiation session as a
// whole.
type NegotiationSessionStatus string

// Registered session states.
const (
	NegotiationSessionInitiated NegotiationSessionStatus = "initiated"
	NegotiationSessionOngoing   NegotiationSessionStatus = "ongoing"
	NegotiationSessionCompleted NegotiationSessionStatus = "completed"
	NegotiationSessionRejected  NegotiationSessionStatus = "rejected"
)

// Valid reports whether s is a registered session status.
func (s NegotiationSessionStatus) Valid() bool {
	switch s {
	case NegotiationSessionInitiated, NegotiationSessionOngoing,
		NegotiationSessionCompleted, NegotiationSessionRejected:
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler, rejecting values outside
// the closed status set.
func (s *NegotiationSessionStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return errInvalidEnumValue("NegotiationSessionStatus", string(data))
	}
	if !NegotiationSessionStatus(v).Valid() {
		return errInvalidEnumValue("NegotiationSessionStatus", v)
	}
	*s = NegotiationSessionStatus(v)
	return nil
}

// NegotiationProposal is one round of a negotiation between two agents.
type NegotiationProposal struct {
	// ProposalID identifies the proposal within its session.
	ProposalID uuid.UUID `json:"proposalId"`
	// FromAgent is the proposing agent.
	FromAgent uuid.UUID `json:"fromAgent"`
	// ToAgent is the receiving agent.
	ToAgent uuid.UUID `json:"toAgent"`
	// Terms holds the proposed terms.
	Terms map[string]any `json:"terms,omitzero"`
	// Timestamp is the RFC 3339 time the proposal was made.
	Timestamp string `json:"timestamp,omitzero"`
	// Status is the proposal state.
	Status NegotiationStatus `json:"status,omitzero"`
}

// Validate ensures the NegotiationProposal is valid.
func (p *NegotiationProposal) Validate() error {
	var missing []string
	if p.ProposalID == uuid.Nil {
		missing = append(missing, "proposalId")
	}
	if p.FromAgent == uuid.Nil {
		missing = append(missing, "fromAgent")
	}
	if p.ToAgent == uuid.Nil {
		missing = append(missing, "toAgent")
	}
	if len(missing) > 0 {
		return errShapeMismatch("NegotiationProposal", "", missing, nil)
	}
	if p.Status != "" && !p.Status.Valid() {
		return errInvalidEnumValue("NegotiationStatus", string(p.Status))
	}
	return nil
}

// NegotiationContext tracks the negotiation state attached to a
// context: participants and the ordered proposal history.
type NegotiationContext struct {
	// ContextID is the context the negotiation belongs to.
	ContextID uuid.UUID `json:"contextId"`
	// Status is the session state.
	Status NegotiationSessionStatus `json:"status,omitzero"`
	// Participants names the negotiating agents.
	Participants []string `json:"participants,omitzero"`
	// Proposals is the ordered proposal history.
	Proposals []*NegotiationProposal `json:"proposals,omitzero"`
}

// Validate ensures the NegotiationContext is valid.
func (n *NegotiationContext) Validate() error {
	if n.ContextID == uuid.Nil {
		return errShapeMismatch("NegotiationContext", "", []string{"contextId"}, nil)
	}
	if n.Status != "" && !n.Status.Valid() {
		return errInvalidEnumValue("NegotiationSessionStatus", string(n.Status))
	}
	for _, p := range n.Proposals {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AddProposal appends a proposal to the history and moves an initiated
// session to ongoing.
func (n *NegotiationContext) AddProposal(p *NegotiationProposal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	n.Proposals = append(n.Proposals, p)
	if n.Status == NegotiationSessionInitiated {
		n.Status = NegotiationSessionOngoing
	}
	return nil
}
