/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package session defines the wallet interaction record and the store that enforces
// single use of its correlation keys.
package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
)

// FlowVariant selects identity source and credential formats of a flow.
type FlowVariant string

const (
	VariantB  FlowVariant = "b"
	VariantB1 FlowVariant = "b1"
	VariantC  FlowVariant = "c"
	VariantC1 FlowVariant = "c1"
	VariantC2 FlowVariant = "c2"
)

// Variants lists all supported flow variants.
var Variants = []FlowVariant{VariantB, VariantB1, VariantC, VariantC1, VariantC2}

func ParseFlowVariant(s string) (FlowVariant, error) {
	v := FlowVariant(strings.ToLower(s))

	for _, known := range Variants {
		if v == known {
			return v, nil
		}
	}

	return "", fmt.Errorf("unknown flow variant %q", s)
}

// Step is the request a session expects next.
type Step string

const (
	StepParCreated     Step = "PAR_CREATED"
	StepAwaitingFinish Step = "AWAITING_FINISH"
	StepCodeIssued     Step = "CODE_ISSUED"
	StepTokenIssued    Step = "TOKEN_ISSUED"
	StepSeedToken      Step = "SEED_TOKEN"
)

// Session is one wallet interaction, from PAR to credential issuance.
type Session struct {
	ID          string      `json:"id"`
	FlowVariant FlowVariant `json:"flow_variant"`
	NextStep    Step        `json:"next_step"`

	ClientID            string `json:"client_id,omitempty"`
	RedirectURI         string `json:"redirect_uri,omitempty"`
	Scope               string `json:"scope,omitempty"`
	State               string `json:"state,omitempty"`
	CodeChallenge       string `json:"code_challenge,omitempty"`
	CodeChallengeMethod string `json:"code_challenge_method,omitempty"`

	RequestURI         string `json:"request_uri,omitempty"`
	IssuerState        string `json:"issuer_state,omitempty"`
	AuthorizationCode  string `json:"authorization_code,omitempty"`
	AccessToken        string `json:"access_token,omitempty"`
	RefreshToken       string `json:"refresh_token,omitempty"`
	PIDIssuerSessionID string `json:"pid_issuer_session_id,omitempty"`

	DPoPKeyThumbprint  string          `json:"dpop_jkt,omitempty"`
	DPoPPublicKey      json.RawMessage `json:"dpop_jwk,omitempty"`
	DPoPNonce          string          `json:"dpop_nonce,omitempty"`
	DPoPNonceExpiresAt time.Time       `json:"dpop_nonce_exp,omitempty"`
	CNonce             string          `json:"c_nonce,omitempty"`
	CNonceExpiresAt    time.Time       `json:"c_nonce_exp,omitempty"`

	// ClientInstanceKey is the wallet key attested by the client attestation.
	ClientInstanceKey   json.RawMessage `json:"client_instance_key,omitempty"`
	PinDerivedPublicKey json.RawMessage `json:"pin_derived_jwk,omitempty"`
	// DeviceKeyPair is the server-held holder key of variant C2, a private JWK.
	DeviceKeyPair json.RawMessage `json:"device_key_pair,omitempty"`

	Identity          *pid.Data `json:"identity,omitempty"`
	IdentityFailure   string    `json:"identity_failure,omitempty"`
	IdentityProofedAt time.Time `json:"identity_proofed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpireAt  time.Time `json:"expire_at"`
	Version   int64     `json:"version"`
}

// Expired reports whether the session ttl has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpireAt.IsZero() && !now.Before(s.ExpireAt)
}

// SetIdentity stores the proofed identity once. Later calls fail.
func (s *Session) SetIdentity(data *pid.Data, now time.Time) error {
	if s.Identity != nil {
		return fmt.Errorf("identity already set for session %s", s.ID)
	}

	s.Identity = data
	s.IdentityProofedAt = now

	return nil
}

// Keys returns the correlation keys currently set on the session.
func (s *Session) Keys() map[KeyKind]string {
	keys := map[KeyKind]string{}

	add := func(kind KeyKind, value string) {
		if value != "" {
			keys[kind] = value
		}
	}

	add(KeyRequestURI, s.RequestURI)
	add(KeyIssuerState, s.IssuerState)
	add(KeyAuthorizationCode, s.AuthorizationCode)
	add(KeyAccessToken, s.AccessToken)
	add(KeyRefreshToken, s.RefreshToken)
	add(KeyPIDIssuerSessionID, s.PIDIssuerSessionID)

	return keys
}

// Clear removes a consumed correlation key from the record.
func (s *Session) Clear(kind KeyKind) {
	switch kind {
	case KeyRequestURI:
		s.RequestURI = ""
	case KeyIssuerState:
		s.IssuerState = ""
	case KeyAuthorizationCode:
		s.AuthorizationCode = ""
	case KeyAccessToken:
		s.AccessToken = ""
	case KeyRefreshToken:
		s.RefreshToken = ""
	case KeyPIDIssuerSessionID:
		s.PIDIssuerSessionID = ""
	}
}
