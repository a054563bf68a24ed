/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/clientregistry"
)

const (
	ParamClientID            = "client_id"
	ParamResponseType        = "response_type"
	ParamRedirectURI         = "redirect_uri"
	ParamScope               = "scope"
	ParamState               = "state"
	ParamCodeChallenge       = "code_challenge"
	ParamCodeChallengeMethod = "code_challenge_method"
	ParamRequestURI          = "request_uri"
	ParamIssuerState         = "issuer_state"

	ParamGrantType           = "grant_type"
	ParamCode                = "code"
	ParamCodeVerifier        = "code_verifier"
	ParamRefreshToken        = "refresh_token"
	ParamSeedCredential      = "seed_credential"
	ParamPinDerivedEphKeyPop = "pin_derived_eph_key_pop"
	ParamDeviceKeyPop        = "device_key_pop"

	ParamError            = "error"
	ParamErrorDescription = "error_description"

	CodeChallengeMethodS256 = "S256"
	TokenTypeDPoP           = "DPoP"
	ProofTypeJWT            = "jwt"

	GrantTypeAuthorizationCode = clientregistry.GrantTypeAuthorizationCode
	GrantTypeRefreshToken      = clientregistry.GrantTypeRefreshToken
	GrantTypeSeedCredential    = clientregistry.GrantTypeSeedCredential

	maxStateLength = 2048
)

// PARResponse is returned with 201 by the pushed authorization request endpoint.
type PARResponse struct {
	RequestURI string `json:"request_uri"`
	ExpiresIn  int    `json:"expires_in"`
}

// FinishAuthorizationResponse is the redirect back to the wallet. DPoPNonce is set when a code was issued
// and is the nonce the token request has to carry.
type FinishAuthorizationResponse struct {
	Location  string
	DPoPNonce string
}

// TokenRequest is a form encoded token request with its DPoP header.
type TokenRequest struct {
	Params url.Values
	Header http.Header
	Method string
}

type TokenResponse struct {
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	ExpiresIn       int    `json:"expires_in"`
	RefreshToken    string `json:"refresh_token,omitempty"`
	CNonce          string `json:"c_nonce"`
	CNonceExpiresIn int    `json:"c_nonce_expires_in"`
	// DPoPNonce goes to the DPoP-Nonce response header.
	DPoPNonce string `json:"-"`
}

// ResourceRequest carries the Authorization and DPoP headers of a request to a protected endpoint.
type ResourceRequest struct {
	Header http.Header
	Method string
}

type ProofObject struct {
	ProofType string `json:"proof_type"`
	JWT       string `json:"jwt"`
}

type ProofsObject struct {
	JWT []string `json:"jwt"`
}

// CredentialRequestBody is the JSON body of a credential request. Which members are used depends on
// the format.
type CredentialRequestBody struct {
	Format              string          `json:"format"`
	VCT                 string          `json:"vct,omitempty"`
	DocType             string          `json:"doctype,omitempty"`
	Proof               *ProofObject    `json:"proof,omitempty"`
	Proofs              *ProofsObject   `json:"proofs,omitempty"`
	PinDerivedEphKeyPop string          `json:"pin_derived_eph_key_pop,omitempty"`
	VerifierPub         json.RawMessage `json:"verifier_pub,omitempty"`
	SessionTranscript   string          `json:"session_transcript,omitempty"`
}

type CredentialRequest struct {
	ResourceRequest

	Body *CredentialRequestBody
}

type CredentialResponse struct {
	Credential      string   `json:"credential,omitempty"`
	Credentials     []string `json:"credentials,omitempty"`
	CNonce          string   `json:"c_nonce"`
	CNonceExpiresIn int      `json:"c_nonce_expires_in"`
	DPoPNonce       string   `json:"-"`
}

type NonceResponse struct {
	CNonce          string `json:"c_nonce"`
	CNonceExpiresIn int    `json:"c_nonce_expires_in"`
	DPoPNonce       string `json:"-"`
}

// SeedSessionResponse correlates the seed credential grant of variant B1.
type SeedSessionResponse struct {
	SessionID          string `json:"session_id"`
	SessionIDExpiresIn int    `json:"session_id_expires_in"`
	DPoPNonce          string `json:"-"`
}

type PresentationSigningRequest struct {
	ResourceRequest

	HashBytes string
}

type PresentationSigningResponse struct {
	SignatureBytes string `json:"signature_bytes"`
	DPoPNonce      string `json:"-"`
}
