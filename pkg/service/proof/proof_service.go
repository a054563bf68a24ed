/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/oidc4ci"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
)

var logger = log.New("proof-service")

const (
	TypeCredentialProof     = "openid4vci-proof+jwt"
	TypePinDerivedEphKeyPop = "pin_derived_eph_key_pop"
	TypeDeviceKeyPop        = "device_key_pop"

	ClaimNonce            = "nonce"
	ClaimSessionID        = "pid_issuer_session_id"
	ClaimDeviceKey        = "device_key"
	ClaimPinDerivedEphPub = "pin_derived_eph_pub"

	trustChainHeader = "trust_chain"
)

// Config defines configuration for Service.
type Config struct {
	Clock clock.Clock
	// ProofValidity is the maximum age of iat.
	ProofValidity time.Duration
	// ProofTimeTolerance is the accepted clock skew.
	ProofTimeTolerance time.Duration
}

// Service validates holder proofs of possession: the OpenID4VCI key proof and the two PIN binding pops.
type Service struct {
	clock     clock.Clock
	validity  time.Duration
	tolerance time.Duration
}

// NewService returns a new Service instance.
func NewService(config *Config) *Service {
	return &Service{
		clock:     config.Clock,
		validity:  config.ProofValidity,
		tolerance: config.ProofTimeTolerance,
	}
}

// Nonce is a server issued value the proof has to echo, with its expiry.
type Nonce struct {
	Value     string
	ExpiresAt time.Time
}

// KeyClaim wraps a JWK the way the binding pops carry the other key.
type KeyClaim struct {
	JWK *jose.JSONWebKey `json:"jwk"`
}

// Claims of all proof types.
type Claims struct {
	jwt.Claims

	Nonce            string    `json:"nonce,omitempty"`
	SessionID        string    `json:"pid_issuer_session_id,omitempty"`
	DeviceKey        *KeyClaim `json:"device_key,omitempty"`
	PinDerivedEphPub *KeyClaim `json:"pin_derived_eph_pub,omitempty"`
}

// Verified is a proof whose header, claims and signature were checked.
type Verified struct {
	Key    *jose.JSONWebKey
	Claims *Claims
}

// CredentialProofRequest holds what a credential key proof is checked against.
type CredentialProofRequest struct {
	ClientID string
	Audience string
	Nonce    Nonce
}

// VerifyCredentialProof validates an openid4vci-proof+jwt. Failures are invalid_proof errors.
func (s *Service) VerifyCredentialProof(raw string, req *CredentialProofRequest) (*Verified, error) {
	fail := func(msg string) error {
		return oidc4ci.NewInvalidProofError(errors.New(msg))
	}

	token, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, fail("Proof JWT could not be parsed")
	}

	key, err := s.checkHeader(raw, token, TypeCredentialProof, fail)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	if err = token.UnsafeClaimsWithoutVerification(claims); err != nil {
		return nil, fail("Proof JWT claims could not be parsed")
	}

	// iss is optional, a present one must name the client.
	if claims.Issuer != "" && claims.Issuer != req.ClientID {
		return nil, fail("Proof JWT issuer invalid")
	}

	if !singleAudience(claims.Audience, req.Audience) {
		return nil, fail("Proof JWT audience invalid")
	}

	if err = s.checkIssuedAt(claims.IssuedAt, fail); err != nil {
		return nil, err
	}

	if err = s.checkValidityWindow(claims, fail); err != nil {
		return nil, err
	}

	if err = s.checkNonce(claims.Nonce, req.Nonce, ClaimNonce, fail); err != nil {
		return nil, err
	}

	if err = token.Claims(key, &Claims{}); err != nil {
		return nil, fail("Proof JWT signature is invalid")
	}

	return &Verified{Key: key, Claims: claims}, nil
}

// VerifyPinDerivedEphKeyPop validates the PIN derived key pop sent with a seed credential request.
// It has to echo the c_nonce.
func (s *Service) VerifyPinDerivedEphKeyPop(raw, audience string, nonce Nonce) (*Verified, error) {
	return s.verifyPop(raw, TypePinDerivedEphKeyPop, audience, ClaimNonce, nonce)
}

// VerifyPinDerivedEphKeyPopForToken validates the PIN derived key pop of a seed credential grant.
// It has to echo the pid_issuer_session_id.
func (s *Service) VerifyPinDerivedEphKeyPopForToken(raw, audience string, sessionID Nonce) (*Verified, error) {
	return s.verifyPop(raw, TypePinDerivedEphKeyPop, audience, ClaimSessionID, sessionID)
}

// VerifyDeviceKeyPop validates the device key pop of a seed credential grant.
func (s *Service) VerifyDeviceKeyPop(raw, audience string, sessionID Nonce) (*Verified, error) {
	return s.verifyPop(raw, TypeDeviceKeyPop, audience, ClaimSessionID, sessionID)
}

func (s *Service) verifyPop(raw, typ, audience, nonceClaim string, expected Nonce) (*Verified, error) {
	fail := func(msg string) error {
		return rfc6749.NewInvalidRequestError(errors.New(msg))
	}

	token, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, fail(typ + " not a valid JWT")
	}

	key, err := s.checkHeader(raw, token, typ, fail)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	if err = token.UnsafeClaimsWithoutVerification(claims); err != nil {
		return nil, fail("Proof JWT claims could not be parsed")
	}

	if err = checkPopClaims(typ, claims, audience, nonceClaim); err != nil {
		return nil, fail(err.Error())
	}

	if err = s.checkValidityWindow(claims, fail); err != nil {
		return nil, err
	}

	value := claims.Nonce
	if nonceClaim == ClaimSessionID {
		value = claims.SessionID
	}

	if err = s.checkNonce(value, expected, nonceClaim, fail); err != nil {
		return nil, err
	}

	if err = token.Claims(key, &Claims{}); err != nil {
		return nil, fail("Proof JWT signature is invalid")
	}

	return &Verified{Key: key, Claims: claims}, nil
}

func checkPopClaims(typ string, claims *Claims, audience, nonceClaim string) error {
	var (
		msg     string
		present bool
	)

	if typ == TypeDeviceKeyPop {
		msg = "DeviceKeyPop claims invalid"
		present = claims.PinDerivedEphPub != nil && claims.PinDerivedEphPub.JWK != nil && claims.SessionID != ""
	} else {
		msg = "PinDerivedEphKeyPop claims invalid"
		present = claims.DeviceKey != nil && claims.DeviceKey.JWK != nil

		if nonceClaim == ClaimSessionID {
			present = present && claims.SessionID != ""
		} else {
			present = present && claims.Nonce != ""
		}
	}

	if !present || !singleAudience(claims.Audience, audience) {
		return errors.New(msg)
	}

	return nil
}

// CrossCompareKeys checks that the two binding pops reference each other's signing key.
func CrossCompareKeys(pinPop, devicePop *Verified) error {
	if pinPop.Claims.DeviceKey == nil || pinPop.Claims.DeviceKey.JWK == nil {
		return invalidKeyClaim(ClaimPinDerivedEphPub)
	}

	if devicePop.Claims.PinDerivedEphPub == nil || devicePop.Claims.PinDerivedEphPub.JWK == nil {
		return invalidKeyClaim(ClaimDeviceKey)
	}

	if !SameKey(pinPop.Key, devicePop.Claims.PinDerivedEphPub.JWK) {
		logger.Info("binding pop pin keys do not match")

		return invalidKeyClaim(ClaimPinDerivedEphPub)
	}

	if !SameKey(devicePop.Key, pinPop.Claims.DeviceKey.JWK) {
		logger.Info("binding pop device keys do not match")

		return invalidKeyClaim(ClaimDeviceKey)
	}

	return nil
}

// CompareKeys fails with "<property> invalid" when the keys differ.
func CompareKeys(left, right *jose.JSONWebKey, property string) error {
	if !SameKey(left, right) {
		return invalidKeyClaim(property)
	}

	return nil
}

func invalidKeyClaim(property string) error {
	return rfc6749.NewInvalidRequestError(fmt.Errorf("%s invalid", property))
}

// SameKey compares two keys by their RFC 7638 thumbprint.
func SameKey(left, right *jose.JSONWebKey) bool {
	if left == nil || right == nil {
		return false
	}

	l, err := Thumbprint(left)
	if err != nil {
		return false
	}

	r, err := Thumbprint(right)
	if err != nil {
		return false
	}

	return l == r
}

// Thumbprint returns the base64url SHA-256 JWK thumbprint.
func Thumbprint(key *jose.JSONWebKey) (string, error) {
	tp, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(tp), nil
}

func (s *Service) checkHeader(raw string, token *jwt.JSONWebToken, typ string,
	fail func(string) error) (*jose.JSONWebKey, error) {
	if len(token.Headers) != 1 {
		return nil, fail("Proof JWT could not be parsed")
	}

	header := token.Headers[0]

	if header.Algorithm != string(jose.ES256) {
		return nil, fail("Proof JWT algorithm mismatch, expected to be ES256")
	}

	if t, _ := header.ExtraHeaders[jose.HeaderType].(string); t != typ {
		return nil, fail("Proof JWT type mismatch, expected to be " + typ)
	}

	if header.JSONWebKey == nil || !header.JSONWebKey.Valid() {
		return nil, fail("Proof JWT header should contain a JWK")
	}

	if !header.JSONWebKey.IsPublic() {
		return nil, fail("Proof JWT header JWK should be a public key")
	}

	if header.KeyID != "" {
		return nil, fail("Proof JWT header keyId should not be present")
	}

	protected, err := protectedHeader(raw)
	if err != nil {
		return nil, fail("Proof JWT could not be parsed")
	}

	if _, ok := protected["x5c"]; ok {
		return nil, fail("Proof JWT header X509CertChain should not be present")
	}

	if _, ok := protected[trustChainHeader]; ok {
		return nil, fail("Proof JWT header trust chain should not be present")
	}

	return header.JSONWebKey, nil
}

func (s *Service) checkIssuedAt(iat *jwt.NumericDate, fail func(string) error) error {
	if iat == nil {
		return fail("Proof JWT issuance is missing")
	}

	now := s.clock.Now()
	issued := iat.Time()

	if issued.After(now.Add(s.tolerance)) {
		return fail("Proof JWT is issued in the future")
	}

	if issued.Before(now.Add(-s.validity - s.tolerance)) {
		return fail("Proof JWT issuance is too old")
	}

	return nil
}

// checkValidityWindow checks the optional exp and nbf claims with the configured tolerance.
func (s *Service) checkValidityWindow(claims *Claims, fail func(string) error) error {
	err := claims.Claims.ValidateWithLeeway(jwt.Expected{Time: s.clock.Now()}, s.tolerance)

	switch {
	case errors.Is(err, jwt.ErrExpired):
		return fail("Proof JWT is expired")
	case errors.Is(err, jwt.ErrNotValidYet):
		return fail("Proof JWT is not yet valid")
	}

	return nil
}

func (s *Service) checkNonce(value string, expected Nonce, claim string, fail func(string) error) error {
	if !s.clock.Now().Add(-s.tolerance).Before(expected.ExpiresAt) {
		return fail("Proof JWT credential " + claim + " expired")
	}

	if expected.Value == "" || value != expected.Value {
		return fail("Proof JWT credential " + claim + " invalid")
	}

	return nil
}

func singleAudience(aud jwt.Audience, expected string) bool {
	return len(aud) == 1 && aud[0] == expected
}

func protectedHeader(raw string) (map[string]json.RawMessage, error) {
	encoded, _, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, errors.New("not a compact jws")
	}

	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	var header map[string]json.RawMessage

	if err = json.Unmarshal(b, &header); err != nil {
		return nil, err
	}

	return header, nil
}
