/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package seedcredential issues and reads seed credentials. A seed credential is an issuer signed
// JWT that carries PID data so that a later token request can skip identification.
//
// Two forms exist. The encrypted form is the refresh token of variant C1: the PID data is a
// dir/A256GCM JWE in claim pid_data_enc and cnf.jwk holds the DPoP key of the wallet.
// The PIN form is the seed_credential of variant B1: the PID data is in claim pid_data and
// cnf holds the client instance key together with the PIN derived public key.
package seedcredential

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
)

var logger = log.New("seed-credential")

const (
	encryptionKeySize = 32

	claimPIDData    = "pid_data"
	claimPIDDataEnc = "pid_data_enc"
)

var keyIDPattern = regexp.MustCompile(`^[A-Za-z0-9.\-_]{1,64}$`)

var (
	// ErrInvalid is returned for every seed credential that cannot be used.
	ErrInvalid = errors.New("seed credential invalid")
	// ErrCrypto is returned when signing or encryption fails on the issuer side.
	ErrCrypto = errors.New("seed credential crypto failure")
)

// Config defines configuration for Service.
type Config struct {
	SigningKey      *ecdsa.PrivateKey
	SigningKeyID    string
	EncryptionKey   []byte
	EncryptionKeyID string
	Validity        time.Duration
	Clock           clock.Clock
}

// Service issues and verifies seed credentials.
type Service struct {
	signingKey      *ecdsa.PrivateKey
	signingKeyID    string
	encryptionKey   []byte
	encryptionKeyID string
	validity        time.Duration
	clock           clock.Clock
}

// NewService returns a new Service instance.
func NewService(config *Config) (*Service, error) {
	if config.SigningKey == nil {
		return nil, errors.New("seed signing key is required")
	}

	if len(config.EncryptionKey) != encryptionKeySize {
		return nil, fmt.Errorf("seed encryption key must have %d bytes", encryptionKeySize)
	}

	for _, kid := range []string{config.SigningKeyID, config.EncryptionKeyID} {
		if !keyIDPattern.MatchString(kid) {
			return nil, fmt.Errorf("invalid seed key identifier %q", kid)
		}
	}

	return &Service{
		signingKey:      config.SigningKey,
		signingKeyID:    config.SigningKeyID,
		encryptionKey:   config.EncryptionKey,
		encryptionKeyID: config.EncryptionKeyID,
		validity:        config.Validity,
		clock:           config.Clock,
	}, nil
}

// EncryptedSeed is the content of a verified refresh token.
type EncryptedSeed struct {
	Data             *pid.Data
	HolderBindingKey *jose.JSONWebKey
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

// PinSeed is the content of a verified B1 seed credential.
type PinSeed struct {
	Data              *pid.Data
	ClientInstanceKey *jose.JSONWebKey
	PinDerivedKey     *jose.JSONWebKey
	IssuedAt          time.Time
	ExpiresAt         time.Time
}

type confirmation struct {
	JWK           *jose.JSONWebKey `json:"jwk,omitempty"`
	PinDerivedJWK *jose.JSONWebKey `json:"pin_derived_public_jwk,omitempty"`
}

type seedClaims struct {
	jwt.Claims

	PIDDataEnc string        `json:"pid_data_enc,omitempty"`
	PIDData    *pid.Data     `json:"pid_data,omitempty"`
	Cnf        *confirmation `json:"cnf,omitempty"`
}

// IssueEncrypted builds a refresh token bound to holderKey.
func (s *Service) IssueEncrypted(data *pid.Data, holderKey *jose.JSONWebKey, issuerID string) (string, error) {
	if err := ensureInput(data, holderKey, issuerID); err != nil {
		return "", err
	}

	enc, err := s.encrypt(data)
	if err != nil {
		return "", err
	}

	claims := s.baseClaims(issuerID)
	claims.PIDDataEnc = enc
	claims.Cnf = &confirmation{JWK: publicOnly(holderKey)}

	return s.sign(claims)
}

// IssuePin builds a B1 seed credential bound to the client instance key and the PIN derived key.
func (s *Service) IssuePin(data *pid.Data, clientInstanceKey, pinDerivedKey *jose.JSONWebKey,
	issuerID string) (string, error) {
	if err := ensureInput(data, clientInstanceKey, issuerID); err != nil {
		return "", err
	}

	if pinDerivedKey == nil {
		return "", fmt.Errorf("%w: no pinDerivedPublicKey given", ErrInvalid)
	}

	claims := s.baseClaims(issuerID)
	claims.PIDData = data
	claims.Cnf = &confirmation{
		JWK:           publicOnly(clientInstanceKey),
		PinDerivedJWK: publicOnly(pinDerivedKey),
	}

	return s.sign(claims)
}

// ReadEncrypted verifies a refresh token and decrypts its PID data.
func (s *Service) ReadEncrypted(raw, issuerID string) (*EncryptedSeed, error) {
	claims, err := s.verify(raw, issuerID)
	if err != nil {
		return nil, err
	}

	if claims.Cnf == nil || claims.Cnf.JWK == nil {
		return nil, fmt.Errorf("%w: missing claim cnf.jwk", ErrInvalid)
	}

	if claims.PIDDataEnc == "" {
		return nil, fmt.Errorf("%w: missing claim %s", ErrInvalid, claimPIDDataEnc)
	}

	data, err := s.decrypt(claims.PIDDataEnc)
	if err != nil {
		return nil, err
	}

	return &EncryptedSeed{
		Data:             data,
		HolderBindingKey: claims.Cnf.JWK,
		IssuedAt:         claims.IssuedAt.Time(),
		ExpiresAt:        claims.Expiry.Time(),
	}, nil
}

// ReadPin verifies a B1 seed credential.
func (s *Service) ReadPin(raw, issuerID string) (*PinSeed, error) {
	claims, err := s.verify(raw, issuerID)
	if err != nil {
		return nil, err
	}

	switch {
	case claims.Cnf == nil || claims.Cnf.JWK == nil:
		return nil, fmt.Errorf("%w: missing claim cnf.jwk", ErrInvalid)
	case claims.Cnf.PinDerivedJWK == nil:
		return nil, fmt.Errorf("%w: missing claim cnf.pin_derived_public_jwk", ErrInvalid)
	case claims.PIDData == nil:
		return nil, fmt.Errorf("%w: missing claim %s", ErrInvalid, claimPIDData)
	}

	if err = claims.PIDData.Validate(); err != nil {
		return nil, fmt.Errorf("%w: could not decode the seed data: %w", ErrInvalid, err)
	}

	return &PinSeed{
		Data:              claims.PIDData,
		ClientInstanceKey: claims.Cnf.JWK,
		PinDerivedKey:     claims.Cnf.PinDerivedJWK,
		IssuedAt:          claims.IssuedAt.Time(),
		ExpiresAt:         claims.Expiry.Time(),
	}, nil
}

func (s *Service) baseClaims(issuerID string) *seedClaims {
	now := s.clock.Now()

	return &seedClaims{
		Claims: jwt.Claims{
			Issuer:   issuerID,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(s.validity)),
		},
	}
}

func (s *Service) sign(claims *seedClaims) (string, error) {
	signer, err := jose.NewSigner(jose.SigningKey{
		Algorithm: jose.ES256,
		Key:       jose.JSONWebKey{Key: s.signingKey, KeyID: s.signingKeyID},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create signer: %w", ErrCrypto, err)
	}

	raw, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("%w: could not sign the seed PID: %w", ErrCrypto, err)
	}

	return raw, nil
}

func (s *Service) verify(raw, issuerID string) (*seedClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: no seedPid given", ErrInvalid)
	}

	token, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: seed PID could not be parsed", ErrInvalid)
	}

	if len(token.Headers) != 1 {
		return nil, fmt.Errorf("%w: headers do not match expectations", ErrInvalid)
	}

	header := token.Headers[0]

	if header.JSONWebKey != nil || len(header.ExtraHeaders) > 0 || header.Nonce != "" {
		return nil, fmt.Errorf("%w: headers do not match expectations", ErrInvalid)
	}

	if header.Algorithm != string(jose.ES256) {
		return nil, fmt.Errorf("%w: unexpected signature algorithm in seedPid", ErrInvalid)
	}

	if header.KeyID == "" {
		return nil, fmt.Errorf("%w: no header.kid given", ErrInvalid)
	}

	if header.KeyID != s.signingKeyID {
		return nil, fmt.Errorf("%w: unknown key identifier", ErrInvalid)
	}

	claims := &seedClaims{}
	if err = token.Claims(&s.signingKey.PublicKey, claims); err != nil {
		logger.Debug("seed signature check failed", log.WithError(err))

		return nil, fmt.Errorf("%w: seed signature is not valid", ErrInvalid)
	}

	if claims.Issuer != issuerID {
		return nil, fmt.Errorf("%w: the issuer does not match", ErrInvalid)
	}

	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing claim iat", ErrInvalid)
	}

	if claims.Expiry == nil {
		return nil, fmt.Errorf("%w: missing claim exp", ErrInvalid)
	}

	if claims.Expiry.Time().Before(s.clock.Now()) {
		return nil, fmt.Errorf("%w: seed PID is expired", ErrInvalid)
	}

	return claims, nil
}

func (s *Service) encrypt(data *pid.Data) (string, error) {
	encrypter, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{
		Algorithm: jose.DIRECT,
		Key:       s.encryptionKey,
		KeyID:     s.encryptionKeyID,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create encrypter: %w", ErrCrypto, err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal pid data: %w", err)
	}

	obj, err := encrypter.Encrypt(payload)
	if err != nil {
		return "", fmt.Errorf("%w: could not encrypt the data: %w", ErrCrypto, err)
	}

	return obj.CompactSerialize()
}

func (s *Service) decrypt(raw string) (*pid.Data, error) {
	obj, err := jose.ParseEncrypted(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode payload data", ErrInvalid)
	}

	if obj.Header.Algorithm != string(jose.DIRECT) {
		return nil, fmt.Errorf("%w: unexpected encryption algorithm", ErrInvalid)
	}

	if enc, _ := obj.Header.ExtraHeaders[jose.HeaderKey("enc")].(string); enc != string(jose.A256GCM) {
		return nil, fmt.Errorf("%w: unexpected encryption method", ErrInvalid)
	}

	if obj.Header.KeyID == "" {
		return nil, fmt.Errorf("%w: JWE keyId missing", ErrInvalid)
	}

	if obj.Header.KeyID != s.encryptionKeyID {
		return nil, fmt.Errorf("%w: unknown key identifier", ErrInvalid)
	}

	payload, err := obj.Decrypt(s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decrypt the data", ErrInvalid)
	}

	data := &pid.Data{}
	if err = json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("%w: could not decode payload", ErrInvalid)
	}

	if err = data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: could not decode the seed data: %w", ErrInvalid, err)
	}

	return data, nil
}

func ensureInput(data *pid.Data, key *jose.JSONWebKey, issuerID string) error {
	switch {
	case data == nil:
		return fmt.Errorf("%w: no pidCredentialData given", ErrInvalid)
	case key == nil:
		return fmt.Errorf("%w: no holder key given", ErrInvalid)
	case strings.TrimSpace(issuerID) == "":
		return fmt.Errorf("%w: no issuerId given", ErrInvalid)
	}

	return nil
}

func publicOnly(key *jose.JSONWebKey) *jose.JSONWebKey {
	pub := key.Public()

	return &pub
}
