/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination client_attestation_service_mocks_test.go -package clientattestation_test -source=client_attestation_service.go -mock_names clientRegistry=MockClientRegistry

package clientattestation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/clientregistry"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
)

var logger = log.New("client-attestation")

const (
	// ClientAssertionType is the client_assertion_type of attestation based client authentication.
	ClientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-client-attestation"

	ParamClientAssertion     = "client_assertion"
	ParamClientAssertionType = "client_assertion_type"

	attestationSeparator = "~"
)

type clientRegistry interface {
	Get(clientID string) (*clientregistry.Client, error)
}

// Config defines configuration for Service.
type Config struct {
	ClientRegistry clientRegistry
	// DefaultAttestationKey verifies attestations of clients without their own attestation key.
	DefaultAttestationKey *jose.JSONWebKey
	Clock                 clock.Clock
	ProofValidity         time.Duration
	ProofTimeTolerance    time.Duration
}

// Service implements OAuth 2.0 Attestation-Based Client Authentication.
type Service struct {
	clientRegistry clientRegistry
	defaultKey     *jose.JSONWebKey
	clock          clock.Clock
	validity       time.Duration
	tolerance      time.Duration
}

// NewService returns a new Service instance.
func NewService(config *Config) *Service {
	return &Service{
		clientRegistry: config.ClientRegistry,
		defaultKey:     config.DefaultAttestationKey,
		clock:          config.Clock,
		validity:       config.ProofValidity,
		tolerance:      config.ProofTimeTolerance,
	}
}

// Attestation is a verified client attestation.
type Attestation struct {
	// ClientInstanceKey is the wallet instance key from the attestation cnf claim.
	ClientInstanceKey *jose.JSONWebKey
	WalletProvider    string
}

type confirmation struct {
	JWK *jose.JSONWebKey `json:"jwk,omitempty"`
}

type attestationClaims struct {
	jwt.Claims

	Cnf *confirmation `json:"cnf,omitempty"`
}

// Validate checks the client_assertion_type and client_assertion parameters for clientID.
// audience is the credential issuer identifier of the flow variant.
func (s *Service) Validate(params url.Values, clientID, audience string) (*Attestation, error) {
	if err := validateAssertionType(params); err != nil {
		return nil, err
	}

	attestationJWT, popJWT, err := splitAssertion(params)
	if err != nil {
		return nil, err
	}

	attestation := &attestationClaims{}
	if err = attestationJWT.UnsafeClaimsWithoutVerification(attestation); err != nil {
		return nil, invalidClient("Client attestation jwt is corrupted")
	}

	pop := &jwt.Claims{}
	if err = popJWT.UnsafeClaimsWithoutVerification(pop); err != nil {
		return nil, invalidClient("Client attestation jwt is corrupted")
	}

	if err = requireAttestationClaims(attestation); err != nil {
		return nil, invalidAttestation(err)
	}

	if err = requirePopClaims(pop); err != nil {
		return nil, invalidAttestation(err)
	}

	if err = s.validateAttestation(attestationJWT, attestation, clientID); err != nil {
		return nil, invalidAttestation(err)
	}

	if err = s.validatePop(popJWT, pop, attestation.Cnf.JWK, clientID, audience); err != nil {
		return nil, invalidAttestation(err)
	}

	logger.Debug("client attestation is valid")

	return &Attestation{
		ClientInstanceKey: attestation.Cnf.JWK,
		WalletProvider:    attestation.Issuer,
	}, nil
}

// Present reports whether the request carries attestation based client authentication.
func Present(params url.Values) bool {
	return params.Has(ParamClientAssertion) || params.Has(ParamClientAssertionType)
}

func validateAssertionType(params url.Values) error {
	if !params.Has(ParamClientAssertionType) {
		return invalidClient("Client assertion type is missing")
	}

	assertionType := params.Get(ParamClientAssertionType)

	if assertionType == "" {
		return invalidClient("Client assertion type is empty")
	}

	if assertionType != ClientAssertionType {
		return invalidClient("Client assertion type is invalid")
	}

	return nil
}

func splitAssertion(params url.Values) (*jwt.JSONWebToken, *jwt.JSONWebToken, error) {
	if !params.Has(ParamClientAssertion) {
		return nil, nil, invalidClient("Client assertion is missing")
	}

	assertion := params.Get(ParamClientAssertion)
	if assertion == "" {
		return nil, nil, invalidClient("Client assertion is empty")
	}

	parts := strings.Split(assertion, attestationSeparator)
	if len(parts) != 2 { //nolint:gomnd
		return nil, nil, invalidClient("Client assertion length is invalid")
	}

	tokens := make([]*jwt.JSONWebToken, 0, len(parts))

	for _, p := range parts {
		token, err := jwt.ParseSigned(p)
		if err != nil {
			return nil, nil, invalidClient("Client assertion could not be parsed")
		}

		tokens = append(tokens, token)
	}

	return tokens[0], tokens[1], nil
}

func requireAttestationClaims(c *attestationClaims) error {
	switch {
	case strings.TrimSpace(c.Issuer) == "":
		return errors.New("iss claim is missing")
	case strings.TrimSpace(c.Subject) == "":
		return errors.New("sub claim is missing")
	case c.Expiry == nil:
		return errors.New("exp claim is missing")
	case c.Cnf == nil || c.Cnf.JWK == nil:
		return errors.New("cnf claim is missing")
	}

	return nil
}

func requirePopClaims(c *jwt.Claims) error {
	switch {
	case strings.TrimSpace(c.Issuer) == "":
		return errors.New("iss claim is missing")
	case c.Expiry == nil:
		return errors.New("exp claim is missing")
	case len(c.Audience) == 0:
		return errors.New("aud claim is missing")
	case c.ID == "":
		return errors.New("jti claim is missing")
	}

	return nil
}

func (s *Service) validateAttestation(token *jwt.JSONWebToken, c *attestationClaims, clientID string) error {
	if err := s.validateTimeClaims(&c.Claims); err != nil {
		return err
	}

	walletProvider, err := uuid.Parse(c.Issuer)
	if err != nil {
		return fmt.Errorf("Invalid UUID string: %s", c.Issuer) //nolint:stylecheck
	}

	if _, err = s.clientRegistry.Get(walletProvider.String()); err != nil {
		return fmt.Errorf("Client attestation issuer '%s' is not supported", c.Issuer) //nolint:stylecheck
	}

	if !strings.EqualFold(c.Subject, clientID) {
		return fmt.Errorf("Client attestation subject '%s' does not match the client id '%s'", //nolint:stylecheck
			c.Subject, clientID)
	}

	key, err := s.attestationKey(clientID)
	if err != nil {
		return err
	}

	if err = token.Claims(key, &jwt.Claims{}); err != nil {
		return errors.New("Client attestation signature verification failed") //nolint:stylecheck
	}

	return nil
}

func (s *Service) validatePop(token *jwt.JSONWebToken, c *jwt.Claims, instanceKey *jose.JSONWebKey,
	clientID, audience string) error {
	if err := s.validateTimeClaims(c); err != nil {
		return err
	}

	if !strings.EqualFold(c.Issuer, clientID) {
		return fmt.Errorf("Client attestation issuer '%s' does not match the client id '%s'", //nolint:stylecheck
			c.Issuer, clientID)
	}

	if !lo.Contains(c.Audience, audience) {
		logger.Debug("client attestation pop audience unknown", log.WithURL(audience))

		return errors.New("Client attestation issuer audience unknown") //nolint:stylecheck
	}

	if !instanceKey.Valid() || !instanceKey.IsPublic() {
		return errors.New("An error occurred while checking the signature in client attestation pop jwt") //nolint:stylecheck
	}

	if err := token.Claims(instanceKey, &jwt.Claims{}); err != nil {
		return errors.New("Client attestation signature verification failed") //nolint:stylecheck
	}

	return nil
}

func (s *Service) attestationKey(clientID string) (*jose.JSONWebKey, error) {
	key := s.defaultKey

	if client, err := s.clientRegistry.Get(clientID); err == nil && client.AttestationKey != nil {
		key = client.AttestationKey
	}

	if key == nil || !key.Valid() {
		return nil, errors.New("An error occurred while checking the signature in client attestation jwt") //nolint:stylecheck
	}

	return key, nil
}

func (s *Service) validateTimeClaims(c *jwt.Claims) error {
	now := s.clock.Now()
	exp := c.Expiry.Time()

	if exp.Add(s.tolerance).Before(now) {
		return errors.New("Client attestation is expired") //nolint:stylecheck
	}

	if exp.After(now.Add(s.validity).Add(s.tolerance)) {
		return errors.New("Client attestation expiration date is too far in the future") //nolint:stylecheck
	}

	if c.NotBefore != nil && now.Add(s.tolerance).Before(c.NotBefore.Time()) {
		return errors.New("Client attestation is not yet valid") //nolint:stylecheck
	}

	if c.IssuedAt != nil {
		iat := c.IssuedAt.Time()

		if iat.After(now.Add(s.tolerance)) {
			return errors.New("Client attestation is issued in the future") //nolint:stylecheck
		}

		if iat.Before(now.Add(-s.validity - s.tolerance)) {
			return errors.New("Client attestation issuance is too old") //nolint:stylecheck
		}
	}

	return nil
}

func invalidClient(msg string) error {
	return rfc6749.NewInvalidClientError(errors.New(msg))
}

func invalidAttestation(err error) error {
	return rfc6749.NewInvalidClientError(fmt.Errorf("Client attestation jwt is invalid, %w", err)) //nolint:stylecheck
}
