/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-jose/go-jose/v3"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/clientregistry"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/identification"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics/noop"
	dpoperr "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/clientattestation"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/proof"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/seedcredential"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

var logger = log.New("pid-issuer")

const (
	requestURIPrefix = "urn:ietf:params:oauth:request_uri:"

	// correlation values are 16 random bytes, 22 characters base64url
	correlationTokenSize = 16
	accessTokenSize      = 32

	endpointToken               = "token"
	endpointCredential          = "credential"
	endpointNonce               = "nonce"
	endpointSession             = "session"
	endpointPresentationSigning = "presentation-signing"
	endpointFinishAuthorization = "finish-authorization"
)

type clientRegistry interface {
	Get(clientID string) (*clientregistry.Client, error)
}

type clientAttestationService interface {
	Validate(params url.Values, clientID, audience string) (*clientattestation.Attestation, error)
}

type dpopVerifier interface {
	Verify(req *dpop.Request) (*dpop.Proof, error)
	CheckNonce(proof *dpop.Proof, state dpop.NonceState) error
}

type proofService interface {
	VerifyCredentialProof(raw string, req *proof.CredentialProofRequest) (*proof.Verified, error)
	VerifyPinDerivedEphKeyPop(raw, audience string, nonce proof.Nonce) (*proof.Verified, error)
	VerifyPinDerivedEphKeyPopForToken(raw, audience string, sessionID proof.Nonce) (*proof.Verified, error)
	VerifyDeviceKeyPop(raw, audience string, sessionID proof.Nonce) (*proof.Verified, error)
}

type seedCredentialService interface {
	IssueEncrypted(data *pid.Data, holderKey *jose.JSONWebKey, issuerID string) (string, error)
	ReadEncrypted(raw, issuerID string) (*seedcredential.EncryptedSeed, error)
	IssuePin(data *pid.Data, clientInstanceKey, pinDerivedKey *jose.JSONWebKey, issuerID string) (string, error)
	ReadPin(raw, issuerID string) (*seedcredential.PinSeed, error)
}

// Lifetimes of the single use values handed out during a flow.
type Lifetimes struct {
	RequestURI        time.Duration
	Identification    time.Duration
	AuthorizationCode time.Duration
	AccessToken       time.Duration
	CNonce            time.Duration
	DPoPNonce         time.Duration
	SessionID         time.Duration
}

// Config holds configuration options and dependencies for Service.
type Config struct {
	// BaseURL is the external URL of the service. The credential issuer identifier of a variant is
	// BaseURL/<variant>.
	BaseURL               string
	SessionStore          session.Store
	ClientRegistry        clientRegistry
	ClientAttestation     clientAttestationService
	AttestationRequired   bool
	Identification        identification.Provider
	DPoPVerifier          dpopVerifier
	ProofService          proofService
	CredentialService     credentialService
	SeedCredentialService seedCredentialService
	PinRetryService       pinRetryService
	// VCT is the only vct accepted in sd-jwt credential requests.
	VCT       string
	BatchSize int
	Lifetimes Lifetimes
	Clock     clock.Clock
	Metrics   metrics.Metrics
}

// Service implements the authorization server and credential issuer of all flow variants.
type Service struct {
	baseURL             string
	store               session.Store
	clientRegistry      clientRegistry
	clientAttestation   clientAttestationService
	attestationRequired bool
	identification      identification.Provider
	dpopVerifier        dpopVerifier
	proofService        proofService
	credentialService   credentialService
	seedService         seedCredentialService
	pinRetry            pinRetryService
	vct                 string
	batchSize           int
	lifetimes           Lifetimes
	dpopNonces          *dpop.NonceIssuer
	cNonces             *dpop.NonceIssuer
	clock               clock.Clock
	metrics             metrics.Metrics
}

// NewService returns a new Service instance.
func NewService(config *Config) *Service {
	clk := config.Clock
	if clk == nil {
		clk = clock.New()
	}

	m := config.Metrics
	if m == nil {
		m = noop.GetMetrics()
	}

	return &Service{
		baseURL:             strings.TrimSuffix(config.BaseURL, "/"),
		store:               config.SessionStore,
		clientRegistry:      config.ClientRegistry,
		clientAttestation:   config.ClientAttestation,
		attestationRequired: config.AttestationRequired,
		identification:      config.Identification,
		dpopVerifier:        config.DPoPVerifier,
		proofService:        config.ProofService,
		credentialService:   config.CredentialService,
		seedService:         config.SeedCredentialService,
		pinRetry:            config.PinRetryService,
		vct:                 config.VCT,
		batchSize:           config.BatchSize,
		lifetimes:           config.Lifetimes,
		dpopNonces:          dpop.NewNonceIssuer(clk, config.Lifetimes.DPoPNonce),
		cNonces:             dpop.NewNonceIssuer(clk, config.Lifetimes.CNonce),
		clock:               clk,
		metrics:             m,
	}
}

// IssuerID returns the credential issuer identifier of the flow variant.
func (s *Service) IssuerID(variant session.FlowVariant) string {
	return s.baseURL + "/" + string(variant)
}

func (s *Service) endpointURL(variant session.FlowVariant, endpoint string) string {
	return s.IssuerID(variant) + "/" + endpoint
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Service) rotateDPoPNonce(sess *session.Session) string {
	n := s.dpopNonces.Issue()

	sess.DPoPNonce = n.Value
	sess.DPoPNonceExpiresAt = n.ExpiresAt

	return n.Value
}

func (s *Service) rotateCNonce(sess *session.Session) {
	n := s.cNonces.Issue()

	sess.CNonce = n.Value
	sess.CNonceExpiresAt = n.ExpiresAt
}

// verifyDPoP checks the proof of req against the session nonce. On a DPoP error a fresh nonce
// is stored on the session and sent back with the error. Resource endpoints answer with 401.
func (s *Service) verifyDPoP(
	ctx context.Context,
	sess *session.Session,
	req *dpop.Request,
	resource bool,
) (*dpop.Proof, *jose.JSONWebKey, error) {
	p, err := s.dpopVerifier.Verify(req)
	if err == nil {
		err = s.dpopVerifier.CheckNonce(p, dpop.NonceState{
			Value:     sess.DPoPNonce,
			ExpiresAt: sess.DPoPNonceExpiresAt,
		})
	}

	if err == nil {
		key, keyErr := publicJWK(p)
		if keyErr != nil {
			return nil, nil, dpoperr.NewInvalidDPoPProofError(errors.New("Invalid dpop proof: invalid jwk")) //nolint:stylecheck
		}

		return p, key, nil
	}

	var dpopErr *dpoperr.Error
	if !errors.As(err, &dpopErr) {
		return nil, nil, err
	}

	logger.Debugc(ctx, "dpop proof rejected", logfields.WithSessionID(sess.ID), log.WithError(err))

	nonce := s.rotateDPoPNonce(sess)

	if updateErr := s.store.SetDPoPNonce(ctx, sess); updateErr != nil {
		if !errors.Is(updateErr, session.ErrConcurrentUpdate) && !errors.Is(updateErr, session.ErrDataNotFound) {
			return nil, nil, fmt.Errorf("store dpop nonce: %w", updateErr)
		}

		logger.Warnc(ctx, "dpop nonce not stored", logfields.WithSessionID(sess.ID), log.WithError(updateErr))
	} else {
		dpopErr.WithHeader(dpoperr.NonceHeader, nonce)
	}

	if resource {
		dpopErr.WithHTTPStatusField(http.StatusUnauthorized).WithAuthenticateChallenge(dpoperr.Scheme)
	}

	return nil, nil, dpopErr
}

func publicJWK(p *dpop.Proof) (*jose.JSONWebKey, error) {
	raw, err := p.PublicKeyJSON()
	if err != nil {
		return nil, err
	}

	key := &jose.JSONWebKey{}
	if err = key.UnmarshalJSON(raw); err != nil {
		return nil, err
	}

	return key, nil
}

func decodeJWK(raw []byte) (*jose.JSONWebKey, error) {
	if len(raw) == 0 {
		return nil, errors.New("key not set")
	}

	key := &jose.JSONWebKey{}
	if err := key.UnmarshalJSON(raw); err != nil {
		return nil, err
	}

	return key, nil
}

// lookupError maps session store failures to the protocol error of the endpoint.
func lookupError(err error, invalid, expired error) error {
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		return expired
	case errors.Is(err, session.ErrDataNotFound), errors.Is(err, session.ErrUnexpectedStep):
		return invalid
	default:
		return fmt.Errorf("session lookup: %w", err)
	}
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
