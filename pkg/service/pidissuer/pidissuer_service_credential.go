/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v3"
	"github.com/google/uuid"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/mdoc"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/oidc4ci"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/issuecredential"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/proof"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

// formatRule describes how a variant issues one credential format.
type formatRule struct {
	proofRequired bool
	// serverHeldKey binds the credential to a key generated and kept by the issuer.
	serverHeldKey bool
}

type variantPolicy struct {
	formats map[string]formatRule
	batch   bool
}

var policies = map[session.FlowVariant]variantPolicy{
	session.VariantB: {
		formats: map[string]formatRule{
			issuecredential.FormatSDJWT:                    {proofRequired: true},
			issuecredential.FormatMdocAuthenticatedChannel: {},
		},
	},
	session.VariantB1: {
		formats: map[string]formatRule{
			issuecredential.FormatSDJWT:                    {proofRequired: true},
			issuecredential.FormatMdocAuthenticatedChannel: {},
			issuecredential.FormatSeedCredential:           {proofRequired: true},
		},
	},
	session.VariantC: {
		formats: map[string]formatRule{
			issuecredential.FormatSDJWT: {proofRequired: true},
			issuecredential.FormatMdoc:  {proofRequired: true},
		},
		batch: true,
	},
	session.VariantC1: {
		formats: map[string]formatRule{
			issuecredential.FormatSDJWT: {proofRequired: true},
			issuecredential.FormatMdoc:  {proofRequired: true},
		},
		batch: true,
	},
	session.VariantC2: {
		formats: map[string]formatRule{
			issuecredential.FormatSDJWT: {serverHeldKey: true},
		},
	},
}

// credentialIssuance is a validated credential request, ready to be signed.
type credentialIssuance struct {
	format  string
	batch   bool
	proofs  []*proof.Verified
	pinPop  *proof.Verified
	channel *mdoc.AuthenticatedChannel
	// deviceKey is the server held holder key of variant C2.
	deviceKey *ecdsa.PrivateKey
}

// Credential issues one credential per proof, or a single one for formats without proof.
// All checks happen before the c_nonce is consumed and anything is signed.
func (s *Service) Credential(
	ctx context.Context,
	variant session.FlowVariant,
	req *CredentialRequest,
) (*CredentialResponse, error) {
	sess, dpopKey, err := s.authorizeResource(ctx, variant, &req.ResourceRequest, endpointCredential)
	if err != nil {
		return nil, err
	}

	if req.Body == nil {
		return nil, invalidCredentialRequest("Credential request body missing")
	}

	issuance, err := s.validateCredentialRequest(sess, req.Body)
	if err != nil {
		return nil, err
	}

	s.rotateCNonce(sess)
	nonce := s.rotateDPoPNonce(sess)

	if issuance.deviceKey != nil {
		if sess.DeviceKeyPair, err = (&jose.JSONWebKey{Key: issuance.deviceKey, Algorithm: string(jose.ES256)}).
			MarshalJSON(); err != nil {
			return nil, fmt.Errorf("encode device key: %w", err)
		}
	}

	// Storing the rotated c_nonce is the point where a proof is spent. A concurrent request with the
	// same nonce fails here.
	if err = s.store.Update(ctx, sess); err != nil {
		if errors.Is(err, session.ErrConcurrentUpdate) {
			if len(issuance.proofs) > 0 {
				return nil, invalidProof("Proof JWT nonce invalid")
			}

			return nil, invalidCredentialRequest("Credential request already in progress")
		}

		return nil, fmt.Errorf("update session: %w", err)
	}

	credentials, err := s.issueCredentials(ctx, sess, dpopKey, issuance)
	if err != nil {
		return nil, err
	}

	resp := &CredentialResponse{
		CNonce:          sess.CNonce,
		CNonceExpiresIn: seconds(s.lifetimes.CNonce),
		DPoPNonce:       nonce,
	}

	if issuance.batch {
		resp.Credentials = credentials
	} else {
		resp.Credential = credentials[0]
	}

	logger.Infoc(ctx, "credentials issued",
		logfields.WithFlowVariant(string(variant)),
		logfields.WithSessionID(sess.ID),
		logfields.WithCredentialFormat(issuance.format),
		logfields.WithCredentialCount(len(credentials)))

	return resp, nil
}

func (s *Service) validateCredentialRequest(
	sess *session.Session,
	body *CredentialRequestBody,
) (*credentialIssuance, error) {
	policy := policies[sess.FlowVariant]

	if strings.TrimSpace(body.Format) == "" {
		return nil, invalidCredentialRequest("Credential format missing")
	}

	rule, ok := policy.formats[body.Format]
	if !ok {
		return nil, oidc4ci.NewUnsupportedCredentialFormatError(
			fmt.Errorf("credential format %q not supported", body.Format))
	}

	if err := s.checkCredentialType(body); err != nil {
		return nil, err
	}

	issuance := &credentialIssuance{format: body.Format}

	rawProofs, batch, err := s.collectProofs(policy, rule, body)
	if err != nil {
		return nil, err
	}

	issuance.batch = batch

	for _, raw := range rawProofs {
		verified, verifyErr := s.proofService.VerifyCredentialProof(raw, &proof.CredentialProofRequest{
			ClientID: sess.ClientID,
			Audience: s.IssuerID(sess.FlowVariant),
			Nonce:    proof.Nonce{Value: sess.CNonce, ExpiresAt: sess.CNonceExpiresAt},
		})
		if verifyErr != nil {
			return nil, verifyErr
		}

		issuance.proofs = append(issuance.proofs, verified)
	}

	switch body.Format {
	case issuecredential.FormatMdoc:
		for _, p := range issuance.proofs {
			if _, err = ecP256Key(p.Key); err != nil {
				return nil, invalidProof("Proof JWT key must be an EC P-256 key")
			}
		}
	case issuecredential.FormatMdocAuthenticatedChannel:
		if issuance.channel, err = authenticatedChannel(body); err != nil {
			return nil, err
		}
	case issuecredential.FormatSeedCredential:
		if issuance.pinPop, err = s.verifySeedRequestPop(sess, body, issuance.proofs[0]); err != nil {
			return nil, err
		}
	}

	if rule.serverHeldKey {
		if issuance.deviceKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader); err != nil {
			return nil, fmt.Errorf("generate device key: %w", err)
		}
	}

	return issuance, nil
}

func (s *Service) checkCredentialType(body *CredentialRequestBody) error {
	var requested, supported string

	switch body.Format {
	case issuecredential.FormatSDJWT:
		requested, supported = body.VCT, s.vct
	case issuecredential.FormatMdoc, issuecredential.FormatMdocAuthenticatedChannel:
		requested, supported = body.DocType, string(issuecredential.DocType)
	default:
		return nil
	}

	if requested != supported {
		return oidc4ci.NewUnsupportedCredentialTypeError(fmt.Errorf("credential type %q not supported", requested))
	}

	return nil
}

// collectProofs applies the proof rules of the format and returns the proof JWTs to verify.
func (s *Service) collectProofs(policy variantPolicy, rule formatRule, body *CredentialRequestBody) ([]string, bool, error) {
	hasProof, hasProofs := body.Proof != nil, body.Proofs != nil

	if !rule.proofRequired {
		if hasProof || hasProofs {
			return nil, false, invalidCredentialRequest("Neither proof nor proofs expected")
		}

		return nil, false, nil
	}

	switch {
	case hasProof && hasProofs:
		return nil, false, invalidProof("Only proof OR proofs can be set, not both")
	case hasProofs && (!policy.batch || body.Format == issuecredential.FormatSeedCredential):
		return nil, false, invalidCredentialRequest("No proofs expected")
	case !hasProof && !hasProofs:
		return nil, false, invalidProof("Proof is missing")
	case hasProof:
		if body.Proof.ProofType != ProofTypeJWT {
			return nil, false, invalidProof("Proof type invalid")
		}

		if body.Proof.JWT == "" {
			return nil, false, invalidProof("Proof is missing")
		}

		return []string{body.Proof.JWT}, false, nil
	}

	switch n := len(body.Proofs.JWT); {
	case n == 0:
		return nil, false, invalidProof("Proof is missing")
	case s.batchSize > 0 && n > s.batchSize:
		return nil, false, invalidCredentialRequest(fmt.Sprintf("Batch size of %d exceeded", s.batchSize))
	}

	return body.Proofs.JWT, true, nil
}

// verifySeedRequestPop checks the PIN derived key pop sent with a seed credential request. It has to
// reference the key of the credential proof as device key.
func (s *Service) verifySeedRequestPop(
	sess *session.Session,
	body *CredentialRequestBody,
	keyProof *proof.Verified,
) (*proof.Verified, error) {
	if body.PinDerivedEphKeyPop == "" {
		return nil, invalidRequest("pin_derived_eph_key_pop missing")
	}

	pinPop, err := s.proofService.VerifyPinDerivedEphKeyPop(body.PinDerivedEphKeyPop, s.IssuerID(sess.FlowVariant),
		proof.Nonce{Value: sess.CNonce, ExpiresAt: sess.CNonceExpiresAt})
	if err != nil {
		return nil, err
	}

	if err = proof.CompareKeys(pinPop.Claims.DeviceKey.JWK, keyProof.Key, proof.ClaimDeviceKey); err != nil {
		return nil, err
	}

	return pinPop, nil
}

func (s *Service) issueCredentials(
	ctx context.Context,
	sess *session.Session,
	dpopKey *jose.JSONWebKey,
	issuance *credentialIssuance,
) ([]string, error) {
	if sess.Identity == nil {
		return nil, errors.New("session has no identity")
	}

	issuer := s.IssuerID(sess.FlowVariant)

	var credentials []string

	add := func(credential string, err error) error {
		if err != nil {
			return issuanceError(ctx, err)
		}

		credentials = append(credentials, credential)
		s.metrics.CredentialIssued(string(sess.FlowVariant), issuance.format)

		return nil
	}

	switch issuance.format {
	case issuecredential.FormatSDJWT:
		if issuance.deviceKey != nil {
			holder := &jose.JSONWebKey{Key: &issuance.deviceKey.PublicKey, Algorithm: string(jose.ES256)}

			if err := add(s.credentialService.IssueSDJWT(ctx, sess.Identity, holder, issuer)); err != nil {
				return nil, err
			}

			break
		}

		for _, p := range issuance.proofs {
			if err := add(s.credentialService.IssueSDJWT(ctx, sess.Identity, p.Key, issuer)); err != nil {
				return nil, err
			}
		}
	case issuecredential.FormatMdoc:
		for _, p := range issuance.proofs {
			key, _ := ecP256Key(p.Key)

			if err := add(s.credentialService.IssueMdoc(ctx, sess.Identity, key)); err != nil {
				return nil, err
			}
		}
	case issuecredential.FormatMdocAuthenticatedChannel:
		if err := add(s.credentialService.IssueMdocAuthenticatedChannel(ctx, sess.Identity, issuance.channel)); err != nil {
			return nil, err
		}
	case issuecredential.FormatSeedCredential:
		seed, err := s.seedService.IssuePin(sess.Identity, dpopKey, issuance.pinPop.Key, issuer)
		if err != nil {
			return nil, issuanceError(ctx, err)
		}

		if err = s.pinRetry.Init(ctx, dpopKey); err != nil {
			return nil, err
		}

		if err = add(seed, nil); err != nil {
			return nil, err
		}
	}

	return credentials, nil
}

// issuanceError turns identity data that cannot be encoded into a 500. Nothing partial is returned.
func issuanceError(ctx context.Context, err error) error {
	if errors.Is(err, pid.ErrDataIssue) {
		logger.Errorc(ctx, "identity data cannot be encoded", log.WithError(err))

		return rfc6749.NewServerError(errors.New("PID data could not be encoded"))
	}

	return fmt.Errorf("issue credential: %w", err)
}

func authenticatedChannel(body *CredentialRequestBody) (*mdoc.AuthenticatedChannel, error) {
	invalidKey := invalidCredentialRequest("verifierPub is no valid ec key")

	if len(body.VerifierPub) == 0 {
		return nil, invalidKey
	}

	verifierJWK := &jose.JSONWebKey{}
	if err := verifierJWK.UnmarshalJSON(body.VerifierPub); err != nil {
		return nil, invalidKey
	}

	verifierKey, err := ecP256Key(verifierJWK)
	if err != nil {
		return nil, invalidKey
	}

	if body.SessionTranscript == "" {
		return nil, invalidCredentialRequest("sessionTranscript missing")
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(body.SessionTranscript, "="))
	if err != nil {
		return nil, invalidCredentialRequest(mdoc.ErrSessionTranscriptContent.Error())
	}

	transcript, err := mdoc.ParseSessionTranscript(raw)
	if err != nil {
		if errors.Is(err, mdoc.ErrSessionTranscriptSize) {
			return nil, invalidCredentialRequest(mdoc.ErrSessionTranscriptSize.Error())
		}

		return nil, invalidCredentialRequest(mdoc.ErrSessionTranscriptContent.Error())
	}

	return &mdoc.AuthenticatedChannel{SessionTranscript: transcript, VerifierKey: verifierKey}, nil
}

func ecP256Key(key *jose.JSONWebKey) (*ecdsa.PublicKey, error) {
	if key == nil {
		return nil, errors.New("key missing")
	}

	pub, ok := key.Key.(*ecdsa.PublicKey)
	if !ok || pub.Curve != elliptic.P256() {
		return nil, errors.New("not an EC P-256 public key")
	}

	return pub, nil
}

// Nonce hands out a fresh c_nonce for the access token.
func (s *Service) Nonce(ctx context.Context, variant session.FlowVariant, req *ResourceRequest) (*NonceResponse, error) {
	sess, _, err := s.authorizeResource(ctx, variant, req, endpointNonce)
	if err != nil {
		return nil, err
	}

	s.rotateCNonce(sess)
	nonce := s.rotateDPoPNonce(sess)

	if err = s.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	return &NonceResponse{
		CNonce:          sess.CNonce,
		CNonceExpiresIn: seconds(s.lifetimes.CNonce),
		DPoPNonce:       nonce,
	}, nil
}

// CreateSeedSession starts the seed credential grant of variant B1. The returned session id has to
// be referenced by the binding pops of the token request.
func (s *Service) CreateSeedSession(ctx context.Context, variant session.FlowVariant) (*SeedSessionResponse, error) {
	if variant != session.VariantB1 {
		return nil, invalidRequest("Seed sessions are only available in flow variant b1")
	}

	sess := &session.Session{
		ID:                 uuid.NewString(),
		FlowVariant:        variant,
		NextStep:           session.StepSeedToken,
		PIDIssuerSessionID: dpop.RandomString(correlationTokenSize),
		ExpireAt:           s.now().Add(s.lifetimes.SessionID),
	}

	nonce := s.rotateDPoPNonce(sess)

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	logger.Debugc(ctx, "seed session created", logfields.WithSessionID(sess.ID))

	return &SeedSessionResponse{
		SessionID:          sess.PIDIssuerSessionID,
		SessionIDExpiresIn: seconds(s.lifetimes.SessionID),
		DPoPNonce:          nonce,
	}, nil
}

// authorizeResource loads the session of a DPoP bound access token and checks the DPoP proof.
func (s *Service) authorizeResource(
	ctx context.Context,
	variant session.FlowVariant,
	req *ResourceRequest,
	endpoint string,
) (*session.Session, *jose.JSONWebKey, error) {
	token, err := accessToken(req.Header.Get("Authorization"))
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.store.Find(ctx, variant, session.KeyAccessToken, token)
	if err != nil {
		return nil, nil, lookupError(err, invalidToken("Invalid access token"), invalidToken("Access token expired"))
	}

	if sess.NextStep != session.StepTokenIssued {
		return nil, nil, invalidToken("Invalid access token")
	}

	_, key, err := s.verifyDPoP(ctx, sess, &dpop.Request{
		Header:          req.Header,
		Method:          req.Method,
		URL:             s.endpointURL(variant, endpoint),
		AccessToken:     token,
		BoundThumbprint: sess.DPoPKeyThumbprint,
	}, true)
	if err != nil {
		return nil, nil, err
	}

	return sess, key, nil
}

func accessToken(authorization string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, TokenTypeDPoP) || strings.TrimSpace(token) == "" {
		return "", invalidToken("Missing DPoP access token")
	}

	return strings.TrimSpace(token), nil
}
