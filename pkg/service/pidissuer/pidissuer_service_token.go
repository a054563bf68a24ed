/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"
	"github.com/trustbloc/logutil-go/pkg/log"
	"golang.org/x/oauth2"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pinretry"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/proof"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

// RFC 7636 section 4.1
var codeVerifierPattern = regexp.MustCompile(`^[A-Za-z0-9\-._~]{43,128}$`)

// Token exchanges a grant for a DPoP bound access token.
func (s *Service) Token(ctx context.Context, variant session.FlowVariant, req *TokenRequest) (*TokenResponse, error) {
	grantType, err := requiredParam(req.Params, ParamGrantType, "Invalid grant type")
	if err != nil {
		return nil, err
	}

	logger.Debugc(ctx, "token request",
		logfields.WithFlowVariant(string(variant)), logfields.WithGrantType(grantType))

	switch {
	case grantType == GrantTypeAuthorizationCode:
		return s.exchangeAuthorizationCode(ctx, variant, req)
	case grantType == GrantTypeRefreshToken && variant == session.VariantC1:
		return s.exchangeRefreshToken(ctx, variant, req)
	case grantType == GrantTypeSeedCredential && variant == session.VariantB1:
		return s.exchangeSeedCredential(ctx, variant, req)
	default:
		return nil, rfc6749.NewUnsupportedGrantTypeError(fmt.Errorf("unsupported grant type: %s", grantType))
	}
}

func (s *Service) exchangeAuthorizationCode(
	ctx context.Context,
	variant session.FlowVariant,
	req *TokenRequest,
) (*TokenResponse, error) {
	invalidCode := invalidGrant("invalid authorization code")

	code, err := requiredParam(req.Params, ParamCode, "invalid authorization code")
	if err != nil {
		return nil, err
	}

	sess, err := s.store.Find(ctx, variant, session.KeyAuthorizationCode, code)
	if err != nil {
		return nil, lookupError(err, invalidCode, invalidGrant("Session is expired"))
	}

	if sess.NextStep != session.StepCodeIssued {
		return nil, invalidCode
	}

	if req.Params.Has(ParamClientID) && req.Params.Get(ParamClientID) != sess.ClientID {
		return nil, invalidGrant("client_id does not match the authorization request")
	}

	redirectURI, err := requiredParam(req.Params, ParamRedirectURI, "Invalid redirect URI")
	if err != nil {
		return nil, err
	}

	if redirectURI != sess.RedirectURI {
		return nil, invalidGrant("Invalid redirect URI")
	}

	verifier, err := requiredParam(req.Params, ParamCodeVerifier, "Invalid code verifier")
	if err != nil {
		return nil, err
	}

	if !codeVerifierPattern.MatchString(verifier) {
		return nil, invalidRequest("Invalid code verifier")
	}

	if oauth2.S256ChallengeFromVerifier(verifier) != sess.CodeChallenge {
		return nil, invalidGrant("Invalid code verifier")
	}

	p, key, err := s.verifyDPoP(ctx, sess, &dpop.Request{
		Header: req.Header,
		Method: req.Method,
		URL:    s.endpointURL(variant, endpointToken),
	}, false)
	if err != nil {
		return nil, err
	}

	if len(sess.ClientInstanceKey) > 0 {
		instanceKey, keyErr := decodeJWK(sess.ClientInstanceKey)
		if keyErr != nil || !proof.SameKey(instanceKey, key) {
			return nil, invalidGrant("Key mismatch")
		}
	}

	// the code is single use, of two concurrent requests only one gets here
	consumed, err := s.store.LookupAndConsume(ctx, variant, session.KeyAuthorizationCode, code,
		session.StepCodeIssued)
	if err != nil {
		return nil, lookupError(err, invalidCode, invalidGrant("Session is expired"))
	}

	return s.issueTokens(ctx, consumed, p, key)
}

func (s *Service) exchangeRefreshToken(
	ctx context.Context,
	variant session.FlowVariant,
	req *TokenRequest,
) (*TokenResponse, error) {
	client, err := s.client(variant, req.Params)
	if err != nil {
		return nil, err
	}

	refreshToken, err := requiredParam(req.Params, ParamRefreshToken, "Refresh token invalid")
	if err != nil {
		return nil, err
	}

	seed, err := s.seedService.ReadEncrypted(refreshToken, s.IssuerID(variant))
	if err != nil {
		logger.Infoc(ctx, "refresh token rejected", log.WithError(err))

		return nil, invalidGrant("Refresh token invalid")
	}

	// The first request has no DPoP nonce yet. It gets one bound to a session keyed by the refresh token.
	sess, err := s.store.Find(ctx, variant, session.KeyRefreshToken, refreshToken)
	if errors.Is(err, session.ErrDataNotFound) {
		sess = &session.Session{
			ID:           uuid.NewString(),
			FlowVariant:  variant,
			NextStep:     session.StepSeedToken,
			ClientID:     client.ID,
			RefreshToken: refreshToken,
			ExpireAt:     s.now().Add(s.lifetimes.SessionID),
		}

		if err = s.store.Create(ctx, sess); err != nil {
			return nil, fmt.Errorf("create refresh session: %w", err)
		}
	} else if err != nil {
		return nil, lookupError(err, invalidGrant("Refresh token invalid"), invalidGrant("Session is expired"))
	}

	p, key, err := s.verifyDPoP(ctx, sess, &dpop.Request{
		Header: req.Header,
		Method: req.Method,
		URL:    s.endpointURL(variant, endpointToken),
	}, false)
	if err != nil {
		return nil, err
	}

	if !proof.SameKey(seed.HolderBindingKey, key) {
		return nil, invalidGrant("Key mismatch")
	}

	consumed, err := s.store.LookupAndConsume(ctx, variant, session.KeyRefreshToken, refreshToken,
		session.StepSeedToken)
	if err != nil {
		return nil, lookupError(err, invalidGrant("Refresh token invalid"), invalidGrant("Session is expired"))
	}

	if err = consumed.SetIdentity(seed.Data, s.now()); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, consumed, p, key)
}

func (s *Service) exchangeSeedCredential(
	ctx context.Context,
	variant session.FlowVariant,
	req *TokenRequest,
) (*TokenResponse, error) {
	client, err := s.client(variant, req.Params)
	if err != nil {
		return nil, err
	}

	devicePopRaw := req.Params.Get(ParamDeviceKeyPop)

	sessionID, err := sessionIDFromPop(devicePopRaw)
	if err != nil {
		return nil, invalidClient("device_key_pop could not be parsed")
	}

	pinPopRaw, err := requiredParam(req.Params, ParamPinDerivedEphKeyPop, "pin_derived_eph_key_pop invalid")
	if err != nil {
		return nil, err
	}

	seedRaw, err := requiredParam(req.Params, ParamSeedCredential, "Seed credential invalid")
	if err != nil {
		return nil, err
	}

	sess, err := s.store.Find(ctx, variant, session.KeyPIDIssuerSessionID, sessionID)
	if err != nil {
		return nil, lookupError(err, invalidGrant("Invalid session id"), invalidGrant("Session is expired"))
	}

	if sess.NextStep != session.StepSeedToken {
		return nil, invalidGrant("Invalid session id")
	}

	p, key, err := s.verifyDPoP(ctx, sess, &dpop.Request{
		Header: req.Header,
		Method: req.Method,
		URL:    s.endpointURL(variant, endpointToken),
	}, false)
	if err != nil {
		return nil, err
	}

	seed, err := s.seedService.ReadPin(seedRaw, s.IssuerID(variant))
	if err != nil {
		logger.Infoc(ctx, "seed credential rejected", logfields.WithSessionID(sess.ID), log.WithError(err))

		return nil, invalidGrant("Seed credential invalid")
	}

	if !proof.SameKey(seed.ClientInstanceKey, key) {
		return nil, invalidGrant("Seed credential invalid")
	}

	counterID, err := s.pinRetry.Load(ctx, seed.ClientInstanceKey)
	if err != nil {
		if errors.Is(err, pinretry.ErrLocked) {
			return nil, invalidGrant("PIN locked")
		}

		logger.Infoc(ctx, "pin retry counter unavailable", logfields.WithSessionID(sess.ID), log.WithError(err))

		return nil, invalidGrant("Seed credential invalid")
	}

	binding := &pinBinding{
		pinPop:    pinPopRaw,
		devicePop: devicePopRaw,
		audience:  s.IssuerID(variant),
		sessionID: proof.Nonce{Value: sess.PIDIssuerSessionID, ExpiresAt: sess.ExpireAt},
	}

	if err = s.checkPinBinding(binding, seed.PinDerivedKey, key); err != nil {
		logger.Infoc(ctx, "pin binding rejected", logfields.WithSessionID(sess.ID), log.WithError(err))

		if incErr := s.pinRetry.Increment(ctx, counterID); incErr != nil && !errors.Is(incErr, pinretry.ErrLocked) {
			return nil, incErr
		}

		return nil, invalidGrant("PIN invalid")
	}

	consumed, err := s.store.LookupAndConsume(ctx, variant, session.KeyPIDIssuerSessionID, sessionID,
		session.StepSeedToken)
	if err != nil {
		return nil, lookupError(err, invalidGrant("Invalid session id"), invalidGrant("Session is expired"))
	}

	consumed.ClientID = client.ID

	if consumed.ClientInstanceKey, err = json.Marshal(seed.ClientInstanceKey); err != nil {
		return nil, fmt.Errorf("encode client instance key: %w", err)
	}

	if consumed.PinDerivedPublicKey, err = json.Marshal(seed.PinDerivedKey); err != nil {
		return nil, fmt.Errorf("encode pin derived key: %w", err)
	}

	if err = consumed.SetIdentity(seed.Data, s.now()); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, consumed, p, key)
}

type pinBinding struct {
	pinPop    string
	devicePop string
	audience  string
	sessionID proof.Nonce
}

// checkPinBinding verifies that the wallet still holds the device key and the PIN derived key
// the seed credential was issued for.
func (s *Service) checkPinBinding(b *pinBinding, pinDerivedKey, dpopKey *jose.JSONWebKey) error {
	pinPop, err := s.proofService.VerifyPinDerivedEphKeyPopForToken(b.pinPop, b.audience, b.sessionID)
	if err != nil {
		return err
	}

	devicePop, err := s.proofService.VerifyDeviceKeyPop(b.devicePop, b.audience, b.sessionID)
	if err != nil {
		return err
	}

	if err = proof.CrossCompareKeys(pinPop, devicePop); err != nil {
		return err
	}

	if err = proof.CompareKeys(pinPop.Key, pinDerivedKey, "PIN"); err != nil {
		return err
	}

	return proof.CompareKeys(devicePop.Key, dpopKey, "PIN")
}

func sessionIDFromPop(raw string) (string, error) {
	token, err := jwt.ParseSigned(raw)
	if err != nil {
		return "", err
	}

	claims := &proof.Claims{}
	if err = token.UnsafeClaimsWithoutVerification(claims); err != nil {
		return "", err
	}

	if claims.SessionID == "" {
		return "", errors.New("pid_issuer_session_id missing")
	}

	return claims.SessionID, nil
}

// issueTokens binds the session to the DPoP key and moves it to TOKEN_ISSUED.
func (s *Service) issueTokens(
	ctx context.Context,
	sess *session.Session,
	p *dpop.Proof,
	key *jose.JSONWebKey,
) (*TokenResponse, error) {
	dpopKey, err := p.PublicKeyJSON()
	if err != nil {
		return nil, fmt.Errorf("encode dpop key: %w", err)
	}

	sess.AccessToken = dpop.RandomString(accessTokenSize)
	sess.DPoPKeyThumbprint = p.Thumbprint
	sess.DPoPPublicKey = dpopKey
	sess.NextStep = session.StepTokenIssued
	sess.ExpireAt = s.now().Add(s.lifetimes.AccessToken)

	s.rotateCNonce(sess)
	nonce := s.rotateDPoPNonce(sess)

	resp := &TokenResponse{
		AccessToken:     sess.AccessToken,
		TokenType:       TokenTypeDPoP,
		ExpiresIn:       seconds(s.lifetimes.AccessToken),
		CNonce:          sess.CNonce,
		CNonceExpiresIn: seconds(s.lifetimes.CNonce),
		DPoPNonce:       nonce,
	}

	if sess.FlowVariant == session.VariantC1 {
		resp.RefreshToken, err = s.seedService.IssueEncrypted(sess.Identity, key, s.IssuerID(sess.FlowVariant))
		if err != nil {
			return nil, fmt.Errorf("issue refresh token: %w", err)
		}
	}

	if err = s.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	logger.Infoc(ctx, "access token issued",
		logfields.WithFlowVariant(string(sess.FlowVariant)),
		logfields.WithSessionID(sess.ID),
		logfields.WithKeyThumbprint(p.Thumbprint))

	return resp, nil
}
