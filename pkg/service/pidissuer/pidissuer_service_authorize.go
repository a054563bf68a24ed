/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/clientregistry"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/identification"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/oidc4ci"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/clientattestation"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

const (
	codeChallengeSize = 32
	serverError       = "server_error"
)

// PushAuthorizationRequest validates a pushed authorization request and starts a session in
// PAR_CREATED. The returned request_uri is valid for the request_uri lifetime.
func (s *Service) PushAuthorizationRequest(
	ctx context.Context,
	variant session.FlowVariant,
	params url.Values,
) (*PARResponse, error) {
	client, err := s.client(variant, params)
	if err != nil {
		return nil, err
	}

	redirectURI, err := s.redirectURI(client, params)
	if err != nil {
		return nil, err
	}

	state := params.Get(ParamState)
	if len(state) > maxStateLength {
		return nil, invalidRequest("State too long").WithHTTPStatusField(http.StatusRequestEntityTooLarge)
	}

	challenge, err := codeChallenge(params)
	if err != nil {
		return nil, err
	}

	scope, err := requiredParam(params, ParamScope, "Invalid scope")
	if err != nil {
		return nil, err
	}

	if denied := client.DeniedScopes(strings.Fields(scope)); len(denied) > 0 {
		return nil, rfc6749.NewInvalidScopeError(errors.New("Scopes " + strings.Join(denied, " ") + " not granted"))
	}

	sess := &session.Session{
		ID:                  uuid.NewString(),
		FlowVariant:         variant,
		NextStep:            session.StepParCreated,
		ClientID:            client.ID,
		RedirectURI:         redirectURI,
		Scope:               scope,
		State:               state,
		CodeChallenge:       challenge,
		CodeChallengeMethod: CodeChallengeMethodS256,
		RequestURI:          requestURIPrefix + dpop.RandomString(correlationTokenSize),
		ExpireAt:            s.now().Add(s.lifetimes.RequestURI),
	}

	if s.clientAttestation != nil && (s.attestationRequired || clientattestation.Present(params)) {
		attestation, attErr := s.clientAttestation.Validate(params, client.ID, s.IssuerID(variant))
		if attErr != nil {
			return nil, attErr
		}

		if sess.ClientInstanceKey, err = json.Marshal(attestation.ClientInstanceKey); err != nil {
			return nil, fmt.Errorf("encode client instance key: %w", err)
		}
	}

	responseType, err := requiredParam(params, ParamResponseType, "Invalid response type")
	if err != nil {
		return nil, err
	}

	if responseType != clientregistry.ResponseTypeCode {
		return nil, rfc6749.NewUnsupportedResponseTypeError(
			errors.New("Unsupported response type: " + responseType))
	}

	if err = s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	logger.Infoc(ctx, "pushed authorization request accepted",
		logfields.WithFlowVariant(string(variant)),
		logfields.WithSessionID(sess.ID),
		logfields.WithClientID(client.ID))

	return &PARResponse{
		RequestURI: sess.RequestURI,
		ExpiresIn:  seconds(s.lifetimes.RequestURI),
	}, nil
}

// Authorize resolves the request_uri and hands the user over to identification. It returns the
// URL the user agent is redirected to.
func (s *Service) Authorize(ctx context.Context, variant session.FlowVariant, params url.Values) (string, error) {
	clientID, err := requiredParam(params, ParamClientID, "Invalid client id")
	if err != nil {
		return "", err
	}

	requestURI, err := requiredParam(params, ParamRequestURI, "Invalid request uri")
	if err != nil {
		return "", err
	}

	sess, err := s.store.LookupAndConsume(ctx, variant, session.KeyRequestURI, requestURI, session.StepParCreated)
	if err != nil {
		return "", lookupError(err,
			invalidRequest("Invalid request uri"),
			oidc4ci.NewInvalidTokenError(errors.New("Request uri expired")))
	}

	if sess.ClientID != clientID {
		return "", invalidRequest("client_id parameter from par request doesn't match client_id")
	}

	sess.IssuerState = dpop.RandomString(correlationTokenSize)
	sess.NextStep = session.StepAwaitingFinish
	sess.ExpireAt = s.now().Add(s.lifetimes.Identification)

	if err = s.store.Update(ctx, sess); err != nil {
		return "", fmt.Errorf("update session: %w", err)
	}

	finishURL := s.endpointURL(variant, endpointFinishAuthorization) + "?" +
		url.Values{ParamIssuerState: {sess.IssuerState}}.Encode()

	location, err := s.identification.StartIdentification(ctx, variant, sess.IssuerState, finishURL)
	if err != nil {
		return "", fmt.Errorf("start identification: %w", err)
	}

	logger.Debugc(ctx, "identification started",
		logfields.WithFlowVariant(string(variant)), logfields.WithSessionID(sess.ID))

	return location, nil
}

// FinishAuthorization is called when identification is done. It returns the redirect to the wallet,
// carrying either the authorization code or an error. A code comes with the DPoP nonce for the token request.
func (s *Service) FinishAuthorization(
	ctx context.Context,
	variant session.FlowVariant,
	issuerState string,
) (*FinishAuthorizationResponse, error) {
	if strings.TrimSpace(issuerState) == "" {
		return nil, invalidRequest("invalid issuer_state")
	}

	sess, err := s.store.LookupAndConsume(ctx, variant, session.KeyIssuerState, issuerState,
		session.StepAwaitingFinish)
	if err != nil {
		return nil, lookupError(err, invalidRequest("invalid issuer_state"), invalidRequest("invalid issuer_state"))
	}

	result, err := s.identification.Result(ctx, issuerState)
	if err != nil {
		logger.Warnc(ctx, "identification result not available",
			logfields.WithSessionID(sess.ID), log.WithError(err))

		code, description := serverError, "identification failed"
		if errors.Is(err, identification.ErrResultPending) {
			code, description = rfc6749.AccessDenied, "identification not completed"
		}

		return s.abortAuthorization(ctx, sess, code, description)
	}

	if !result.Succeeded() {
		logger.Infoc(ctx, "identification failed", logfields.WithSessionID(sess.ID),
			logfields.WithAdditionalMessage(result.Failure))

		sess.IdentityFailure = result.Failure

		return s.abortAuthorization(ctx, sess, rfc6749.AccessDenied, result.Failure)
	}

	if err = sess.SetIdentity(result.Data, s.now()); err != nil {
		return nil, err
	}

	sess.AuthorizationCode = dpop.RandomString(correlationTokenSize)
	sess.NextStep = session.StepCodeIssued
	sess.ExpireAt = s.now().Add(s.lifetimes.AuthorizationCode)
	nonce := s.rotateDPoPNonce(sess)

	if err = s.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	logger.Infoc(ctx, "authorization code issued",
		logfields.WithFlowVariant(string(variant)), logfields.WithSessionID(sess.ID))

	location, err := redirectWith(sess.RedirectURI, map[string]string{
		ParamCode:  sess.AuthorizationCode,
		ParamState: sess.State,
	})
	if err != nil {
		return nil, err
	}

	return &FinishAuthorizationResponse{Location: location, DPoPNonce: nonce}, nil
}

func (s *Service) abortAuthorization(
	ctx context.Context,
	sess *session.Session,
	code, description string,
) (*FinishAuthorizationResponse, error) {
	if err := s.store.Delete(ctx, sess); err != nil {
		logger.Warnc(ctx, "delete session", logfields.WithSessionID(sess.ID), log.WithError(err))
	}

	location, err := redirectWith(sess.RedirectURI, map[string]string{
		ParamError:            code,
		ParamErrorDescription: description,
		ParamState:            sess.State,
	})
	if err != nil {
		return nil, err
	}

	return &FinishAuthorizationResponse{Location: location}, nil
}

// client resolves the client_id parameter against the registry.
func (s *Service) client(variant session.FlowVariant, params url.Values) (*clientregistry.Client, error) {
	clientID, err := requiredParam(params, ParamClientID, "Invalid client id")
	if err != nil {
		return nil, err
	}

	if _, err = uuid.Parse(clientID); err != nil {
		return nil, invalidRequest("Invalid client id")
	}

	client, err := s.clientRegistry.Get(clientID)
	if err != nil {
		if errors.Is(err, clientregistry.ErrClientNotFound) {
			return nil, invalidClient("Client Id not registered: " + clientID)
		}

		return nil, fmt.Errorf("get client: %w", err)
	}

	if !client.AllowsVariant(string(variant)) {
		return nil, rfc6749.NewUnauthorizedClientError(
			fmt.Errorf("client is not allowed to use flow variant %s", variant))
	}

	return client, nil
}

func (s *Service) redirectURI(client *clientregistry.Client, params url.Values) (string, error) {
	redirectURI, err := requiredParam(params, ParamRedirectURI, "Invalid redirect URI")
	if err != nil {
		return "", err
	}

	u, err := url.ParseRequestURI(redirectURI)
	if err != nil || u.Scheme != "https" || u.Host == "" || u.Fragment != "" {
		return "", invalidRequest("Invalid redirect URI")
	}

	if len(client.RedirectURIs) > 0 && !lo.Contains(client.RedirectURIs, redirectURI) {
		return "", invalidRequest("Invalid redirect URI")
	}

	return redirectURI, nil
}

func codeChallenge(params url.Values) (string, error) {
	method, err := requiredParam(params, ParamCodeChallengeMethod, "Invalid code challenge method")
	if err != nil {
		return "", err
	}

	if method != CodeChallengeMethodS256 {
		return "", invalidRequest("Invalid code challenge method")
	}

	challenge, err := requiredParam(params, ParamCodeChallenge, "Invalid code challenge")
	if err != nil {
		return "", err
	}

	decoded, err := base64.RawURLEncoding.DecodeString(challenge)
	if err != nil || len(decoded) != codeChallengeSize {
		return "", invalidRequest("Invalid code challenge")
	}

	return challenge, nil
}

// requiredParam returns the trimmed parameter. A missing parameter and an empty one are both
// invalid_request, with different descriptions.
func requiredParam(params url.Values, name, invalid string) (string, error) {
	if !params.Has(name) {
		return "", invalidRequest("Missing required parameter '" + name + "'")
	}

	value := strings.TrimSpace(params.Get(name))
	if value == "" {
		return "", invalidRequest(invalid)
	}

	return value, nil
}

func redirectWith(redirectURI string, values map[string]string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("parse redirect uri: %w", err)
	}

	q := u.Query()

	for k, v := range values {
		if v != "" {
			q.Set(k, v)
		}
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}
