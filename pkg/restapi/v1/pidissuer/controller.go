/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -self_package mocks -package pidissuer_test . IssuerService

package pidissuer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	dpoperr "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/dpop"
	oidc4cierr "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/oidc4ci"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
	apiUtil "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/util"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pidissuer"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

const (
	variantParam = "variant"

	fieldFormat      = "format"
	fieldProof       = "proof"
	fieldProofs      = "proofs"
	fieldVerifierPub = "verifier_pub"
	fieldHashBytes   = "hash_bytes"
)

// IssuerService defines the PID issuer service interface.
type IssuerService pidissuer.ServiceInterface

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Config holds configuration options for Controller.
type Config struct {
	Service IssuerService
	Tracer  trace.Tracer
}

// Controller for the variant prefixed OpenID4VCI endpoints.
type Controller struct {
	service IssuerService
	tracer  trace.Tracer
}

// NewController creates a new controller and registers its routes.
func NewController(router router, config *Config) *Controller {
	c := &Controller{
		service: config.Service,
		tracer:  config.Tracer,
	}

	router.POST("/:variant/par", c.PushAuthorizationRequest)
	router.GET("/:variant/authorize", c.Authorize)
	router.GET("/:variant/finish-authorization", c.FinishAuthorization)
	router.POST("/:variant/finish-authorization", c.FinishAuthorization)
	router.POST("/:variant/token", c.Token)
	router.POST("/:variant/credential", c.Credential)
	router.POST("/:variant/nonce", c.Nonce)
	router.POST("/:variant/session", c.SeedSession)
	router.POST("/:variant/presentation-signing", c.PresentationSigning)

	return c
}

// PushAuthorizationRequest handles a pushed authorization request.
// (POST /{variant}/par).
func (c *Controller) PushAuthorizationRequest(e echo.Context) error {
	ctx, span := c.tracer.Start(e.Request().Context(), "PushAuthorizationRequest")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	params, err := formParams(e)
	if err != nil {
		return err
	}

	return apiUtil.WriteOutputWithCode(http.StatusCreated, e)(c.service.PushAuthorizationRequest(ctx, variant, params))
}

// Authorize redirects the user agent to the identification of the user.
// (GET /{variant}/authorize).
func (c *Controller) Authorize(e echo.Context) error {
	ctx, span := c.tracer.Start(e.Request().Context(), "Authorize")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	location, err := c.service.Authorize(ctx, variant, e.QueryParams())
	if err != nil {
		return err
	}

	return e.Redirect(http.StatusSeeOther, location)
}

// FinishAuthorization redirects the user agent back to the wallet with a code or an error.
// (GET|POST /{variant}/finish-authorization).
func (c *Controller) FinishAuthorization(e echo.Context) error {
	ctx, span := c.tracer.Start(e.Request().Context(), "FinishAuthorization")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	resp, err := c.service.FinishAuthorization(ctx, variant, e.FormValue(pidissuer.ParamIssuerState))
	if err != nil {
		return err
	}

	apiUtil.SetHeader(e, dpoperr.NonceHeader, resp.DPoPNonce)

	return e.Redirect(http.StatusFound, resp.Location)
}

// Token exchanges an authorization code, refresh token or seed credential for an access token.
// (POST /{variant}/token).
func (c *Controller) Token(e echo.Context) error {
	req := e.Request()

	ctx, span := c.tracer.Start(req.Context(), "Token")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	params, err := formParams(e)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.String("grant_type", params.Get(pidissuer.ParamGrantType)))

	resp, err := c.service.Token(ctx, variant, &pidissuer.TokenRequest{
		Params: params,
		Header: req.Header,
		Method: req.Method,
	})
	if err != nil {
		return err
	}

	apiUtil.NoStore(e)
	apiUtil.SetHeader(e, dpoperr.NonceHeader, resp.DPoPNonce)

	return apiUtil.WriteOutput(e)(resp, nil)
}

// Credential issues credentials for the authorized session.
// (POST /{variant}/credential).
func (c *Controller) Credential(e echo.Context) error {
	req := e.Request()

	ctx, span := c.tracer.Start(req.Context(), "Credential")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	body, err := credentialRequestBody(req.Body)
	if err != nil {
		return err
	}

	if body != nil {
		span.SetAttributes(attribute.String(fieldFormat, body.Format))
	}

	resp, err := c.service.Credential(ctx, variant, &pidissuer.CredentialRequest{
		ResourceRequest: resourceRequest(req),
		Body:            body,
	})
	if err != nil {
		return err
	}

	apiUtil.NoStore(e)
	apiUtil.SetHeader(e, dpoperr.NonceHeader, resp.DPoPNonce)

	return apiUtil.WriteOutput(e)(resp, nil)
}

// Nonce returns a fresh c_nonce.
// (POST /{variant}/nonce).
func (c *Controller) Nonce(e echo.Context) error {
	req := e.Request()

	ctx, span := c.tracer.Start(req.Context(), "Nonce")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	rr := resourceRequest(req)

	resp, err := c.service.Nonce(ctx, variant, &rr)
	if err != nil {
		return err
	}

	apiUtil.NoStore(e)
	apiUtil.SetHeader(e, dpoperr.NonceHeader, resp.DPoPNonce)

	return apiUtil.WriteOutput(e)(resp, nil)
}

// SeedSession creates the session a seed credential grant is correlated with.
// (POST /{variant}/session).
func (c *Controller) SeedSession(e echo.Context) error {
	ctx, span := c.tracer.Start(e.Request().Context(), "SeedSession")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	resp, err := c.service.CreateSeedSession(ctx, variant)
	if err != nil {
		return err
	}

	apiUtil.NoStore(e)
	apiUtil.SetHeader(e, dpoperr.NonceHeader, resp.DPoPNonce)

	return apiUtil.WriteOutput(e)(resp, nil)
}

// PresentationSigning signs a presentation hash with the server held device key.
// (POST /{variant}/presentation-signing).
func (c *Controller) PresentationSigning(e echo.Context) error {
	req := e.Request()

	ctx, span := c.tracer.Start(req.Context(), "PresentationSigning")
	defer span.End()

	variant, err := flowVariant(e, span)
	if err != nil {
		return err
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	hashBytes := ""

	if len(raw) > 0 {
		if !gjson.ValidBytes(raw) {
			return rfc6749.NewInvalidRequestError(errors.New("Request body invalid")) //nolint:stylecheck
		}

		if v := gjson.GetBytes(raw, fieldHashBytes); v.Exists() {
			if v.Type != gjson.String {
				return rfc6749.NewInvalidRequestError(errors.New("Hash bytes invalid")) //nolint:stylecheck
			}

			hashBytes = v.String()
		}
	}

	resp, err := c.service.PresentationSigning(ctx, variant, &pidissuer.PresentationSigningRequest{
		ResourceRequest: resourceRequest(req),
		HashBytes:       hashBytes,
	})
	if err != nil {
		return err
	}

	apiUtil.SetHeader(e, dpoperr.NonceHeader, resp.DPoPNonce)

	return apiUtil.WriteOutput(e)(resp, nil)
}

func flowVariant(e echo.Context, span trace.Span) (session.FlowVariant, error) {
	variant, err := session.ParseFlowVariant(e.Param(variantParam))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, "Unknown flow variant")
	}

	span.SetAttributes(attribute.String(variantParam, string(variant)))

	return variant, nil
}

// formParams returns the form encoded body parameters only. Query parameters are ignored.
func formParams(e echo.Context) (url.Values, error) {
	if err := e.Request().ParseForm(); err != nil {
		return nil, rfc6749.NewInvalidRequestError(errors.New("Request body invalid")) //nolint:stylecheck
	}

	return e.Request().PostForm, nil
}

func resourceRequest(req *http.Request) pidissuer.ResourceRequest {
	return pidissuer.ResourceRequest{
		Header: req.Header,
		Method: req.Method,
	}
}

// credentialRequestBody checks the JSON types of the members the service relies on before decoding.
// An empty body yields nil.
func credentialRequestBody(r io.Reader) (*pidissuer.CredentialRequestBody, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	invalid := func(msg string) error {
		return oidc4cierr.NewInvalidCredentialRequestError(errors.New(msg))
	}

	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, invalid("Credential request body invalid")
	}

	if v := gjson.GetBytes(raw, fieldFormat); v.Exists() && v.Type != gjson.String {
		return nil, invalid("Credential format invalid")
	}

	for _, field := range []string{fieldProof, fieldProofs} {
		if v := gjson.GetBytes(raw, field); v.Exists() && !v.IsObject() {
			return nil, oidc4cierr.NewInvalidProofError(fmt.Errorf("%s must be an object", field))
		}
	}

	if v := gjson.GetBytes(raw, fieldProofs+".jwt"); v.Exists() && !v.IsArray() {
		return nil, oidc4cierr.NewInvalidProofError(errors.New("proofs.jwt must be an array"))
	}

	if v := gjson.GetBytes(raw, fieldVerifierPub); v.Exists() && !v.IsObject() {
		return nil, invalid("verifierPub is no valid ec key")
	}

	body := &pidissuer.CredentialRequestBody{}
	if err = json.Unmarshal(raw, body); err != nil {
		return nil, invalid("Credential request body invalid")
	}

	return body, nil
}
