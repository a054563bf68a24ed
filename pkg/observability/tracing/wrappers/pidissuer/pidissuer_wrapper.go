/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package pidissuer . Service

package pidissuer

import (
	"context"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/tracing/attributeutil"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pidissuer"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

var _ Service = (*Wrapper)(nil) // make sure Wrapper implements pidissuer.ServiceInterface

type Service pidissuer.ServiceInterface

type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) PushAuthorizationRequest(
	ctx context.Context,
	variant session.FlowVariant,
	params url.Values,
) (*pidissuer.PARResponse, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.PushAuthorizationRequest")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))
	span.SetAttributes(attributeutil.FormParams("par_params", params,
		attributeutil.WithRedacted(pidissuer.ParamState, pidissuer.ParamCodeChallenge)))

	return w.svc.PushAuthorizationRequest(ctx, variant, params)
}

func (w *Wrapper) Authorize(ctx context.Context, variant session.FlowVariant, params url.Values) (string, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.Authorize")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))
	span.SetAttributes(attribute.String("client_id", params.Get(pidissuer.ParamClientID)))

	return w.svc.Authorize(ctx, variant, params)
}

func (w *Wrapper) FinishAuthorization(
	ctx context.Context,
	variant session.FlowVariant,
	issuerState string,
) (*pidissuer.FinishAuthorizationResponse, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.FinishAuthorization")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))

	return w.svc.FinishAuthorization(ctx, variant, issuerState)
}

func (w *Wrapper) Token(
	ctx context.Context,
	variant session.FlowVariant,
	req *pidissuer.TokenRequest,
) (*pidissuer.TokenResponse, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.Token")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))
	span.SetAttributes(attributeutil.FormParams("token_params", req.Params, attributeutil.WithRedacted(
		pidissuer.ParamCode,
		pidissuer.ParamCodeVerifier,
		pidissuer.ParamRefreshToken,
		pidissuer.ParamSeedCredential,
		pidissuer.ParamPinDerivedEphKeyPop,
		pidissuer.ParamDeviceKeyPop,
	)))

	return w.svc.Token(ctx, variant, req)
}

func (w *Wrapper) Credential(
	ctx context.Context,
	variant session.FlowVariant,
	req *pidissuer.CredentialRequest,
) (*pidissuer.CredentialResponse, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.Credential")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))
	span.SetAttributes(attributeutil.JSON("credential_request", req.Body, attributeutil.WithRedacted(
		"proof.jwt",
		"proofs.jwt",
		"pin_derived_eph_key_pop",
		"session_transcript",
	)))

	resp, err := w.svc.Credential(ctx, variant, req)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("credential_count", max(len(resp.Credentials), 1)))

	return resp, nil
}

func (w *Wrapper) Nonce(
	ctx context.Context,
	variant session.FlowVariant,
	req *pidissuer.ResourceRequest,
) (*pidissuer.NonceResponse, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.Nonce")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))

	return w.svc.Nonce(ctx, variant, req)
}

func (w *Wrapper) CreateSeedSession(
	ctx context.Context,
	variant session.FlowVariant,
) (*pidissuer.SeedSessionResponse, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.CreateSeedSession")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))

	return w.svc.CreateSeedSession(ctx, variant)
}

func (w *Wrapper) PresentationSigning(
	ctx context.Context,
	variant session.FlowVariant,
	req *pidissuer.PresentationSigningRequest,
) (*pidissuer.PresentationSigningResponse, error) {
	ctx, span := w.tracer.Start(ctx, "pidissuer.PresentationSigning")
	defer span.End()

	span.SetAttributes(attribute.String("variant", string(variant)))

	return w.svc.PresentationSigning(ctx, variant, req)
}
