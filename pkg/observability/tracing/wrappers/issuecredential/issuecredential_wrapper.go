/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package issuecredential . Service

package issuecredential

import (
	"context"
	"crypto/ecdsa"

	"github.com/go-jose/go-jose/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/mdoc"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/issuecredential"
)

var _ Service = (*Wrapper)(nil) // make sure Wrapper implements issuecredential.ServiceInterface

type Service issuecredential.ServiceInterface

type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) IssueSDJWT(
	ctx context.Context,
	data *pid.Data,
	holderKey *jose.JSONWebKey,
	issuer string,
) (string, error) {
	ctx, span := w.tracer.Start(ctx, "issuecredential.IssueSDJWT")
	defer span.End()

	span.SetAttributes(attribute.String("issuer", issuer))

	if holderKey != nil {
		span.SetAttributes(attribute.String("holder_key_alg", holderKey.Algorithm))
	}

	return w.svc.IssueSDJWT(ctx, data, holderKey, issuer)
}

func (w *Wrapper) IssueMdoc(ctx context.Context, data *pid.Data, holderKey *ecdsa.PublicKey) (string, error) {
	ctx, span := w.tracer.Start(ctx, "issuecredential.IssueMdoc")
	defer span.End()

	span.SetAttributes(attribute.String("doctype", string(issuecredential.DocType)))

	return w.svc.IssueMdoc(ctx, data, holderKey)
}

func (w *Wrapper) IssueMdocAuthenticatedChannel(
	ctx context.Context,
	data *pid.Data,
	channel *mdoc.AuthenticatedChannel,
) (string, error) {
	ctx, span := w.tracer.Start(ctx, "issuecredential.IssueMdocAuthenticatedChannel")
	defer span.End()

	span.SetAttributes(attribute.String("doctype", string(issuecredential.DocType)))
	span.SetAttributes(attribute.Int("session_transcript_size", len(channel.SessionTranscript)))

	return w.svc.IssueMdocAuthenticatedChannel(ctx, data, channel)
}
