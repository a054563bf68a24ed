/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination interfaces_mocks_test.go -self_package mocks -package pidissuer_test -source=interfaces.go -mock_names credentialService=MockCredentialService,pinRetryService=MockPinRetryService

package pidissuer

import (
	"context"
	"crypto/ecdsa"

	"github.com/go-jose/go-jose/v3"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/mdoc"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
)

type credentialService interface {
	IssueSDJWT(ctx context.Context, data *pid.Data, holderKey *jose.JSONWebKey, issuer string) (string, error)
	IssueMdoc(ctx context.Context, data *pid.Data, holderKey *ecdsa.PublicKey) (string, error)
	IssueMdocAuthenticatedChannel(ctx context.Context, data *pid.Data,
		channel *mdoc.AuthenticatedChannel) (string, error)
}

type pinRetryService interface {
	Init(ctx context.Context, clientInstanceKey *jose.JSONWebKey) error
	Load(ctx context.Context, clientInstanceKey *jose.JSONWebKey) (string, error)
	Increment(ctx context.Context, id string) error
}
