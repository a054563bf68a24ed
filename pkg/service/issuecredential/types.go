/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"crypto/ecdsa"

	"github.com/go-jose/go-jose/v3"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/mdoc"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
)

// Credential formats offered by the flow variants.
const (
	FormatSDJWT                    = "vc+sd-jwt"
	FormatMdoc                     = "mso_mdoc"
	FormatMdocAuthenticatedChannel = "mso_mdoc_authenticated_channel"
	FormatSeedCredential           = "seed_credential"
)

const (
	// DocType of the PID mdoc.
	DocType = mdoc.DocType("eu.europa.ec.eudi.pid.1")
	// NameSpace holding the PID data elements.
	NameSpace = mdoc.NameSpace("eu.europa.ec.eudi.pid.1")

	// VCTPath is appended to the issuer base URL to form the default vct.
	VCTPath = "/credential/pid/1.0"
)

var _ ServiceInterface = (*Service)(nil)

// ServiceInterface issues PID credentials in the supported formats.
type ServiceInterface interface {
	IssueSDJWT(ctx context.Context, data *pid.Data, holderKey *jose.JSONWebKey, issuer string) (string, error)
	IssueMdoc(ctx context.Context, data *pid.Data, holderKey *ecdsa.PublicKey) (string, error)
	IssueMdocAuthenticatedChannel(ctx context.Context, data *pid.Data, channel *mdoc.AuthenticatedChannel) (string, error)
}
