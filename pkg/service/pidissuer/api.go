/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"context"
	"net/url"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

var _ ServiceInterface = (*Service)(nil)

// ServiceInterface defines the operations of the PID issuer behind the REST API.
type ServiceInterface interface {
	PushAuthorizationRequest(ctx context.Context, variant session.FlowVariant, params url.Values) (*PARResponse, error)
	Authorize(ctx context.Context, variant session.FlowVariant, params url.Values) (string, error)
	FinishAuthorization(
		ctx context.Context,
		variant session.FlowVariant,
		issuerState string,
	) (*FinishAuthorizationResponse, error)
	Token(ctx context.Context, variant session.FlowVariant, req *TokenRequest) (*TokenResponse, error)
	Credential(ctx context.Context, variant session.FlowVariant, req *CredentialRequest) (*CredentialResponse, error)
	Nonce(ctx context.Context, variant session.FlowVariant, req *ResourceRequest) (*NonceResponse, error)
	CreateSeedSession(ctx context.Context, variant session.FlowVariant) (*SeedSessionResponse, error)
	PresentationSigning(
		ctx context.Context,
		variant session.FlowVariant,
		req *PresentationSigningRequest,
	) (*PresentationSigningResponse, error)
}
