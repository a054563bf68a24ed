/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer

import (
	"errors"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/oidc4ci"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
)

func invalidRequest(msg string) *rfc6749.Error {
	return rfc6749.NewInvalidRequestError(errors.New(msg))
}

func invalidClient(msg string) *rfc6749.Error {
	return rfc6749.NewInvalidClientError(errors.New(msg))
}

func invalidGrant(msg string) *rfc6749.Error {
	return rfc6749.NewInvalidGrantError(errors.New(msg))
}

func invalidProof(msg string) *oidc4ci.Error {
	return oidc4ci.NewInvalidProofError(errors.New(msg))
}

func invalidCredentialRequest(msg string) *oidc4ci.Error {
	return oidc4ci.NewInvalidCredentialRequestError(errors.New(msg))
}

// invalidToken is the 401 of resource endpoints, challenging for a DPoP bound token.
func invalidToken(msg string) *oidc4ci.Error {
	return oidc4ci.NewInvalidTokenError(errors.New(msg)).WithAuthenticateChallenge(dpop.Scheme)
}
