/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4ci

import (
	"net/http"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr"
)

// oidc4ciErrorCode is OIDC4CI-specific error codes, that are not declared in RFC specifications.
type oidc4ciErrorCode string

const (
	// invalidCredentialRequest - the Credential Request is missing a required parameter,
	// includes an unsupported parameter or parameter value, repeats the same parameter,
	// or is otherwise malformed.
	//
	// Spec: https://openid.net/specs/openid-4-verifiable-credential-issuance-1_0-13.html#section-7.3.1.2
	invalidCredentialRequest oidc4ciErrorCode = "invalid_credential_request" //nolint:gosec

	// unsupportedCredentialType - requested Credential type (vct or doctype) is not supported.
	unsupportedCredentialType oidc4ciErrorCode = "unsupported_credential_type"

	// unsupportedCredentialFormat - requested Credential format is not supported.
	unsupportedCredentialFormat oidc4ciErrorCode = "unsupported_credential_format"

	// invalidProof - the proof in the Credential Request is invalid.
	// The proof field is not present or the provided key proof
	// is invalid or not bound to a nonce provided by the Credential Issuer.
	invalidProof oidc4ciErrorCode = "invalid_proof"

	// invalidToken - the access token is unknown, expired or bound to another key.
	//
	// Spec: https://datatracker.ietf.org/doc/html/rfc6750#section-3.1
	invalidToken oidc4ciErrorCode = "invalid_token"
)

// Error represents OIDC4CI error.
type Error = resterr.RFCError[oidc4ciErrorCode]

func NewInvalidCredentialRequestError(err error) *Error {
	return &Error{
		ErrorCode:  invalidCredentialRequest,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewUnsupportedCredentialTypeError(err error) *Error {
	return &Error{
		ErrorCode:  unsupportedCredentialType,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewUnsupportedCredentialFormatError(err error) *Error {
	return &Error{
		ErrorCode:  unsupportedCredentialFormat,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidProofError(err error) *Error {
	return &Error{
		ErrorCode:  invalidProof,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidTokenError(err error) *Error {
	return &Error{
		ErrorCode:  invalidToken,
		Err:        err,
		HTTPStatus: http.StatusUnauthorized,
	}
}
