/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rfc6749

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr"
)

// rfc6749ErrorCode is defined by spec: https://datatracker.ietf.org/doc/html/rfc6749#section-5.2
type rfc6749ErrorCode string

const (
	// invalidRequest - the request is missing a required parameter,
	// includes an unsupported parameter value (other than grant type),
	// repeats a parameter, includes multiple credentials,
	// utilizes more than one mechanism for authenticating the client, or is otherwise malformed.
	invalidRequest rfc6749ErrorCode = "invalid_request"

	// invalidClient - client authentication failed: unknown client, or the client attestation
	// chain could not be verified.
	invalidClient rfc6749ErrorCode = "invalid_client"

	// invalidGrant - the provided authorization grant (e.g., authorization code, seed credential)
	// or refresh token is invalid, expired, revoked, does not match the redirection URI used in the authorization request,
	// or was issued to another client.
	invalidGrant rfc6749ErrorCode = "invalid_grant"

	// unauthorizedClient - the authenticated client is not authorized to use this authorization grant type.
	unauthorizedClient rfc6749ErrorCode = "unauthorized_client"

	// unsupportedGrantType - the authorization grant type is not supported by the authorization server.
	unsupportedGrantType rfc6749ErrorCode = "unsupported_grant_type"

	// invalidScope The requested scope is invalid, unknown, malformed, or exceeds the scope granted by the resource owner.
	invalidScope rfc6749ErrorCode = "invalid_scope"

	// unsupportedResponseType - the authorization server does not support obtaining an
	// authorization code using this method.
	//
	// Spec: https://datatracker.ietf.org/doc/html/rfc6749#section-4.1.2.1
	unsupportedResponseType rfc6749ErrorCode = "unsupported_response_type"

	// accessDenied - the resource owner or the identification provider denied the request.
	//
	// Spec: https://datatracker.ietf.org/doc/html/rfc6749#section-4.1.2.1
	accessDenied rfc6749ErrorCode = "access_denied"

	// serverError - the server encountered an unexpected condition.
	serverError rfc6749ErrorCode = "server_error"
)

// AccessDenied is the error code put into the redirect when identification failed.
const AccessDenied = string(accessDenied)

// Error represents RFC6749 error.
type Error = resterr.RFCError[rfc6749ErrorCode]

func NewInvalidRequestError(err error) *Error {
	return &Error{
		ErrorCode:  invalidRequest,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidClientError(err error) *Error {
	return &Error{
		ErrorCode:  invalidClient,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidGrantError(err error) *Error {
	return &Error{
		ErrorCode:  invalidGrant,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewUnauthorizedClientError(err error) *Error {
	return &Error{
		ErrorCode:  unauthorizedClient,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewUnsupportedGrantTypeError(err error) *Error {
	return &Error{
		ErrorCode:  unsupportedGrantType,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidScopeError(err error) *Error {
	return &Error{
		ErrorCode:  invalidScope,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewUnsupportedResponseTypeError(err error) *Error {
	return &Error{
		ErrorCode:  unsupportedResponseType,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewAccessDeniedError(err error) *Error {
	return &Error{
		ErrorCode:  accessDenied,
		Err:        err,
		HTTPStatus: http.StatusForbidden,
	}
}

func NewServerError(err error) *Error {
	return &Error{
		ErrorCode:  serverError,
		Err:        err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func Parse(reader io.Reader) *Error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return NewInvalidRequestError(fmt.Errorf("read RFC6749Error: %w", err)).
			WithHTTPStatusField(http.StatusInternalServerError)
	}

	var e *Error

	if err = json.Unmarshal(b, &e); err != nil {
		return NewInvalidRequestError(fmt.Errorf("decode RFC6749Error from body: %s, err: %w", string(b), err)).
			WithHTTPStatusField(http.StatusInternalServerError)
	}

	return e
}
