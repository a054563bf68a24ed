/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dpop

import (
	"net/http"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr"
)

// dpopErrorCode is defined by RFC 9449: https://datatracker.ietf.org/doc/html/rfc9449#section-12.2
type dpopErrorCode string

const (
	// invalidDPoPProof - the DPoP proof is malformed, stale, badly signed or bound to an expired nonce.
	invalidDPoPProof dpopErrorCode = "invalid_dpop_proof"

	// useDPoPNonce - the server requires a nonce in the DPoP proof. A fresh nonce is supplied
	// in the DPoP-Nonce response header.
	useDPoPNonce dpopErrorCode = "use_dpop_nonce"
)

// Scheme is the authorization scheme of DPoP-bound access tokens.
const Scheme = "DPoP"

// NonceHeader carries the server-chosen nonce.
const NonceHeader = "DPoP-Nonce"

// Error represents a DPoP error.
type Error = resterr.RFCError[dpopErrorCode]

func NewInvalidDPoPProofError(err error) *Error {
	return &Error{
		ErrorCode:  invalidDPoPProof,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewUseDPoPNonceError(err error) *Error {
	return &Error{
		ErrorCode:  useDPoPNonce,
		Err:        err,
		HTTPStatus: http.StatusBadRequest,
	}
}

// IsUseNonce reports whether err asks the client to retry with a server nonce.
func IsUseNonce(err *Error) bool {
	return err != nil && err.ErrorCode == useDPoPNonce
}
