/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4ci

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := errors.New("Credential format invalid")

	tests := []struct {
		name       string
		createFunc func(error) *Error
		wantCode   oidc4ciErrorCode
		wantStatus int
	}{
		{
			name:       "OK NewInvalidCredentialRequestError",
			createFunc: NewInvalidCredentialRequestError,
			wantCode:   invalidCredentialRequest,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "OK NewUnsupportedCredentialTypeError",
			createFunc: NewUnsupportedCredentialTypeError,
			wantCode:   unsupportedCredentialType,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "OK NewUnsupportedCredentialFormatError",
			createFunc: NewUnsupportedCredentialFormatError,
			wantCode:   unsupportedCredentialFormat,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "OK NewInvalidProofError",
			createFunc: NewInvalidProofError,
			wantCode:   invalidProof,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "OK NewInvalidTokenError",
			createFunc: NewInvalidTokenError,
			wantCode:   invalidToken,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.createFunc(err)

			assert.Equal(t, tt.wantCode, e.ErrorCode)
			assert.Equal(t, tt.wantStatus, e.Status())
			assert.Equal(t, string(tt.wantCode), e.Code())
			assert.Equal(t, "Credential format invalid", e.Description())
			assert.ErrorIs(t, e, err)
		})
	}
}
