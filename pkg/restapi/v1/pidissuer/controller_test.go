/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pidissuer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr"
	dpoperr "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/dpop"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr/rfc6749"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/pidissuer"
	pidissuersvc "github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pidissuer"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

func newServer(t *testing.T) (*echo.Echo, *MockIssuerService) {
	t.Helper()

	svc := NewMockIssuerService(gomock.NewController(t))

	e := echo.New()
	e.HTTPErrorHandler = resterr.HTTPErrorHandler

	pidissuer.NewController(e, &pidissuer.Config{
		Service: svc,
		Tracer:  trace.NewNoopTracerProvider().Tracer(""),
	})

	return e, svc
}

func serve(e *echo.Echo, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestController_PushAuthorizationRequest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().PushAuthorizationRequest(gomock.Any(), session.VariantC, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ session.FlowVariant, params url.Values) (*pidissuersvc.PARResponse, error) {
				require.Equal(t, "fed79862-af36-4fee-8e64-89e3c91091ed", params.Get("client_id"))
				require.Empty(t, params.Get("ignored"))

				return &pidissuersvc.PARResponse{RequestURI: "urn:ietf:params:oauth:request_uri:abc", ExpiresIn: 60}, nil
			})

		rec := serve(e, http.MethodPost, "/c/par?ignored=1", echo.MIMEApplicationForm,
			"client_id=fed79862-af36-4fee-8e64-89e3c91091ed&response_type=code")

		require.Equal(t, http.StatusCreated, rec.Code)
		require.JSONEq(t, `{"request_uri":"urn:ietf:params:oauth:request_uri:abc","expires_in":60}`, rec.Body.String())
	})

	t.Run("unknown variant", func(t *testing.T) {
		e, _ := newServer(t)

		rec := serve(e, http.MethodPost, "/x/par", echo.MIMEApplicationForm, "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "not_found", errorBody(t, rec)["error"])
	})

	t.Run("service error", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().PushAuthorizationRequest(gomock.Any(), session.VariantB, gomock.Any()).
			Return(nil, rfc6749.NewInvalidRequestError(errors.New("Invalid redirect uri")))

		rec := serve(e, http.MethodPost, "/b/par", echo.MIMEApplicationForm, "client_id=x")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, map[string]string{
			"error":             "invalid_request",
			"error_description": "Invalid redirect uri",
		}, errorBody(t, rec))
	})

	t.Run("internal error is not exposed", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().PushAuthorizationRequest(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("redis: connection refused"))

		rec := serve(e, http.MethodPost, "/b1/par", echo.MIMEApplicationForm, "client_id=x")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "server_error", errorBody(t, rec)["error"])
		require.NotContains(t, rec.Body.String(), "redis")
	})
}

func TestController_Authorize(t *testing.T) {
	e, svc := newServer(t)

	svc.EXPECT().Authorize(gomock.Any(), session.VariantB, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ session.FlowVariant, params url.Values) (string, error) {
			require.Equal(t, "urn:ietf:params:oauth:request_uri:abc", params.Get("request_uri"))

			return "https://idp.example.com/start?issuer_state=s", nil
		})

	rec := serve(e, http.MethodGet,
		"/b/authorize?client_id=x&request_uri="+url.QueryEscape("urn:ietf:params:oauth:request_uri:abc"), "", "")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "https://idp.example.com/start?issuer_state=s", rec.Header().Get(echo.HeaderLocation))
}

func TestController_FinishAuthorization(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
	}{
		{
			name:   "query",
			method: http.MethodGet,
			target: "/c1/finish-authorization?issuer_state=state-1",
		},
		{
			name:        "form",
			method:      http.MethodPost,
			target:      "/c1/finish-authorization",
			contentType: echo.MIMEApplicationForm,
			body:        "issuer_state=state-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, svc := newServer(t)

			svc.EXPECT().FinishAuthorization(gomock.Any(), session.VariantC1, "state-1").
				Return(&pidissuersvc.FinishAuthorizationResponse{
					Location:  "https://wallet.example.com/cb?code=abc",
					DPoPNonce: "dn",
				}, nil)

			rec := serve(e, tt.method, tt.target, tt.contentType, tt.body)

			require.Equal(t, http.StatusFound, rec.Code)
			require.Equal(t, "https://wallet.example.com/cb?code=abc", rec.Header().Get(echo.HeaderLocation))
			require.Equal(t, "dn", rec.Header().Get("DPoP-Nonce"))
		})
	}

	t.Run("error redirect without nonce", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().FinishAuthorization(gomock.Any(), session.VariantC1, "state-1").
			Return(&pidissuersvc.FinishAuthorizationResponse{
				Location: "https://wallet.example.com/cb?error=access_denied",
			}, nil)

		rec := serve(e, http.MethodGet, "/c1/finish-authorization?issuer_state=state-1", "", "")

		require.Equal(t, http.StatusFound, rec.Code)
		require.Empty(t, rec.Header().Get("DPoP-Nonce"))
	})
}

func TestController_Token(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().Token(gomock.Any(), session.VariantC, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ session.FlowVariant, req *pidissuersvc.TokenRequest) (*pidissuersvc.TokenResponse, error) {
				require.Equal(t, "authorization_code", req.Params.Get("grant_type"))
				require.Equal(t, http.MethodPost, req.Method)
				require.Equal(t, "proof", req.Header.Get("DPoP"))

				return &pidissuersvc.TokenResponse{
					AccessToken:     "at",
					TokenType:       "DPoP",
					ExpiresIn:       3600,
					CNonce:          "cn",
					CNonceExpiresIn: 60,
					DPoPNonce:       "dn",
				}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/c/token", strings.NewReader("grant_type=authorization_code&code=c"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.Header.Set("DPoP", "proof")

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.Equal(t, "dn", rec.Header().Get(dpoperr.NonceHeader))
		require.JSONEq(t,
			`{"access_token":"at","token_type":"DPoP","expires_in":3600,"c_nonce":"cn","c_nonce_expires_in":60}`,
			rec.Body.String())
	})

	t.Run("use dpop nonce", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().Token(gomock.Any(), session.VariantC, gomock.Any()).Return(nil,
			dpoperr.NewUseDPoPNonceError(errors.New("nonce value missing")).WithHeader(dpoperr.NonceHeader, "fresh"))

		rec := serve(e, http.MethodPost, "/c/token", echo.MIMEApplicationForm, "grant_type=authorization_code")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "fresh", rec.Header().Get(dpoperr.NonceHeader))
		require.Equal(t, "use_dpop_nonce", errorBody(t, rec)["error"])
	})
}

func TestController_Credential(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().Credential(gomock.Any(), session.VariantC, gomock.Any()).DoAndReturn(
			func(
				_ context.Context, _ session.FlowVariant, req *pidissuersvc.CredentialRequest,
			) (*pidissuersvc.CredentialResponse, error) {
				require.Equal(t, "DPoP at", req.Header.Get("Authorization"))
				require.Equal(t, "vc+sd-jwt", req.Body.Format)
				require.Equal(t, "jwt", req.Body.Proof.ProofType)
				require.Equal(t, "a.b.c", req.Body.Proof.JWT)

				return &pidissuersvc.CredentialResponse{
					Credential:      "sd-jwt~",
					CNonce:          "cn",
					CNonceExpiresIn: 60,
					DPoPNonce:       "dn",
				}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/c/credential",
			strings.NewReader(`{"format":"vc+sd-jwt","vct":"https://example.com/credential/pid/1.0",`+
				`"proof":{"proof_type":"jwt","jwt":"a.b.c"}}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Authorization", "DPoP at")

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "dn", rec.Header().Get(dpoperr.NonceHeader))
		require.JSONEq(t, `{"credential":"sd-jwt~","c_nonce":"cn","c_nonce_expires_in":60}`, rec.Body.String())
	})

	t.Run("empty body is passed as nil", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().Credential(gomock.Any(), session.VariantB, gomock.Any()).DoAndReturn(
			func(
				_ context.Context, _ session.FlowVariant, req *pidissuersvc.CredentialRequest,
			) (*pidissuersvc.CredentialResponse, error) {
				require.Nil(t, req.Body)

				return nil, errors.New("stop")
			})

		rec := serve(e, http.MethodPost, "/b/credential", echo.MIMEApplicationJSON, "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	tests := []struct {
		name        string
		body        string
		code        string
		description string
	}{
		{
			name:        "invalid json",
			body:        `{"format":`,
			code:        "invalid_credential_request",
			description: "Credential request body invalid",
		},
		{
			name:        "not an object",
			body:        `["vc+sd-jwt"]`,
			code:        "invalid_credential_request",
			description: "Credential request body invalid",
		},
		{
			name:        "format not a string",
			body:        `{"format":1}`,
			code:        "invalid_credential_request",
			description: "Credential format invalid",
		},
		{
			name:        "proof not an object",
			body:        `{"format":"vc+sd-jwt","proof":"a.b.c"}`,
			code:        "invalid_proof",
			description: "proof must be an object",
		},
		{
			name:        "proofs not an object",
			body:        `{"format":"mso_mdoc","proofs":["a.b.c"]}`,
			code:        "invalid_proof",
			description: "proofs must be an object",
		},
		{
			name:        "proofs jwt not an array",
			body:        `{"format":"mso_mdoc","proofs":{"jwt":"a.b.c"}}`,
			code:        "invalid_proof",
			description: "proofs.jwt must be an array",
		},
		{
			name:        "verifier pub not an object",
			body:        `{"format":"mso_mdoc_authenticated_channel","verifier_pub":"key"}`,
			code:        "invalid_credential_request",
			description: "verifierPub is no valid ec key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newServer(t)

			rec := serve(e, http.MethodPost, "/c/credential", echo.MIMEApplicationJSON, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, map[string]string{
				"error":             tt.code,
				"error_description": tt.description,
			}, errorBody(t, rec))
		})
	}
}

func TestController_Nonce(t *testing.T) {
	e, svc := newServer(t)

	svc.EXPECT().Nonce(gomock.Any(), session.VariantC1, gomock.Any()).
		Return(&pidissuersvc.NonceResponse{CNonce: "cn", CNonceExpiresIn: 60, DPoPNonce: "dn"}, nil)

	rec := serve(e, http.MethodPost, "/c1/nonce", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "dn", rec.Header().Get(dpoperr.NonceHeader))
	require.JSONEq(t, `{"c_nonce":"cn","c_nonce_expires_in":60}`, rec.Body.String())
}

func TestController_SeedSession(t *testing.T) {
	e, svc := newServer(t)

	svc.EXPECT().CreateSeedSession(gomock.Any(), session.VariantB1).
		Return(&pidissuersvc.SeedSessionResponse{SessionID: "sid", SessionIDExpiresIn: 60, DPoPNonce: "dn"}, nil)

	rec := serve(e, http.MethodPost, "/b1/session", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "dn", rec.Header().Get(dpoperr.NonceHeader))
	require.JSONEq(t, `{"session_id":"sid","session_id_expires_in":60}`, rec.Body.String())
}

func TestController_PresentationSigning(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().PresentationSigning(gomock.Any(), session.VariantC2, gomock.Any()).DoAndReturn(
			func(
				_ context.Context, _ session.FlowVariant, req *pidissuersvc.PresentationSigningRequest,
			) (*pidissuersvc.PresentationSigningResponse, error) {
				require.Equal(t, "aGFzaA", req.HashBytes)

				return &pidissuersvc.PresentationSigningResponse{SignatureBytes: "c2ln", DPoPNonce: "dn"}, nil
			})

		rec := serve(e, http.MethodPost, "/c2/presentation-signing", echo.MIMEApplicationJSON,
			`{"hash_bytes":"aGFzaA"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "dn", rec.Header().Get(dpoperr.NonceHeader))
		require.JSONEq(t, `{"signature_bytes":"c2ln"}`, rec.Body.String())
	})

	t.Run("hash bytes missing is left to the service", func(t *testing.T) {
		e, svc := newServer(t)

		svc.EXPECT().PresentationSigning(gomock.Any(), session.VariantC2, gomock.Any()).DoAndReturn(
			func(
				_ context.Context, _ session.FlowVariant, req *pidissuersvc.PresentationSigningRequest,
			) (*pidissuersvc.PresentationSigningResponse, error) {
				require.Empty(t, req.HashBytes)

				return nil, rfc6749.NewInvalidRequestError(errors.New("Hash bytes missing"))
			})

		rec := serve(e, http.MethodPost, "/c2/presentation-signing", echo.MIMEApplicationJSON, `{}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Hash bytes missing", errorBody(t, rec)["error_description"])
	})

	tests := []struct {
		name        string
		body        string
		description string
	}{
		{
			name:        "invalid json",
			body:        `{"hash_bytes"`,
			description: "Request body invalid",
		},
		{
			name:        "hash bytes not a string",
			body:        `{"hash_bytes":[1,2]}`,
			description: "Hash bytes invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newServer(t)

			rec := serve(e, http.MethodPost, "/c2/presentation-signing", echo.MIMEApplicationJSON, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, map[string]string{
				"error":             "invalid_request",
				"error_description": tt.description,
			}, errorBody(t, rec))
		})
	}
}
