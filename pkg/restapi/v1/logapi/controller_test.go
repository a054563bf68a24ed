/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logapi_test

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/resterr"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/logapi"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/restapi/v1/mw"
)

func TestController(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = resterr.HTTPErrorHandler

	assert.NotNil(t, logapi.NewController(e, mw.AdminTokenAuth("admin")))

	t.Run("requires admin token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/loglevels", strings.NewReader("DEBUG")))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("changed log level", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/loglevels", strings.NewReader("INFO"))
		req.Header.Set("Authorization", "Bearer admin")

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPostLogLevels(t *testing.T) {
	c := logapi.NewController(echo.New())

	t.Run("changed log level", func(t *testing.T) {
		assert.NoError(t, c.PostLogLevels(echoContext(newMockReader([]byte("DEBUG\n")))))
		assert.NoError(t, c.PostLogLevels(echoContext(newMockReader([]byte("INFO")))))
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := c.PostLogLevels(echoContext(newMockReader([]byte("INVALID"))))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger: invalid log level")
	})

	t.Run("empty spec", func(t *testing.T) {
		err := c.PostLogLevels(echoContext(newMockReader([]byte("  "))))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log spec missing")
	})

	t.Run("spec too long", func(t *testing.T) {
		err := c.PostLogLevels(echoContext(newMockReader(bytes.Repeat([]byte("a"), 2048))))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log spec too long")
	})

	t.Run("failed to read request", func(t *testing.T) {
		err := c.PostLogLevels(echoContext(newMockReader([]byte("")).withError(fmt.Errorf("reader error"))))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read body: reader error")
	})
}

func echoContext(body io.Reader) echo.Context {
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

type mockReader struct {
	io.Reader
	err error
}

func newMockReader(value []byte) *mockReader {
	return &mockReader{Reader: bytes.NewBuffer(value)}
}

func (r *mockReader) withError(err error) *mockReader {
	r.err = err

	return r
}

func (r *mockReader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	return r.Reader.Read(p)
}

func (r *mockReader) Close() error {
	return nil
}
