/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/health"
)

func TestNewHandler(t *testing.T) {
	tests := []struct {
		name   string
		checks []health.Check
		status int
		result string
	}{
		{
			name:   "no checks",
			status: http.StatusOK,
			result: "up",
		},
		{
			name: "check up",
			checks: []health.Check{{
				Name:  "redis",
				Check: func(context.Context) error { return nil },
			}},
			status: http.StatusOK,
			result: "up",
		},
		{
			name: "check down",
			checks: []health.Check{{
				Name:  "redis",
				Check: func(context.Context) error { return errors.New("failed to ping redis") },
			}},
			status: http.StatusServiceUnavailable,
			result: "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			health.NewHandler(tt.checks...).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

			require.Equal(t, tt.status, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.result, body["status"])
		})
	}
}
