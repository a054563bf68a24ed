/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func TestLatencyTracker(t *testing.T) {
	clk := clock.NewMock()
	tracker := newLatencyTracker(clk)

	check := func(d time.Duration) health.InterceptorFunc {
		return func(context.Context, string, health.CheckState) health.CheckState {
			clk.Add(d)
			return health.CheckState{Status: health.StatusUp}
		}
	}

	tracker.interceptor(check(40*time.Millisecond))(context.Background(), "redis", health.CheckState{})
	tracker.interceptor(check(20*time.Millisecond))(context.Background(), "redis", health.CheckState{})

	l, ok := tracker.get("redis")
	require.True(t, ok)
	require.Equal(t, 20*time.Millisecond, l.last)
	require.Equal(t, 30*time.Millisecond, l.average)

	_, ok = tracker.get("broker")
	require.False(t, ok)
}

func TestLatencyTrackerWrite(t *testing.T) {
	tracker := newLatencyTracker(clock.NewMock())
	tracker.observe("redis", 12*time.Millisecond)

	now := time.Now()
	rec := httptest.NewRecorder()

	err := tracker.Write(&health.CheckerResult{
		Status: health.StatusDown,
		Details: map[string]health.CheckResult{
			"redis":  {Status: health.StatusUp, Timestamp: now},
			"broker": {Status: health.StatusDown, Timestamp: now},
		},
	}, http.StatusServiceUnavailable, rec, nil)
	require.NoError(t, err)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var r struct {
		Status     string `json:"status"`
		Components map[string]struct {
			Status        string `json:"status"`
			LastLatencyMs int64  `json:"last_latency_ms"`
			AvgLatencyMs  int64  `json:"avg_latency_ms"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))

	require.Equal(t, "down", r.Status)
	require.Equal(t, int64(12), r.Components["redis"].LastLatencyMs)
	require.Equal(t, int64(12), r.Components["redis"].AvgLatencyMs)
	require.Equal(t, "down", r.Components["broker"].Status)
	require.Zero(t, r.Components["broker"].LastLatencyMs)
}
