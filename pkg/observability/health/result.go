/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/benbjohnson/clock"
)

type report struct {
	Status     health.AvailabilityStatus  `json:"status"`
	Components map[string]componentReport `json:"components,omitempty"`
}

type componentReport struct {
	health.CheckResult
	LastLatencyMs    int64 `json:"last_latency_ms"`
	AverageLatencyMs int64 `json:"avg_latency_ms"`
}

type latency struct {
	last    time.Duration
	average time.Duration
}

// latencyTracker records how long each dependency check takes.
type latencyTracker struct {
	mu     sync.Mutex
	clock  clock.Clock
	checks map[string]latency
}

func newLatencyTracker(clk clock.Clock) *latencyTracker {
	return &latencyTracker{
		clock:  clk,
		checks: map[string]latency{},
	}
}

func (t *latencyTracker) interceptor(next health.InterceptorFunc) health.InterceptorFunc {
	return func(ctx context.Context, name string, state health.CheckState) health.CheckState {
		start := t.clock.Now()
		result := next(ctx, name, state)
		t.observe(name, t.clock.Since(start))

		return result
	}
}

func (t *latencyTracker) observe(name string, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.checks[name]
	if !ok {
		t.checks[name] = latency{last: elapsed, average: elapsed}
		return
	}

	t.checks[name] = latency{last: elapsed, average: (l.average + elapsed) / 2} //nolint:mnd
}

func (t *latencyTracker) get(name string) (latency, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.checks[name]

	return l, ok
}

// Write implements health.ResultWriter.
func (t *latencyTracker) Write(result *health.CheckerResult, status int, w http.ResponseWriter, _ *http.Request) error {
	r := &report{Status: result.Status}

	if len(result.Details) > 0 {
		r.Components = make(map[string]componentReport, len(result.Details))

		for name, cr := range result.Details {
			c := componentReport{CheckResult: cr}

			if l, ok := t.get(name); ok {
				c.LastLatencyMs = l.last.Milliseconds()
				c.AverageLatencyMs = l.average.Milliseconds()
			}

			r.Components[name] = c
		}
	}

	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal health report: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	_, err = w.Write(b)

	return err
}
