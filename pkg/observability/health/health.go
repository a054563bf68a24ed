/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package health

import (
	"context"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/benbjohnson/clock"
)

const (
	defaultTimeout       = 5 * time.Second
	defaultCacheDuration = time.Second
)

// Check is a named dependency check.
type Check struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewHandler returns the /healthcheck handler. Without checks the service reports up.
func NewHandler(checks ...Check) http.Handler {
	return newHandler(clock.New(), checks...)
}

func newHandler(clk clock.Clock, checks ...Check) http.Handler {
	tracker := newLatencyTracker(clk)

	opts := []health.CheckerOption{
		health.WithTimeout(defaultTimeout),
		health.WithCacheDuration(defaultCacheDuration),
		health.WithInterceptors(tracker.interceptor),
	}

	for _, c := range checks {
		opts = append(opts, health.WithCheck(health.Check{
			Name:               c.Name,
			Check:              c.Check,
			MaxTimeInError:     1,
			MaxContiguousFails: 1,
		}))
	}

	return health.NewHandler(
		health.NewChecker(opts...),
		health.WithResultWriter(tracker),
	)
}
