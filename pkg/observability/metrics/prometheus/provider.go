/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct {
	httpServer *http.Server
}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider.
func NewPrometheusProvider(httpServer *http.Server) metrics.Provider {
	return &promProvider{httpServer: httpServer}
}

// Create starts the metrics HTTP server in the background.
func (pp *promProvider) Create() error {
	if pp.httpServer == nil {
		return nil
	}

	go func() {
		if err := pp.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics HTTP server stopped", log.WithError(err))
		}
	}()

	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	if pp.httpServer != nil {
		return pp.httpServer.Shutdown(context.Background())
	}

	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the metrics of the PID issuer.
type PromMetrics struct {
	signTime          *prometheus.HistogramVec
	credentialsIssued *prometheus.CounterVec
	protocolErrors    *prometheus.CounterVec
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		signTime:          newSignTime(),
		credentialsIssued: newCredentialsIssued(),
		protocolErrors:    newProtocolErrors(),
	}

	registerMetrics(pm)

	return pm
}

// SignTime records the time it took to build and sign one credential.
func (pm *PromMetrics) SignTime(format string, value time.Duration) {
	pm.signTime.WithLabelValues(format).Observe(value.Seconds())

	logger.Debug("credential sign time", logfields.WithCredentialFormat(format), log.WithDuration(value))
}

func (pm *PromMetrics) CredentialIssued(variant, format string) {
	pm.credentialsIssued.WithLabelValues(variant, format).Inc()
}

func (pm *PromMetrics) ProtocolError(code string) {
	pm.protocolErrors.WithLabelValues(code).Inc()
}

func registerMetrics(pm *PromMetrics) {
	prometheus.MustRegister(
		pm.signTime, pm.credentialsIssued, pm.protocolErrors,
	)
}

func newCounterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func newHistogramVec(subsystem, name, help string, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func newSignTime() *prometheus.HistogramVec {
	return newHistogramVec(
		metrics.Crypto, metrics.CryptoSignTimeMetric,
		"The time (in seconds) it takes to build and sign a credential.",
		"format",
	)
}

func newCredentialsIssued() *prometheus.CounterVec {
	return newCounterVec(
		metrics.Service, metrics.CredentialsIssuedTotal,
		"The number of issued credentials.",
		"variant", "format",
	)
}

func newProtocolErrors() *prometheus.CounterVec {
	return newCounterVec(
		metrics.Controller, metrics.ProtocolErrorsTotal,
		"The number of protocol errors returned to wallets.",
		"error",
	)
}
