/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by different metrics provider.
var Logger = log.New("metrics-provider")

// Constants used by different metrics provider.
const (
	// Namespace Organization namespace.
	Namespace = "pid_issuer"

	// Crypto plain crypto operations.
	Crypto               = "crypto"
	CryptoSignTimeMetric = "credential_sign_seconds"

	// Service operations.
	Service                = "service"
	CredentialsIssuedTotal = "credentials_issued_total"

	// Controller operations.
	Controller          = "controller"
	ProtocolErrorsTotal = "protocol_errors_total"
)

// Provider is an interface for metrics provider.
type Provider interface {
	// Create creates a metrics provider instance
	Create() error
	// Destroy destroys the metrics provider instance
	Destroy() error
	// Metrics providers metrics
	Metrics() Metrics
}

// Metrics is an interface for the metrics to be supported by the provider.
type Metrics interface {
	SignTime(format string, value time.Duration)
	CredentialIssued(variant, format string)
	ProtocolError(code string)
}
