/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package noop

import (
	"time"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics"
)

// NoMetrics provides default no operation implementation for the NoMetrics interface.
type NoMetrics struct{}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	return &NoMetrics{}
}

func (n *NoMetrics) SignTime(_ string, _ time.Duration) {}
func (n *NoMetrics) CredentialIssued(_, _ string)       {}
func (n *NoMetrics) ProtocolError(_ string)             {}
