/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package identification defines the channel that proofs the identity of the wallet user.
package identification

import (
	"context"
	"errors"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

// ErrResultPending is returned by Result while the user has not finished the identification.
var ErrResultPending = errors.New("neither Success nor Error result received yet")

// Result of an identification. Exactly one of Data and Failure is set.
type Result struct {
	Data    *pid.Data
	Failure string
}

// Succeeded reports whether the identification delivered PID data.
func (r *Result) Succeeded() bool {
	return r != nil && r.Data != nil && r.Failure == ""
}

// Provider starts identifications and returns their results.
type Provider interface {
	// StartIdentification returns the URL the user agent is redirected to. Once done, the
	// identification continues at finishURL, which carries the issuer state.
	StartIdentification(ctx context.Context, variant session.FlowVariant, issuerState, finishURL string) (string, error)
	// Result returns the outcome of the identification started with issuerState.
	Result(ctx context.Context, issuerState string) (*Result, error)
}
