/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mock is an identification provider that skips the eID and returns a fixed identity.
package mock

import (
	"context"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/identification"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

var _ identification.Provider = (*Provider)(nil)

// Provider continues directly at the finish URL.
type Provider struct {
	data    *pid.Data
	failure string
}

// Opt configures the mock provider.
type Opt func(p *Provider)

// WithData replaces the default test identity.
func WithData(data *pid.Data) Opt {
	return func(p *Provider) {
		p.data = data
	}
}

// WithFailure makes every identification fail with the given reason.
func WithFailure(reason string) Opt {
	return func(p *Provider) {
		p.failure = reason
	}
}

func New(opts ...Opt) *Provider {
	p := &Provider{data: pid.TestData()}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Provider) StartIdentification(_ context.Context, _ session.FlowVariant, _, finishURL string) (string, error) {
	return finishURL, nil
}

func (p *Provider) Result(_ context.Context, _ string) (*identification.Result, error) {
	if p.failure != "" {
		return &identification.Result{Failure: p.failure}, nil
	}

	data := *p.data

	return &identification.Result{Data: &data}, nil
}
