/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination provider_mocks_test.go -package broker_test -source=provider.go -mock_names httpClient=MockHTTPClient

// Package broker starts eID identifications at the SAML broker and fetches their results.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/identification"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

var logger = log.New("identification-broker")

var _ identification.Provider = (*Provider)(nil)

const (
	authnPath   = "/saml/authn"
	resultsPath = "/results/"

	statusSuccess = "success"
	statusError   = "error"
	statusPending = "pending"

	defaultMaxRetries   = 3
	defaultInitialDelay = 200 * time.Millisecond
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines configuration for Provider.
type Config struct {
	BaseURL      string
	HTTPClient   httpClient
	MaxRetries   uint64
	InitialDelay time.Duration
}

// Provider talks to the eID broker.
type Provider struct {
	baseURL      string
	httpClient   httpClient
	maxRetries   uint64
	initialDelay time.Duration
}

func New(config *Config) (*Provider, error) {
	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid broker url %q", config.BaseURL)
	}

	p := &Provider{
		baseURL:      strings.TrimSuffix(config.BaseURL, "/"),
		httpClient:   config.HTTPClient,
		maxRetries:   config.MaxRetries,
		initialDelay: config.InitialDelay,
	}

	if p.httpClient == nil {
		p.httpClient = http.DefaultClient
	}

	if p.maxRetries == 0 {
		p.maxRetries = defaultMaxRetries
	}

	if p.initialDelay == 0 {
		p.initialDelay = defaultInitialDelay
	}

	return p, nil
}

// StartIdentification returns the broker URL that creates the SAML AuthnRequest.
func (p *Provider) StartIdentification(
	_ context.Context,
	variant session.FlowVariant,
	issuerState, finishURL string,
) (string, error) {
	q := url.Values{}
	q.Set("issuer_state", issuerState)
	q.Set("return_url", finishURL)
	q.Set("flow", string(variant))

	return p.baseURL + authnPath + "?" + q.Encode(), nil
}

type resultResponse struct {
	Status           string    `json:"status"`
	PIDData          *pid.Data `json:"pid_data,omitempty"`
	ErrorDescription string    `json:"error_description,omitempty"`
}

// Result fetches the identification result. Pending results and server errors are retried
// with exponential backoff.
func (p *Provider) Result(ctx context.Context, issuerState string) (*identification.Result, error) {
	var result *identification.Result

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initialDelay

	err := backoff.RetryNotify(func() error {
		res, err := p.fetch(ctx, issuerState)
		if err != nil {
			return err
		}

		result = res

		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, p.maxRetries), ctx),
		func(err error, d time.Duration) {
			logger.Debugc(ctx, "retrying identification result", log.WithError(err), log.WithDuration(d))
		})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Provider) fetch(ctx context.Context, issuerState string) (*identification.Result, error) {
	resultURL := p.baseURL + resultsPath + url.PathEscape(issuerState)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create result request: %w", err))
	}

	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch identification result: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Errorc(ctx, "failed to close response body", log.WithError(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read identification result: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("broker responded with status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		logger.Warnc(ctx, "identification result not available",
			log.WithURL(resultURL), log.WithHTTPStatus(resp.StatusCode))

		return nil, backoff.Permanent(fmt.Errorf("broker responded with status %d", resp.StatusCode))
	}

	var rr resultResponse

	if err = json.Unmarshal(body, &rr); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode identification result: %w", err))
	}

	switch rr.Status {
	case statusSuccess:
		if rr.PIDData == nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: success without pid data", pid.ErrDataIssue))
		}

		return &identification.Result{Data: rr.PIDData}, nil
	case statusError:
		logger.Infoc(ctx, "identification failed", logfields.WithAdditionalMessage(rr.ErrorDescription))

		return &identification.Result{Failure: rr.ErrorDescription}, nil
	case statusPending:
		return nil, identification.ErrResultPending
	default:
		return nil, backoff.Permanent(errors.New("unknown identification result status " + rr.Status))
	}
}
