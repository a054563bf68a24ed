/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination service_mocks_test.go -package issuecredential_test -source=issuecredential_service.go -mock_names statusManager=MockStatusManager,sdjwtIssuer=MockSDJWTIssuer,mdocIssuer=MockMdocIssuer

package issuecredential

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-jose/go-jose/v3"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/cslmanager"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/mdoc"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/sdjwt"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/observability/metrics/noop"
)

var logger = log.New("issue-credential")

type statusManager interface {
	CreateCSLEntry(ctx context.Context) (*cslmanager.Entry, error)
}

type sdjwtIssuer interface {
	Issue(c *sdjwt.Credential) (string, error)
}

type mdocIssuer interface {
	IssueIssuerSigned(req *mdoc.Request) ([]byte, error)
	IssueAuthenticatedChannel(req *mdoc.Request, channel *mdoc.AuthenticatedChannel) ([]byte, error)
}

type Config struct {
	StatusManager statusManager
	SDJWTIssuer   sdjwtIssuer
	MdocIssuer    mdocIssuer
	// VCT is the vct claim of issued SD-JWT credentials.
	VCT      string
	Validity time.Duration
	Clock    clock.Clock
	Metrics  metrics.Metrics
}

// Service builds and signs PID credentials.
type Service struct {
	statusManager statusManager
	sdjwtIssuer   sdjwtIssuer
	mdocIssuer    mdocIssuer
	vct           string
	validity      time.Duration
	clock         clock.Clock
	metrics       metrics.Metrics
}

func New(config *Config) *Service {
	clk := config.Clock
	if clk == nil {
		clk = clock.New()
	}

	m := config.Metrics
	if m == nil {
		m = noop.GetMetrics()
	}

	return &Service{
		statusManager: config.StatusManager,
		sdjwtIssuer:   config.SDJWTIssuer,
		mdocIssuer:    config.MdocIssuer,
		vct:           config.VCT,
		validity:      config.Validity,
		clock:         clk,
		metrics:       m,
	}
}

// IssueSDJWT returns an SD-JWT VC in combined format bound to holderKey.
func (s *Service) IssueSDJWT(
	ctx context.Context,
	data *pid.Data,
	holderKey *jose.JSONWebKey,
	issuer string,
) (string, error) {
	start := s.clock.Now()

	normalized, err := normalize(data)
	if err != nil {
		return "", err
	}

	claims, err := sdjwtClaims(normalized, start)
	if err != nil {
		return "", err
	}

	entry, err := s.statusManager.CreateCSLEntry(ctx)
	if err != nil {
		return "", fmt.Errorf("assign status list entry: %w", err)
	}

	credential, err := s.sdjwtIssuer.Issue(&sdjwt.Credential{
		Issuer:    issuer,
		IssuedAt:  start,
		Expiry:    start.Add(s.validity),
		HolderKey: holderKey,
		Registered: map[string]interface{}{
			"vct": s.vct,
			"status": map[string]interface{}{
				"status_list": map[string]interface{}{
					"idx": entry.Index,
					"uri": entry.URI,
				},
			},
		},
		Claims: claims,
	})
	if err != nil {
		return "", fmt.Errorf("issue sd-jwt: %w", err)
	}

	s.metrics.SignTime(FormatSDJWT, time.Since(start))

	logger.Debugc(ctx, "sd-jwt credential issued",
		logfields.WithStatusListURI(entry.URI), logfields.WithStatusListIndex(entry.Index))

	return credential, nil
}

// IssueMdoc returns the base64url encoded IssuerSigned structure bound to the holder key.
func (s *Service) IssueMdoc(ctx context.Context, data *pid.Data, holderKey *ecdsa.PublicKey) (string, error) {
	start := s.clock.Now()

	req, err := s.mdocRequest(ctx, data, start)
	if err != nil {
		return "", err
	}

	req.DeviceKey = holderKey

	raw, err := s.mdocIssuer.IssueIssuerSigned(req)
	if err != nil {
		return "", fmt.Errorf("issue mdoc: %w", err)
	}

	s.metrics.SignTime(FormatMdoc, time.Since(start))

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// IssueMdocAuthenticatedChannel returns the base64url encoded Document authenticated towards the verifier.
func (s *Service) IssueMdocAuthenticatedChannel(
	ctx context.Context,
	data *pid.Data,
	channel *mdoc.AuthenticatedChannel,
) (string, error) {
	start := s.clock.Now()

	req, err := s.mdocRequest(ctx, data, start)
	if err != nil {
		return "", err
	}

	raw, err := s.mdocIssuer.IssueAuthenticatedChannel(req, channel)
	if err != nil {
		return "", fmt.Errorf("issue authenticated channel mdoc: %w", err)
	}

	s.metrics.SignTime(FormatMdocAuthenticatedChannel, time.Since(start))

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func (s *Service) mdocRequest(ctx context.Context, data *pid.Data, now time.Time) (*mdoc.Request, error) {
	normalized, err := normalize(data)
	if err != nil {
		return nil, err
	}

	validUntil := now.Add(s.validity)

	elements, err := mdocElements(normalized, now, validUntil)
	if err != nil {
		return nil, err
	}

	entry, err := s.statusManager.CreateCSLEntry(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign status list entry: %w", err)
	}

	return &mdoc.Request{
		DocType:   DocType,
		NameSpace: NameSpace,
		Elements:  elements,
		ValidityInfo: mdoc.ValidityInfo{
			Signed:     now,
			ValidFrom:  now,
			ValidUntil: validUntil,
		},
		Status: &mdoc.StatusListRef{Index: entry.Index, URI: entry.URI},
	}, nil
}

func normalize(data *pid.Data) (*pid.Data, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: no identity data", pid.ErrDataIssue)
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}

	return data.Normalized()
}
