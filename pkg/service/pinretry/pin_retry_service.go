/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination pin_retry_service_mocks_test.go -package pinretry_test -source=pin_retry_service.go -mock_names counterStore=MockCounterStore

package pinretry

import (
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
)

var logger = log.New("pin-retry")

var (
	ErrDataNotFound = errors.New("data not found")
	// ErrLocked is returned when the counter reached the maximum number of PIN retries.
	ErrLocked = errors.New("PIN locked")
)

type counterStore interface {
	// Create stores a counter with value 0, replacing an existing one.
	Create(ctx context.Context, id string, ttl time.Duration) error
	Get(ctx context.Context, id string) (int, error)
	// Increment adds one to an existing counter and returns the new value.
	Increment(ctx context.Context, id string) (int, error)
}

// Config defines configuration for Service.
type Config struct {
	Store      counterStore
	MaxRetries int
	Validity   time.Duration
}

// Service counts failed PIN bindings per client instance key.
type Service struct {
	store      counterStore
	maxRetries int
	validity   time.Duration
}

// NewService returns a new Service instance.
func NewService(config *Config) *Service {
	return &Service{
		store:      config.Store,
		maxRetries: config.MaxRetries,
		validity:   config.Validity,
	}
}

// Init starts a fresh counter for the key, as done when a seed credential is issued.
func (s *Service) Init(ctx context.Context, clientInstanceKey *jose.JSONWebKey) error {
	id, err := CounterID(clientInstanceKey)
	if err != nil {
		return err
	}

	if err = s.store.Create(ctx, id, s.validity); err != nil {
		return fmt.Errorf("create pin retry counter: %w", err)
	}

	return nil
}

// Load returns the counter id for the key. It fails with ErrLocked when no retries are left.
func (s *Service) Load(ctx context.Context, clientInstanceKey *jose.JSONWebKey) (string, error) {
	id, err := CounterID(clientInstanceKey)
	if err != nil {
		return "", err
	}

	value, err := s.store.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("pin retry counter not found: %w", err)
	}

	if value >= s.maxRetries {
		return "", ErrLocked
	}

	return id, nil
}

// Increment records a failed PIN binding. It returns ErrLocked when this was the last retry.
func (s *Service) Increment(ctx context.Context, id string) error {
	value, err := s.store.Increment(ctx, id)
	if err != nil {
		return fmt.Errorf("increment pin retry counter: %w", err)
	}

	logger.Infoc(ctx, "pin retry counter incremented", logfields.WithRetryCount(value))

	if value >= s.maxRetries {
		return ErrLocked
	}

	return nil
}

// CounterID derives the counter id from the RFC 7638 thumbprint of the key.
func CounterID(key *jose.JSONWebKey) (string, error) {
	if key == nil {
		return "", errors.New("client instance key is missing")
	}

	tp, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("client instance key thumbprint: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(tp), nil
}
