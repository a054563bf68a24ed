/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cslmanager

//go:generate mockgen -destination cslmanager_mocks_test.go -package cslmanager_test -source=cslmanager.go -mock_names listStore=MockListStore,tokenSigner=MockTokenSigner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/statuslist"
)

var logger = log.New("csl-list-manager")

const maxAssignAttempts = 5

var (
	ErrDataNotFound = errors.New("data not found")
	// ErrListExhausted is returned by the store when a list has no free index left.
	ErrListExhausted = errors.New("status list exhausted")
	ErrInvalidIndex  = errors.New("status list index is invalid")
)

type listStore interface {
	// LatestListID returns the list new indices are taken from.
	LatestListID(ctx context.Context) (string, error)
	// TakeIndex removes one free index from the list.
	TakeIndex(ctx context.Context, listID string) (int, error)
	// CreateList stores a list with the given free indices and makes it the latest list, as long as
	// previousListID is still the latest one. It returns false if another writer got there first.
	CreateList(ctx context.Context, previousListID, listID string, size int, freeIndices []int) (bool, error)
	SetStatus(ctx context.Context, listID string, index int, revoked bool) error
	// Get returns the raw list, entry 0 being the least significant bit of the first byte.
	Get(ctx context.Context, listID string) ([]byte, error)
}

type tokenSigner interface {
	Sign(uri string, list *statuslist.BitString) (string, error)
}

type Config struct {
	Store       listStore
	TokenSigner tokenSigner
	ListSize    int
	ExternalURL string
}

// Entry references one status of an issued credential.
type Entry struct {
	URI   string
	Index int
}

// Manager assigns status list entries and publishes the lists.
type Manager struct {
	store       listStore
	tokenSigner tokenSigner
	listSize    int
	externalURL string
}

// New returns new CSL list manager.
func New(config *Config) (*Manager, error) {
	if config.ListSize <= 0 || config.ListSize%8 != 0 {
		return nil, fmt.Errorf("list size must be a positive multiple of 8, got %d", config.ListSize)
	}

	return &Manager{
		store:       config.Store,
		tokenSigner: config.TokenSigner,
		listSize:    config.ListSize,
		externalURL: config.ExternalURL,
	}, nil
}

// CreateCSLEntry takes a free index from the latest list, rotating to a fresh list when it is used up.
func (s *Manager) CreateCSLEntry(ctx context.Context) (*Entry, error) {
	for attempt := 0; attempt < maxAssignAttempts; attempt++ {
		listID, err := s.store.LatestListID(ctx)
		if err != nil && !errors.Is(err, ErrDataNotFound) {
			return nil, fmt.Errorf("failed to get latest list id from store: %w", err)
		}

		if listID != "" {
			index, takeErr := s.store.TakeIndex(ctx, listID)
			if takeErr == nil {
				entry := &Entry{URI: statuslist.ListURI(s.externalURL, listID), Index: index}

				logger.Debugc(ctx, "status list entry assigned",
					logfields.WithStatusListURI(entry.URI), logfields.WithStatusListIndex(index))

				return entry, nil
			}

			if !errors.Is(takeErr, ErrListExhausted) {
				return nil, fmt.Errorf("failed to take status list index: %w", takeErr)
			}
		}

		if err = s.createList(ctx, listID); err != nil {
			return nil, err
		}
	}

	return nil, errors.New("no status list index available")
}

func (s *Manager) createList(ctx context.Context, previousListID string) error {
	newListID := uuid.NewString()

	created, err := s.store.CreateList(ctx, previousListID, newListID, s.listSize, rand.Perm(s.listSize)) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create status list: %w", err)
	}

	if created {
		logger.Infoc(ctx, "created new status list",
			logfields.WithStatusListURI(statuslist.ListURI(s.externalURL, newListID)))
	}

	return nil
}

// UpdateStatus sets or clears the revocation bit of an entry.
func (s *Manager) UpdateStatus(ctx context.Context, listID string, index int, revoked bool) error {
	if !statuslist.ValidID(listID) {
		return ErrDataNotFound
	}

	if index < 0 || index >= s.listSize {
		return ErrInvalidIndex
	}

	if err := s.store.SetStatus(ctx, listID, index, revoked); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	logger.Infoc(ctx, "status updated",
		logfields.WithStatusListURI(statuslist.ListURI(s.externalURL, listID)), logfields.WithStatusListIndex(index))

	return nil
}

// GetStatusListToken returns the signed statuslist+jwt of the list.
func (s *Manager) GetStatusListToken(ctx context.Context, listID string) (string, error) {
	if !statuslist.ValidID(listID) {
		return "", ErrDataNotFound
	}

	data, err := s.store.Get(ctx, listID)
	if err != nil {
		return "", err
	}

	token, err := s.tokenSigner.Sign(statuslist.ListURI(s.externalURL, listID), statuslist.FromBytes(data))
	if err != nil {
		return "", fmt.Errorf("failed to sign status list: %w", err)
	}

	return token, nil
}
