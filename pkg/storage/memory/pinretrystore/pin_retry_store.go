/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pinretrystore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bluele/gcache"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pinretry"
)

type counter struct {
	value    int
	expireAt time.Time
}

// Store keeps PIN retry counters in process memory.
type Store struct {
	mu    sync.Mutex
	cache gcache.Cache
	clock clock.Clock
}

func New(size int, clk clock.Clock) *Store {
	return &Store{
		cache: gcache.New(size).LRU().Clock(clk).Build(),
		clock: clk,
	}
}

func (s *Store) Create(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.SetWithExpire(id, &counter{expireAt: s.clock.Now().Add(ttl)}, ttl)
}

func (s *Store) Get(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(id)
	if err != nil {
		return 0, err
	}

	return c.value, nil
}

func (s *Store) Increment(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(id)
	if err != nil {
		return 0, err
	}

	updated := &counter{value: c.value + 1, expireAt: c.expireAt}

	if err = s.cache.SetWithExpire(id, updated, c.expireAt.Sub(s.clock.Now())); err != nil {
		return 0, err
	}

	return updated.value, nil
}

func (s *Store) get(id string) (*counter, error) {
	v, err := s.cache.Get(id)
	if err != nil {
		if errors.Is(err, gcache.KeyNotFoundError) {
			return nil, pinretry.ErrDataNotFound
		}

		return nil, err
	}

	return v.(*counter), nil //nolint:forcetypeassert
}
