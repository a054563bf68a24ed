/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sessionstore keeps sessions in process memory. It is meant for single instance deployments
// and local development.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bluele/gcache"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
)

const expiredRetention = 5 * time.Minute

// Store is an in-memory session.Store. Records are serialized so callers never share state.
type Store struct {
	mu         sync.Mutex
	cache      gcache.Cache
	defaultTTL time.Duration
	clock      clock.Clock
}

func New(size int, defaultTTL time.Duration, clk clock.Clock) *Store {
	return &Store{
		cache:      gcache.New(size).LRU().Clock(clk).Build(),
		defaultTTL: defaultTTL,
		clock:      clk,
	}
}

func (s *Store) Create(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}

	if sess.ExpireAt.IsZero() {
		sess.ExpireAt = now.Add(s.defaultTTL)
	}

	for kind, value := range sess.Keys() {
		if s.cache.Has(indexKey(sess.FlowVariant, kind, value)) {
			return fmt.Errorf("session create: correlation key already in use")
		}
	}

	return s.write(sess, nil, now)
}

func (s *Store) Find(
	_ context.Context,
	variant session.FlowVariant,
	kind session.KeyKind,
	value string,
) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cache.Get(indexKey(variant, kind, value))
	if err != nil {
		return nil, mapErr(err)
	}

	return s.load(id.(string)) //nolint:forcetypeassert
}

func (s *Store) LookupAndConsume(
	_ context.Context,
	variant session.FlowVariant,
	kind session.KeyKind,
	value string,
	expected session.Step,
) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := indexKey(variant, kind, value)

	id, err := s.cache.Get(key)
	if err != nil {
		return nil, mapErr(err)
	}

	s.cache.Remove(key)

	sess, err := s.load(id.(string)) //nolint:forcetypeassert
	if err != nil {
		return nil, err
	}

	// Copies read before the consumption must not write the consumed key back.
	sess.Clear(kind)
	sess.Version++

	if err = s.writeDocument(sess, s.clock.Now().UTC()); err != nil {
		return nil, err
	}

	if sess.NextStep != expected {
		return nil, fmt.Errorf("%w: expected %s, session is at %s", session.ErrUnexpectedStep, expected, sess.NextStep)
	}

	return sess, nil
}

func (s *Store) Update(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.stored(sess.ID)
	if err != nil {
		return err
	}

	if prev.Version != sess.Version {
		return session.ErrConcurrentUpdate
	}

	sess.Version++

	if err = s.write(sess, prev, s.clock.Now().UTC()); err != nil {
		sess.Version--

		return err
	}

	return nil
}

// SetDPoPNonce stores the DPoP nonce of sess on the stored record. Version and correlation keys
// of the record are left as they are.
func (s *Store) SetDPoPNonce(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.stored(sess.ID)
	if err != nil {
		return err
	}

	stored.DPoPNonce = sess.DPoPNonce
	stored.DPoPNonceExpiresAt = sess.DPoPNonceExpiresAt

	return s.writeDocument(stored, s.clock.Now().UTC())
}

func (s *Store) Delete(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(docKey(sess.ID))

	for kind, value := range sess.Keys() {
		s.cache.Remove(indexKey(sess.FlowVariant, kind, value))
	}

	return nil
}

func (s *Store) write(sess *session.Session, prev *session.Session, now time.Time) error {
	if err := s.writeDocument(sess, now); err != nil {
		return err
	}

	newKeys := sess.Keys()

	if prev != nil {
		for kind, value := range prev.Keys() {
			if newKeys[kind] != value {
				s.cache.Remove(indexKey(prev.FlowVariant, kind, value))
			}
		}
	}

	ttl := keyTTL(sess, now)

	for kind, value := range newKeys {
		if err := s.cache.SetWithExpire(indexKey(sess.FlowVariant, kind, value), sess.ID, ttl); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) writeDocument(sess *session.Session, now time.Time) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}

	return s.cache.SetWithExpire(docKey(sess.ID), data, keyTTL(sess, now))
}

// stored returns the record as stored, expired or not.
func (s *Store) stored(id string) (*session.Session, error) {
	raw, err := s.cache.Get(docKey(id))
	if err != nil {
		return nil, mapErr(err)
	}

	var sess session.Session
	if err = json.Unmarshal(raw.([]byte), &sess); err != nil { //nolint:forcetypeassert
		return nil, fmt.Errorf("session decode: %w", err)
	}

	return &sess, nil
}

func (s *Store) load(id string) (*session.Session, error) {
	sess, err := s.stored(id)
	if err != nil {
		return nil, err
	}

	if sess.Expired(s.clock.Now().UTC()) {
		return nil, session.ErrSessionExpired
	}

	return sess, nil
}

func keyTTL(sess *session.Session, now time.Time) time.Duration {
	ttl := sess.ExpireAt.Sub(now)
	if ttl <= 0 {
		ttl = time.Second
	}

	return ttl + expiredRetention
}

func mapErr(err error) error {
	if errors.Is(err, gcache.KeyNotFoundError) {
		return session.ErrDataNotFound
	}

	return err
}

func docKey(id string) string {
	return "doc:" + id
}

func indexKey(variant session.FlowVariant, kind session.KeyKind, value string) string {
	return fmt.Sprintf("idx:%s:%s:%s", variant, kind, value)
}
