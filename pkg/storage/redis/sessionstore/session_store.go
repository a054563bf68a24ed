/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	redisapi "github.com/redis/go-redis/v9"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/internal/logfields"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/session"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis"
)

const (
	keyPrefix         = "pidsess"
	documentKeyPrefix = keyPrefix + "-" + "doc"

	// expiredRetention keeps expired records readable so lookups report expiry instead of an unknown key.
	expiredRetention = 5 * time.Minute

	txRetries    = 3
	txRetryDelay = 10 * time.Millisecond
)

var errKeyInUse = errors.New("session create: correlation key already in use")

// getter is satisfied by the client and by a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redisapi.StringCmd
}

var logger = log.New("redis-session-store")

// Store stores sessions in redis. Correlation keys point to the session document. Consumption
// deletes the pointer and advances the document version in one transaction.
type Store struct {
	redisClient *redis.Client
	defaultTTL  time.Duration
	clock       clock.Clock
}

// New creates Store.
func New(redisClient *redis.Client, defaultTTL time.Duration, clk clock.Clock) *Store {
	return &Store{
		redisClient: redisClient,
		defaultTTL:  defaultTTL,
		clock:       clk,
	}
}

func (s *Store) Create(ctx context.Context, sess *session.Session) error {
	now := s.clock.Now().UTC()

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}

	if sess.ExpireAt.IsZero() {
		sess.ExpireAt = now.Add(s.defaultTTL)
	}

	ttl := s.keyTTL(sess, now)
	docKey := resolveDocumentKey(sess.ID)
	doc := &redisDocument{ID: sess.ID, ExpireAt: sess.ExpireAt, Session: sess}

	indexKeys := make([]string, 0, len(sess.Keys()))
	for kind, value := range sess.Keys() {
		indexKeys = append(indexKeys, resolveIndexKey(sess.FlowVariant, kind, value))
	}

	txf := func(tx *redisapi.Tx) error {
		if len(indexKeys) > 0 {
			n, err := tx.Exists(ctx, indexKeys...).Result()
			if err != nil {
				return fmt.Errorf("session create: %w", err)
			}

			if n > 0 {
				return errKeyInUse
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redisapi.Pipeliner) error {
			pipe.Set(ctx, docKey, doc, ttl)

			for _, key := range indexKeys {
				pipe.Set(ctx, key, sess.ID, ttl)
			}

			return nil
		})

		return err
	}

	if err := s.redisClient.API().Watch(ctx, txf, append([]string{docKey}, indexKeys...)...); err != nil {
		if errors.Is(err, redisapi.TxFailedErr) {
			return errKeyInUse
		}

		return err
	}

	logger.Debugc(ctx, "session created", logfields.WithSessionID(sess.ID),
		logfields.WithFlowVariant(string(sess.FlowVariant)))

	return nil
}

func (s *Store) Find(
	ctx context.Context,
	variant session.FlowVariant,
	kind session.KeyKind,
	value string,
) (*session.Session, error) {
	id, err := s.redisClient.API().Get(ctx, resolveIndexKey(variant, kind, value)).Result()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return nil, session.ErrDataNotFound
		}

		return nil, fmt.Errorf("find %s: %w", kind, err)
	}

	return s.findOne(ctx, s.redisClient.API(), id)
}

func (s *Store) LookupAndConsume(
	ctx context.Context,
	variant session.FlowVariant,
	kind session.KeyKind,
	value string,
	expected session.Step,
) (*session.Session, error) {
	indexKey := resolveIndexKey(variant, kind, value)

	var sess *session.Session

	err := withTxRetry(ctx, func() error {
		consumed, err := s.consume(ctx, indexKey, kind)
		if err != nil {
			return err
		}

		sess = consumed

		return nil
	})
	if err != nil {
		if errors.Is(err, redisapi.TxFailedErr) {
			return nil, session.ErrConcurrentUpdate
		}

		return nil, err
	}

	if sess.NextStep != expected {
		return nil, fmt.Errorf("%w: expected %s, session is at %s", session.ErrUnexpectedStep, expected, sess.NextStep)
	}

	return sess, nil
}

// consume deletes indexKey and stores the document without the key and with the next version.
// A change of either key between read and write fails the transaction with redis.TxFailedErr.
func (s *Store) consume(ctx context.Context, indexKey string, kind session.KeyKind) (*session.Session, error) {
	var consumed *session.Session

	txf := func(tx *redisapi.Tx) error {
		id, err := tx.Get(ctx, indexKey).Result()
		if err != nil {
			if errors.Is(err, redisapi.Nil) {
				return session.ErrDataNotFound
			}

			return fmt.Errorf("consume %s: %w", kind, err)
		}

		docKey := resolveDocumentKey(id)

		if err = tx.Watch(ctx, docKey).Err(); err != nil {
			return fmt.Errorf("consume %s: %w", kind, err)
		}

		sess, err := s.findOne(ctx, tx, id)
		if err != nil {
			return err
		}

		sess.Clear(kind)
		sess.Version++

		ttl := s.keyTTL(sess, s.clock.Now().UTC())

		_, err = tx.TxPipelined(ctx, func(pipe redisapi.Pipeliner) error {
			pipe.Del(ctx, indexKey)
			pipe.Set(ctx, docKey, &redisDocument{ID: sess.ID, ExpireAt: sess.ExpireAt, Session: sess}, ttl)

			return nil
		})
		if err != nil {
			return err
		}

		consumed = sess

		return nil
	}

	if err := s.redisClient.API().Watch(ctx, txf, indexKey); err != nil {
		return nil, err
	}

	return consumed, nil
}

func (s *Store) Update(ctx context.Context, sess *session.Session) error {
	docKey := resolveDocumentKey(sess.ID)
	api := s.redisClient.API()

	updated := *sess
	updated.Version = sess.Version + 1

	txf := func(tx *redisapi.Tx) error {
		var prev redisDocument

		if err := tx.Get(ctx, docKey).Scan(&prev); err != nil {
			if errors.Is(err, redisapi.Nil) {
				return session.ErrDataNotFound
			}

			return fmt.Errorf("session update load: %w", err)
		}

		if prev.Session == nil || prev.Session.Version != sess.Version {
			return session.ErrConcurrentUpdate
		}

		ttl := s.keyTTL(&updated, s.clock.Now().UTC())
		newKeys := updated.Keys()

		_, err := tx.TxPipelined(ctx, func(pipe redisapi.Pipeliner) error {
			pipe.Set(ctx, docKey, &redisDocument{ID: updated.ID, ExpireAt: updated.ExpireAt, Session: &updated}, ttl)

			for kind, value := range prev.Session.Keys() {
				if newKeys[kind] != value {
					pipe.Del(ctx, resolveIndexKey(prev.Session.FlowVariant, kind, value))
				}
			}

			for kind, value := range newKeys {
				pipe.Set(ctx, resolveIndexKey(updated.FlowVariant, kind, value), updated.ID, ttl)
			}

			return nil
		})

		return err
	}

	// A failed transaction is retried, the version check decides whether the change is stale.
	if err := withTxRetry(ctx, func() error { return api.Watch(ctx, txf, docKey) }); err != nil {
		if errors.Is(err, redisapi.TxFailedErr) {
			return session.ErrConcurrentUpdate
		}

		return err
	}

	sess.Version = updated.Version

	return nil
}

// SetDPoPNonce stores the DPoP nonce of sess on the stored document. Version and correlation keys
// of the document are left as they are.
func (s *Store) SetDPoPNonce(ctx context.Context, sess *session.Session) error {
	docKey := resolveDocumentKey(sess.ID)

	txf := func(tx *redisapi.Tx) error {
		var doc redisDocument

		if err := tx.Get(ctx, docKey).Scan(&doc); err != nil {
			if errors.Is(err, redisapi.Nil) {
				return session.ErrDataNotFound
			}

			return fmt.Errorf("dpop nonce load: %w", err)
		}

		if doc.Session == nil {
			return session.ErrDataNotFound
		}

		doc.Session.DPoPNonce = sess.DPoPNonce
		doc.Session.DPoPNonceExpiresAt = sess.DPoPNonceExpiresAt

		_, err := tx.TxPipelined(ctx, func(pipe redisapi.Pipeliner) error {
			pipe.Set(ctx, docKey, &doc, s.keyTTL(doc.Session, s.clock.Now().UTC()))

			return nil
		})

		return err
	}

	if err := withTxRetry(ctx, func() error { return s.redisClient.API().Watch(ctx, txf, docKey) }); err != nil {
		if errors.Is(err, redisapi.TxFailedErr) {
			return session.ErrConcurrentUpdate
		}

		return err
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, sess *session.Session) error {
	keys := []string{resolveDocumentKey(sess.ID)}

	for kind, value := range sess.Keys() {
		keys = append(keys, resolveIndexKey(sess.FlowVariant, kind, value))
	}

	if err := s.redisClient.API().Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}

	return nil
}

func (s *Store) findOne(ctx context.Context, c getter, id string) (*session.Session, error) {
	var doc redisDocument

	if err := c.Get(ctx, resolveDocumentKey(id)).Scan(&doc); err != nil {
		if errors.Is(err, redisapi.Nil) {
			return nil, session.ErrDataNotFound
		}

		return nil, fmt.Errorf("findOne: %w", err)
	}

	if doc.Session == nil {
		return nil, session.ErrDataNotFound
	}

	if !doc.ExpireAt.After(s.clock.Now().UTC()) {
		return nil, session.ErrSessionExpired
	}

	return doc.Session, nil
}

func (s *Store) keyTTL(sess *session.Session, now time.Time) time.Duration {
	ttl := sess.ExpireAt.Sub(now)
	if ttl <= 0 {
		ttl = time.Second
	}

	return ttl + expiredRetention
}

func resolveDocumentKey(id string) string {
	return redis.ResolveKey(documentKeyPrefix, id)
}

func resolveIndexKey(variant session.FlowVariant, kind session.KeyKind, value string) string {
	return redis.ResolveKey(keyPrefix, string(variant), string(kind), value)
}

// withTxRetry runs op again while it fails with redis.TxFailedErr.
func withTxRetry(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !errors.Is(err, redisapi.TxFailedErr) {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(txRetryDelay), txRetries), ctx))
}
