/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pinretrystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisapi "github.com/redis/go-redis/v9"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/service/pinretry"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis"
)

const (
	keyPrefix = "pinretry"
)

// Store stores PIN retry counters with expiration.
type Store struct {
	redisClient *redis.Client
}

// New creates PIN retry counter store.
func New(redisClient *redis.Client) *Store {
	return &Store{
		redisClient: redisClient,
	}
}

func (s *Store) Create(ctx context.Context, id string, ttl time.Duration) error {
	if err := s.redisClient.API().Set(ctx, resolveRedisKey(id), 0, ttl).Err(); err != nil {
		return fmt.Errorf("redis create pin retry counter: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (int, error) {
	value, err := s.redisClient.API().Get(ctx, resolveRedisKey(id)).Int()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return 0, pinretry.ErrDataNotFound
		}

		return 0, err
	}

	return value, nil
}

// Increment uses WATCH so an expired counter is never recreated by INCR.
func (s *Store) Increment(ctx context.Context, id string) (int, error) {
	key := resolveRedisKey(id)

	var incr *redisapi.IntCmd

	txf := func(tx *redisapi.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}

		if exists == 0 {
			return pinretry.ErrDataNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redisapi.Pipeliner) error {
			incr = pipe.Incr(ctx, key)

			return nil
		})

		return err
	}

	if err := s.redisClient.API().Watch(ctx, txf, key); err != nil {
		if errors.Is(err, pinretry.ErrDataNotFound) {
			return 0, err
		}

		return 0, fmt.Errorf("redis increment pin retry counter: %w", err)
	}

	return int(incr.Val()), nil
}

func resolveRedisKey(id string) string {
	return redis.ResolveKey(keyPrefix, id)
}
