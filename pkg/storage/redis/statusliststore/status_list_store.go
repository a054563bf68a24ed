/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statusliststore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	redisapi "github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/cslmanager"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis"
)

const (
	keyPrefix = "statuslist"

	latestKey  = "latest"
	lockKey    = "lock"
	indicesKey = "indices"
	dataKey    = "data"

	lockTTL   = 30 * time.Second
	pushChunk = 4096

	bitsPerByte = 8
)

// Store keeps status lists in redis. Free indices of a list are a redis list consumed with LPOP,
// the status bits are a plain string value manipulated with SETBIT.
type Store struct {
	redisClient *redis.Client
}

// New creates status list store.
func New(redisClient *redis.Client) *Store {
	return &Store{
		redisClient: redisClient,
	}
}

func (s *Store) LatestListID(ctx context.Context) (string, error) {
	id, err := s.redisClient.API().Get(ctx, resolveRedisKey(latestKey)).Result()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return "", cslmanager.ErrDataNotFound
		}

		return "", fmt.Errorf("redis get latest list id: %w", err)
	}

	return id, nil
}

func (s *Store) TakeIndex(ctx context.Context, listID string) (int, error) {
	v, err := s.redisClient.API().LPop(ctx, resolveRedisKey(indicesKey, listID)).Result()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return 0, cslmanager.ErrListExhausted
		}

		return 0, fmt.Errorf("redis take index: %w", err)
	}

	return strconv.Atoi(v)
}

// CreateList holds a SETNX lock while the new list is written, so concurrent issuers rotate only once.
func (s *Store) CreateList(
	ctx context.Context,
	previousListID, listID string,
	size int,
	freeIndices []int,
) (bool, error) {
	api := s.redisClient.API()
	lock := resolveRedisKey(lockKey)

	acquired, err := api.SetNX(ctx, lock, listID, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis acquire status list lock: %w", err)
	}

	if !acquired {
		return false, nil
	}

	defer api.Del(context.WithoutCancel(ctx), lock)

	latest, err := s.LatestListID(ctx)
	if err != nil && !errors.Is(err, cslmanager.ErrDataNotFound) {
		return false, err
	}

	if latest != previousListID {
		return false, nil
	}

	_, err = api.TxPipelined(ctx, func(pipe redisapi.Pipeliner) error {
		pipe.Set(ctx, resolveRedisKey(dataKey, listID), make([]byte, size/bitsPerByte), 0)

		for _, chunk := range lo.Chunk(freeIndices, pushChunk) {
			pipe.RPush(ctx, resolveRedisKey(indicesKey, listID), lo.ToAnySlice(chunk)...)
		}

		pipe.Set(ctx, resolveRedisKey(latestKey), listID, 0)

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis create status list: %w", err)
	}

	return true, nil
}

func (s *Store) SetStatus(ctx context.Context, listID string, index int, revoked bool) error {
	api := s.redisClient.API()
	key := resolveRedisKey(dataKey, listID)

	exists, err := api.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis check status list: %w", err)
	}

	if exists == 0 {
		return cslmanager.ErrDataNotFound
	}

	if err = api.SetBit(ctx, key, bitOffset(index), lo.Ternary(revoked, 1, 0)).Err(); err != nil {
		return fmt.Errorf("redis set status: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, listID string) ([]byte, error) {
	b, err := s.redisClient.API().Get(ctx, resolveRedisKey(dataKey, listID)).Bytes()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return nil, cslmanager.ErrDataNotFound
		}

		return nil, fmt.Errorf("redis get status list: %w", err)
	}

	return b, nil
}

// bitOffset maps a list index to the SETBIT offset. Redis numbers bits from the most significant bit of
// each byte, status lists from the least significant one.
func bitOffset(index int) int64 {
	return int64(index/bitsPerByte*bitsPerByte + (bitsPerByte - 1 - index%bitsPerByte))
}

func resolveRedisKey(parts ...string) string {
	return redis.ResolveKey(keyPrefix, parts...)
}
