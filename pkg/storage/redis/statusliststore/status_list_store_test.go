/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statusliststore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/cslmanager"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/statuslist"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/storage/redis"
)

func TestStore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.New([]string{mr.Addr()})
	require.NoError(t, err)

	defer func() {
		require.NoError(t, client.Close())
	}()

	store := New(client)
	ctx := context.Background()

	t.Run("no list yet", func(t *testing.T) {
		_, err := store.LatestListID(ctx)
		assert.ErrorIs(t, err, cslmanager.ErrDataNotFound)

		_, err = store.Get(ctx, "unknown")
		assert.ErrorIs(t, err, cslmanager.ErrDataNotFound)

		err = store.SetStatus(ctx, "unknown", 1, true)
		assert.ErrorIs(t, err, cslmanager.ErrDataNotFound)
	})

	t.Run("create and take", func(t *testing.T) {
		created, err := store.CreateList(ctx, "", "list-1", 16, []int{3, 1, 2})
		require.NoError(t, err)
		require.True(t, created)

		assert.False(t, mr.Exists(resolveRedisKey(lockKey)))

		latest, err := store.LatestListID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "list-1", latest)

		for _, expected := range []int{3, 1, 2} {
			idx, err := store.TakeIndex(ctx, "list-1")
			require.NoError(t, err)
			assert.Equal(t, expected, idx)
		}

		_, err = store.TakeIndex(ctx, "list-1")
		assert.ErrorIs(t, err, cslmanager.ErrListExhausted)

		data, err := store.Get(ctx, "list-1")
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0}, data)
	})

	t.Run("stale rotation is ignored", func(t *testing.T) {
		created, err := store.CreateList(ctx, "", "list-2", 16, []int{0})
		require.NoError(t, err)
		assert.False(t, created)

		latest, err := store.LatestListID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "list-1", latest)
	})

	t.Run("lock held by another writer", func(t *testing.T) {
		require.NoError(t, mr.Set(resolveRedisKey(lockKey), "other"))
		mr.SetTTL(resolveRedisKey(lockKey), time.Minute)

		created, err := store.CreateList(ctx, "list-1", "list-3", 16, []int{0})
		require.NoError(t, err)
		assert.False(t, created)

		mr.Del(resolveRedisKey(lockKey))
	})

	t.Run("set status uses status list bit order", func(t *testing.T) {
		require.NoError(t, store.SetStatus(ctx, "list-1", 1, true))
		require.NoError(t, store.SetStatus(ctx, "list-1", 9, true))

		data, err := store.Get(ctx, "list-1")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02, 0x02}, data)

		revoked, err := statuslist.FromBytes(data).Get(9)
		require.NoError(t, err)
		assert.True(t, revoked)

		require.NoError(t, store.SetStatus(ctx, "list-1", 9, false))

		data, err = store.Get(ctx, "list-1")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02, 0x00}, data)
	})
}

func TestBitOffset(t *testing.T) {
	assert.Equal(t, int64(7), bitOffset(0))
	assert.Equal(t, int64(0), bitOffset(7))
	assert.Equal(t, int64(15), bitOffset(8))
	assert.Equal(t, int64(14), bitOffset(9))
}
