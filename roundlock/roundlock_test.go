/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roundlock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisLocker) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedisLocker(client, time.Minute)
}

func testLocker(t *testing.T, l Locker) {
	ctx := context.Background()
	key := Key("t1", 2)

	unlock, err := l.TryLock(ctx, key)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, key)
	require.ErrorIs(t, err, ErrLocked)

	other, err := l.TryLock(ctx, Key("t1", 3))
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	again, err := l.TryLock(ctx, key)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocalLocker(t *testing.T) {
	testLocker(t, NewLocalLocker())
}

func TestRedisLocker(t *testing.T) {
	_, l := setupTestRedis(t)
	testLocker(t, l)
}

func TestRedisLockerExpiry(t *testing.T) {
	mr, l := setupTestRedis(t)
	ctx := context.Background()
	key := Key("t1", 1)

	stale, err := l.TryLock(ctx, key)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	fresh, err := l.TryLock(ctx, key)
	require.NoError(t, err)

	// the expired holder must not release the new holder's lock
	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists(key))
	_, err = l.TryLock(ctx, key)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, fresh(ctx))
	assert.False(t, mr.Exists(key))
}

func TestLocalLockerExclusive(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := l.TryLock(ctx, Key("t1", 1)); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), wins)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), mr.Addr())
	require.Error(t, err)
}
