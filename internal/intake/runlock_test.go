package intake

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) *RedisLocker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client)
}

func TestRedisLockerMutualExclusion(t *testing.T) {
	locker := newTestLocker(t)
	ctx := context.Background()

	release, ok, err := locker.Acquire(ctx, "test:lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, "test:lock", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	release()

	_, ok, err = locker.Acquire(ctx, "test:lock", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockerIndependentKeys(t *testing.T) {
	locker := newTestLocker(t)
	ctx := context.Background()

	_, ok, err := locker.Acquire(ctx, "lock:a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, "lock:b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
