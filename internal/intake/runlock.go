package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes batch runs. Acquire returns ok=false when another run
// holds the lock.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

type redisClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisLocker implements Locker with a SET NX token lock. Release deletes
// the key only if it still holds this run's token, so an expired lock taken
// over by another run is never clobbered.
type RedisLocker struct {
	client redisClient
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("intake: acquire run lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		_, err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			// Lock expires via TTL anyway.
			_ = err
		}
	}
	return release, true, nil
}
