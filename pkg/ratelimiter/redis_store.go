package ratelimiter

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis so the cooldown is shared
// between server instances.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis backed store. Keys are namespaced with prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "cooldown"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (rs *RedisStore) key(k string) string {
	return rs.prefix + ":" + k
}

func (rs *RedisStore) Last(ctx context.Context, key string) (time.Time, error) {
	val, err := rs.client.Get(ctx, rs.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}

	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Unparseable values are treated as absent.
		return time.Time{}, nil
	}
	return time.Unix(0, nanos), nil
}

func (rs *RedisStore) Mark(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	if err := rs.client.Set(ctx, rs.key(key), strconv.FormatInt(at.UnixNano(), 10), ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
