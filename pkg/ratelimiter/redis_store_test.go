package ratelimiter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/pkg/ratelimiter"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := ratelimiter.NewRedisStore(client, "test-cooldown")
	key := "visitor-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { _ = store.Reset(ctx, key) })

	last, err := store.Last(ctx, key)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	at := time.Now().Truncate(time.Microsecond)
	require.NoError(t, store.Mark(ctx, key, at, time.Minute))

	last, err = store.Last(ctx, key)
	require.NoError(t, err)
	assert.True(t, at.Equal(last))

	ttl, err := client.TTL(ctx, "test-cooldown:"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Reset(ctx, key))
	last, err = store.Last(ctx, key)
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
