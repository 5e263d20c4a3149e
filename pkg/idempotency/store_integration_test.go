//go:build integration

package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/test/integration"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	svc, err := integration.Redis(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Teardown(ctx) })

	rdb := redis.NewClient(&redis.Options{Addr: svc.Addr})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewStore(rdb, time.Minute)
	key := store.Key("orders:u1", "k1")

	seen, err := store.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Seen(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, store.Release(ctx, key))
	seen, err = store.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)
}
