package redisinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-auth-core/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, 2*time.Second), mr
}

func TestGet_MissingKeyIsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSetExGetDel(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetEx(ctx, "k", "v", time.Minute))
	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	require.NoError(t, store.Del(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// SETEX-stored keys expire on their own.
	require.NoError(t, store.SetEx(ctx, "k2", "v", time.Second))
	mr.FastForward(2 * time.Second)
	_, err = store.Get(ctx, "k2")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIncrWithTTL_Pipelined(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	count, ttl, err := store.IncrWithTTL(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Less(t, ttl, time.Duration(0), "fresh key has no TTL yet")

	require.NoError(t, store.Expire(ctx, "counter", time.Minute))

	count, ttl, err = store.IncrWithTTL(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, time.Minute, ttl)
}

func TestStore_ErrorWhenBackendDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Incr(context.Background(), "k")
	assert.Error(t, err)
	_, _, err = store.IncrWithTTL(context.Background(), "k")
	assert.Error(t, err)
}
