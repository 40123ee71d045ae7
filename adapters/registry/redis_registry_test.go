package registry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/ports"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (ports.SessionRegistry, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRegistry(client, 0), mr
}

func TestRedisStoreAndLookup(t *testing.T) {
	reg, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "user-1", "token-a"))

	token, err := reg.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "token-a", token)

	// Entry carries the 7-day TTL
	ttl := mr.TTL("refreshToken:user-1")
	assert.Equal(t, DefaultTTL, ttl)
}

func TestRedisStoreOverwritesPriorEntry(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "user-1", "token-a"))
	require.NoError(t, reg.Store(ctx, "user-1", "token-b"))

	token, err := reg.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "token-b", token)
}

func TestRedisLookupMissing(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Lookup(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestRedisLookupAfterExpiry(t *testing.T) {
	reg, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "user-1", "token-a"))
	mr.FastForward(DefaultTTL + time.Second)

	_, err := reg.Lookup(ctx, "user-1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestRedisRevokeIsIdempotent(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "user-1", "token-a"))
	require.NoError(t, reg.Revoke(ctx, "user-1"))
	require.NoError(t, reg.Revoke(ctx, "user-1"))

	_, err := reg.Lookup(ctx, "user-1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestRedisCompareAndRevoke(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "user-1", "token-a"))

	// Mismatched token must not delete the entry
	err := reg.CompareAndRevoke(ctx, "user-1", "token-b")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	token, err := reg.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "token-a", token)

	// Exact match deletes it
	require.NoError(t, reg.CompareAndRevoke(ctx, "user-1", "token-a"))

	_, err = reg.Lookup(ctx, "user-1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	// Absent entry
	err = reg.CompareAndRevoke(ctx, "user-1", "token-a")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}
