package utils_test

import (
	"context"
	"testing"
	"time"

	"room_finder/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCacheRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	var out []string
	found, err := utils.GetCache(ctx, rdb, "some-key", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, utils.SetCache(ctx, rdb, "some-key", []string{"a", "b"}, time.Minute))
	found, err = utils.GetCache(ctx, rdb, "some-key", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, utils.DeleteCache(ctx, rdb, "some-key"))
	found, err = utils.GetCache(ctx, rdb, "some-key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAcquireGuardIsExclusiveUntilReleased(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	key := utils.DeleteGuardPrefix + "room-1"

	held, err := utils.AcquireGuard(ctx, rdb, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, held)

	// A second taker loses while the guard is held
	held, err = utils.AcquireGuard(ctx, rdb, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, held)

	require.NoError(t, utils.DeleteCache(ctx, rdb, key))
	held, err = utils.AcquireGuard(ctx, rdb, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, held)
}

func TestRevokeTokenDenylist(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	revoked, err := utils.IsTokenRevoked(ctx, rdb, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, utils.RevokeToken(ctx, rdb, "token-1", time.Hour))
	revoked, err = utils.IsTokenRevoked(ctx, rdb, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// An already-expired token needs no denylist entry
	require.NoError(t, utils.RevokeToken(ctx, rdb, "token-2", 0))
	revoked, err = utils.IsTokenRevoked(ctx, rdb, "token-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
