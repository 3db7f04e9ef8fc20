package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newRedisDenylist(t *testing.T) (*RedisTokenDenylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	pool := NewRedisPool(mr.Addr(), "", 2)
	t.Cleanup(func() { pool.Close() })
	return NewRedisTokenDenylist(pool), mr
}

func TestRedisTokenDenylist_Revoke(t *testing.T) {
	denylist, mr := newRedisDenylist(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	denylist.now = func() time.Time { return now }

	require.NoError(t, denylist.Ping(ctx))

	require.NoError(t, denylist.Revoke(ctx, "abc", now.Add(90*time.Second)))
	require.Equal(t, 91*time.Second, mr.TTL(revokedKeyPrefix+"abc"))

	revoked, err := denylist.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = denylist.IsRevoked(ctx, "other")
	require.NoError(t, err)
	require.False(t, revoked)

	// Запись исчезает вместе с истечением токена
	mr.FastForward(92 * time.Second)
	revoked, err = denylist.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRedisTokenDenylist_ExpiredTokenIsNotStored(t *testing.T) {
	denylist, mr := newRedisDenylist(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	denylist.now = func() time.Time { return now }

	require.NoError(t, denylist.Revoke(ctx, "old", now.Add(-time.Minute)))
	require.False(t, mr.Exists(revokedKeyPrefix+"old"))
}

func TestRedisTokenDenylist_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	pool := NewRedisPool(mr.Addr(), "secret", 1)
	defer pool.Close()
	require.NoError(t, NewRedisTokenDenylist(pool).Ping(context.Background()))

	bad := NewRedisPool(mr.Addr(), "wrong", 1)
	defer bad.Close()
	require.Error(t, NewRedisTokenDenylist(bad).Ping(context.Background()))
}
