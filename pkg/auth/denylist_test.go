package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDenylist(t *testing.T) (*RedisDenylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	d := NewRedisDenylist(rdb, "revoked:")
	d.now = func() time.Time { return fixedNow }
	return d, mr
}

func TestDenylistRevoke(t *testing.T) {
	d, mr := newTestDenylist(t)
	ctx := context.Background()

	revoked, err := d.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", fixedNow.Add(time.Minute)))

	revoked, err = d.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("revoked:jti-1"))
	assert.Equal(t, time.Minute, mr.TTL("revoked:jti-1"))

	mr.FastForward(2 * time.Minute)
	revoked, err = d.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylistSkipsExpiredTokens(t *testing.T) {
	d, mr := newTestDenylist(t)

	require.NoError(t, d.Revoke(context.Background(), "old", fixedNow.Add(-time.Second)))
	assert.False(t, mr.Exists("revoked:old"))
}

func TestDenylistStoreFailure(t *testing.T) {
	d, mr := newTestDenylist(t)
	mr.SetError("server unavailable")

	_, err := d.Revoked(context.Background(), "jti")
	assert.Error(t, err)
	assert.Error(t, d.Revoke(context.Background(), "jti", fixedNow.Add(time.Minute)))
}
