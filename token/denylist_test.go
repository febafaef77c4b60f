package token_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/storefront-client/token"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryDenylist(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := token.NewMemoryDenylist(func() time.Time { return now })

	require.NoError(t, d.Deny(ctx, "live", now.Add(time.Minute)))
	require.NoError(t, d.Deny(ctx, "lapsed", now.Add(-time.Minute)))

	denied, err := d.IsDenied(ctx, "live")
	require.NoError(t, err)
	require.True(t, denied)

	denied, err = d.IsDenied(ctx, "lapsed")
	require.NoError(t, err)
	require.False(t, denied)
	require.Equal(t, 1, d.Len())

	t.Run("entries prune once the token would have expired", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		denied, err := d.IsDenied(ctx, "live")
		require.NoError(t, err)
		require.False(t, denied)

		require.NoError(t, d.Deny(ctx, "next", now.Add(time.Minute)))
		require.Equal(t, 1, d.Len())
	})
}

func TestRedisDenylist(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Now()
	d := token.NewRedisDenylist(client, "", func() time.Time { return now })

	require.NoError(t, d.Deny(ctx, "jti-1", now.Add(time.Minute)))
	require.True(t, m.Exists("denylist:access:jti-1"))

	denied, err := d.IsDenied(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, denied)

	t.Run("lapsed tokens are not stored", func(t *testing.T) {
		require.NoError(t, d.Deny(ctx, "jti-old", now.Add(-time.Second)))
		require.False(t, m.Exists("denylist:access:jti-old"))
	})

	t.Run("entries expire with the token", func(t *testing.T) {
		m.FastForward(2 * time.Minute)
		denied, err := d.IsDenied(ctx, "jti-1")
		require.NoError(t, err)
		require.False(t, denied)
	})

	t.Run("manager rejects tokens denied through redis", func(t *testing.T) {
		mgr := token.New(token.NewHMACSigner(secretStr), token.WithDenylist(d), token.WithNowFunc(func() time.Time { return now }))
		raw, err := mgr.CreateAccessToken(testUser())
		require.NoError(t, err)
		claims, err := mgr.Verify(ctx, raw)
		require.NoError(t, err)

		require.NoError(t, mgr.Revoke(ctx, claims))
		_, err = mgr.Verify(ctx, raw)
		require.Error(t, err)
	})

	t.Run("connection errors surface", func(t *testing.T) {
		m.Close()
		_, err := d.IsDenied(ctx, "jti-1")
		require.Error(t, err)
	})
}
