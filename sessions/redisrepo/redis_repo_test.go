package redisrepo_test

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/sessions"
	"github.com/jrsteele09/storefront-client/sessions/redisrepo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*mr.Miniredis, *redis.Client) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, client
}

func TestRedisRepo_SaveLoadDelete(t *testing.T) {
	m, client := setupRedis(t)
	repo := redisrepo.New(client, "test:session:", 0)
	ctx := context.Background()

	s := &sessions.Session{UserID: "user-1", Email: "jane@example.com", AccessToken: "tok1", RefreshToken: "ref1"}
	require.NoError(t, repo.Save(ctx, "storefront.session", s))
	require.True(t, m.Exists("test:session:storefront.session"))

	got, err := repo.Load(ctx, "storefront.session")
	require.NoError(t, err)
	require.Equal(t, s, got)

	require.NoError(t, repo.Delete(ctx, "storefront.session"))
	_, err = repo.Load(ctx, "storefront.session")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRedisRepo_DefaultPrefix(t *testing.T) {
	m, client := setupRedis(t)
	repo := redisrepo.New(client, "", 0)

	require.NoError(t, repo.Save(context.Background(), "k", &sessions.Session{UserID: "user-1"}))
	require.True(t, m.Exists("session:k"))
}

func TestRedisRepo_TTLExpiry(t *testing.T) {
	m, client := setupRedis(t)
	repo := redisrepo.New(client, "test:session:", time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "k", &sessions.Session{UserID: "user-2"}))
	_, err := repo.Load(ctx, "k")
	require.NoError(t, err)

	// advance miniredis clock past TTL
	m.FastForward(2 * time.Second)

	_, err = repo.Load(ctx, "k")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRedisRepo_ConnectionError(t *testing.T) {
	m, client := setupRedis(t)
	repo := redisrepo.New(client, "", 0)
	m.Close()

	_, err := repo.Load(context.Background(), "k")
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrSessionNotFound)
}
