package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/storefront-client/authclient"
	"github.com/jrsteele09/storefront-client/internal/config"
	"github.com/jrsteele09/storefront-client/server"
	"github.com/jrsteele09/storefront-client/sessions"
	refreshrepofake "github.com/jrsteele09/storefront-client/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/storefront-client/users/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestShopctl(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_BACKEND", config.SessionBackendFile)
	t.Setenv("SESSION_DIR", t.TempDir())

	s, err := server.New(config.New(), server.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(s)
	defer srv.Close()
	t.Setenv("API_BASE_URL", srv.URL)

	ctx := context.Background()
	cfg := config.New()
	shopctl := func(command string, args ...string) (string, error) {
		var out bytes.Buffer
		err := run(ctx, cfg, zerolog.Nop(), command, args, &out)
		return out.String(), err
	}

	_, err = shopctl("whoami")
	require.ErrorIs(t, err, authclient.ErrNoSession)

	out, err := shopctl("login", "-email", cfg.GetSeedUserEmail(), "-password", cfg.GetSeedUserPassword())
	require.NoError(t, err)
	require.Contains(t, out, server.SeedShopperName)

	// the session survives between invocations through the file backend
	out, err = shopctl("whoami")
	require.NoError(t, err)
	require.Contains(t, out, cfg.GetSeedUserEmail())

	out, err = shopctl("get", server.RouteMyOrders)
	require.NoError(t, err)
	require.Contains(t, out, `"isPaid": true`)

	out, err = shopctl("burst", "-n", "4", server.RouteMyOrders)
	require.NoError(t, err)
	require.Equal(t, "4 succeeded, 0 failed\n", out)

	_, err = shopctl("logout")
	require.NoError(t, err)
	_, err = shopctl("get", server.RouteMyOrders)
	require.ErrorIs(t, err, authclient.ErrNoSession)

	_, err = shopctl("login", "-email", cfg.GetSeedUserEmail())
	require.Error(t, err)

	_, err = shopctl("nope")
	require.ErrorContains(t, err, `unknown command "nope"`)
}

func TestNewSessionRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("redis backend closes its client", func(t *testing.T) {
		m := miniredis.RunT(t)
		t.Setenv("SESSION_BACKEND", config.SessionBackendRedis)
		t.Setenv("REDIS_ADDR", m.Addr())

		repo, closeRepo, err := newSessionRepo(config.New())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, "k", &sessions.Session{UserID: "user-1"}))
		require.True(t, m.Exists("session:k"))

		require.NoError(t, closeRepo())
		require.Error(t, repo.Save(ctx, "k", &sessions.Session{UserID: "user-1"}))
	})

	t.Run("file and memory backends", func(t *testing.T) {
		t.Setenv("SESSION_DIR", t.TempDir())
		for _, backend := range []string{config.SessionBackendFile, config.SessionBackendMemory} {
			t.Setenv("SESSION_BACKEND", backend)
			repo, closeRepo, err := newSessionRepo(config.New())
			require.NoError(t, err)
			require.NotNil(t, repo)
			require.NoError(t, closeRepo())
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("SESSION_BACKEND", "floppy")
		_, _, err := newSessionRepo(config.New())
		require.ErrorContains(t, err, `unknown session backend "floppy"`)
	})
}
