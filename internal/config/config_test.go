package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/storefront-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("REQUEST_TIMEOUT", "")

	c := config.New()
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, config.SessionBackendFile, c.GetSessionBackend())
	require.Equal(t, "storefront.session", c.GetSessionKey())
	require.Equal(t, "/api/users/refresh", c.GetRefreshPath())
	require.Zero(t, c.GetRequestTimeout())
	require.Equal(t, 15*time.Minute, c.GetAccessTokenExpiry())
}

func TestConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "https://shop.example.com")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "90s")

	c := config.New()
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "https://shop.example.com", c.GetBaseURL())
	require.Equal(t, 30*time.Second, c.GetRequestTimeout())
	require.InDelta(t, 2.5, c.GetRateLimit(), 0.0001)
	require.Equal(t, 5, c.GetRateBurst())
	require.Equal(t, 3, c.GetRedisDB())
	require.Equal(t, 90*time.Second, c.GetAccessTokenExpiry())
}

func TestCors_GetAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	origins := config.Cors{}.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("*"))
}

func TestDenylist_FromEnvironment(t *testing.T) {
	t.Setenv("DENYLIST_REDIS_ADDR", "")
	require.Empty(t, config.New().GetDenylistRedisAddr())

	t.Setenv("DENYLIST_REDIS_ADDR", "localhost:6379")
	t.Setenv("DENYLIST_REDIS_DB", "2")
	c := config.New()
	require.Equal(t, "localhost:6379", c.GetDenylistRedisAddr())
	require.Equal(t, 2, c.GetDenylistRedisDB())
}
