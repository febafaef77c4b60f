package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	SessionConfig
	TokenConfig
	SeedConfig
	CorsConfig
	DenylistConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetLogFormat() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// ClientConfig configures the authenticated API client used by the CLI.
type ClientConfig interface {
	GetBaseURL() string
	GetLoginPath() string
	GetRefreshPath() string
	GetLogoutPath() string
	GetRequestTimeout() time.Duration
	GetRateLimit() float64
	GetRateBurst() int
	GetOIDCIssuer() string
	GetOIDCClientID() string
	GetOIDCClientSecret() string
}

// SessionConfig selects where the client mirrors its session between runs.
type SessionConfig interface {
	GetSessionBackend() string
	GetSessionKey() string
	GetSessionDir() string
	GetSessionTTL() time.Duration
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

// TokenConfig configures token issuing in the reference server.
type TokenConfig interface {
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
}

// DenylistConfig selects where the reference server keeps revoked access tokens.
// An empty address keeps them in memory.
type DenylistConfig interface {
	GetDenylistRedisAddr() string
	GetDenylistRedisDB() int
}

type SeedConfig interface {
	GetSeedAdminEmail() string
	GetSeedAdminPassword() string
	GetSeedUserEmail() string
	GetSeedUserPassword() string
}

type mainConfig struct {
	EnvVars
	Client
	Session
	Token
	Seed
	Cors
	Denylist
}

// New loads an optional .env file and returns a Config reading from the environment.
func New() Config {
	Load()
	return mainConfig{}
}
