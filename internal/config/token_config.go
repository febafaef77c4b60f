package config

import "time"

type Token struct{}

var _ TokenConfig = Token{}

func (Token) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "change-me")
}

func (Token) GetAccessTokenExpiry() time.Duration {
	return GetDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
}

func (Token) GetRefreshTokenExpiry() time.Duration {
	return GetDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour) // 7 days
}

func (Token) GetRefreshTokenLength() int {
	return GetInt("REFRESH_TOKEN_LENGTH", 32) // 32 bytes = 256 bits
}

type Seed struct{}

var _ SeedConfig = Seed{}

func (Seed) GetSeedAdminEmail() string {
	return GetEnv("SEED_ADMIN_EMAIL", "admin@example.com")
}

func (Seed) GetSeedAdminPassword() string {
	return GetEnv("SEED_ADMIN_PASSWORD", "Admin12345")
}

func (Seed) GetSeedUserEmail() string {
	return GetEnv("SEED_USER_EMAIL", "shopper@example.com")
}

func (Seed) GetSeedUserPassword() string {
	return GetEnv("SEED_USER_PASSWORD", "Shopper12345")
}

type Denylist struct{}

var _ DenylistConfig = Denylist{}

func (Denylist) GetDenylistRedisAddr() string {
	return GetEnv("DENYLIST_REDIS_ADDR", "")
}

func (Denylist) GetDenylistRedisDB() int {
	return GetInt("DENYLIST_REDIS_DB", 0)
}
