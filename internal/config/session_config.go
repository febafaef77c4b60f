package config

import "time"

const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionBackend is one of file, redis or memory.
func (Session) GetSessionBackend() string {
	return GetEnv("SESSION_BACKEND", SessionBackendFile)
}

// GetSessionKey is the fixed key the session is mirrored under.
func (Session) GetSessionKey() string {
	return GetEnv("SESSION_KEY", "storefront.session")
}

func (Session) GetSessionDir() string {
	return GetEnv("SESSION_DIR", "./data")
}

// GetSessionTTL bounds how long a mirrored session survives in redis. Zero keeps it until logout.
func (Session) GetSessionTTL() time.Duration {
	return GetDuration("SESSION_TTL", 0)
}

func (Session) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Session) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Session) GetRedisDB() int {
	return GetInt("REDIS_DB", 0)
}
