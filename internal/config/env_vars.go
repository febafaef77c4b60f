package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	portEnvVar      = "PORT"
	appNameVar      = "APP_NAME"
	envEnvVar       = "ENV"
	logLevelEnvVar  = "LOG_LEVEL"
	logFormatEnvVar = "LOG_FORMAT"
)

var loadOnce sync.Once

// Load reads the given .env files (".env" when none are given) without
// overriding variables already set, then binds viper to the environment.
func Load(files ...string) {
	loadOnce.Do(func() {
		_ = godotenv.Load(files...)
		viper.AutomaticEnv()
	})
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront API")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envEnvVar, "DEV")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

// GetLogFormat returns "console" or "json".
func (EnvVars) GetLogFormat() string {
	return GetEnv(logFormatEnvVar, "console")
}

func GetEnv(envVar, defaultValue string) string {
	Load()
	value := viper.GetString(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses Go duration strings such as "15m" or "1h30m".
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	if GetEnv(envVar, "") == "" {
		return defaultValue
	}
	return viper.GetDuration(envVar)
}

func GetInt(envVar string, defaultValue int) int {
	if GetEnv(envVar, "") == "" {
		return defaultValue
	}
	return viper.GetInt(envVar)
}

func GetFloat(envVar string, defaultValue float64) float64 {
	if GetEnv(envVar, "") == "" {
		return defaultValue
	}
	return viper.GetFloat64(envVar)
}
