package config

import "time"

type Client struct{}

var _ ClientConfig = Client{}

// GetBaseURL is the storefront API root the client talks to.
func (Client) GetBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:8080")
}

func (Client) GetLoginPath() string {
	return GetEnv("API_LOGIN_PATH", "/api/users/login")
}

func (Client) GetRefreshPath() string {
	return GetEnv("API_REFRESH_PATH", "/api/users/refresh")
}

func (Client) GetLogoutPath() string {
	return GetEnv("API_LOGOUT_PATH", "/api/users/logout")
}

// GetRequestTimeout of zero means no client side timeout.
func (Client) GetRequestTimeout() time.Duration {
	return GetDuration("REQUEST_TIMEOUT", 0)
}

// GetRateLimit is requests per second; zero disables limiting.
func (Client) GetRateLimit() float64 {
	return GetFloat("RATE_LIMIT_RPS", 0)
}

func (Client) GetRateBurst() int {
	return GetInt("RATE_LIMIT_BURST", 1)
}

// GetOIDCIssuer switches token refresh to a standard OAuth2 refresh_token grant
// against the issuer's discovered token endpoint when set.
func (Client) GetOIDCIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (Client) GetOIDCClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (Client) GetOIDCClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}
