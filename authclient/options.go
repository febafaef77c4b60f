package authclient

import (
	"net/http"

	"github.com/jrsteele09/storefront-client/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultLoginPath   = "/api/users/login"
	DefaultRefreshPath = "/api/users/refresh"
	DefaultLogoutPath  = "/api/users/logout"
	DefaultUserAgent   = "storefront-client"
)

type ClientOption func(*Client)

// WithHTTPClient sets the client used for API calls and, unless WithRefresher is given, for refresh calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRefresher replaces the default HTTPRefresher.
func WithRefresher(refresher Refresher) ClientOption {
	return func(c *Client) {
		c.refresher = refresher
	}
}

func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

func WithMetrics(m *metrics.Client) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRateLimit limits the requests put on the wire. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithPaths overrides the login, refresh and logout endpoint paths. Empty values keep the default.
func WithPaths(login, refresh, logout string) ClientOption {
	return func(c *Client) {
		if login != "" {
			c.loginPath = login
		}
		if refresh != "" {
			c.refreshPath = refresh
		}
		if logout != "" {
			c.logoutPath = logout
		}
	}
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}
