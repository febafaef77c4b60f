package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/storefront-client/authmodel"
)

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*authmodel.TokenResponse, error)
}

// RefresherFunc adapts a function to a Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*authmodel.TokenResponse, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*authmodel.TokenResponse, error) {
	return f(ctx, refreshToken)
}

var _ Refresher = (*HTTPRefresher)(nil)

// HTTPRefresher posts {"refreshToken": ...} to the storefront refresh endpoint.
// It uses its own plain http.Client so the refresh call never enters the refresh protocol.
type HTTPRefresher struct {
	url        string
	httpClient *http.Client
}

func NewHTTPRefresher(url string, httpClient *http.Client) *HTTPRefresher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPRefresher{url: url, httpClient: httpClient}
}

// Refresh treats any status other than 200, 401 included, as a failed refresh.
func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (*authmodel.TokenResponse, error) {
	body, err := json.Marshal(authmodel.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newHTTPError(http.MethodPost, r.url, resp.StatusCode, respBody)
	}

	var tokenResp authmodel.TokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, fmt.Errorf("[HTTPRefresher Refresh] decode: %w", err)
	}
	return &tokenResp, nil
}
