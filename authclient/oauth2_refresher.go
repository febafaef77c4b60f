package authclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/storefront-client/authmodel"
	"golang.org/x/oauth2"
)

var _ Refresher = (*OAuth2Refresher)(nil)

// OAuth2Refresher performs a standard refresh_token grant against an OAuth2 token endpoint.
type OAuth2Refresher struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuth2Refresher uses config's token endpoint and client credentials. A nil httpClient uses the oauth2 default.
func NewOAuth2Refresher(config *oauth2.Config, httpClient *http.Client) *OAuth2Refresher {
	return &OAuth2Refresher{config: config, httpClient: httpClient}
}

// NewOIDCRefresher discovers the token endpoint from the issuer's openid-configuration document.
func NewOIDCRefresher(ctx context.Context, issuer, clientID, clientSecret string, httpClient *http.Client, scopes ...string) (*OAuth2Refresher, error) {
	if httpClient != nil {
		ctx = oidc.ClientContext(ctx, httpClient)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return NewOAuth2Refresher(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}, httpClient), nil
}

// TokenURL is the endpoint refresh grants are posted to.
func (r *OAuth2Refresher) TokenURL() string {
	return r.config.Endpoint.TokenURL
}

// Refresh keeps the old refresh token when the server does not rotate it.
func (r *OAuth2Refresher) Refresh(ctx context.Context, refreshToken string) (*authmodel.TokenResponse, error) {
	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}

	tok, err := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			httpErr := newHTTPError(http.MethodPost, r.TokenURL(), retrieveErr.Response.StatusCode, retrieveErr.Body)
			if retrieveErr.ErrorCode != "" {
				httpErr.Message = retrieveErr.ErrorCode
			}
			return nil, httpErr
		}
		return nil, fmt.Errorf("[OAuth2Refresher Refresh] %w", err)
	}

	resp := &authmodel.TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if resp.RefreshToken == "" {
		resp.RefreshToken = refreshToken
	}
	if !tok.Expiry.IsZero() {
		resp.ExpiresIn = int(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return resp, nil
}
