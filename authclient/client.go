package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/storefront-client/authmodel"
	"github.com/jrsteele09/storefront-client/internal/metrics"
	"github.com/jrsteele09/storefront-client/sessions"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client is the authenticated API client. Every request is signed with the current
// access token; a 401 triggers one shared refresh and a single retry.
type Client struct {
	baseURL     string
	store       *sessions.Store
	httpClient  *http.Client
	refresher   Refresher
	log         zerolog.Logger
	metrics     *metrics.Client
	limiter     *rate.Limiter
	loginPath   string
	refreshPath string
	logoutPath  string
	userAgent   string

	signer      *Signer
	coordinator *Coordinator
	dispatcher  *Dispatcher
}

func New(baseURL string, store *sessions.Store, options ...ClientOption) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		store:       store,
		httpClient:  http.DefaultClient,
		log:         zerolog.Nop(),
		loginPath:   DefaultLoginPath,
		refreshPath: DefaultRefreshPath,
		logoutPath:  DefaultLogoutPath,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.refresher == nil {
		c.refresher = NewHTTPRefresher(c.url(c.refreshPath), c.httpClient)
	}
	c.signer = NewSigner(store)
	c.coordinator = NewCoordinator(store, c.refresher,
		WithCoordinatorLogger(c.log),
		WithCoordinatorMetrics(c.metrics),
	)
	c.dispatcher = NewDispatcher(c.send, c.metrics)
	return c
}

// Do signs and sends req. A 401 on a request that has not been retried goes through
// the refresh protocol and is resent once. Final statuses >= 400 are returned as
// *HTTPError together with the response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	c.signer.Sign(req)
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.Retried {
		c.log.Debug().Str("method", req.Method).Str("path", req.Path).Msg("401 received, refreshing")
		token, refreshErr := c.coordinator.Token(ctx)
		resp, err = c.dispatcher.Dispatch(ctx, req, token, refreshErr)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, newHTTPError(req.Method, c.url(req.Path), resp.StatusCode, resp.Body)
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// Login posts the credentials outside the refresh protocol and stores the new session.
func (c *Client) Login(ctx context.Context, email, password string) (sessions.Session, error) {
	req, err := jsonRequest(http.MethodPost, c.loginPath, authmodel.LoginRequest{Email: email, Password: password})
	if err != nil {
		return sessions.Session{}, err
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return sessions.Session{}, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return sessions.Session{}, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return sessions.Session{}, newHTTPError(req.Method, c.url(req.Path), resp.StatusCode, resp.Body)
	}

	var tokenResp authmodel.TokenResponse
	if err := json.Unmarshal(resp.Body, &tokenResp); err != nil {
		return sessions.Session{}, fmt.Errorf("[Client Login] decode: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return sessions.Session{}, fmt.Errorf("[Client Login] response carried no access token")
	}

	session := sessions.FromTokenResponse(&tokenResp)
	if err := c.store.Set(ctx, session); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist session")
	}
	c.log.Info().Str("user_id", session.UserID).Msg("logged in")
	return session, nil
}

// Logout tells the server to drop the refresh token and revoke the access token,
// then clears the session. The server call never enters the refresh protocol; it
// is best effort and only logged when it fails.
func (c *Client) Logout(ctx context.Context) error {
	if current, ok := c.store.Current(); ok && current.RefreshToken != "" {
		if err := c.revoke(ctx, current.RefreshToken); err != nil {
			c.log.Warn().Err(err).Msg("server logout failed")
		}
	}
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("[Client Logout] %w", err)
	}
	c.log.Info().Msg("logged out")
	return nil
}

// Session returns a copy of the current session.
func (c *Client) Session() (sessions.Session, bool) {
	return c.store.Current()
}

func (c *Client) Coordinator() *Coordinator {
	return c.coordinator
}

func (c *Client) revoke(ctx context.Context, refreshToken string) error {
	req, err := jsonRequest(http.MethodPost, c.logoutPath, authmodel.LogoutRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	c.signer.Sign(req)
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return newHTTPError(req.Method, c.url(req.Path), resp.StatusCode, resp.Body)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("[Client %s %s] decode: %w", method, path, err)
	}
	return nil
}

func jsonRequest(method, path string, in any) (*Request, error) {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("[Client %s %s] encode: %w", method, path, err)
		}
		body = b
	}
	req := NewRequest(method, path, body)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// send is the raw transport: no signing, no refresh handling.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("[Client send] rate limit: %w", err)
		}
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req.Path), body)
	if err != nil {
		return nil, fmt.Errorf("[Client send] %w", err)
	}
	for name, values := range req.Header {
		httpReq.Header[name] = append([]string(nil), values...)
	}
	if httpReq.Header.Get("User-Agent") == "" && c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("[Client send] %s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("[Client send] read body: %w", err)
	}
	c.metrics.ObserveRequest(httpResp.StatusCode)
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Bool("retried", req.Retried).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Msg("api request")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}
