package authclient_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/storefront-client/authclient"
	"github.com/jrsteele09/storefront-client/authmodel"
	"github.com/jrsteele09/storefront-client/sessions"
	fakesessionrepo "github.com/jrsteele09/storefront-client/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

const sessionKey = "storefront.session"

// blockingRefresher holds every refresh until release is closed.
type blockingRefresher struct {
	calls   atomic.Int32
	release chan struct{}
	seen    chan string
	resp    *authmodel.TokenResponse
	err     error
	panics  bool
}

func newBlockingRefresher(resp *authmodel.TokenResponse, err error) *blockingRefresher {
	return &blockingRefresher{
		release: make(chan struct{}),
		seen:    make(chan string, 16),
		resp:    resp,
		err:     err,
	}
}

func (r *blockingRefresher) Refresh(ctx context.Context, refreshToken string) (*authmodel.TokenResponse, error) {
	r.calls.Add(1)
	r.seen <- refreshToken
	select {
	case <-r.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if r.panics {
		panic("boom")
	}
	return r.resp, r.err
}

func signedInStore(t *testing.T) (*sessions.Store, *fakesessionrepo.FakeSessionRepo) {
	t.Helper()
	repo := fakesessionrepo.NewFakeSessionRepo()
	store := sessions.NewStore(repo, sessionKey)
	require.NoError(t, store.Set(context.Background(), sessions.Session{
		UserID:       "user-1",
		DisplayName:  "Jane Shopper",
		Email:        "jane@example.com",
		AccessToken:  "tok1",
		RefreshToken: "ref1",
	}))
	return store, repo
}

type tokenResult struct {
	token string
	err   error
}

// startTokens launches n concurrent Token calls and waits until one is refreshing and n-1 are queued.
func startTokens(t *testing.T, c *authclient.Coordinator, n int) <-chan tokenResult {
	t.Helper()
	results := make(chan tokenResult, n)
	for i := 0; i < n; i++ {
		go func() {
			token, err := c.Token(context.Background())
			results <- tokenResult{token: token, err: err}
		}()
	}
	require.Eventually(t, func() bool {
		return c.Refreshing() && c.Pending() == n-1
	}, time.Second, time.Millisecond)
	return results
}

func collect(t *testing.T, results <-chan tokenResult, n int) []tokenResult {
	t.Helper()
	out := make([]tokenResult, 0, n)
	for i := 0; i < n; i++ {
		select {
		case r := <-results:
			out = append(out, r)
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d callers finished", i, n)
		}
	}
	return out
}

func TestCoordinator_SingleFlightSuccess(t *testing.T) {
	store, repo := signedInStore(t)
	refresher := newBlockingRefresher(&authmodel.TokenResponse{AccessToken: "tok2", RefreshToken: "ref2"}, nil)
	c := authclient.NewCoordinator(store, refresher)

	results := startTokens(t, c, 5)
	require.Equal(t, "ref1", <-refresher.seen)
	close(refresher.release)

	for _, r := range collect(t, results, 5) {
		require.NoError(t, r.err)
		require.Equal(t, "tok2", r.token)
	}
	require.EqualValues(t, 1, refresher.calls.Load())
	require.False(t, c.Refreshing())
	require.Zero(t, c.Pending())

	current, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, "tok2", current.AccessToken)
	require.Equal(t, "ref2", current.RefreshToken)
	require.Equal(t, "user-1", current.UserID)

	persisted, err := repo.Load(context.Background(), sessionKey)
	require.NoError(t, err)
	require.Equal(t, "tok2", persisted.AccessToken)
}

func TestCoordinator_SingleFlightFailure(t *testing.T) {
	store, repo := signedInStore(t)
	cause := errors.New("network down")
	refresher := newBlockingRefresher(nil, cause)
	c := authclient.NewCoordinator(store, refresher)

	results := startTokens(t, c, 3)
	close(refresher.release)

	for _, r := range collect(t, results, 3) {
		require.ErrorIs(t, r.err, authclient.ErrRefreshFailed)
		require.ErrorIs(t, r.err, cause)
		require.Empty(t, r.token)
	}
	require.EqualValues(t, 1, refresher.calls.Load())
	require.False(t, c.Refreshing())

	_, ok := store.Current()
	require.False(t, ok)
	require.False(t, repo.Has(sessionKey))
}

func TestCoordinator_NewCycleAfterCompletion(t *testing.T) {
	store, _ := signedInStore(t)
	var calls atomic.Int32
	refresher := authclient.RefresherFunc(func(_ context.Context, refreshToken string) (*authmodel.TokenResponse, error) {
		n := calls.Add(1)
		return &authmodel.TokenResponse{
			AccessToken:  refreshToken + "-access",
			RefreshToken: refreshToken + "-" + string(rune('0'+n)),
		}, nil
	})
	c := authclient.NewCoordinator(store, refresher)

	token, err := c.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ref1-access", token)

	token, err = c.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ref1-1-access", token)
	require.EqualValues(t, 2, calls.Load())
}

func TestCoordinator_LogoutDuringRefreshStaysSignedOut(t *testing.T) {
	store, repo := signedInStore(t)
	refresher := newBlockingRefresher(&authmodel.TokenResponse{AccessToken: "tok2", RefreshToken: "ref2"}, nil)
	c := authclient.NewCoordinator(store, refresher)

	results := startTokens(t, c, 2)
	require.Equal(t, "ref1", <-refresher.seen)

	require.NoError(t, store.Clear(context.Background()))
	close(refresher.release)

	for _, r := range collect(t, results, 2) {
		require.ErrorIs(t, r.err, authclient.ErrRefreshFailed)
		require.ErrorIs(t, r.err, authclient.ErrNoSession)
		require.Empty(t, r.token)
	}
	require.False(t, c.Refreshing())

	_, ok := store.Current()
	require.False(t, ok)
	require.False(t, repo.Has(sessionKey))
}

func TestCoordinator_NoSession(t *testing.T) {
	refresher := newBlockingRefresher(nil, nil)
	c := authclient.NewCoordinator(sessions.NewStore(nil, sessionKey), refresher)

	_, err := c.Token(context.Background())
	require.ErrorIs(t, err, authclient.ErrRefreshFailed)
	require.ErrorIs(t, err, authclient.ErrNoSession)
	require.Zero(t, refresher.calls.Load())
	require.False(t, c.Refreshing())
}

func TestCoordinator_EmptyAccessTokenIsFailure(t *testing.T) {
	store, _ := signedInStore(t)
	c := authclient.NewCoordinator(store, authclient.RefresherFunc(func(context.Context, string) (*authmodel.TokenResponse, error) {
		return &authmodel.TokenResponse{}, nil
	}))

	_, err := c.Token(context.Background())
	require.ErrorIs(t, err, authclient.ErrRefreshFailed)
	_, ok := store.Current()
	require.False(t, ok)
}

func TestCoordinator_RefresherPanicResetsState(t *testing.T) {
	store, _ := signedInStore(t)
	refresher := newBlockingRefresher(nil, nil)
	refresher.panics = true
	c := authclient.NewCoordinator(store, refresher)

	results := startTokens(t, c, 2)
	close(refresher.release)

	for _, r := range collect(t, results, 2) {
		require.ErrorIs(t, r.err, authclient.ErrRefreshFailed)
		require.ErrorContains(t, r.err, "boom")
	}
	require.False(t, c.Refreshing())
	require.Zero(t, c.Pending())
}

func TestCoordinator_QueuedCallerCancelled(t *testing.T) {
	store, _ := signedInStore(t)
	refresher := newBlockingRefresher(&authmodel.TokenResponse{AccessToken: "tok2", RefreshToken: "ref2"}, nil)
	c := authclient.NewCoordinator(store, refresher)

	leader := make(chan tokenResult, 1)
	go func() {
		token, err := c.Token(context.Background())
		leader <- tokenResult{token: token, err: err}
	}()
	require.Eventually(t, c.Refreshing, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	waiter := make(chan error, 1)
	go func() {
		_, err := c.Token(ctx)
		waiter <- err
	}()
	require.Eventually(t, func() bool { return c.Pending() == 1 }, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-waiter, context.Canceled)

	close(refresher.release)
	r := <-leader
	require.NoError(t, r.err)
	require.Equal(t, "tok2", r.token)
	require.Zero(t, c.Pending())
}

func TestCoordinator_LeaderCancellationDoesNotFailQueue(t *testing.T) {
	store, _ := signedInStore(t)
	refresher := newBlockingRefresher(&authmodel.TokenResponse{AccessToken: "tok2", RefreshToken: "ref2"}, nil)
	c := authclient.NewCoordinator(store, refresher)

	ctx, cancel := context.WithCancel(context.Background())
	leader := make(chan tokenResult, 1)
	go func() {
		token, err := c.Token(ctx)
		leader <- tokenResult{token: token, err: err}
	}()
	require.Eventually(t, c.Refreshing, time.Second, time.Millisecond)

	results := make(chan tokenResult, 1)
	go func() {
		token, err := c.Token(context.Background())
		results <- tokenResult{token: token, err: err}
	}()
	require.Eventually(t, func() bool { return c.Pending() == 1 }, time.Second, time.Millisecond)

	cancel()
	close(refresher.release)

	l := <-leader
	require.NoError(t, l.err)
	require.Equal(t, "tok2", l.token)

	r := <-results
	require.NoError(t, r.err)
	require.Equal(t, "tok2", r.token)
}
