package authclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/internal/metrics"
	"github.com/jrsteele09/storefront-client/sessions"
	"github.com/rs/zerolog"
)

// Coordinator makes sure at most one refresh call is in flight. Callers that
// hit a 401 while a refresh is running are parked in a PendingQueue and settled
// with the outcome of that refresh.
type Coordinator struct {
	store     *sessions.Store
	refresher Refresher
	log       zerolog.Logger
	metrics   *metrics.Client

	mu         sync.Mutex
	refreshing bool
	queue      PendingQueue
}

type CoordinatorOption func(*Coordinator)

func WithCoordinatorLogger(log zerolog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.log = log
	}
}

func WithCoordinatorMetrics(m *metrics.Client) CoordinatorOption {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func NewCoordinator(store *sessions.Store, refresher Refresher, options ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:     store,
		refresher: refresher,
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Token returns a fresh access token for a caller whose request was rejected with 401.
// The first caller performs the refresh; everyone arriving while it runs waits for its result.
// A failed refresh clears the session and every caller gets an error matching ErrRefreshFailed.
func (c *Coordinator) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		p := c.queue.Enqueue()
		c.mu.Unlock()
		c.metrics.ObserveQueued()
		c.log.Debug().Msg("refresh in flight, request queued")
		return p.Wait(ctx)
	}
	c.refreshing = true
	c.mu.Unlock()

	// The queue shares this refresh, so it must not die with the caller's context.
	return c.run(context.WithoutCancel(ctx))
}

// Pending is the number of requests waiting on the in-flight refresh.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// Refreshing reports whether a refresh call is in flight.
func (c *Coordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

func (c *Coordinator) run(ctx context.Context) (token string, err error) {
	defer func() {
		if r := recover(); r != nil {
			token, err = "", refreshFailed(fmt.Errorf("refresher panic: %v", r))
			c.teardown(ctx, err)
		}
		c.metrics.ObserveRefresh(err)

		// Drained and reset under one lock: a 401 arriving after this point starts a new cycle.
		c.mu.Lock()
		defer c.mu.Unlock()
		var settled int
		if err != nil {
			settled = c.queue.Reject(err)
		} else {
			settled = c.queue.Resolve(token)
		}
		c.refreshing = false
		c.log.Debug().Int("settled", settled).Bool("ok", err == nil).Msg("refresh complete")
	}()

	token, err = c.refresh(ctx)
	if err != nil {
		c.teardown(ctx, err)
	}
	return token, err
}

func (c *Coordinator) refresh(ctx context.Context) (string, error) {
	current, ok := c.store.Current()
	if !ok || current.RefreshToken == "" {
		return "", refreshFailed(ErrNoSession)
	}

	resp, err := c.refresher.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return "", refreshFailed(err)
	}
	if resp == nil || resp.AccessToken == "" {
		return "", refreshFailed(errors.New("refresh response carried no access token"))
	}

	updated, err := c.store.Apply(ctx, resp)
	if apperrors.Is(err, apperrors.ErrSessionNotFound) {
		// signed out while the refresh was in flight
		return "", refreshFailed(ErrNoSession)
	}
	if err != nil {
		// the in-memory session is already updated
		c.log.Warn().Err(err).Msg("failed to persist refreshed session")
	}
	c.log.Info().Str("user_id", updated.UserID).Msg("access token refreshed")
	return updated.AccessToken, nil
}

func (c *Coordinator) teardown(ctx context.Context, cause error) {
	c.log.Warn().Err(cause).Msg("refresh failed, clearing session")
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("failed to remove persisted session")
	}
}
