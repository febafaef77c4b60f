package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/storefront-client/authmodel"
	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/rs/zerolog"
)

// Store is the credential store: the single owner of the current Session.
// Readers always get a copy taken at call time. Every write is mirrored to the
// Repo while the write lock is held, so the persisted value follows the same
// order as the in-memory one.
type Store struct {
	repo Repo
	key  string
	log  zerolog.Logger

	mu      sync.RWMutex
	current *Session
}

type StoreOption func(*Store)

func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates an empty store mirroring to repo under key. A nil repo keeps the session in memory only.
func NewStore(repo Repo, key string, options ...StoreOption) *Store {
	s := &Store{
		repo: repo,
		key:  key,
		log:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Restore loads the mirrored session, reporting whether one was found.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if s.repo == nil {
		return false, nil
	}

	loaded, err := s.repo.Load(ctx, s.key)
	if apperrors.Is(err, apperrors.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("[Store Restore] %w", err)
	}

	restored := *loaded
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &restored
	s.log.Debug().Str("user_id", loaded.UserID).Msg("session restored")
	return true, nil
}

// Current returns a copy of the session and whether one exists.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// AccessToken returns the current access token or "" when signed out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// Set replaces the session, as after a login.
func (s *Store) Set(ctx context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &session
	return s.persist(ctx)
}

// Apply mutates the current session in place with a refresh response and returns
// the updated copy. Only Set creates a session: with none current, for instance
// after a logout that raced the refresh, Apply returns errors.ErrSessionNotFound
// and persists nothing.
func (s *Store) Apply(ctx context.Context, resp *authmodel.TokenResponse) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, apperrors.ErrSessionNotFound
	}
	s.current.Apply(resp)
	return *s.current, s.persist(ctx)
}

// Clear destroys the session and removes the mirrored copy.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("[Store Clear] %w", err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snapshot := *s.current
	if err := s.repo.Save(ctx, s.key, &snapshot); err != nil {
		return fmt.Errorf("[Store persist] %w", err)
	}
	return nil
}
