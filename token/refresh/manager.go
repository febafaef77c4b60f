package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/storefront-client/internal/config"
	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
)

// Manager handles refresh token creation, validation, and rotation
type Manager struct {
	repo    Repo
	config  config.TokenConfig
	nowFunc func() time.Time

	rotateLock sync.Mutex
}

type ManagerOption func(*Manager)

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg config.TokenConfig, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:    repo,
		config:  cfg,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Create generates a new refresh token for userID and stores it. A user may hold
// several tokens at once, one per signed-in client.
func (m *Manager) Create(userID string) (string, error) {
	tokenBytes := make([]byte, m.config.GetRefreshTokenLength()) // Configured length (default: 32 bytes = 256 bits)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    m.nowFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Rotate consumes token and issues its replacement. A token can be rotated only once:
// a second rotation of the same value fails with errors.ErrInvalidRefreshToken.
func (m *Manager) Rotate(token string) (*StoredRefreshToken, string, error) {
	m.rotateLock.Lock()
	defer m.rotateLock.Unlock()

	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, "", apperrors.ErrInvalidRefreshToken
	}
	if err := m.repo.Delete(token); err != nil {
		return nil, "", fmt.Errorf("failed to delete rotated refresh token: %w", err)
	}
	if m.IsExpired(rt) {
		return nil, "", apperrors.ErrRefreshTokenExpired
	}

	next, err := m.Create(rt.UserID)
	if err != nil {
		return nil, "", err
	}
	return rt, next, nil
}

// Get retrieves a refresh token from storage
func (m *Manager) Get(token string) (*StoredRefreshToken, error) {
	return m.repo.Get(token)
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// DeleteAllForUser signs a user out of every client
func (m *Manager) DeleteAllForUser(userID string) error {
	return m.repo.DeleteByUserID(userID)
}

// IsExpired checks if a refresh token is older than the configured expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return m.nowFunc().Sub(rt.Iat) > m.config.GetRefreshTokenExpiry()
}
