package fakesessionrepo

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps mirrored sessions in memory. Values are copied in and out.
type FakeSessionRepo struct {
	sessions map[string]sessions.Session
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]sessions.Session),
	}
}

func (sr *FakeSessionRepo) Load(_ context.Context, key string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	session, ok := sr.sessions[key]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return &session, nil
}

func (sr *FakeSessionRepo) Save(_ context.Context, key string, session *sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.sessions[key] = *session
	return nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, key string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.sessions, key)
	return nil
}

// Has reports whether a session is stored under key.
func (sr *FakeSessionRepo) Has(key string) bool {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	_, ok := sr.sessions[key]
	return ok
}
