package sessions

import "context"

// Repo persists the mirrored session under a fixed key so it survives restarts.
type Repo interface {
	// Load returns errors.ErrSessionNotFound when nothing is stored under key
	Load(ctx context.Context, key string) (*Session, error)

	// Save creates or replaces the session stored under key
	Save(ctx context.Context, key string, session *Session) error

	// Delete removes the session stored under key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
