package filerepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/sessions"
)

var _ sessions.Repo = (*FileRepo)(nil)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileRepo stores each key as a JSON file inside a directory, readable only by the owner.
type FileRepo struct {
	dir string
}

// New creates the directory if needed.
func New(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("[filerepo New] %w", err)
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) path(key string) string {
	return filepath.Join(r.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (r *FileRepo) Load(_ context.Context, key string) (*sessions.Session, error) {
	b, err := os.ReadFile(r.path(key))
	if os.IsNotExist(err) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[FileRepo Load] %w", err)
	}

	var s sessions.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("[FileRepo Load] decode %s: %w", key, err)
	}
	return &s, nil
}

// Save writes to a temporary file and renames it so readers never see a partial session.
func (r *FileRepo) Save(_ context.Context, key string, session *sessions.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("[FileRepo Save] %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileRepo Save] %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileRepo Save] %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("[FileRepo Save] %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path(key)); err != nil {
		return fmt.Errorf("[FileRepo Save] %w", err)
	}
	return nil
}

func (r *FileRepo) Delete(_ context.Context, key string) error {
	if err := os.Remove(r.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[FileRepo Delete] %w", err)
	}
	return nil
}
