package filerepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/sessions"
	"github.com/jrsteele09/storefront-client/sessions/filerepo"
	"github.com/stretchr/testify/require"
)

func TestFileRepo_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	repo, err := filerepo.New(dir)
	require.NoError(t, err)

	_, err = repo.Load(ctx, "storefront.session")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	s := &sessions.Session{UserID: "user-1", AccessToken: "tok1", RefreshToken: "ref1", IsAdmin: true}
	require.NoError(t, repo.Save(ctx, "storefront.session", s))

	info, err := os.Stat(filepath.Join(dir, "storefront.session.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := repo.Load(ctx, "storefront.session")
	require.NoError(t, err)
	require.Equal(t, s, got)

	s.AccessToken = "tok2"
	require.NoError(t, repo.Save(ctx, "storefront.session", s))
	got, err = repo.Load(ctx, "storefront.session")
	require.NoError(t, err)
	require.Equal(t, "tok2", got.AccessToken)

	require.NoError(t, repo.Delete(ctx, "storefront.session"))
	_, err = repo.Load(ctx, "storefront.session")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.NoError(t, repo.Delete(ctx, "storefront.session"))
}

func TestFileRepo_SanitisesKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := filerepo.New(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, "../escape/key", &sessions.Session{UserID: "user-1"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ".._escape_key.json", entries[0].Name())
}

func TestFileRepo_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := filerepo.New(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.json"), []byte("{not json"), 0o600))

	_, err = repo.Load(context.Background(), "k")
	require.ErrorContains(t, err, "decode k")
}
