package users_test

import (
	"testing"
	"time"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/users"
	fakeuserrepo "github.com/jrsteele09/storefront-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  error
	}{
		{"Shopper12345", nil},
		{"Sh0rt", users.ErrPasswordTooShort},
		{"shopper12345", users.ErrPasswordNoUpper},
		{"SHOPPER12345", users.ErrPasswordNoLower},
		{"ShopperShopper", users.ErrPasswordNoDigit},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUser_Authenticate(t *testing.T) {
	hash, err := users.HashPassword("Shopper12345")
	require.NoError(t, err)

	u := &users.User{PasswordHash: hash}
	require.True(t, u.Authenticate("Shopper12345"))
	require.False(t, u.Authenticate("shopper12345"))
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, repo.Upsert(&users.User{Email: " Jane@Example.com", Name: "Jane"}))
	require.NoError(t, repo.Upsert(&users.User{Email: "admin@example.com", Name: "Admin", IsAdmin: true}))

	jane, err := repo.GetByEmail("JANE@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, jane.ID)
	require.Equal(t, "jane@example.com", jane.Email)

	byID, err := repo.GetByID(jane.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane", byID.Name)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetLastLogin(jane.ID, at))
	byID, err = repo.GetByID(jane.ID)
	require.NoError(t, err)
	require.Equal(t, at, byID.LastLogin)

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "admin@example.com", all[0].Email)

	_, err = repo.GetByEmail("nobody@example.com")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	require.ErrorIs(t, repo.SetLastLogin("missing", at), apperrors.ErrUserNotFound)
}
