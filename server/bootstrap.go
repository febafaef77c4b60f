package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jrsteele09/storefront-client/internal/config"
	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/users"
)

const (
	SeedAdminName   = "Admin User"
	SeedShopperName = "Jane Shopper"
)

// InitialiseSystem creates the seeded admin and shopper when they do not exist yet,
// and gives the shopper a sample order so /api/orders/mine has something to show.
func (s *Server) InitialiseSystem(cfg config.SeedConfig) error {
	s.log.Debug().Msg("bootstrap: checking seeded users")

	if _, err := s.bootstrapUser(cfg.GetSeedAdminEmail(), cfg.GetSeedAdminPassword(), SeedAdminName, true); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	shopper, err := s.bootstrapUser(cfg.GetSeedUserEmail(), cfg.GetSeedUserPassword(), SeedShopperName, false)
	if err != nil {
		return fmt.Errorf("failed to bootstrap shopper: %w", err)
	}

	if len(s.catalogue.OrdersFor(shopper.ID)) == 0 {
		s.catalogue.AddOrder(Order{
			ID:        uuid.NewString(),
			UserID:    shopper.ID,
			Items:     []OrderItem{{ProductID: "p-1", Qty: 1}, {ProductID: "p-4", Qty: 2}},
			IsPaid:    true,
			CreatedAt: s.nowFunc(),
		})
	}
	return nil
}

// bootstrapUser returns the existing user for email or creates it
func (s *Server) bootstrapUser(email, password, name string, isAdmin bool) (*users.User, error) {
	existing, err := s.repos.Users.GetByEmail(email)
	if err == nil {
		s.log.Debug().Str("email", existing.Email).Msg("bootstrap: user already exists")
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	if err := users.ValidatePasswordStrength(password); err != nil {
		return nil, fmt.Errorf("seed password for %s: %w", email, err)
	}
	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &users.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		DateJoined:   s.nowFunc(),
	}
	if err := s.repos.Users.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("email", user.Email).Bool("admin", isAdmin).Msg("bootstrap: created user")
	return s.repos.Users.GetByEmail(email)
}
