package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/storefront-client/authmodel"
	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/token"
	"github.com/jrsteele09/storefront-client/token/refresh"
	"github.com/jrsteele09/storefront-client/users"
	"github.com/rs/zerolog"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users users.UserRepo // Repository for user data
}

// Service issues, rotates and revokes the storefront token pair.
type Service struct {
	repos         Repos            // All repository dependencies
	tokens        *token.Manager   // Access token issuing and verification
	refreshTokens *refresh.Manager // Opaque refresh token storage and rotation
	nowTime       func() time.Time // nowTime function (injectable for testing)
	log           zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

func NewService(repos Repos, tokens *token.Manager, refreshTokens *refresh.Manager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}
	if refreshTokens == nil {
		return nil, errors.New("[NewService] refresh token manager is required")
	}

	s := &Service{
		repos:         repos,
		tokens:        tokens,
		refreshTokens: refreshTokens,
		nowTime:       time.Now,
		log:           zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login checks the credentials and issues a new token pair.
// Unknown users and wrong passwords both return errors.ErrInvalidCredentials.
func (s *Service) Login(email, password string) (*authmodel.TokenResponse, error) {
	user, err := s.repos.Users.GetByEmail(email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("[Service Login] %w", err)
	}
	if !user.Authenticate(password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Blocked {
		return nil, UserBlockedErr
	}

	if err := s.repos.Users.SetLastLogin(user.ID, s.nowTime()); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	refreshToken, err := s.refreshTokens.Create(user.ID)
	if err != nil {
		return nil, fmt.Errorf("[Service Login] %w", err)
	}
	return s.tokenResponse(user, refreshToken)
}

// Refresh rotates refreshToken: the presented token is consumed and a new pair is returned.
func (s *Service) Refresh(refreshToken string) (*authmodel.TokenResponse, error) {
	rt, next, err := s.refreshTokens.Rotate(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users.GetByID(rt.UserID)
	if err != nil {
		_ = s.refreshTokens.Delete(next)
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRefreshToken, "user %s", rt.UserID)
	}
	if user.Blocked {
		_ = s.refreshTokens.Delete(next)
		return nil, UserBlockedErr
	}
	return s.tokenResponse(user, next)
}

// Logout drops refreshToken and, when the caller presented a valid access token, revokes it too.
func (s *Service) Logout(ctx context.Context, refreshToken string, accessClaims *token.Claims) error {
	if refreshToken != "" {
		if err := s.refreshTokens.Delete(refreshToken); err != nil {
			return fmt.Errorf("[Service Logout] %w", err)
		}
	}
	if accessClaims != nil {
		if err := s.tokens.Revoke(ctx, accessClaims); err != nil {
			return fmt.Errorf("[Service Logout] %w", err)
		}
	}
	return nil
}

// Authenticate verifies a bearer access token.
func (s *Service) Authenticate(ctx context.Context, rawAccessToken string) (*token.Claims, error) {
	return s.tokens.Verify(ctx, rawAccessToken)
}

// AuthorizeAdmin returns errors.ErrForbidden unless claims belong to an admin.
func (s *Service) AuthorizeAdmin(claims *token.Claims) error {
	if claims == nil || !claims.IsAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *Service) User(userID string) (*users.User, error) {
	return s.repos.Users.GetByID(userID)
}

func (s *Service) tokenResponse(user *users.User, refreshToken string) (*authmodel.TokenResponse, error) {
	accessToken, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("[Service tokenResponse] %w", err)
	}
	return &authmodel.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokens.AccessTokenExpiry().Seconds()),
		UserID:       user.ID,
		DisplayName:  user.Name,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		IsSeller:     user.IsSeller,
	}, nil
}
