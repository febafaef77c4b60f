package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/users"
)

const defaultAccessTokenExpiry = 15 * time.Minute

// Claims are the verified contents of a storefront access token.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	IsAdmin   bool
	IsSeller  bool
	ID        string // jti
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager issues and verifies short-lived HS256 access tokens.
type Manager struct {
	signer            Signer
	issuer            string
	accessTokenExpiry time.Duration
	denylist          Denylist
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

// WithDenylist replaces the in-memory denylist, e.g. with a RedisDenylist.
func WithDenylist(denylist Denylist) ManagerOption {
	return func(m *Manager) {
		m.denylist = denylist
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{signer: signer}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = defaultAccessTokenExpiry
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	if m.denylist == nil {
		m.denylist = NewMemoryDenylist(m.nowFunc)
	}
	return m
}

// AccessTokenExpiry is the lifetime of issued access tokens.
func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

func (m *Manager) CreateAccessToken(user *users.User) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"isAdmin":  user.IsAdmin,
		"isSeller": user.IsSeller,
		"iat":      now.Unix(),
		"exp":      now.Add(m.accessTokenExpiry).Unix(),
		"jti":      uuid.New().String(), // Unique token ID for revocation
	}
	if m.issuer != "" {
		claims["iss"] = m.issuer
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[Manager CreateAccessToken] %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and revocation of rawToken.
// Expired tokens return errors.ErrTokenExpired, anything else invalid errors.ErrInvalidToken.
func (m *Manager) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.signer.Method().Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.Parse(rawToken, m.signer.Keyfunc, parserOptions...)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, apperrors.ErrTokenExpired
	}
	if err != nil || !token.Valid {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}

	claims := &Claims{}
	claims.UserID, _ = mapClaims["sub"].(string)
	claims.Email, _ = mapClaims["email"].(string)
	claims.Name, _ = mapClaims["name"].(string)
	claims.IsAdmin, _ = mapClaims["isAdmin"].(bool)
	claims.IsSeller, _ = mapClaims["isSeller"].(bool)
	claims.ID, _ = mapClaims["jti"].(string)
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.UserID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "missing sub")
	}
	if claims.ID != "" {
		denied, err := m.denylist.IsDenied(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("[Manager Verify] %w", err)
		}
		if denied {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "revoked")
		}
	}
	return claims, nil
}

// Revoke rejects the token with the given claims until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidToken, "token missing jti claim")
	}
	return m.denylist.Deny(ctx, claims.ID, claims.ExpiresAt)
}
