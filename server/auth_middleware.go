package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the verified access token claims
	ContextKeyClaims ContextKey = "claims"
)

// ClaimsFromContext returns the claims stored by RequireAuth or OptionalAuth
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok && claims != nil
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	scheme, tok, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tok) == "" {
		return "", false
	}
	return strings.TrimSpace(tok), true
}

// RequireAuth is middleware that validates a Bearer access token.
// Missing, invalid, expired and revoked tokens all answer 401.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := s.auth.Authenticate(r.Context(), raw)
			if err != nil {
				message := "Not authorized, token failed"
				if apperrors.Is(err, apperrors.ErrTokenExpired) {
					message = "Not authorized, token expired"
				}
				writeError(w, http.StatusUnauthorized, message)
				return
			}

			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyClaims, claims)))
		}
	}
}

// OptionalAuth stores the claims of a valid bearer token but never rejects the request
func (s *Server) OptionalAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				if claims, err := s.auth.Authenticate(r.Context(), raw); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ContextKeyClaims, claims))
				}
			}
			next(w, r)
		}
	}
}

// RequireAdmin must run after RequireAuth
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFromContext(r.Context())
			if err := s.auth.AuthorizeAdmin(claims); apperrors.Is(err, apperrors.ErrForbidden) {
				writeError(w, http.StatusForbidden, "Not authorized as an admin")
				return
			}
			next(w, r)
		}
	}
}
