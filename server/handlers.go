package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/storefront-client/auth"
	"github.com/jrsteele09/storefront-client/authmodel"
	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, authmodel.ErrorResponse{Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := decoder.Decode(v); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}
	return nil
}

// LoginHandler exchanges email and password for a token pair
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authmodel.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		resp, err := s.auth.Login(req.Email, req.Password)
		s.metrics.ObserveLogin(err)
		switch {
		case err == nil:
			s.log.Info().Str("user_id", resp.UserID).Msg("user logged in")
			writeJSON(w, http.StatusOK, resp)
		case apperrors.Is(err, apperrors.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		case apperrors.Is(err, auth.UserBlockedErr):
			writeError(w, http.StatusForbidden, "User is blocked")
		default:
			s.log.Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "Login failed")
		}
	}
}

// RefreshHandler rotates a refresh token. Unknown, consumed and expired tokens answer 401.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authmodel.RefreshRequest
		if err := decodeJSON(w, r, &req); err != nil || req.RefreshToken == "" {
			writeError(w, http.StatusUnauthorized, "Refresh token is required")
			return
		}

		resp, err := s.auth.Refresh(req.RefreshToken)
		s.metrics.ObserveRotation(err)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, resp)
		case apperrors.Is(err, apperrors.ErrRefreshTokenExpired):
			writeError(w, http.StatusUnauthorized, "Refresh token expired")
		case apperrors.Is(err, apperrors.ErrInvalidRefreshToken), apperrors.Is(err, auth.UserBlockedErr):
			writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			s.log.Error().Err(err).Msg("refresh failed")
			writeError(w, http.StatusInternalServerError, "Refresh failed")
		}
	}
}

// LogoutHandler drops the posted refresh token and revokes the bearer token when one was sent
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authmodel.LogoutRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		claims, _ := ClaimsFromContext(r.Context())
		if err := s.auth.Logout(r.Context(), req.RefreshToken, claims); err != nil {
			s.log.Error().Err(err).Msg("logout failed")
			writeError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		user, err := s.auth.User(claims.UserID)
		if err != nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) ProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.catalogue.Products())
	}
}

func (s *Server) ProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := s.catalogue.Product(r.PathValue("id"))
		if apperrors.Is(err, apperrors.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Product lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func (s *Server) MyOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		writeJSON(w, http.StatusOK, s.catalogue.OrdersFor(claims.UserID))
	}
}

func (s *Server) AllOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.catalogue.Orders())
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
