package authclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/storefront-client/authclient"
	"github.com/jrsteele09/storefront-client/authmodel"
	"github.com/stretchr/testify/require"
)

func TestHTTPRefresher_Refresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))

		var req authmodel.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.RefreshToken {
		case "ref1":
			writeJSON(w, http.StatusOK, authmodel.TokenResponse{AccessToken: "tok2", RefreshToken: "ref2", ExpiresIn: 900})
		case "garbled":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>"))
		default:
			writeJSON(w, http.StatusUnauthorized, authmodel.ErrorResponse{Message: "Invalid refresh token"})
		}
	}))
	t.Cleanup(srv.Close)
	refresher := authclient.NewHTTPRefresher(srv.URL+"/api/users/refresh", nil)

	t.Run("success", func(t *testing.T) {
		resp, err := refresher.Refresh(context.Background(), "ref1")
		require.NoError(t, err)
		require.Equal(t, "tok2", resp.AccessToken)
		require.Equal(t, "ref2", resp.RefreshToken)
		require.Equal(t, 900, resp.ExpiresIn)
	})

	t.Run("401 is an error", func(t *testing.T) {
		_, err := refresher.Refresh(context.Background(), "stale")
		require.True(t, authclient.IsStatus(err, http.StatusUnauthorized))
		require.ErrorContains(t, err, "Invalid refresh token")
	})

	t.Run("undecodable body", func(t *testing.T) {
		_, err := refresher.Refresh(context.Background(), "garbled")
		require.ErrorContains(t, err, "decode")
	})
}

func TestHTTPError(t *testing.T) {
	err := &authclient.HTTPError{StatusCode: http.StatusTeapot, Method: http.MethodGet, URL: "http://x/y", Message: "short and stout"}
	require.Equal(t, "GET http://x/y: 418 short and stout", err.Error())
	require.True(t, authclient.IsStatus(err, http.StatusTeapot))
	require.False(t, authclient.IsStatus(err, http.StatusNotFound))
	require.False(t, authclient.IsStatus(nil, http.StatusTeapot))
}
