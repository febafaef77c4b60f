package sessions

import (
	"github.com/jrsteele09/storefront-client/authmodel"
)

// Session is the signed-in user and the token pair authorizing their API calls.
type Session struct {
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	IsSeller     bool   `json:"isSeller"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// FromTokenResponse builds a new session from a login or refresh response.
func FromTokenResponse(resp *authmodel.TokenResponse) Session {
	var s Session
	s.Apply(resp)
	return s
}

// Apply updates the session in place from a refresh response. The refresh token is
// kept when the server did not rotate it, and identity fields are only replaced when
// the response carries a user.
func (s *Session) Apply(resp *authmodel.TokenResponse) {
	s.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		s.RefreshToken = resp.RefreshToken
	}
	if resp.UserID == "" {
		return
	}
	s.UserID = resp.UserID
	s.DisplayName = resp.DisplayName
	s.Email = resp.Email
	s.IsAdmin = resp.IsAdmin
	s.IsSeller = resp.IsSeller
}
