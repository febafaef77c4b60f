package authmodel

// TokenResponse is returned by both the login and the refresh endpoints.
// It carries the new token pair plus the session fields of the signed-in user.
type TokenResponse struct {
	// AccessToken is the short-lived JWT sent as "Authorization: Bearer <accessToken>".
	AccessToken string `json:"accessToken"`

	// RefreshToken is the opaque long-lived credential posted to the refresh endpoint.
	// It rotates on every refresh; an empty value means the server did not rotate it.
	RefreshToken string `json:"refreshToken,omitempty"`

	// ExpiresIn is the access token lifetime in seconds. It is a hint only.
	ExpiresIn int `json:"expiresIn,omitempty"`

	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
	IsSeller    bool   `json:"isSeller,omitempty"`
}
