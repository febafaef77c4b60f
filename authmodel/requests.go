package authmodel

// LoginRequest is posted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is posted to the refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest is posted to the logout endpoint so the server can drop the refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Message string `json:"message"`
}
