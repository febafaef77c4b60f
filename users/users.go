package users

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string    `json:"userId"`               // Unique identifier for the user
	Email        string    `json:"email"`                // User's email address, unique
	Name         string    `json:"displayName"`          // Name shown in the storefront header
	PasswordHash string    `json:"-"`                    // Hashed version of the user's password - never serialize
	IsAdmin      bool      `json:"isAdmin"`              // Can see every order
	IsSeller     bool      `json:"isSeller"`             // Can list products
	DateJoined   time.Time `json:"dateJoined,omitempty"` // Date and time when the user registered
	LastLogin    time.Time `json:"lastLogin,omitempty"`  // Last time the user logged in
	Blocked      bool      `json:"blocked,omitempty"`    // Blocked, has the user been blocked from logging in
}

// NormalizeEmail lower-cases and trims an email so lookups are case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper  = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLower  = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoDigit  = errors.New("password must contain at least one number")
)

const minPasswordLength = 8

// ValidatePasswordStrength reports the first rule the password breaks.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrPasswordTooShort
	}

	checks := []struct {
		match func(rune) bool
		err   error
	}{
		{unicode.IsUpper, ErrPasswordNoUpper},
		{unicode.IsLower, ErrPasswordNoLower},
		{unicode.IsDigit, ErrPasswordNoDigit},
	}
	for _, check := range checks {
		if !strings.ContainsFunc(password, check.match) {
			return check.err
		}
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Authenticate checks password against the user's stored hash
func (u *User) Authenticate(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
