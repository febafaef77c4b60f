package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("empty signing secret")

// Signer signs access tokens and hands jwt.Parse the key to check them with.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
	Keyfunc(token *jwt.Token) (any, error)
	Method() jwt.SigningMethod
}

var _ Signer = (*HMACSigner)(nil)

// HMACSigner signs with a shared secret using HS256.
type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (h *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	if len(h.secret) == 0 {
		return "", ErrEmptySecret
	}
	signed, err := jwt.NewWithClaims(h.Method(), claims).SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("[HMACSigner Sign] %w", err)
	}
	return signed, nil
}

// Keyfunc rejects anything that is not HMAC before the key is used.
func (h *HMACSigner) Keyfunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACSigner) Method() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}
