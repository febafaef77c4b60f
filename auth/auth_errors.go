package auth

import "errors"

var (
	UserBlockedErr = errors.New("user blocked")
)
