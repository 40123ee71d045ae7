package core

import "errors"

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrNoRefreshToken     = errors.New("no refresh token provided")
	ErrSessionRevoked     = errors.New("refresh token does not match the active session")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("no active session for user")
)
