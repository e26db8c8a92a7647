package service

import "errors"

// Domain errors. Handlers map these onto HTTP responses; anything else
// coming out of a service is treated as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with an uppercase letter, a lowercase letter and a digit")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidResetToken  = errors.New("invalid, expired or already used reset token")
	ErrAIUnavailable      = errors.New("ai provider not configured")
)
