package auth

import "errors"

var (
	ErrMissingToken  = errors.New("Access token required")
	ErrInvalidToken  = errors.New("Invalid or expired token")
	ErrMissingSecret = errors.New("JWT secret not configured")
)
