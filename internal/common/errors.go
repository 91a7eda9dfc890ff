// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorConflict   = errors.New("already exists")
	ErrorForbidden  = errors.New("forbidden")
	ErrorValidation = errors.New("validation error")

	// Auth errors. Unknown email and wrong password both surface as
	// ErrInvalidCredentials so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Access token errors (missing, malformed, bad signature, or expired).
	ErrInvalidToken = errors.New("invalid token")

	// Refresh token errors. One opaque value regardless of whether the
	// token was absent, expired, or failed the hash comparison.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
)
