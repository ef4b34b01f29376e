package session

import "errors"

var (
	// ErrNotConfigured is returned when session functionality is used
	// without a session manager configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a token has no stored session.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a stored session is past its expiry.
	ErrExpired = errors.New("session: expired")

	// ErrTypeMismatch is returned by typed value helpers.
	ErrTypeMismatch = errors.New("session: value type mismatch")
)
