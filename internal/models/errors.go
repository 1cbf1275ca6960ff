package models

import "errors"

// Business-rule failures surfaced to callers with a distinguishing kind.
// Store-level failures are wrapped where they occur and stay opaque.
var (
	// ErrNotFound covers unknown, inactive, and deleted identities alike;
	// callers cannot tell those cases apart.
	ErrNotFound = errors.New("no matching active personnel")

	// ErrTooSoon means the cooldown window has not elapsed since the last
	// accepted check-in.
	ErrTooSoon = errors.New("cooldown not elapsed")

	// ErrDuplicateToken means the supplied device token is already bound to
	// another personnel record.
	ErrDuplicateToken = errors.New("device token already in use")

	// ErrTokenCollision is a transient condition: a freshly generated token
	// collided with an existing one. The caller retries with a new token.
	ErrTokenCollision = errors.New("token collision, retry")

	// ErrWeakPassword rejects admin passwords below the strength rule.
	ErrWeakPassword = errors.New("password must be at least 10 characters and include letters, numbers and symbols")
)
