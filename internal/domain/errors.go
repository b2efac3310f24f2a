package domain

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidReference marks a malformed post or user id, rejected before
	// any storage access.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrToggleConflict marks a toggle that lost a race against a concurrent
	// toggle on the same (post, user) pair. The engine retries once; if it
	// still conflicts the error surfaces to the caller as transient.
	ErrToggleConflict = errors.New("concurrent toggle conflict")

	// ErrUsernameTaken marks a create-user call with an already registered name.
	ErrUsernameTaken = errors.New("username already taken")
)
