package store

import "errors"

var (
	// ErrNotFound is returned when a referenced issue or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when registering a username that is
	// already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)
