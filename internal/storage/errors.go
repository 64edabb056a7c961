package storage

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is the users.email unique constraint surfacing.
	ErrDuplicateEmail = errors.New("email already registered")
)
