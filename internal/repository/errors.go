package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrShortCodeTaken indicates an insert lost the race on the short_code
	// unique constraint.
	ErrShortCodeTaken = errors.New("short code already taken")

	// ErrEmailTaken indicates a registration hit the unique email constraint.
	ErrEmailTaken = errors.New("email already registered")
)
