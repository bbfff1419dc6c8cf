package service

import "errors"

var (
	// ErrInvalidURL indicates the submitted URL is not an absolute http or
	// https URL.
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrUnreachableURL indicates the liveness probe could not reach the
	// target.
	ErrUnreachableURL = errors.New("URL is not accessible or does not exist")

	// ErrNotFound indicates the short code does not resolve to anything the
	// caller may see. Ownership mismatches deliberately collapse into this
	// error so probing a code leaks nothing.
	ErrNotFound = errors.New("short URL not found")

	// ErrEmailTaken indicates a registration with an already-used email.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidCredentials indicates a failed login. Unknown email and wrong
	// password are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrProfileNotFound indicates the token's subject no longer maps to an
	// active user.
	ErrProfileNotFound = errors.New("user profile not found")
)
