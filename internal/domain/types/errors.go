package types

import "errors"

var (
	// ErrNotFound is returned when a record or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a user acts on a record they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrUsernameTaken is returned on duplicate registration.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
