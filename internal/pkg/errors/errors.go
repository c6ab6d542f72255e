package errors

import "errors"

// Common application errors. Handlers map them to HTTP status codes.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for a missing or invalid token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks the required role or ownership.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict is returned for state conflicts, such as a concurrent
	// answer submission for the same session.
	ErrConflict = errors.New("resource state conflict")
)
