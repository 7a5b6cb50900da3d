package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown store driver, catalog or file format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMissingConfig indicates a required setting was not provided.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrImageUnavailable indicates an image could not be downloaded.
	ErrImageUnavailable = errors.New("image unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
