package model

import "errors"

var (
	// Input errors
	ErrValidation = errors.New("validation failed")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")

	// Authorization errors
	ErrForbidden     = errors.New("forbidden")
	ErrSelfLockout   = errors.New("admins cannot revoke their own access")
	ErrQuotaExceeded = errors.New("generation quota exhausted")

	// Record errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrEmailTaken         = errors.New("email already in use")

	// Upstream errors
	ErrUpstreamFailure = errors.New("text generation failed")
)
