package domain

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("resource not found")
	ErrConflict               = errors.New("conflict")
	ErrNotVerified            = errors.New("reviewer is not verified")
	ErrDuplicateReview        = errors.New("review already exists for this firm and cycle")
	ErrCommitteeCapReached    = errors.New("committee review cap reached")
	ErrRateLimitExceeded      = errors.New("rate limit exceeded")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrIdempotencyConflict    = errors.New("idempotency conflict")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrDependencyUnavailable  = errors.New("dependency unavailable")
)
