package domain

import "errors"

// Credential errors. All of these map to 401 at the HTTP boundary.
var (
	ErrMissingCredential  = errors.New("missing bearer credential")
	ErrMalformedToken     = errors.New("malformed token")
	ErrDecryptionFailed   = errors.New("token decryption failed")
	ErrInvalidClaimFormat = errors.New("invalid claim payload")
	ErrInvalidIssuedAt    = errors.New("invalid token creation time")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnverifiedIdentity = errors.New("unverified customer")
)

// Request errors.
var (
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidPagination = errors.New("page and limit must be positive")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrPartnerNotFound   = errors.New("partner not found")
)

// External service errors.
var (
	ErrOdooUnavailable = errors.New("helpdesk backend unavailable")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
