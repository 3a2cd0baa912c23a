package domain

import (
	"context"
	"time"
)

// Claims is the identity payload carried inside an encrypted bearer credential.
type Claims struct {
	Email     string
	CompanyID int64
	// IssuedAt is a unix timestamp in seconds. Some clients mint it in
	// milliseconds; the codec normalizes those on decode.
	IssuedAt int64
	// ExpiresIn is the credential lifetime in minutes from IssuedAt.
	ExpiresIn int64
}

// ExpiresAt returns the instant at which the credential stops being valid.
func (c *Claims) ExpiresAt() time.Time {
	return time.Unix(c.IssuedAt+c.ExpiresIn*60, 0)
}

// Expired reports whether the credential is past its lifetime at the given instant.
func (c *Claims) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt())
}

type contextKey string

const claimsContextKey contextKey = "helpdesk_claims"

// SetClaims returns a context carrying the authenticated claims.
func SetClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the claims attached by the bearer gate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}
