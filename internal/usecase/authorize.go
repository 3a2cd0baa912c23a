package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"helpdesk-gateway/internal/domain"

	"golang.org/x/sync/singleflight"
)

// Authorize turns a bearer credential into verified claims with a
// cache-through verification strategy.
type Authorize struct {
	codec    domain.ClaimsCodec
	cache    domain.VerificationCache
	verifier domain.CustomerVerifier
	group    singleflight.Group
	logger   *slog.Logger
}

// NewAuthorize creates a new Authorize usecase.
func NewAuthorize(codec domain.ClaimsCodec, cache domain.VerificationCache, verifier domain.CustomerVerifier, logger *slog.Logger) *Authorize {
	return &Authorize{codec: codec, cache: cache, verifier: verifier, logger: logger}
}

// Execute decodes the credential, checks its freshness and confirms the
// identity against the customer directory. Concurrent requests for the same
// identity share one directory call.
func (uc *Authorize) Execute(ctx context.Context, credential string) (*domain.Claims, error) {
	claims, err := uc.codec.Decode(credential)
	if err != nil {
		return nil, err
	}
	if claims.IssuedAt <= 0 {
		return nil, domain.ErrInvalidIssuedAt
	}
	if claims.Expired(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	if verified, found := uc.cache.Get(claims.Email, claims.CompanyID); found {
		if !verified {
			return nil, domain.ErrUnverifiedIdentity
		}
		return claims, nil
	}

	key := claims.Email + ":" + strconv.FormatInt(claims.CompanyID, 10)
	result, err, _ := uc.group.Do(key, func() (any, error) {
		// A follower may arrive after the leader already populated the cache.
		if verified, found := uc.cache.Get(claims.Email, claims.CompanyID); found {
			return verified, nil
		}
		verified, err := uc.verifier.VerifyCustomer(ctx, claims.Email, claims.CompanyID)
		if err != nil {
			// Outcome unknown; nothing is cached and the next request retries.
			return nil, err
		}
		uc.cache.Set(claims.Email, claims.CompanyID, verified)
		return verified, nil
	})
	if err != nil {
		uc.logger.WarnContext(ctx, "customer verification failed",
			"email", claims.Email, "company_id", claims.CompanyID, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUnverifiedIdentity, err)
	}
	if !result.(bool) {
		return nil, domain.ErrUnverifiedIdentity
	}
	return claims, nil
}
