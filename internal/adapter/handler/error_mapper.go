package handler

import (
	"errors"
	"net/http"

	"helpdesk-gateway/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrMalformedToken),
		errors.Is(err, domain.ErrDecryptionFailed),
		errors.Is(err, domain.ErrInvalidClaimFormat),
		errors.Is(err, domain.ErrInvalidIssuedAt),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUnverifiedIdentity):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrInvalidEmail):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")

	case errors.Is(err, domain.ErrInvalidPagination):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")

	case errors.Is(err, domain.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "ticket not found")

	case errors.Is(err, domain.ErrPartnerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "contact not found")

	case errors.Is(err, domain.ErrOdooUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "helpdesk backend unavailable")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
