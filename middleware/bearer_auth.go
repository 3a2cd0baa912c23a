package middleware

import (
	"errors"
	"net/http"
	"strings"

	"helpdesk-gateway/internal/domain"
	"helpdesk-gateway/internal/infrastructure/metrics"
	"helpdesk-gateway/internal/usecase"

	"github.com/labstack/echo/v4"
)

// BearerAuth gates requests on the encrypted bearer credential. Verified
// claims are attached to the request context for the handlers.
func BearerAuth(authorize *usecase.Authorize) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential, ok := extractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.RecordAuthorization(authOutcome(domain.ErrMissingCredential))
				return mapAuthError(domain.ErrMissingCredential)
			}

			claims, err := authorize.Execute(c.Request().Context(), credential)
			if err != nil {
				metrics.RecordAuthorization(authOutcome(err))
				return mapAuthError(err)
			}

			metrics.RecordAuthorization(authOutcome(nil))
			ctx := domain.SetClaims(c.Request().Context(), claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// extractBearer pulls the credential out of an Authorization header. The
// scheme comparison is case-insensitive.
func extractBearer(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	credential := strings.TrimSpace(parts[1])
	return credential, credential != ""
}

// authOutcome names the gate decision for the metrics label.
func authOutcome(err error) string {
	switch {
	case err == nil:
		return "allowed"
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrUnverifiedIdentity):
		return "unverified"
	case errors.Is(err, domain.ErrMalformedToken),
		errors.Is(err, domain.ErrDecryptionFailed),
		errors.Is(err, domain.ErrInvalidClaimFormat),
		errors.Is(err, domain.ErrInvalidIssuedAt):
		return "invalid"
	default:
		return "error"
	}
}

// mapAuthError converts a gate error into the response the caller sees.
// Anything that is not a recognized credential failure is an internal fault.
func mapAuthError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer credential")
	case errors.Is(err, domain.ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
	case errors.Is(err, domain.ErrUnverifiedIdentity):
		return echo.NewHTTPError(http.StatusUnauthorized, "unable to verify customer")
	case errors.Is(err, domain.ErrMalformedToken),
		errors.Is(err, domain.ErrDecryptionFailed),
		errors.Is(err, domain.ErrInvalidClaimFormat),
		errors.Is(err, domain.ErrInvalidIssuedAt):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
