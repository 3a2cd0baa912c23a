package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"helpdesk-gateway/utils/logger"
)

// RequestID extracts the X-Request-ID header or generates one, propagates it
// through the request context for logging, and echoes it back in the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := logger.WithRequestID(req.Context(), requestID)
			c.SetRequest(req.WithContext(ctx))

			c.Response().Header().Set("X-Request-ID", requestID)

			return next(c)
		}
	}
}
