package handler

import (
	"net/http"
	"strconv"

	"helpdesk-gateway/internal/domain"

	"github.com/labstack/echo/v4"
)

// maxPageLimit caps the page size a client may request.
const maxPageLimit = 100

// requestClaims returns the verified claims the access gate attached to the
// request.
func requestClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := domain.ClaimsFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return claims, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// parsePage reads the page and limit query parameters. Absent parameters
// default to the first page of ten; present but unparsable ones are rejected.
func parsePage(c echo.Context) (domain.Page, error) {
	page := domain.Page{Number: 1, Limit: 10}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Page{}, domain.ErrInvalidPagination
		}
		page.Number = n
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Page{}, domain.ErrInvalidPagination
		}
		page.Limit = n
	}
	if !page.Valid() {
		return domain.Page{}, domain.ErrInvalidPagination
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	return page, nil
}
