package handler

import (
	"net/http"

	"helpdesk-gateway/internal/usecase"

	"github.com/labstack/echo/v4"
)

// PartnerHandler handles the contact registry endpoints.
type PartnerHandler struct {
	register    *usecase.RegisterPartner
	updateEmail *usecase.UpdatePartnerEmail
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(register *usecase.RegisterPartner, updateEmail *usecase.UpdatePartnerEmail) *PartnerHandler {
	return &PartnerHandler{register: register, updateEmail: updateEmail}
}

// registerPartnerRequest is the body of POST /v1/partners.
type registerPartnerRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// updatePartnerEmailRequest is the body of PUT /v1/partners/email.
type updatePartnerEmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	NewEmail string `json:"newEmail" validate:"required,email"`
}

// Register processes POST /v1/partners. The contact lands under the caller's
// company.
func (h *PartnerHandler) Register(c echo.Context) error {
	claims, err := requestClaims(c)
	if err != nil {
		return err
	}

	var req registerPartnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.register.Execute(c.Request().Context(), req.Email, claims.CompanyID)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

// UpdateEmail processes PUT /v1/partners/email.
func (h *PartnerHandler) UpdateEmail(c echo.Context) error {
	claims, err := requestClaims(c)
	if err != nil {
		return err
	}

	var req updatePartnerEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.updateEmail.Execute(c.Request().Context(), req.Email, req.NewEmail, claims.CompanyID); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
