package handler

import (
	"net/http"

	"helpdesk-gateway/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CatalogHandler handles the helpdesk reference data endpoints.
type CatalogHandler struct {
	companies *usecase.ListCompanies
	stages    *usecase.ListStages
	templates *usecase.ListTemplates
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(companies *usecase.ListCompanies, stages *usecase.ListStages, templates *usecase.ListTemplates) *CatalogHandler {
	return &CatalogHandler{companies: companies, stages: stages, templates: templates}
}

type companyPageResponse struct {
	Companies []refResponse `json:"companies"`
	Total     int64         `json:"total"`
	Page      int           `json:"page"`
	Limit     int           `json:"limit"`
}

type stageResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Sequence int64  `json:"sequence"`
}

type templateResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`
}

// Companies processes GET /v1/companies.
func (h *CatalogHandler) Companies(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return mapDomainError(err)
	}

	cp, err := h.companies.Execute(c.Request().Context(), page)
	if err != nil {
		return mapDomainError(err)
	}

	companies := make([]refResponse, 0, len(cp.Companies))
	for _, company := range cp.Companies {
		companies = append(companies, refResponse{ID: company.ID, Name: company.Name})
	}
	return c.JSON(http.StatusOK, companyPageResponse{
		Companies: companies,
		Total:     cp.Total,
		Page:      page.Number,
		Limit:     page.Limit,
	})
}

// Stages processes GET /v1/stages.
func (h *CatalogHandler) Stages(c echo.Context) error {
	stages, err := h.stages.Execute(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}

	out := make([]stageResponse, 0, len(stages))
	for _, s := range stages {
		out = append(out, stageResponse{ID: s.ID, Name: s.Name, Sequence: s.Sequence})
	}
	return c.JSON(http.StatusOK, out)
}

// MailTemplates processes GET /v1/mail-templates.
func (h *CatalogHandler) MailTemplates(c echo.Context) error {
	templates, err := h.templates.Execute(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}

	out := make([]templateResponse, 0, len(templates))
	for _, tmpl := range templates {
		out = append(out, templateResponse{ID: tmpl.ID, Name: tmpl.Name, Model: tmpl.Model})
	}
	return c.JSON(http.StatusOK, out)
}
