package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// ListCompanies pages through the companies registered in the ERP.
type ListCompanies struct {
	catalog domain.Catalog
}

// NewListCompanies creates a new ListCompanies usecase.
func NewListCompanies(catalog domain.Catalog) *ListCompanies {
	return &ListCompanies{catalog: catalog}
}

// Execute returns one page of companies.
func (uc *ListCompanies) Execute(ctx context.Context, page domain.Page) (*domain.CompanyPage, error) {
	if !page.Valid() {
		return nil, domain.ErrInvalidPagination
	}
	return uc.catalog.Companies(ctx, page)
}
