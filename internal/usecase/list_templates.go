package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// ListTemplates returns the notification mail templates.
type ListTemplates struct {
	catalog domain.Catalog
}

// NewListTemplates creates a new ListTemplates usecase.
func NewListTemplates(catalog domain.Catalog) *ListTemplates {
	return &ListTemplates{catalog: catalog}
}

// Execute returns all mail templates known to the ERP.
func (uc *ListTemplates) Execute(ctx context.Context) ([]domain.MailTemplate, error) {
	return uc.catalog.MailTemplates(ctx)
}
