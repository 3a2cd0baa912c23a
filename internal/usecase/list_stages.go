package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// ListStages returns the helpdesk pipeline stages.
type ListStages struct {
	catalog domain.Catalog
}

// NewListStages creates a new ListStages usecase.
func NewListStages(catalog domain.Catalog) *ListStages {
	return &ListStages{catalog: catalog}
}

// Execute returns all stages in pipeline order.
func (uc *ListStages) Execute(ctx context.Context) ([]domain.Stage, error) {
	return uc.catalog.Stages(ctx)
}
