package usecase

import (
	"context"
	"log/slog"

	"helpdesk-gateway/internal/domain"
)

// UpdatePartnerEmail moves an existing contact to a new address.
type UpdatePartnerEmail struct {
	partners domain.PartnerStore
	logger   *slog.Logger
}

// NewUpdatePartnerEmail creates a new UpdatePartnerEmail usecase.
func NewUpdatePartnerEmail(partners domain.PartnerStore, logger *slog.Logger) *UpdatePartnerEmail {
	return &UpdatePartnerEmail{partners: partners, logger: logger}
}

// Execute re-points the contact identified by email to newEmail.
func (uc *UpdatePartnerEmail) Execute(ctx context.Context, email, newEmail string, companyID int64) error {
	if err := uc.partners.UpdatePartnerEmail(ctx, email, newEmail, companyID); err != nil {
		return err
	}
	uc.logger.InfoContext(ctx, "partner email updated", "company_id", companyID)
	return nil
}
