package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// RegisterPartner enrolls an email address as a contact of a company.
type RegisterPartner struct {
	partners domain.PartnerStore
}

// NewRegisterPartner creates a new RegisterPartner usecase.
func NewRegisterPartner(partners domain.PartnerStore) *RegisterPartner {
	return &RegisterPartner{partners: partners}
}

// Execute returns the contact id, creating the record when the address is new.
func (uc *RegisterPartner) Execute(ctx context.Context, email string, companyID int64) (int64, error) {
	return uc.partners.RegisterPartner(ctx, email, companyID)
}
