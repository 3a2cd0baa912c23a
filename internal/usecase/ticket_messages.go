package usecase

import (
	"context"
	"log/slog"

	"helpdesk-gateway/internal/domain"
)

// TicketMessages reads and extends a ticket's message thread.
type TicketMessages struct {
	messages domain.MessageStore
	partners domain.PartnerStore
	tickets  domain.TicketStore
	logger   *slog.Logger
}

// NewTicketMessages creates a new TicketMessages usecase.
func NewTicketMessages(messages domain.MessageStore, partners domain.PartnerStore, tickets domain.TicketStore, logger *slog.Logger) *TicketMessages {
	return &TicketMessages{messages: messages, partners: partners, tickets: tickets, logger: logger}
}

// List returns the ticket's thread in the ERP's order.
func (uc *TicketMessages) List(ctx context.Context, ticketID int64) ([]domain.Message, error) {
	return uc.messages.Messages(ctx, ticketID)
}

// Add posts a message authored by the calling customer. The caller must be a
// registered contact and the ticket must be theirs.
func (uc *TicketMessages) Add(ctx context.Context, ticketID int64, email string, companyID int64, body string) (int64, error) {
	partner, err := uc.partners.PartnerByEmail(ctx, email, companyID)
	if err != nil {
		return 0, err
	}

	owned, err := uc.tickets.TicketBelongsTo(ctx, ticketID, partner.ID)
	if err != nil {
		return 0, err
	}
	if !owned {
		return 0, domain.ErrTicketNotFound
	}

	id, err := uc.messages.AddMessage(ctx, ticketID, partner.ID, body)
	if err != nil {
		return 0, err
	}
	uc.logger.InfoContext(ctx, "message added", "ticket_id", ticketID, "message_id", id)
	return id, nil
}
