package usecase

import (
	"context"
	"log/slog"

	"helpdesk-gateway/internal/domain"
)

// UpdateTicket edits ticket fields and optionally appends a comment to the
// thread in the same request.
type UpdateTicket struct {
	tickets  domain.TicketStore
	messages domain.MessageStore
	logger   *slog.Logger
}

// NewUpdateTicket creates a new UpdateTicket usecase.
func NewUpdateTicket(tickets domain.TicketStore, messages domain.MessageStore, logger *slog.Logger) *UpdateTicket {
	return &UpdateTicket{tickets: tickets, messages: messages, logger: logger}
}

// Execute writes the set fields, then posts comment as an authorless thread
// entry when one is given.
func (uc *UpdateTicket) Execute(ctx context.Context, ticketID int64, update domain.TicketUpdate, comment string) error {
	if err := uc.tickets.UpdateTicket(ctx, ticketID, update); err != nil {
		return err
	}
	if comment == "" {
		return nil
	}

	if _, err := uc.messages.AddMessage(ctx, ticketID, 0, comment); err != nil {
		return err
	}
	uc.logger.InfoContext(ctx, "ticket updated with comment", "ticket_id", ticketID)
	return nil
}
