package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// DeleteTicket removes a ticket.
type DeleteTicket struct {
	tickets domain.TicketStore
}

// NewDeleteTicket creates a new DeleteTicket usecase.
func NewDeleteTicket(tickets domain.TicketStore) *DeleteTicket {
	return &DeleteTicket{tickets: tickets}
}

// Execute deletes the ticket or returns domain.ErrTicketNotFound.
func (uc *DeleteTicket) Execute(ctx context.Context, ticketID int64) error {
	return uc.tickets.DeleteTicket(ctx, ticketID)
}
