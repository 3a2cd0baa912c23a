package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// GetTicket loads one ticket with its message thread.
type GetTicket struct {
	tickets domain.TicketStore
}

// NewGetTicket creates a new GetTicket usecase.
func NewGetTicket(tickets domain.TicketStore) *GetTicket {
	return &GetTicket{tickets: tickets}
}

// Execute returns the ticket or domain.ErrTicketNotFound.
func (uc *GetTicket) Execute(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return uc.tickets.TicketByID(ctx, ticketID)
}
