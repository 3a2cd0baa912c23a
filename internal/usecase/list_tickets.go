package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// ListTickets pages through tickets, optionally narrowed to a company or a
// contact.
type ListTickets struct {
	tickets domain.TicketStore
}

// NewListTickets creates a new ListTickets usecase.
func NewListTickets(tickets domain.TicketStore) *ListTickets {
	return &ListTickets{tickets: tickets}
}

// Execute returns one page of tickets matching the filter.
func (uc *ListTickets) Execute(ctx context.Context, filter domain.TicketFilter, page domain.Page) (*domain.TicketPage, error) {
	if !page.Valid() {
		return nil, domain.ErrInvalidPagination
	}
	return uc.tickets.Tickets(ctx, filter, page)
}
