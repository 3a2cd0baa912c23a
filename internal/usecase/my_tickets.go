package usecase

import (
	"context"

	"helpdesk-gateway/internal/domain"
)

// MyTickets pages through the caller's own tickets, threads included.
type MyTickets struct {
	tickets domain.TicketStore
}

// NewMyTickets creates a new MyTickets usecase.
func NewMyTickets(tickets domain.TicketStore) *MyTickets {
	return &MyTickets{tickets: tickets}
}

// Execute returns one page of the contact's tickets.
func (uc *MyTickets) Execute(ctx context.Context, email string, companyID int64, page domain.Page) (*domain.TicketPage, error) {
	if !page.Valid() {
		return nil, domain.ErrInvalidPagination
	}
	return uc.tickets.TicketsByEmail(ctx, email, companyID, page)
}
