package usecase

import (
	"context"
	"log/slog"

	"helpdesk-gateway/internal/domain"
)

// CreateTicket opens a helpdesk ticket for a verified customer.
type CreateTicket struct {
	tickets    domain.TicketStore
	mailer     domain.MailSender
	templateID int64
	logger     *slog.Logger
}

// NewCreateTicket creates a new CreateTicket usecase. templateID selects the
// confirmation mail sent to the reporter.
func NewCreateTicket(tickets domain.TicketStore, mailer domain.MailSender, templateID int64, logger *slog.Logger) *CreateTicket {
	return &CreateTicket{tickets: tickets, mailer: mailer, templateID: templateID, logger: logger}
}

// Execute creates the ticket and sends the confirmation mail. A failed mail
// is logged and does not fail the creation.
func (uc *CreateTicket) Execute(ctx context.Context, in domain.NewTicket) (int64, error) {
	id, err := uc.tickets.CreateTicket(ctx, in)
	if err != nil {
		return 0, err
	}

	if err := uc.mailer.SendTemplate(ctx, uc.templateID, id, in.CompanyID); err != nil {
		uc.logger.WarnContext(ctx, "ticket confirmation mail failed",
			"ticket_id", id, "template_id", uc.templateID, "error", err)
	}
	return id, nil
}
