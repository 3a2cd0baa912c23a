package domain

import "context"

// ClaimsCodec decodes bearer credentials into claims and encodes claims back
// into credentials.
type ClaimsCodec interface {
	Decode(credential string) (*Claims, error)
	Encode(claims *Claims) (string, error)
}

// VerificationCache caches customer verification outcomes per (email, company).
type VerificationCache interface {
	Get(email string, companyID int64) (verified bool, found bool)
	Set(email string, companyID int64, verified bool)
}

// CustomerVerifier checks that an email belongs to a known customer of the
// company, registering the contact on first sight.
type CustomerVerifier interface {
	VerifyCustomer(ctx context.Context, email string, companyID int64) (bool, error)
}

// TicketStore manages helpdesk tickets.
type TicketStore interface {
	CreateTicket(ctx context.Context, t NewTicket) (int64, error)
	TicketByID(ctx context.Context, ticketID int64) (*Ticket, error)
	Tickets(ctx context.Context, filter TicketFilter, page Page) (*TicketPage, error)
	TicketsByEmail(ctx context.Context, email string, companyID int64, page Page) (*TicketPage, error)
	// TicketBelongsTo reports whether the ticket exists and is owned by the
	// contact.
	TicketBelongsTo(ctx context.Context, ticketID, partnerID int64) (bool, error)
	UpdateTicket(ctx context.Context, ticketID int64, update TicketUpdate) error
	DeleteTicket(ctx context.Context, ticketID int64) error
}

// MessageStore manages ticket message threads and attachments.
type MessageStore interface {
	Messages(ctx context.Context, ticketID int64) ([]Message, error)
	// AddMessage posts a message on the ticket thread. An authorID of 0
	// posts without an author, as internal notes do.
	AddMessage(ctx context.Context, ticketID, authorID int64, body string) (int64, error)
	AttachFile(ctx context.Context, ticketID int64, file Attachment) (int64, error)
}

// PartnerStore manages customer contact records.
type PartnerStore interface {
	PartnerByEmail(ctx context.Context, email string, companyID int64) (*Partner, error)
	// RegisterPartner returns the id of the contact for email, creating the
	// record when none exists yet.
	RegisterPartner(ctx context.Context, email string, companyID int64) (int64, error)
	UpdatePartnerEmail(ctx context.Context, email, newEmail string, companyID int64) error
}

// Catalog serves helpdesk reference data.
type Catalog interface {
	Companies(ctx context.Context, page Page) (*CompanyPage, error)
	Stages(ctx context.Context) ([]Stage, error)
	MailTemplates(ctx context.Context) ([]MailTemplate, error)
}

// MailSender sends template-driven notification mail.
type MailSender interface {
	SendTemplate(ctx context.Context, templateID, ticketID, companyID int64) error
}
