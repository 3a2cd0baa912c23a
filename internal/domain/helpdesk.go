package domain

import "time"

// Ref is a named reference to another record. The ERP returns relational
// fields as [id, display name] pairs; an absent relation decodes to the
// zero Ref.
type Ref struct {
	ID   int64
	Name string
}

// Ticket is a helpdesk ticket as exposed by the facade.
type Ticket struct {
	ID          int64
	Name        string
	Description string
	Stage       Ref
	Partner     Ref
	Company     Ref
	CreatedAt   time.Time
	// Messages is populated only by operations that load the thread.
	Messages []Message
}

// Message is one entry in a ticket's message thread.
type Message struct {
	ID     int64
	Body   string
	Date   time.Time
	Author Ref
}

// Attachment is an inbound file to attach to a ticket.
type Attachment struct {
	FileName string
	Content  []byte
}

// Company is an ERP company record.
type Company struct {
	ID   int64
	Name string
}

// Stage is a helpdesk pipeline stage.
type Stage struct {
	ID       int64
	Name     string
	Sequence int64
}

// MailTemplate is a notification template registered in the ERP.
type MailTemplate struct {
	ID    int64
	Name  string
	Model string
}

// Partner is a customer contact record.
type Partner struct {
	ID    int64
	Name  string
	Email string
}

// NewTicket carries the fields needed to open a ticket.
type NewTicket struct {
	Subject     string
	Description string
	CompanyID   int64
	Email       string
}

// TicketUpdate carries the mutable ticket fields. Nil pointers are left untouched.
type TicketUpdate struct {
	Name        *string
	Description *string
	StageID     *int64
}

// TicketFilter narrows ticket listings. Zero values are not applied.
type TicketFilter struct {
	CompanyID int64
	PartnerID int64
}

// Page selects one page of a listing. Number is 1-based.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the record offset of the page start.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Valid reports whether the page selection is usable.
func (p Page) Valid() bool {
	return p.Number >= 1 && p.Limit >= 1
}

// TicketPage is one page of tickets plus the unpaginated total.
type TicketPage struct {
	Tickets []Ticket
	Total   int64
}

// CompanyPage is one page of companies plus the unpaginated total.
type CompanyPage struct {
	Companies []Company
	Total     int64
}
