package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"helpdesk-gateway/internal/domain"
	"helpdesk-gateway/internal/infrastructure/metrics"

	"github.com/kolo/xmlrpc"
)

const ticketModel = "helpdesk.ticket"

// emailPattern mirrors the address shape the partner registry accepts.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// OdooGateway talks to the ERP over XML-RPC. Implements domain.CustomerVerifier,
// domain.TicketStore, domain.MessageStore, domain.PartnerStore, domain.Catalog
// and domain.MailSender.
type OdooGateway struct {
	common   *xmlrpc.Client
	object   *xmlrpc.Client
	db       string
	username string
	apiKey   string
	timeout  time.Duration
	logger   *slog.Logger
	uid      int64
}

// NewOdooGateway creates an Odoo gateway with a tuned HTTP transport.
// Connect must succeed before any model operation is usable.
func NewOdooGateway(baseURL, db, username, apiKey string, timeout time.Duration, logger *slog.Logger) (*OdooGateway, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	base := strings.TrimRight(baseURL, "/")
	common, err := xmlrpc.NewClient(base+"/xmlrpc/2/common", transport)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOdooUnavailable, err)
	}
	object, err := xmlrpc.NewClient(base+"/xmlrpc/2/object", transport)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOdooUnavailable, err)
	}

	return &OdooGateway{
		common:   common,
		object:   object,
		db:       db,
		username: username,
		apiKey:   apiKey,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Connect authenticates against the ERP and pins the session uid.
func (g *OdooGateway) Connect(ctx context.Context) error {
	var info any
	if err := g.call(ctx, g.common, "version", []any{}, &info); err != nil {
		return err
	}

	var raw any
	args := []any{g.db, g.username, g.apiKey, map[string]any{}}
	if err := g.call(ctx, g.common, "authenticate", args, &raw); err != nil {
		return err
	}

	// A rejected login comes back as boolean false rather than a fault.
	uid := asInt64(raw)
	if uid == 0 {
		return fmt.Errorf("%w: authentication rejected for %q", domain.ErrOdooUnavailable, g.username)
	}
	g.uid = uid

	version := ""
	if m, ok := info.(map[string]any); ok {
		version = asString(m["server_version"])
	}
	g.logger.InfoContext(ctx, "connected to odoo", "uid", uid, "server_version", version)
	return nil
}

// call dispatches one XML-RPC call, honoring the context deadline.
func (g *OdooGateway) call(ctx context.Context, client *xmlrpc.Client, method string, args []any, reply any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	call := client.Go(method, args, reply, nil)
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrOdooUnavailable, ctx.Err())
	case <-call.Done:
		if call.Error != nil {
			return fmt.Errorf("%w: %w", domain.ErrOdooUnavailable, call.Error)
		}
		return nil
	}
}

// executeKw invokes method on an ERP model through the object endpoint.
func (g *OdooGateway) executeKw(ctx context.Context, model, method string, args []any, options map[string]any, reply any) error {
	if g.uid == 0 {
		return fmt.Errorf("%w: not authenticated", domain.ErrOdooUnavailable)
	}
	if options == nil {
		options = map[string]any{}
	}

	start := time.Now()
	err := g.call(ctx, g.object, "execute_kw",
		[]any{g.db, g.uid, g.apiKey, model, method, args, options}, reply)

	status := "ok"
	if err != nil {
		status = "error"
		g.logger.ErrorContext(ctx, "odoo call failed", "model", model, "method", method, "error", err)
	}
	metrics.RecordOdooCall(model, method, status, time.Since(start).Seconds())
	return err
}

func (g *OdooGateway) searchIDs(ctx context.Context, model string, filter []any) ([]int64, error) {
	var raw []any
	if err := g.executeKw(ctx, model, "search", []any{filter}, nil, &raw); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		ids = append(ids, asInt64(v))
	}
	return ids, nil
}

func (g *OdooGateway) searchRead(ctx context.Context, model string, filter []any, options map[string]any) ([]map[string]any, error) {
	var records []map[string]any
	if err := g.executeKw(ctx, model, "search_read", []any{filter}, options, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (g *OdooGateway) searchCount(ctx context.Context, model string, filter []any) (int64, error) {
	var n int64
	if err := g.executeKw(ctx, model, "search_count", []any{filter}, nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *OdooGateway) create(ctx context.Context, model string, values, options map[string]any) (int64, error) {
	var id int64
	if err := g.executeKw(ctx, model, "create", []any{values}, options, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func partnerFilter(email string, companyID int64) []any {
	return []any{
		[]any{"email", "=", email},
		[]any{"company_id", "=", companyID},
	}
}

func companyContext(companyID int64) map[string]any {
	return map[string]any{
		"force_company":       companyID,
		"allowed_company_ids": []int64{companyID},
	}
}

// VerifyCustomer checks that email is a registered contact of the company,
// registering it on first sight. A rejected address is unverified, not an error.
func (g *OdooGateway) VerifyCustomer(ctx context.Context, email string, companyID int64) (bool, error) {
	id, err := g.RegisterPartner(ctx, email, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			return false, nil
		}
		return false, err
	}
	return id != 0, nil
}

// RegisterPartner returns the contact id for email under the company,
// creating the record when none exists yet.
func (g *OdooGateway) RegisterPartner(ctx context.Context, email string, companyID int64) (int64, error) {
	if !emailPattern.MatchString(email) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidEmail, email)
	}

	ids, err := g.searchIDs(ctx, "res.partner", partnerFilter(email, companyID))
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}

	name, _, _ := strings.Cut(email, "@")
	id, err := g.create(ctx, "res.partner", map[string]any{
		"name":       name,
		"email":      email,
		"company_id": companyID,
	}, nil)
	if err != nil {
		return 0, err
	}
	g.logger.InfoContext(ctx, "partner registered", "partner_id", id, "company_id", companyID)
	return id, nil
}

// PartnerByEmail looks up a contact without creating one.
func (g *OdooGateway) PartnerByEmail(ctx context.Context, email string, companyID int64) (*domain.Partner, error) {
	records, err := g.searchRead(ctx, "res.partner", partnerFilter(email, companyID), map[string]any{
		"fields": []string{"id", "name", "email"},
		"limit":  1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrPartnerNotFound
	}

	r := records[0]
	return &domain.Partner{
		ID:    asInt64(r["id"]),
		Name:  asString(r["name"]),
		Email: asString(r["email"]),
	}, nil
}

// UpdatePartnerEmail re-points an existing contact to a new address.
func (g *OdooGateway) UpdatePartnerEmail(ctx context.Context, email, newEmail string, companyID int64) error {
	if !emailPattern.MatchString(newEmail) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEmail, newEmail)
	}

	ids, err := g.searchIDs(ctx, "res.partner", partnerFilter(email, companyID))
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return domain.ErrPartnerNotFound
	}

	var ok bool
	return g.executeKw(ctx, "res.partner", "write",
		[]any{[]int64{ids[0]}, map[string]any{"email": newEmail}}, nil, &ok)
}

// CreateTicket registers the reporter as a contact and opens the ticket
// under the company.
func (g *OdooGateway) CreateTicket(ctx context.Context, t domain.NewTicket) (int64, error) {
	partnerID, err := g.RegisterPartner(ctx, t.Email, t.CompanyID)
	if err != nil {
		return 0, err
	}

	id, err := g.create(ctx, ticketModel, map[string]any{
		"name":        t.Subject,
		"description": t.Description,
		"company_id":  t.CompanyID,
		"partner_id":  partnerID,
	}, map[string]any{"context": companyContext(t.CompanyID)})
	if err != nil {
		return 0, err
	}
	g.logger.InfoContext(ctx, "ticket created", "ticket_id", id, "company_id", t.CompanyID)
	return id, nil
}

// TicketByID loads one ticket with its message thread.
func (g *OdooGateway) TicketByID(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	records, err := g.searchRead(ctx, ticketModel, []any{[]any{"id", "=", ticketID}}, map[string]any{
		"fields": ticketFields,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrTicketNotFound
	}

	ticket := decodeTicket(records[0])
	messages, err := g.ticketMessages(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	// The final thread entry is the ERP's own creation log; readers get the
	// conversation without it.
	if len(messages) > 0 {
		messages = messages[:len(messages)-1]
	}
	ticket.Messages = messages
	return &ticket, nil
}

// Tickets lists tickets matching the filter, one page at a time.
func (g *OdooGateway) Tickets(ctx context.Context, filter domain.TicketFilter, page domain.Page) (*domain.TicketPage, error) {
	conds := []any{}
	if filter.CompanyID != 0 {
		conds = append(conds, []any{"company_id", "=", filter.CompanyID})
	}
	if filter.PartnerID != 0 {
		conds = append(conds, []any{"partner_id", "=", filter.PartnerID})
	}

	records, err := g.searchRead(ctx, ticketModel, conds, map[string]any{
		"offset": page.Offset(),
		"limit":  page.Limit,
		"fields": ticketFields,
	})
	if err != nil {
		return nil, err
	}
	total, err := g.searchCount(ctx, ticketModel, conds)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(records))
	for _, r := range records {
		tickets = append(tickets, decodeTicket(r))
	}
	return &domain.TicketPage{Tickets: tickets, Total: total}, nil
}

// TicketsByEmail lists the contact's tickets with their message threads.
func (g *OdooGateway) TicketsByEmail(ctx context.Context, email string, companyID int64, page domain.Page) (*domain.TicketPage, error) {
	ids, err := g.searchIDs(ctx, "res.partner", partnerFilter(email, companyID))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrPartnerNotFound
	}

	tp, err := g.Tickets(ctx, domain.TicketFilter{CompanyID: companyID, PartnerID: ids[0]}, page)
	if err != nil {
		return nil, err
	}
	for i := range tp.Tickets {
		messages, err := g.ticketMessages(ctx, tp.Tickets[i].ID)
		if err != nil {
			return nil, err
		}
		tp.Tickets[i].Messages = messages
	}
	return tp, nil
}

// TicketBelongsTo reports whether the ticket exists under the contact.
func (g *OdooGateway) TicketBelongsTo(ctx context.Context, ticketID, partnerID int64) (bool, error) {
	ids, err := g.searchIDs(ctx, ticketModel, []any{
		[]any{"id", "=", ticketID},
		[]any{"partner_id", "=", partnerID},
	})
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// UpdateTicket writes the set fields. Nothing set is a no-op.
func (g *OdooGateway) UpdateTicket(ctx context.Context, ticketID int64, update domain.TicketUpdate) error {
	values := map[string]any{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.StageID != nil {
		values["stage_id"] = *update.StageID
	}
	if len(values) == 0 {
		return nil
	}

	ids, err := g.searchIDs(ctx, ticketModel, []any{[]any{"id", "=", ticketID}})
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return domain.ErrTicketNotFound
	}

	var ok bool
	return g.executeKw(ctx, ticketModel, "write", []any{[]int64{ticketID}, values}, nil, &ok)
}

// DeleteTicket removes the ticket.
func (g *OdooGateway) DeleteTicket(ctx context.Context, ticketID int64) error {
	var ok bool
	if err := g.executeKw(ctx, ticketModel, "unlink", []any{[]int64{ticketID}}, nil, &ok); err != nil {
		return err
	}
	if !ok {
		return domain.ErrTicketNotFound
	}
	g.logger.InfoContext(ctx, "ticket deleted", "ticket_id", ticketID)
	return nil
}

// Messages loads a ticket's message thread.
func (g *OdooGateway) Messages(ctx context.Context, ticketID int64) ([]domain.Message, error) {
	return g.ticketMessages(ctx, ticketID)
}

func (g *OdooGateway) ticketMessages(ctx context.Context, ticketID int64) ([]domain.Message, error) {
	records, err := g.searchRead(ctx, "mail.message",
		[]any{[]any{"res_id", "=", ticketID}, []any{"model", "=", ticketModel}},
		map[string]any{"fields": []string{"id", "body", "date", "author_id"}})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(records))
	for _, r := range records {
		messages = append(messages, domain.Message{
			ID:     asInt64(r["id"]),
			Body:   asString(r["body"]),
			Date:   asTime(r["date"]),
			Author: asRef(r["author_id"]),
		})
	}
	return messages, nil
}

// AddMessage posts a message on the ticket thread.
func (g *OdooGateway) AddMessage(ctx context.Context, ticketID, authorID int64, body string) (int64, error) {
	values := map[string]any{
		"body":   body,
		"res_id": ticketID,
		"model":  ticketModel,
	}
	if authorID != 0 {
		values["author_id"] = authorID
	}
	return g.create(ctx, "mail.message", values, nil)
}

// AttachFile stores the file on the ticket and posts a thread entry linking it.
func (g *OdooGateway) AttachFile(ctx context.Context, ticketID int64, file domain.Attachment) (int64, error) {
	attachmentID, err := g.create(ctx, "ir.attachment", map[string]any{
		"name":        file.FileName,
		"datas":       base64.StdEncoding.EncodeToString(file.Content),
		"store_fname": file.FileName,
		"res_model":   ticketModel,
		"res_id":      ticketID,
	}, nil)
	if err != nil {
		return 0, err
	}

	_, err = g.create(ctx, "mail.message", map[string]any{
		"body":           "Attachment for the ticket",
		"res_id":         ticketID,
		"model":          ticketModel,
		"attachment_ids": []any{[]any{6, 0, []int64{attachmentID}}},
	}, nil)
	if err != nil {
		return 0, err
	}
	g.logger.InfoContext(ctx, "file attached", "ticket_id", ticketID, "attachment_id", attachmentID)
	return attachmentID, nil
}

// Companies lists ERP companies, one page at a time.
func (g *OdooGateway) Companies(ctx context.Context, page domain.Page) (*domain.CompanyPage, error) {
	records, err := g.searchRead(ctx, "res.company", []any{}, map[string]any{
		"offset": page.Offset(),
		"limit":  page.Limit,
		"fields": []string{"id", "name"},
	})
	if err != nil {
		return nil, err
	}
	total, err := g.searchCount(ctx, "res.company", []any{})
	if err != nil {
		return nil, err
	}

	companies := make([]domain.Company, 0, len(records))
	for _, r := range records {
		companies = append(companies, domain.Company{
			ID:   asInt64(r["id"]),
			Name: asString(r["name"]),
		})
	}
	return &domain.CompanyPage{Companies: companies, Total: total}, nil
}

// Stages lists helpdesk stages in pipeline order.
func (g *OdooGateway) Stages(ctx context.Context) ([]domain.Stage, error) {
	records, err := g.searchRead(ctx, "helpdesk.stage", []any{}, map[string]any{
		"fields": []string{"id", "name", "sequence"},
		"order":  "sequence asc",
	})
	if err != nil {
		return nil, err
	}

	stages := make([]domain.Stage, 0, len(records))
	for _, r := range records {
		stages = append(stages, domain.Stage{
			ID:       asInt64(r["id"]),
			Name:     asString(r["name"]),
			Sequence: asInt64(r["sequence"]),
		})
	}
	return stages, nil
}

// MailTemplates lists the notification templates registered in the ERP.
func (g *OdooGateway) MailTemplates(ctx context.Context) ([]domain.MailTemplate, error) {
	records, err := g.searchRead(ctx, "mail.template", []any{}, map[string]any{
		"fields": []string{"id", "name", "model"},
	})
	if err != nil {
		return nil, err
	}

	templates := make([]domain.MailTemplate, 0, len(records))
	for _, r := range records {
		templates = append(templates, domain.MailTemplate{
			ID:    asInt64(r["id"]),
			Name:  asString(r["name"]),
			Model: asString(r["model"]),
		})
	}
	return templates, nil
}

// SendTemplate sends the template mail for a ticket under the company's
// sending identity.
func (g *OdooGateway) SendTemplate(ctx context.Context, templateID, ticketID, companyID int64) error {
	var result any
	return g.executeKw(ctx, "mail.template", "send_mail",
		[]any{templateID, ticketID},
		map[string]any{"context": companyContext(companyID)}, &result)
}
