package handler

import (
	"net/http"
	"time"

	"helpdesk-gateway/internal/domain"
	"helpdesk-gateway/internal/usecase"

	"github.com/labstack/echo/v4"
)

// TicketHandler handles the /v1/tickets endpoints.
type TicketHandler struct {
	create *usecase.CreateTicket
	get    *usecase.GetTicket
	list   *usecase.ListTickets
	mine   *usecase.MyTickets
	update *usecase.UpdateTicket
	remove *usecase.DeleteTicket
}

// NewTicketHandler creates a new ticket handler.
func NewTicketHandler(
	create *usecase.CreateTicket,
	get *usecase.GetTicket,
	list *usecase.ListTickets,
	mine *usecase.MyTickets,
	update *usecase.UpdateTicket,
	remove *usecase.DeleteTicket,
) *TicketHandler {
	return &TicketHandler{create: create, get: get, list: list, mine: mine, update: update, remove: remove}
}

// createTicketRequest is the body of POST /v1/tickets. The reporter identity
// comes from the verified claims, never from the body.
type createTicketRequest struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

// updateTicketRequest is the body of PUT /v1/tickets/:id. Only set fields are
// written; message appends a comment to the thread.
type updateTicketRequest struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	StageID     *int64  `json:"stageId"`
	Message     string  `json:"message"`
}

type refResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type messageResponse struct {
	ID     int64       `json:"id"`
	Body   string      `json:"body"`
	Date   time.Time   `json:"date"`
	Author refResponse `json:"author"`
}

type ticketResponse struct {
	ID          int64             `json:"id"`
	Subject     string            `json:"subject"`
	Description string            `json:"description"`
	Stage       refResponse       `json:"stage"`
	Partner     refResponse       `json:"partner"`
	Company     refResponse       `json:"company"`
	CreatedAt   time.Time         `json:"createdAt"`
	Messages    []messageResponse `json:"messages,omitempty"`
}

type ticketPageResponse struct {
	Tickets []ticketResponse `json:"tickets"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

func toRefResponse(r domain.Ref) refResponse {
	return refResponse{ID: r.ID, Name: r.Name}
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageResponse{
			ID:     m.ID,
			Body:   m.Body,
			Date:   m.Date,
			Author: toRefResponse(m.Author),
		})
	}
	return out
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID,
		Subject:     t.Name,
		Description: t.Description,
		Stage:       toRefResponse(t.Stage),
		Partner:     toRefResponse(t.Partner),
		Company:     toRefResponse(t.Company),
		CreatedAt:   t.CreatedAt,
		Messages:    toMessageResponses(t.Messages),
	}
}

func toTicketPageResponse(tp *domain.TicketPage, page domain.Page) ticketPageResponse {
	tickets := make([]ticketResponse, 0, len(tp.Tickets))
	for _, t := range tp.Tickets {
		tickets = append(tickets, toTicketResponse(t))
	}
	return ticketPageResponse{Tickets: tickets, Total: tp.Total, Page: page.Number, Limit: page.Limit}
}

// Create processes POST /v1/tickets.
func (h *TicketHandler) Create(c echo.Context) error {
	claims, err := requestClaims(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.create.Execute(c.Request().Context(), domain.NewTicket{
		Subject:     req.Subject,
		Description: req.Description,
		CompanyID:   claims.CompanyID,
		Email:       claims.Email,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

// Get processes GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ticket, err := h.get.Execute(c.Request().Context(), id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

// List processes GET /v1/tickets.
func (h *TicketHandler) List(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return mapDomainError(err)
	}

	tp, err := h.list.Execute(c.Request().Context(), domain.TicketFilter{}, page)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toTicketPageResponse(tp, page))
}

// ListByCompany processes GET /v1/tickets/by-company/:companyID.
func (h *TicketHandler) ListByCompany(c echo.Context) error {
	companyID, err := pathID(c, "companyID")
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return mapDomainError(err)
	}

	tp, err := h.list.Execute(c.Request().Context(), domain.TicketFilter{CompanyID: companyID}, page)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toTicketPageResponse(tp, page))
}

// ListByUser processes GET /v1/tickets/by-user/:userID.
func (h *TicketHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userID")
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return mapDomainError(err)
	}

	tp, err := h.list.Execute(c.Request().Context(), domain.TicketFilter{PartnerID: userID}, page)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toTicketPageResponse(tp, page))
}

// Mine processes GET /v1/tickets/mine, the caller's own tickets.
func (h *TicketHandler) Mine(c echo.Context) error {
	claims, err := requestClaims(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return mapDomainError(err)
	}

	tp, err := h.mine.Execute(c.Request().Context(), claims.Email, claims.CompanyID, page)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toTicketPageResponse(tp, page))
}

// Update processes PUT /v1/tickets/:id.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Subject == nil && req.Description == nil && req.StageID == nil && req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	update := domain.TicketUpdate{
		Name:        req.Subject,
		Description: req.Description,
		StageID:     req.StageID,
	}
	if err := h.update.Execute(c.Request().Context(), id, update, req.Message); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// Delete processes DELETE /v1/tickets/:id.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.remove.Execute(c.Request().Context(), id); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
