package handler

import (
	"io"
	"net/http"

	"helpdesk-gateway/internal/domain"
	"helpdesk-gateway/internal/usecase"

	"github.com/labstack/echo/v4"
)

// MessageHandler handles the ticket thread and attachment endpoints.
type MessageHandler struct {
	thread *usecase.TicketMessages
	attach *usecase.AttachFile
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(thread *usecase.TicketMessages, attach *usecase.AttachFile) *MessageHandler {
	return &MessageHandler{thread: thread, attach: attach}
}

// addMessageRequest is the body of POST /v1/tickets/:id/messages.
type addMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// List processes GET /v1/tickets/:id/messages.
func (h *MessageHandler) List(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	messages, err := h.thread.List(c.Request().Context(), id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toMessageResponses(messages))
}

// Add processes POST /v1/tickets/:id/messages.
func (h *MessageHandler) Add(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	claims, err := requestClaims(c)
	if err != nil {
		return err
	}

	var req addMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	messageID, err := h.thread.Add(c.Request().Context(), id, claims.Email, claims.CompanyID, req.Message)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": messageID})
}

// Attach processes POST /v1/tickets/:id/attachments. The file arrives as the
// multipart form field "file".
func (h *MessageHandler) Attach(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	if len(content) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty file")
	}

	attachmentID, err := h.attach.Execute(c.Request().Context(), id, domain.Attachment{
		FileName: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": attachmentID})
}
