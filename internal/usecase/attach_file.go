package usecase

import (
	"context"
	"log/slog"

	"helpdesk-gateway/internal/domain"
)

// AttachFile stores an uploaded file on a ticket.
type AttachFile struct {
	messages domain.MessageStore
	logger   *slog.Logger
}

// NewAttachFile creates a new AttachFile usecase.
func NewAttachFile(messages domain.MessageStore, logger *slog.Logger) *AttachFile {
	return &AttachFile{messages: messages, logger: logger}
}

// Execute stores the file and returns the attachment id.
func (uc *AttachFile) Execute(ctx context.Context, ticketID int64, file domain.Attachment) (int64, error) {
	id, err := uc.messages.AttachFile(ctx, ticketID, file)
	if err != nil {
		return 0, err
	}
	uc.logger.InfoContext(ctx, "attachment stored",
		"ticket_id", ticketID, "attachment_id", id, "file_name", file.FileName)
	return id, nil
}
