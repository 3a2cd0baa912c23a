package logger

import (
	"context"
	"log/slog"
	"time"
)

// ContextKey is the type for context keys used in logging
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserIDKey    ContextKey = "user_id"
	OperationKey ContextKey = "operation"

	// Business context keys follow OpenTelemetry attribute naming
	// with a 'helpdesk.' prefix.
	TicketIDKey   ContextKey = "helpdesk.ticket.id"
	CompanyIDKey  ContextKey = "helpdesk.company.id"
	PartnerIDKey  ContextKey = "helpdesk.partner.id"
	ERPModelKey   ContextKey = "helpdesk.erp.model"
	TemplateIDKey ContextKey = "helpdesk.template.id"
)

// GlobalContext is the global ContextLogger instance
var GlobalContext *ContextLogger

// ContextLogger wraps a slog.Logger to add context-aware logging
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a new ContextLogger wrapping the provided logger
func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext adds context values to log entries and returns a new logger
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	args := make([]any, 0)

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		args = append(args, "request_id", requestID.(string))
	}

	if userID := ctx.Value(UserIDKey); userID != nil {
		args = append(args, "user_id", userID.(string))
	}

	if operation := ctx.Value(OperationKey); operation != nil {
		args = append(args, "operation", operation.(string))
	}

	if ticketID := ctx.Value(TicketIDKey); ticketID != nil {
		args = append(args, string(TicketIDKey), ticketID.(string))
	}

	if companyID := ctx.Value(CompanyIDKey); companyID != nil {
		args = append(args, string(CompanyIDKey), companyID.(string))
	}

	if partnerID := ctx.Value(PartnerIDKey); partnerID != nil {
		args = append(args, string(PartnerIDKey), partnerID.(string))
	}

	if model := ctx.Value(ERPModelKey); model != nil {
		args = append(args, string(ERPModelKey), model.(string))
	}

	if templateID := ctx.Value(TemplateIDKey); templateID != nil {
		args = append(args, string(TemplateIDKey), templateID.(string))
	}

	return cl.logger.With(args...)
}

// LogDuration logs an operation completion with duration in milliseconds
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, durationMs int64) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", durationMs,
	)
}

// LogError logs an operation failure with error details
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err,
	)
}

// LogDurationTime is a convenience function that takes time.Duration
func (cl *ContextLogger) LogDurationTime(ctx context.Context, operation string, duration time.Duration) {
	cl.LogDuration(ctx, operation, duration.Milliseconds())
}

// Context helper functions

// WithRequestID adds the request ID to context for observability
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserID adds the acting user's identifier to context for observability
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithTicketID adds the ticket ID to context for observability
func WithTicketID(ctx context.Context, ticketID string) context.Context {
	return context.WithValue(ctx, TicketIDKey, ticketID)
}

// WithCompanyID adds the company ID to context for observability
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, CompanyIDKey, companyID)
}

// WithPartnerID adds the ERP contact ID to context for observability
func WithPartnerID(ctx context.Context, partnerID string) context.Context {
	return context.WithValue(ctx, PartnerIDKey, partnerID)
}

// WithERPModel adds the ERP model name to context for observability
func WithERPModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ERPModelKey, model)
}

// WithTemplateID adds the mail template ID to context for observability
func WithTemplateID(ctx context.Context, templateID string) context.Context {
	return context.WithValue(ctx, TemplateIDKey, templateID)
}
