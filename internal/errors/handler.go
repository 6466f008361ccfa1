package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/atelier-shop/assistant-bot/pkg/logger"
)

const fallbackUserMessage = "Something went wrong. Please try again later."

// severityRank orders severities for the reporting threshold.
var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Handler translates internal errors into user replies. Every error is logged
// at a level matching its severity; only errors at or above the reporting
// threshold reach Sentry, so validation noise never pages anyone.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
	reportAt      Severity
}

// NewHandler constructs a Handler reporting high and critical errors to Sentry.
func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
		reportAt:      SeverityHigh,
	}
}

// Handle logs the error and returns the message to show the user along with
// whether the failed operation may be retried.
func (h *Handler) Handle(ctx context.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := h.log
	if log == nil {
		log = slog.Default()
	}

	appErr := classify(err)

	args := []any{
		slog.String("code", appErr.Code),
		slog.String("message", appErr.Message),
		slog.String("severity", string(appErr.Severity)),
		slog.Bool("retryable", appErr.Retryable),
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		args = append(args, slog.String("correlation_id", correlationID))
	}

	log.Log(ctx, levelFor(appErr.Severity), "dialogue error", args...)

	if h.sentryEnabled && severityRank[appErr.Severity] >= severityRank[h.reportAt] {
		report(appErr)
	}

	userMessage := appErr.UserMessage
	if userMessage == "" {
		userMessage = fallbackUserMessage
	}

	return userMessage, appErr.Retryable
}

// classify normalizes arbitrary errors so every fault flows through one path.
// Errors that did not originate as an AppError are treated as high-severity
// and non-retryable.
func classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr
	}

	return &AppError{
		Code:      "E000",
		Message:   err.Error(),
		Severity:  SeverityHigh,
		Retryable: false,
		cause:     err,
	}
}

func levelFor(severity Severity) slog.Level {
	switch severity {
	case SeverityLow, SeverityMedium:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func report(appErr *AppError) {
	sentry.WithScope(func(scope *sentry.Scope) {
		if appErr.Code != "" {
			scope.SetTag("code", appErr.Code)
		}
		scope.SetTag("severity", string(appErr.Severity))
		if appErr.Retryable {
			scope.SetTag("retryable", "true")
		}

		sentry.CaptureException(appErr)
	})
}
