package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/kartka-game/kartka-bot/pkg/metrics"
)

// Handler converts engine errors into user-facing replies, logging and
// reporting them along the way.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Handle logs err and returns the message to send back to the chat.
func (h *Handler) Handle(ctx context.Context, err error) string {
	if err == nil {
		return ""
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := h.log
	if log == nil {
		log = slog.Default()
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		metrics.RecordError(string(appErr.Kind), string(appErr.Severity))

		// Expected gameplay refusals stay at debug level.
		level := slog.LevelDebug
		if appErr.Severity == SeverityHigh || appErr.Severity == SeverityCritical {
			level = slog.LevelError
		}

		log.LogAttrs(ctx, level, "game error",
			slog.String("kind", string(appErr.Kind)),
			slog.String("code", appErr.Code),
			slog.String("message", appErr.Message),
			slog.String("severity", string(appErr.Severity)),
			slog.Bool("retryable", appErr.Retryable),
		)

		if h.sentryEnabled && (appErr.Severity == SeverityCritical || appErr.Severity == SeverityHigh) {
			h.sendToSentry(err)
		}

		if appErr.UserMessage != "" {
			return appErr.UserMessage
		}
		return "Щось пішло не так. Спробуй пізніше."
	}

	metrics.RecordError("unknown", string(SeverityHigh))
	log.LogAttrs(ctx, slog.LevelError, "unknown error",
		slog.String("message", err.Error()),
	)

	if h.sentryEnabled {
		h.sendToSentry(err)
	}

	return "Щось пішло не так. Спробуй пізніше."
}

func (h *Handler) sendToSentry(err error) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		var appErr *AppError
		if errors.As(err, &appErr) && appErr != nil {
			if appErr.Code != "" {
				scope.SetTag("code", appErr.Code)
			}

			if appErr.Severity != "" {
				scope.SetTag("severity", string(appErr.Severity))
			}
		}

		sentry.CaptureException(err)
	})
}
