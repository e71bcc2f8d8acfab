package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/kartka-game/kartka-bot/internal/bot/handlers"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/game"
	"github.com/kartka-game/kartka-bot/pkg/metrics"
)

// RecoveryMiddleware catches panics, reports them via the centralized
// handler and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)

					userMsg := "Щось пішло не так. Спробуй пізніше."
					if errHandler != nil {
						appErr := apperrors.NewStorage(fmt.Errorf("panic recovered: %v", r))
						if msg := errHandler.Handle(context.Background(), appErr); msg != "" {
							userMsg = msg
						}
					}

					if c != nil {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging
// for handler failures.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg := "Щось пішло не так. Спробуй пізніше."
			if errHandler != nil {
				if msg := errHandler.Handle(context.Background(), err); msg != "" {
					userMsg = msg
				}
			}

			if c != nil {
				_ = c.Send(userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs each update and records command metrics.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()

			var userID int64
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}

			action := ""
			if c != nil {
				if cb := c.Callback(); cb != nil {
					action = cb.Data
				} else {
					action = c.Text()
				}
			}

			err := next(c)

			status := "ok"
			if err != nil {
				status = "error"
			}
			if cmd, ok := commandName(action); ok {
				metrics.RecordCommand(strings.TrimPrefix(cmd, "/"), status, time.Since(start))
			}

			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("action", action),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// TouchMiddleware upserts the sender's profile on every update, so every
// user the bot has seen is a valid duel or gift target.
func TouchMiddleware(svc *game.Service, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if svc != nil && c != nil && c.Sender() != nil {
				sender := c.Sender()
				if _, err := svc.RegisterOrTouch(context.Background(), sender.ID, sender.Username, sender.FirstName); err != nil {
					log.Error("failed to touch user",
						slog.Int64("user_id", sender.ID), slog.Any("error", err))
				}
			}

			return next(c)
		}
	}
}
