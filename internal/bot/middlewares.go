package bot

import (
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"
)

// RecoveryMiddleware catches panics in handlers and notifies the user.
func RecoveryMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())))

					if c != nil {
						if sendErr := c.Send("⚠️ Something went wrong. Please try again later."); sendErr != nil {
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

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(c telebot.Context) error {
			start := time.Now()

			chatID := int64(0)
			if c != nil && c.Chat() != nil {
				chatID = c.Chat().ID
			}

			err := next(c)

			log.Info("handled update",
				slog.Int64("chat_id", chatID),
				slog.Duration("duration", time.Since(start)),
				slog.Bool("ok", err == nil))

			return err
		}
	}
}
