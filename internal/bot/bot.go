// Package bot exposes the assistant over Telegram.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/atelier-shop/assistant-bot/internal/dialogue"
	"github.com/atelier-shop/assistant-bot/pkg/config"
)

const CommandCancel = "/cancel"

// Handler processes one Telegram update.
type Handler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Bot bridges Telegram chats to the dialogue facade. Each chat is one
// conversation; the chat identifier keys the order session.
type Bot struct {
	telebot  *telebot.Bot
	dialogue *dialogue.Service
	log      *slog.Logger
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, svc *dialogue.Service, log *slog.Logger) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: cfg.Server.Port,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot:  tb,
		dialogue: svc,
		log:      log,
	}

	b.registerHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) registerHandlers() {
	wrap := func(h Handler) telebot.HandlerFunc {
		wrapped := applyMiddlewares(h,
			RecoveryMiddleware(b.log),
			LoggingMiddleware(b.log),
		)
		return func(c telebot.Context) error {
			return wrapped(c)
		}
	}

	b.telebot.Handle(CommandCancel, wrap(b.handleCancel))
	b.telebot.Handle(telebot.OnText, wrap(b.handleText))
}

func (b *Bot) handleText(c telebot.Context) error {
	if c.Chat() == nil {
		b.log.Warn("text update without chat")
		return nil
	}

	reply := b.dialogue.Respond(context.Background(), conversationID(c), c.Text())
	return c.Send(reply)
}

func (b *Bot) handleCancel(c telebot.Context) error {
	if c.Chat() == nil {
		return nil
	}

	if err := b.dialogue.CancelSession(context.Background(), conversationID(c)); err != nil {
		b.log.Error("failed to cancel session",
			slog.String("conversation_id", conversationID(c)),
			slog.Any("error", err))
		return c.Send("Something went wrong. Please try again later.")
	}

	return c.Send("Order cancelled. Let me know if you need anything else.")
}

func conversationID(c telebot.Context) string {
	return fmt.Sprintf("tg-%d", c.Chat().ID)
}

func applyMiddlewares(h Handler, middlewares ...Middleware) Handler {
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}
