package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/atelier-shop/assistant-bot/internal/errors"
	"github.com/atelier-shop/assistant-bot/internal/intent"
	"github.com/atelier-shop/assistant-bot/internal/order"
	"github.com/atelier-shop/assistant-bot/internal/session"
	"github.com/atelier-shop/assistant-bot/pkg/metrics"
)

const (
	routeSession  = "session"
	routeFallback = "fallback"

	// MsgBusy is returned when a previous turn for the same conversation is
	// still being processed.
	MsgBusy = "One moment, I'm still handling your previous message."
)

// Service routes each incoming turn either into the conversation's order
// session or to the fallback responder, and returns the reply text.
type Service struct {
	classifier      intent.Classifier
	sessions        *session.Registry
	machine         *order.Machine
	fallback        Responder
	fallbackTimeout time.Duration
	errHandler      *apperrors.Handler
	log             *slog.Logger
}

// NewService wires the dialogue facade.
func NewService(
	classifier intent.Classifier,
	sessions *session.Registry,
	machine *order.Machine,
	fallback Responder,
	fallbackTimeout time.Duration,
	errHandler *apperrors.Handler,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		classifier:      classifier,
		sessions:        sessions,
		machine:         machine,
		fallback:        fallback,
		fallbackTimeout: fallbackTimeout,
		errHandler:      errHandler,
		log:             log,
	}
}

// Respond handles one user turn for the given conversation. An active session
// always receives the message, even when it looks like a new order trigger;
// otherwise the message goes to the session only on order intent, and to the
// fallback responder in every other case.
func (s *Service) Respond(ctx context.Context, conversationID, message string) string {
	start := time.Now()

	if s.isSessionTurn(ctx, conversationID, message) {
		reply, status := s.respondSession(ctx, conversationID, message)
		metrics.RecordTurn(routeSession, status, time.Since(start))
		return reply
	}

	reply, status := s.respondFallback(ctx, conversationID, message)
	metrics.RecordTurn(routeFallback, status, time.Since(start))
	return reply
}

// CancelSession drops any in-progress order flow for the conversation.
func (s *Service) CancelSession(ctx context.Context, conversationID string) error {
	return s.sessions.Clear(ctx, conversationID)
}

func (s *Service) isSessionTurn(ctx context.Context, conversationID, message string) bool {
	sess, err := s.sessions.Peek(ctx, conversationID)
	if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		s.log.Error("failed to inspect session, falling back to intent match",
			slog.String("conversation_id", conversationID),
			slog.Any("error", err))
	}

	if sess != nil && sess.Active {
		return true
	}

	return s.classifier.IsOrderIntent(message)
}

func (s *Service) respondSession(ctx context.Context, conversationID, message string) (string, string) {
	reply, err := s.sessions.WithSession(ctx, conversationID, func(sess *order.Session) (string, error) {
		return s.machine.Advance(ctx, sess, message)
	})

	if errors.Is(err, session.ErrSessionLocked) {
		return MsgBusy, "busy"
	}

	if err != nil {
		// Advance already produced a user-facing reply for store and oracle
		// faults; the handler logs and reports the underlying error.
		userMsg, _ := s.errHandler.Handle(ctx, err)
		if reply == "" {
			reply = userMsg
		}
		return reply, "error"
	}

	return reply, "ok"
}

func (s *Service) respondFallback(ctx context.Context, conversationID, message string) (string, string) {
	// The fallback call can suspend on network latency; it deliberately runs
	// outside any session lock.
	callCtx, cancel := context.WithTimeout(ctx, s.fallbackTimeout)
	defer cancel()

	reply, err := s.fallback.Respond(callCtx, message)
	if err != nil {
		metrics.RecordFallbackFailure()
		s.log.Error("fallback responder failed",
			slog.String("conversation_id", conversationID),
			slog.Any("error", err))

		userMsg, _ := s.errHandler.Handle(ctx, apperrors.NewFallbackError(err))
		return userMsg, "error"
	}

	return reply, "ok"
}
