package order

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/atelier-shop/assistant-bot/internal/domain"
	apperrors "github.com/atelier-shop/assistant-bot/internal/errors"
)

// ErrNoSession indicates that Advance was called without a session.
var ErrNoSession = errors.New("order session is required")

// Store persists finalized orders.
type Store interface {
	Append(ctx context.Context, record domain.Record) error
}

var outcomeRecorder = func(outcome string) {}

// RegisterOutcomeRecorder allows external packages to observe completed and
// cancelled flows.
func RegisterOutcomeRecorder(recorder func(outcome string)) {
	if recorder == nil {
		outcomeRecorder = func(string) {}
		return
	}

	outcomeRecorder = recorder
}

// Machine drives an order session through its stages, one user turn at a time.
type Machine struct {
	oracle Oracle
	store  Store
	log    *slog.Logger
}

// NewMachine creates a state machine backed by the given product oracle and
// order store.
func NewMachine(oracle Oracle, store Store, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}

	return &Machine{
		oracle: oracle,
		store:  store,
		log:    log,
	}
}

// Advance consumes one user message and returns the next reply. Invalid input
// never advances the stage and never discards previously collected fields; the
// returned error reports faults (store or oracle failures) that were already
// translated into a user-facing reply.
func (m *Machine) Advance(ctx context.Context, s *Session, message string) (string, error) {
	if s == nil {
		return "", ErrNoSession
	}

	if !s.Active {
		m.transition(s, StageAskProduct)
		s.Active = true
		return MsgStart, nil
	}

	normalized := strings.ToLower(strings.TrimSpace(message))

	// Cancellation is honored at every stage of an active flow.
	if normalized == "cancel" || normalized == "no" {
		m.cancel(s)
		return MsgCancelled, nil
	}

	switch s.Stage {
	case StageAskProduct:
		return m.advanceProduct(ctx, s, message)
	case StageAskName:
		s.Data.Name = message
		m.transition(s, StageAskPhone)
		return MsgAskPhone, nil
	case StageAskPhone:
		if !IsValidPhone(message) {
			return MsgInvalidPhone, nil
		}
		s.Data.Phone = message
		m.transition(s, StageAskEmail)
		return MsgAskEmail, nil
	case StageAskEmail:
		s.Data.Email = message
		m.transition(s, StageAskConfirmation)
		return MsgAskReview, nil
	case StageAskConfirmation:
		if normalized == "review order" || normalized == "review" {
			m.transition(s, StageConfirm)
			return reviewSummary(s.Data), nil
		}
		return MsgReviewOptions, nil
	case StageConfirm:
		if normalized == "yes" || normalized == "confirm" {
			return m.commit(ctx, s)
		}
		return MsgConfirmOptions, nil
	default:
		m.log.Warn("session in unknown stage, resetting",
			slog.String("conversation_id", s.ConversationID),
			slog.String("stage", string(s.Stage)))
		m.cancel(s)
		return MsgCancelled, nil
	}
}

func (m *Machine) advanceProduct(ctx context.Context, s *Session, message string) (string, error) {
	exists, err := m.oracle.ProductExists(ctx, message)
	if err != nil {
		m.log.Error("product lookup failed",
			slog.String("conversation_id", s.ConversationID),
			slog.Any("error", err))
		return MsgInvalidProduct, apperrors.NewOracleError(err)
	}

	if !exists {
		return MsgInvalidProduct, nil
	}

	s.Data.Product = message
	m.transition(s, StageAskName)
	return MsgAskName, nil
}

// commit persists the collected order. On store failure the session stays at
// the confirm stage so the customer can retry with another "yes".
func (m *Machine) commit(ctx context.Context, s *Session) (string, error) {
	record := domain.Record{
		Product: s.Data.Product,
		Name:    s.Data.Name,
		Phone:   s.Data.Phone,
		Email:   s.Data.Email,
	}

	if err := m.store.Append(ctx, record); err != nil {
		m.log.Error("failed to persist order",
			slog.String("conversation_id", s.ConversationID),
			slog.Any("error", err))
		return MsgStoreFailure, apperrors.NewStoreError(err)
	}

	m.transition(s, StageIdle)
	s.reset()
	outcomeRecorder("committed")
	return MsgSuccess, nil
}

func (m *Machine) cancel(s *Session) {
	m.transition(s, StageIdle)
	s.reset()
	outcomeRecorder("cancelled")
}

func (m *Machine) transition(s *Session, to Stage) {
	if !IsTransitionAllowed(s.Stage, to) {
		m.log.Warn("invalid stage transition",
			slog.String("conversation_id", s.ConversationID),
			slog.String("from", string(s.Stage)),
			slog.String("to", string(to)))
		return
	}

	transitionRecorder(string(s.Stage), string(to))
	s.Stage = to
}
