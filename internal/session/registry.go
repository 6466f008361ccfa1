package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/atelier-shop/assistant-bot/internal/order"
)

// Registry owns the session lifecycle for every conversation: it loads or
// creates the session, serializes access per conversation, and persists the
// result of each turn.
type Registry struct {
	storage Storage
	locker  Locker
	log     *slog.Logger
}

// NewRegistry constructs a Registry over the given storage and locker.
func NewRegistry(storage Storage, locker Locker, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		storage: storage,
		locker:  locker,
		log:     log,
	}
}

// Peek returns the current session without locking, or ErrSessionNotFound.
// Used by routing to check whether a flow is active.
func (r *Registry) Peek(ctx context.Context, conversationID string) (*order.Session, error) {
	return r.storage.Get(ctx, conversationID)
}

// WithSession runs fn against the conversation's session while holding its
// lock. The session is created on first use and saved after fn returns, even
// when fn reports an error, so a failed commit keeps the session at its
// current stage. Sessions that end up idle are cleared instead of saved.
func (r *Registry) WithSession(ctx context.Context, conversationID string, fn func(*order.Session) (string, error)) (string, error) {
	if err := r.locker.Acquire(ctx, conversationID); err != nil {
		return "", err
	}
	defer r.locker.Release(ctx, conversationID)

	sess, err := r.storage.Get(ctx, conversationID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			return "", err
		}
		sess = order.NewSession(conversationID)
	}

	reply, fnErr := fn(sess)

	if !sess.Active {
		if clearErr := r.storage.Clear(ctx, conversationID); clearErr != nil {
			r.log.Error("failed to clear finished session",
				slog.String("conversation_id", conversationID),
				slog.Any("error", clearErr))
		}
		return reply, fnErr
	}

	if saveErr := r.storage.Set(ctx, sess); saveErr != nil {
		r.log.Error("failed to save session",
			slog.String("conversation_id", conversationID),
			slog.Any("error", saveErr))
		if fnErr == nil {
			fnErr = saveErr
		}
	}

	return reply, fnErr
}

// Clear drops the conversation's session, cancelling any in-progress flow.
func (r *Registry) Clear(ctx context.Context, conversationID string) error {
	if err := r.locker.Acquire(ctx, conversationID); err != nil {
		return err
	}
	defer r.locker.Release(ctx, conversationID)

	return r.storage.Clear(ctx, conversationID)
}
