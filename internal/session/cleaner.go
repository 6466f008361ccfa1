package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/atelier-shop/assistant-bot/pkg/metrics"
)

// Cleaner evicts sessions that have been idle longer than the configured TTL.
// The Redis backend also expires keys on its own; the cleaner keeps the
// in-memory backend bounded and the live-session gauge current.
type Cleaner struct {
	storage  Storage
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage Storage, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	sessions, err := c.storage.All(ctx)
	if err != nil {
		c.log.Error("session cleaner failed to list sessions", slog.Any("error", err))
		return
	}

	live := 0
	for _, sess := range sessions {
		if sess == nil {
			continue
		}

		if time.Since(sess.UpdatedAt) <= c.ttl {
			live++
			continue
		}

		if err := c.storage.Clear(ctx, sess.ConversationID); err != nil {
			c.log.Error("session cleaner failed to clear session",
				slog.String("conversation_id", sess.ConversationID),
				slog.Any("error", err))
			live++
			continue
		}

		c.log.Info("idle session evicted", slog.String("conversation_id", sess.ConversationID))
	}

	metrics.SetActiveSessions(live)
}
