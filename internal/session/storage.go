// Package session manages per-conversation order sessions: keyed storage,
// per-conversation locking, and idle eviction.
package session

import (
	"context"
	"errors"

	"github.com/atelier-shop/assistant-bot/internal/order"
)

var (
	// ErrSessionNotFound indicates that no session exists for a conversation.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLocked indicates that another turn for the same conversation is in flight.
	ErrSessionLocked = errors.New("session is locked, try again later")
)

// Storage defines the persistence contract for order sessions.
type Storage interface {
	// Get returns the session for the conversation or ErrSessionNotFound.
	Get(ctx context.Context, conversationID string) (*order.Session, error)
	// Set saves the session under its conversation identifier.
	Set(ctx context.Context, s *order.Session) error
	// Clear removes the session for the conversation.
	Clear(ctx context.Context, conversationID string) error
	// All returns every stored session.
	All(ctx context.Context) ([]*order.Session, error)
}

// Locker serializes turns per conversation. Acquire fails fast with
// ErrSessionLocked instead of blocking.
type Locker interface {
	Acquire(ctx context.Context, conversationID string) error
	Release(ctx context.Context, conversationID string)
}
