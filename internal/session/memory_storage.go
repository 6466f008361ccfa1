package session

import (
	"context"
	"sync"
	"time"

	"github.com/atelier-shop/assistant-bot/internal/order"
)

// MemoryStorage is the in-process Storage fallback used when Redis is not
// configured (single-instance deployments).
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*order.Session
}

// NewMemoryStorage returns an empty in-memory session store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{sessions: make(map[string]*order.Session)}
}

// Get returns a copy of the stored session or ErrSessionNotFound.
func (s *MemoryStorage) Get(ctx context.Context, conversationID string) (*order.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[conversationID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return cloneSession(sess), nil
}

// Set stores a copy of the session.
func (s *MemoryStorage) Set(ctx context.Context, sess *order.Session) error {
	sess.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ConversationID] = cloneSession(sess)
	return nil
}

// Clear removes the session for the conversation.
func (s *MemoryStorage) Clear(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, conversationID)
	return nil
}

// All returns copies of every stored session.
func (s *MemoryStorage) All(ctx context.Context) ([]*order.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*order.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, cloneSession(sess))
	}

	return sessions, nil
}

func cloneSession(sess *order.Session) *order.Session {
	if sess == nil {
		return nil
	}

	copySess := *sess
	return &copySess
}

// MemoryLocker is the in-process Locker counterpart to MemoryStorage.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker returns an in-memory Locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// Acquire takes the lock for the conversation or fails with ErrSessionLocked.
func (l *MemoryLocker) Acquire(ctx context.Context, conversationID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[conversationID]; taken {
		return ErrSessionLocked
	}

	l.held[conversationID] = struct{}{}
	return nil
}

// Release frees the lock for the conversation.
func (l *MemoryLocker) Release(ctx context.Context, conversationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, conversationID)
}
