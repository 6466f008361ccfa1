package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atelier-shop/assistant-bot/internal/order"
)

const (
	sessionKeyPattern     = "conversation:session:%s"
	sessionScanPattern    = "conversation:session:*"
	sessionScanBatchCount = 100

	lockKeyPattern = "conversation:lock:%s"
	lockTTL        = 5 * time.Second
)

// RedisStorage persists order sessions in Redis with a TTL.
type RedisStorage struct {
	client *redis.Client
	log    *slog.Logger
	ttl    time.Duration
}

// NewRedisStorage initializes a Redis-backed Storage implementation. Sessions
// expire after ttl without activity.
func NewRedisStorage(client *redis.Client, log *slog.Logger, ttl time.Duration) *RedisStorage {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisStorage{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

// Get returns the stored session or ErrSessionNotFound when absent.
func (s *RedisStorage) Get(ctx context.Context, conversationID string) (*order.Session, error) {
	key := redisSessionKey(conversationID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}

		s.log.Error("failed to get session from redis", "conversation_id", conversationID, "error", err)
		return nil, err
	}

	var sess order.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		s.log.Error("failed to decode session", "conversation_id", conversationID, "error", err)
		return nil, err
	}

	return &sess, nil
}

// Set saves the provided session and refreshes its TTL.
func (s *RedisStorage) Set(ctx context.Context, sess *order.Session) error {
	sess.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(sess)
	if err != nil {
		s.log.Error("failed to encode session", "conversation_id", sess.ConversationID, "error", err)
		return err
	}

	key := redisSessionKey(sess.ConversationID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session in redis", "conversation_id", sess.ConversationID, "error", err)
		return err
	}

	return nil
}

// Clear removes the stored session for the given conversation.
func (s *RedisStorage) Clear(ctx context.Context, conversationID string) error {
	key := redisSessionKey(conversationID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to clear session", "conversation_id", conversationID, "error", err)
		return err
	}

	return nil
}

// All retrieves every stored session by scanning Redis keys.
func (s *RedisStorage) All(ctx context.Context) ([]*order.Session, error) {
	var sessions []*order.Session

	var cursor uint64
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, sessionScanPattern, sessionScanBatchCount).Result()
		if err != nil {
			s.log.Error("failed to scan sessions", "error", err)
			return nil, err
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				return nil, err
			}

			var sess order.Session
			if err := json.Unmarshal([]byte(data), &sess); err != nil {
				s.log.Warn("skipping undecodable session", "key", key, "error", err)
				continue
			}

			sessions = append(sessions, &sess)
		}

		if nextCursor == 0 {
			return sessions, nil
		}
		cursor = nextCursor
	}
}

// RedisLocker serializes turns per conversation with a SetNX lock.
type RedisLocker struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisLocker constructs a Redis-backed Locker.
func NewRedisLocker(client *redis.Client, log *slog.Logger) *RedisLocker {
	if log == nil {
		log = slog.Default()
	}

	return &RedisLocker{client: client, log: log}
}

// Acquire takes the per-conversation lock or fails with ErrSessionLocked.
func (l *RedisLocker) Acquire(ctx context.Context, conversationID string) error {
	key := redisLockKey(conversationID)

	acquired, err := l.client.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		l.log.Error("failed to acquire session lock", "conversation_id", conversationID, "error", err)
		return err
	}

	if !acquired {
		l.log.Warn("session lock already held", "conversation_id", conversationID)
		return ErrSessionLocked
	}

	return nil
}

// Release frees the per-conversation lock.
func (l *RedisLocker) Release(ctx context.Context, conversationID string) {
	key := redisLockKey(conversationID)
	if err := l.client.Del(ctx, key).Err(); err != nil {
		l.log.Error("failed to release session lock", "conversation_id", conversationID, "error", err)
	}
}

func redisSessionKey(conversationID string) string {
	return fmt.Sprintf(sessionKeyPattern, conversationID)
}

func redisLockKey(conversationID string) string {
	return fmt.Sprintf(lockKeyPattern, conversationID)
}
