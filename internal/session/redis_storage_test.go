package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-shop/assistant-bot/internal/order"
)

func newTestRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStorage(client, testLogger(), 30*time.Minute), mr
}

func TestRedisStorage_SetAndGet(t *testing.T) {
	s, _ := newTestRedisStorage(t)
	ctx := context.Background()

	sess := order.NewSession("c-1")
	sess.Active = true
	sess.Stage = order.StageAskPhone
	sess.Data.Product = "Blue Hoodie"
	sess.Data.Name = "Jane Doe"

	require.NoError(t, s.Set(ctx, sess))

	got, err := s.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ConversationID)
	assert.True(t, got.Active)
	assert.Equal(t, order.StageAskPhone, got.Stage)
	assert.Equal(t, "Blue Hoodie", got.Data.Product)
	assert.Equal(t, "Jane Doe", got.Data.Name)
}

func TestRedisStorage_GetMissing(t *testing.T) {
	s, _ := newTestRedisStorage(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_SetAppliesTTL(t *testing.T) {
	s, mr := newTestRedisStorage(t)

	require.NoError(t, s.Set(context.Background(), order.NewSession("c-1")))

	ttl := mr.TTL("conversation:session:c-1")
	assert.Equal(t, 30*time.Minute, ttl)
}

func TestRedisStorage_Clear(t *testing.T) {
	s, _ := newTestRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, order.NewSession("c-1")))
	require.NoError(t, s.Clear(ctx, "c-1"))

	_, err := s.Get(ctx, "c-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_All(t *testing.T) {
	s, mr := newTestRedisStorage(t)
	ctx := context.Background()

	for _, id := range []string{"c-1", "c-2", "c-3"} {
		require.NoError(t, s.Set(ctx, order.NewSession(id)))
	}
	// Unrelated keys must not leak into the scan.
	mr.Set("conversation:lock:c-1", "1")
	mr.Set("orders:other", "x")

	sessions, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	ids := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		ids[sess.ConversationID] = true
	}
	assert.True(t, ids["c-1"] && ids["c-2"] && ids["c-3"])
}

func TestRedisStorage_AllSkipsUndecodableSessions(t *testing.T) {
	s, mr := newTestRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, order.NewSession("c-1")))
	mr.Set("conversation:session:broken", "{not json")

	sessions, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "c-1", sessions[0].ConversationID)
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLocker(client, testLogger())
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "c-1"))

	err := l.Acquire(ctx, "c-1")
	assert.ErrorIs(t, err, ErrSessionLocked)

	// A different conversation locks independently.
	assert.NoError(t, l.Acquire(ctx, "c-2"))

	l.Release(ctx, "c-1")
	assert.NoError(t, l.Acquire(ctx, "c-1"))
}

func TestRedisLocker_LockExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLocker(client, testLogger())
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "c-1"))
	mr.FastForward(lockTTL + time.Second)

	assert.NoError(t, l.Acquire(ctx, "c-1"))
}
