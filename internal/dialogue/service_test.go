package dialogue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-shop/assistant-bot/internal/domain"
	apperrors "github.com/atelier-shop/assistant-bot/internal/errors"
	"github.com/atelier-shop/assistant-bot/internal/intent"
	"github.com/atelier-shop/assistant-bot/internal/order"
	"github.com/atelier-shop/assistant-bot/internal/session"
)

type stubOracle struct {
	products map[string]bool
}

func (o *stubOracle) ProductExists(ctx context.Context, name string) (bool, error) {
	return o.products[name], nil
}

type recordingStore struct {
	records []domain.Record
	err     error
}

func (s *recordingStore) Append(ctx context.Context, record domain.Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

type stubResponder struct {
	reply string
	err   error
	calls int
	block bool
	lastQ string
}

func (r *stubResponder) Respond(ctx context.Context, query string) (string, error) {
	r.calls++
	r.lastQ = query
	if r.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.reply, r.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceFixture struct {
	svc       *Service
	responder *stubResponder
	store     *recordingStore
	locker    *session.MemoryLocker
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	log := testLogger()
	store := &recordingStore{}
	responder := &stubResponder{reply: "We accept returns within 30 days."}
	locker := session.NewMemoryLocker()

	oracle := &stubOracle{products: map[string]bool{"Red Scarf": true, "Blue Hoodie": true}}
	machine := order.NewMachine(oracle, store, log)
	registry := session.NewRegistry(session.NewMemoryStorage(), locker, log)
	classifier := intent.NewKeywordClassifier(nil)
	errHandler := apperrors.NewHandler(log, false)

	svc := NewService(classifier, registry, machine, responder, time.Second, errHandler, log)

	return &serviceFixture{svc: svc, responder: responder, store: store, locker: locker}
}

func TestService_OrderIntentStartsSession(t *testing.T) {
	f := newServiceFixture(t)

	reply := f.svc.Respond(context.Background(), "c-1", "I want to order a red scarf")

	assert.Equal(t, order.MsgStart, reply)
	assert.Zero(t, f.responder.calls)
}

func TestService_OtherMessagesGoToFallbackVerbatim(t *testing.T) {
	f := newServiceFixture(t)

	reply := f.svc.Respond(context.Background(), "c-1", "what's your return policy?")

	assert.Equal(t, "We accept returns within 30 days.", reply)
	assert.Equal(t, 1, f.responder.calls)
	assert.Equal(t, "what's your return policy?", f.responder.lastQ)
}

func TestService_ActiveSessionConsumesEveryMessage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.svc.Respond(ctx, "c-1", "order")
	f.svc.Respond(ctx, "c-1", "Blue Hoodie")

	// A question mid-flow still lands in the session, not the fallback,
	// and is taken literally as the customer's name.
	reply := f.svc.Respond(ctx, "c-1", "do you ship abroad?")

	assert.Equal(t, order.MsgAskPhone, reply)
	assert.Zero(t, f.responder.calls)
}

func TestService_SessionsAreIsolatedPerConversation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.svc.Respond(ctx, "c-1", "order")

	reply := f.svc.Respond(ctx, "c-2", "hello there")

	assert.Equal(t, "We accept returns within 30 days.", reply)
	assert.Equal(t, 1, f.responder.calls)
}

func TestService_FullOrderThroughService(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for _, msg := range []string{"I want to order", "Red Scarf", "Jane Doe", "01112223334", "jane@example.com", "review order"} {
		f.svc.Respond(ctx, "c-1", msg)
	}
	reply := f.svc.Respond(ctx, "c-1", "yes")

	assert.Equal(t, order.MsgSuccess, reply)
	require.Len(t, f.store.records, 1)
	assert.Equal(t, domain.Record{
		Product: "Red Scarf",
		Name:    "Jane Doe",
		Phone:   "01112223334",
		Email:   "jane@example.com",
	}, f.store.records[0])

	// The session ended, so the next message routes to the fallback again.
	f.svc.Respond(ctx, "c-1", "thanks!")
	assert.Equal(t, 1, f.responder.calls)
}

func TestService_FallbackFailureReturnsApology(t *testing.T) {
	f := newServiceFixture(t)
	f.responder.err = errors.New("agent unavailable")

	reply := f.svc.Respond(context.Background(), "c-1", "hello")

	assert.Equal(t, apperrors.NewFallbackError(nil).UserMessage, reply)
}

func TestService_FallbackTimeoutReturnsApology(t *testing.T) {
	f := newServiceFixture(t)
	f.responder.block = true
	f.svc.fallbackTimeout = 10 * time.Millisecond

	reply := f.svc.Respond(context.Background(), "c-1", "hello")

	assert.Equal(t, apperrors.NewFallbackError(nil).UserMessage, reply)
}

func TestService_LockedConversationGetsBusyReply(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.locker.Acquire(ctx, "c-1"))
	defer f.locker.Release(ctx, "c-1")

	reply := f.svc.Respond(ctx, "c-1", "order")

	assert.Equal(t, MsgBusy, reply)
}

func TestService_StoreFailureKeepsSessionRetryable(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for _, msg := range []string{"order", "Red Scarf", "Jane Doe", "01112223334", "jane@example.com", "review order"} {
		f.svc.Respond(ctx, "c-1", msg)
	}

	f.store.err = errors.New("disk full")
	reply := f.svc.Respond(ctx, "c-1", "yes")
	assert.Equal(t, order.MsgStoreFailure, reply)

	f.store.err = nil
	reply = f.svc.Respond(ctx, "c-1", "confirm")
	assert.Equal(t, order.MsgSuccess, reply)
	assert.Len(t, f.store.records, 1)
}

func TestService_SessionTurnStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ok on a normal turn", func(t *testing.T) {
		f := newServiceFixture(t)

		_, status := f.svc.respondSession(ctx, "c-1", "order")
		assert.Equal(t, "ok", status)
	})

	t.Run("error on a failed commit", func(t *testing.T) {
		f := newServiceFixture(t)
		for _, msg := range []string{"order", "Red Scarf", "Jane Doe", "01112223334", "jane@example.com", "review order"} {
			f.svc.Respond(ctx, "c-1", msg)
		}
		f.store.err = errors.New("disk full")

		reply, status := f.svc.respondSession(ctx, "c-1", "yes")
		assert.Equal(t, order.MsgStoreFailure, reply)
		assert.Equal(t, "error", status)
	})

	t.Run("busy on a held lock", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.locker.Acquire(ctx, "c-1"))
		defer f.locker.Release(ctx, "c-1")

		reply, status := f.svc.respondSession(ctx, "c-1", "order")
		assert.Equal(t, MsgBusy, reply)
		assert.Equal(t, "busy", status)
	})
}

func TestService_CancelSession(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.svc.Respond(ctx, "c-1", "order")
	require.NoError(t, f.svc.CancelSession(ctx, "c-1"))

	// With the session gone, plain text routes to the fallback again.
	f.svc.Respond(ctx, "c-1", "hello")
	assert.Equal(t, 1, f.responder.calls)
}
