package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukelektro/storefront-api/internal/orders"
	"github.com/lukelektro/storefront-api/internal/payment"
)

type fakeUpdater struct {
	err   error
	calls []int64
}

func (f *fakeUpdater) UpdateStatus(_ context.Context, orderID int64, _ orders.Status) error {
	f.calls = append(f.calls, orderID)
	return f.err
}

// flakyUpdater fails the first failures calls, then succeeds.
type flakyUpdater struct {
	failures int
	calls    int
}

func (f *flakyUpdater) UpdateStatus(context.Context, int64, orders.Status) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connect: connection refused")
	}
	return nil
}

type fakeDeduper struct {
	seen  map[string]bool
	marks int
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{seen: map[string]bool{}}
}

func (f *fakeDeduper) Seen(_ context.Context, eventID string) (bool, error) {
	return f.seen[eventID], nil
}

func (f *fakeDeduper) Mark(_ context.Context, eventID string) error {
	f.seen[eventID] = true
	f.marks++
	return nil
}

func confirmedMessage(t *testing.T, orderID int64) kafkago.Message {
	t.Helper()
	payloadBytes, err := json.Marshal(payment.ConfirmedPayload{
		OrderID: orderID,
		Token:   "tok-abc",
		Amount:  15990,
	})
	require.NoError(t, err)
	env := payment.Envelope{
		EventID:      "evt-1",
		EventType:    payment.EventPaymentConfirmed,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "storefront-api",
		Payload:      payloadBytes,
	}
	value, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Key: payment.PartitionKey(orderID), Value: value}
}

func TestHandlePaymentConfirmed(t *testing.T) {
	updater := &fakeUpdater{}
	dedup := newFakeDeduper()
	svc := &Service{Orders: updater, Dedup: dedup}

	err := svc.HandlePaymentConfirmed(context.Background(), confirmedMessage(t, 42))
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, updater.calls)
	assert.True(t, dedup.seen["evt-1"])
}

func TestHandlePaymentConfirmed_ReplaySkipped(t *testing.T) {
	updater := &fakeUpdater{}
	svc := &Service{Orders: updater, Dedup: newFakeDeduper()}

	msg := confirmedMessage(t, 42)
	require.NoError(t, svc.HandlePaymentConfirmed(context.Background(), msg))
	require.NoError(t, svc.HandlePaymentConfirmed(context.Background(), msg))

	// The replay must not touch the order again.
	assert.Equal(t, []int64{42}, updater.calls)
}

func TestHandlePaymentConfirmed_RedeliveryAfterTransientFailure(t *testing.T) {
	updater := &flakyUpdater{failures: 1}
	dedup := newFakeDeduper()
	svc := &Service{Orders: updater, Dedup: dedup}

	msg := confirmedMessage(t, 42)

	// First delivery hits a transient DB failure; the error propagates so
	// the offset stays uncommitted, and the event must not be marked seen.
	err := svc.HandlePaymentConfirmed(context.Background(), msg)
	require.Error(t, err)
	assert.False(t, dedup.seen["evt-1"])

	// Redelivery must reach the order this time.
	require.NoError(t, svc.HandlePaymentConfirmed(context.Background(), msg))
	assert.Equal(t, 2, updater.calls)
	assert.True(t, dedup.seen["evt-1"])
}

func TestHandlePaymentConfirmed_BadEnvelope(t *testing.T) {
	updater := &fakeUpdater{}
	svc := &Service{Orders: updater}

	// Garbage must be dropped, not retried forever.
	err := svc.HandlePaymentConfirmed(context.Background(),
		kafkago.Message{Value: []byte("{broken")})
	require.NoError(t, err)
	assert.Empty(t, updater.calls)
}

func TestHandlePaymentConfirmed_OtherEventType(t *testing.T) {
	updater := &fakeUpdater{}
	svc := &Service{Orders: updater}

	env := payment.Envelope{
		EventID:   "evt-2",
		EventType: "SomethingElse",
		Payload:   json.RawMessage(`{}`),
	}
	value, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, svc.HandlePaymentConfirmed(context.Background(), kafkago.Message{Value: value}))
	assert.Empty(t, updater.calls)
}

func TestHandlePaymentConfirmed_InvalidTransitionSwallowed(t *testing.T) {
	updater := &fakeUpdater{
		err: &orders.InvalidTransitionError{From: orders.StatusDelivered, To: orders.StatusPaid},
	}
	dedup := newFakeDeduper()
	svc := &Service{Orders: updater, Dedup: dedup}

	// The order moved on already; the replay commits cleanly and is marked
	// seen so later redeliveries skip it outright.
	err := svc.HandlePaymentConfirmed(context.Background(), confirmedMessage(t, 42))
	require.NoError(t, err)
	assert.True(t, dedup.seen["evt-1"])
}

func TestHandlePaymentConfirmed_UnknownOrderSwallowed(t *testing.T) {
	svc := &Service{Orders: &fakeUpdater{err: orders.ErrOrderNotFound}}

	err := svc.HandlePaymentConfirmed(context.Background(), confirmedMessage(t, 42))
	require.NoError(t, err)
}

func TestHandlePaymentConfirmed_TransientErrorPropagates(t *testing.T) {
	dbDown := errors.New("connect: connection refused")
	svc := &Service{Orders: &fakeUpdater{err: dbDown}}

	err := svc.HandlePaymentConfirmed(context.Background(), confirmedMessage(t, 42))
	assert.ErrorIs(t, err, dbDown)
}
