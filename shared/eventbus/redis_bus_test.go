package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magasin-labs/checkout-system/shared/events"
)

func newTestBus(t *testing.T) (*RedisEventBus, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, 100), client
}

func testPayload(checkoutID string) events.CheckoutInitiated {
	return events.CheckoutInitiated{
		CheckoutID: checkoutID,
		ClientID:   "client-1",
		Panier: events.Panier{Produits: []events.ProduitPanier{
			{ProduitID: "prod-1", Quantite: 2},
		}},
		EmittedAt: 1700000000.25,
	}
}

func TestPublishAndReadRange(t *testing.T) {
	bus, _ := newTestBus(t)
	ctx := context.Background()

	id, err := bus.Publish(ctx, events.TopicCheckout, testPayload("chk-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs, err := bus.ReadRange(ctx, events.TopicCheckout, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	assert.Equal(t, id, msgs[0].ID)
	assert.Equal(t, events.CheckoutInitiatedEvent, msgs[0].Type)

	decoded, err := events.Decode(msgs[0].Type, msgs[0].Payload)
	require.NoError(t, err)
	initiated := decoded.(*events.CheckoutInitiated)
	assert.Equal(t, "chk-1", initiated.CheckoutID)
	assert.Equal(t, "client-1", initiated.ClientID)
	assert.Equal(t, 2, initiated.Panier.Produits[0].Quantite)
}

func TestPublishRejectsInvalidPayload(t *testing.T) {
	bus, _ := newTestBus(t)

	_, err := bus.Publish(context.Background(), events.TopicCheckout, events.CheckoutInitiated{})
	require.Error(t, err)

	msgs, err := bus.ReadRange(context.Background(), events.TopicCheckout, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestEnsureGroupIsIdempotent(t *testing.T) {
	bus, _ := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupAudit))
	require.NoError(t, bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupAudit))
}

func TestSubscribeDeliversAndAcks(t *testing.T) {
	bus, client := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupAudit))

	var mu sync.Mutex
	var received []Message
	done := make(chan struct{})

	go func() {
		defer close(done)
		bus.Subscribe(ctx, events.TopicCheckout, events.GroupAudit, "c1",
			func(ctx context.Context, msg Message) error {
				mu.Lock()
				received = append(received, msg)
				mu.Unlock()
				return nil
			}, 50*time.Millisecond)
	}()

	_, err := bus.Publish(ctx, events.TopicCheckout, testPayload("chk-sub"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 3*time.Second, 10*time.Millisecond)

	// Acked messages leave no pending entries.
	require.Eventually(t, func() bool {
		pending, err := client.XPending(ctx, events.TopicCheckout, events.GroupAudit).Result()
		return err == nil && pending.Count == 0
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("subscribe loop did not stop on context cancel")
	}
}

func TestSubscribeLeavesFailedMessagePending(t *testing.T) {
	bus, client := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupReservation))

	handled := make(chan struct{}, 1)
	go func() {
		bus.Subscribe(ctx, events.TopicCheckout, events.GroupReservation, "c1",
			func(ctx context.Context, msg Message) error {
				select {
				case handled <- struct{}{}:
				default:
				}
				return errors.New("handler failure")
			}, 50*time.Millisecond)
	}()

	_, err := bus.Publish(ctx, events.TopicCheckout, testPayload("chk-fail"))
	require.NoError(t, err)

	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatal("handler was never invoked")
	}
	cancel()

	pending, err := client.XPending(context.Background(), events.TopicCheckout, events.GroupReservation).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

func TestTwoGroupsEachSeeEveryMessage(t *testing.T) {
	bus, _ := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupAudit))
	require.NoError(t, bus.EnsureGroup(ctx, events.TopicCheckout, events.GroupCQRS))

	var mu sync.Mutex
	counts := map[string]int{}
	subscribe := func(group string) {
		go bus.Subscribe(ctx, events.TopicCheckout, group, "c1",
			func(ctx context.Context, msg Message) error {
				mu.Lock()
				counts[group]++
				mu.Unlock()
				return nil
			}, 50*time.Millisecond)
	}
	subscribe(events.GroupAudit)
	subscribe(events.GroupCQRS)

	_, err := bus.Publish(ctx, events.TopicCheckout, testPayload("chk-fanout"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return counts[events.GroupAudit] == 1 && counts[events.GroupCQRS] == 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestDecodeMessageDegradesMalformedPayload(t *testing.T) {
	msg := decodeMessage(redis.XMessage{
		ID: "1-1",
		Values: map[string]interface{}{
			"type":    "CheckoutInitiated",
			"payload": "{not json",
			"ts":      "not-a-float",
		},
	})

	assert.JSONEq(t, `{"_raw": "{not json"}`, string(msg.Payload))
	assert.Zero(t, msg.EmittedSeconds())
}
