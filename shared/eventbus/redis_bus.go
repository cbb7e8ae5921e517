package eventbus

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/magasin-labs/checkout-system/shared/events"
)

const (
	// DefaultMaxLen caps each stream; trimming is approximate (MAXLEN ~).
	DefaultMaxLen = 10000

	// readBatchSize bounds how many pending entries a single poll claims.
	readBatchSize = 10
)

// Message is one record read from a stream, as stored on the wire:
// {type, payload (json string), ts (stringified float seconds)}.
type Message struct {
	ID      string
	Type    string
	Payload json.RawMessage
	TS      string
}

// Handler processes one delivered message. Returning nil acknowledges the
// message; returning an error leaves it pending for redelivery to any
// consumer of the group. Delivery is at least once, so handlers must be
// idempotent: processing the same message twice must not double-apply
// side effects.
type Handler func(ctx context.Context, msg Message) error

// RedisEventBus is a thin append-log abstraction over Redis Streams with
// consumer-group subscription and explicit acknowledgment.
type RedisEventBus struct {
	client redis.UniversalClient
	maxLen int64
}

// New creates a bus over the given client. maxLen <= 0 falls back to
// DefaultMaxLen.
func New(client redis.UniversalClient, maxLen int64) *RedisEventBus {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &RedisEventBus{client: client, maxLen: maxLen}
}

// Publish validates and appends a typed event to the topic stream and
// returns the stream message id.
func (b *RedisEventBus) Publish(ctx context.Context, topic string, payload events.Payload) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", errors.Wrap(err, "refusing to publish invalid payload")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal payload")
	}

	id, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		MaxLen: b.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":    payload.EventType(),
			"payload": string(body),
			"ts":      strconv.FormatFloat(float64(time.Now().UnixNano())/1e9, 'f', 6, 64),
		},
	}).Result()
	if err != nil {
		return "", errors.Wrapf(err, "failed to publish %s to %s", payload.EventType(), topic)
	}
	return id, nil
}

// EnsureGroup lazily creates the consumer group at the stream tail,
// creating the stream if needed. An already existing group is not an
// error.
func (b *RedisEventBus) EnsureGroup(ctx context.Context, topic, group string) error {
	err := b.client.XGroupCreateMkStream(ctx, topic, group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return errors.Wrapf(err, "failed to create group %s on %s", group, topic)
	}
	return nil
}

// Subscribe runs a blocking poll loop delivering unseen messages of the
// group to the handler, one at a time. Empty reads retry after
// blockTimeout; the loop terminates only when ctx is cancelled.
func (b *RedisEventBus) Subscribe(ctx context.Context, topic, group, consumer string, handler Handler, blockTimeout time.Duration) error {
	if err := b.EnsureGroup(ctx, topic, group); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{topic, ">"},
			Count:    readBatchSize,
			Block:    blockTimeout,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Transient server error: back off one block interval.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(blockTimeout):
			}
			continue
		}

		for _, stream := range streams {
			for _, raw := range stream.Messages {
				msg := decodeMessage(raw)
				if err := handler(ctx, msg); err != nil {
					// No ack: the entry stays pending and is eligible
					// for redelivery.
					continue
				}
				b.client.XAck(ctx, topic, group, raw.ID)
			}
		}
	}
}

// ReadRange returns up to count messages from the start of the stream,
// oldest first. Used by the event-store read API and replay.
func (b *RedisEventBus) ReadRange(ctx context.Context, topic string, count int64) ([]Message, error) {
	raw, err := b.client.XRangeN(ctx, topic, "-", "+", count).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read stream %s", topic)
	}
	msgs := make([]Message, 0, len(raw))
	for _, m := range raw {
		msgs = append(msgs, decodeMessage(m))
	}
	return msgs, nil
}

func decodeMessage(raw redis.XMessage) Message {
	msg := Message{ID: raw.ID}
	if t, ok := raw.Values["type"].(string); ok {
		msg.Type = t
	}
	if ts, ok := raw.Values["ts"].(string); ok {
		msg.TS = ts
	}
	payload, _ := raw.Values["payload"].(string)
	if json.Valid([]byte(payload)) {
		msg.Payload = json.RawMessage(payload)
	} else {
		// Malformed payloads degrade to a raw marker instead of
		// crashing the consume loop.
		marker, _ := json.Marshal(map[string]string{"_raw": payload})
		msg.Payload = marker
	}
	return msg
}

// EmittedSeconds parses the wire timestamp; zero when absent or invalid.
func (m Message) EmittedSeconds() float64 {
	ts, err := strconv.ParseFloat(m.TS, 64)
	if err != nil {
		return 0
	}
	return ts
}
