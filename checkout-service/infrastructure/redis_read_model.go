package infrastructure

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// OrdersByClient is the per-client order summary served by the CQRS read
// endpoint.
type OrdersByClient struct {
	ClientID       string  `json:"client_id"`
	TotalOrders    int64   `json:"total_orders"`
	LastOrderID    string  `json:"last_order_id"`
	LastCheckoutID string  `json:"last_checkout_id"`
	LastUpdateTS   float64 `json:"last_update_ts"`
}

// RedisReadModel keeps one hash per client under
// cqrs:orders_by_client:{client_id}.
type RedisReadModel struct {
	client redis.UniversalClient
}

// NewRedisReadModel creates the read model on an existing redis client.
func NewRedisReadModel(client redis.UniversalClient) *RedisReadModel {
	return &RedisReadModel{client: client}
}

func readModelKey(clientID string) string {
	return fmt.Sprintf("cqrs:orders_by_client:%s", clientID)
}

// EnregistrerCommande folds one OrderCreated into the projection. The
// counter only advances when the order id is new, so a redelivered event
// converges instead of double counting.
func (m *RedisReadModel) EnregistrerCommande(ctx context.Context, clientID, commandeID, checkoutID string, ts float64) error {
	key := readModelKey(clientID)

	last, err := m.client.HGet(ctx, key, "last_order_id").Result()
	if err != nil && err != redis.Nil {
		return errors.Wrap(err, "read model: load last order")
	}
	if last == commandeID {
		return nil
	}

	pipe := m.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "total_orders", 1)
	pipe.HSet(ctx, key,
		"last_order_id", commandeID,
		"last_checkout_id", checkoutID,
		"last_update_ts", formatTS(ts),
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "read model: record order")
	}
	return nil
}

// EnregistrerTerminaison records the latest terminal checkout for a
// client without touching the order counter.
func (m *RedisReadModel) EnregistrerTerminaison(ctx context.Context, clientID, checkoutID string, ts float64) error {
	err := m.client.HSet(ctx, readModelKey(clientID),
		"last_checkout_id", checkoutID,
		"last_update_ts", formatTS(ts),
	).Err()
	if err != nil {
		return errors.Wrap(err, "read model: record terminal checkout")
	}
	return nil
}

// OrdersByClient returns the projection for one client. A client with no
// orders yet returns a zeroed document, not an error.
func (m *RedisReadModel) OrdersByClient(ctx context.Context, clientID string) (*OrdersByClient, error) {
	fields, err := m.client.HGetAll(ctx, readModelKey(clientID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "read model: load client orders")
	}

	doc := &OrdersByClient{ClientID: clientID}
	if raw, ok := fields["total_orders"]; ok {
		doc.TotalOrders, _ = strconv.ParseInt(raw, 10, 64)
	}
	doc.LastOrderID = fields["last_order_id"]
	doc.LastCheckoutID = fields["last_checkout_id"]
	if raw, ok := fields["last_update_ts"]; ok {
		doc.LastUpdateTS, _ = strconv.ParseFloat(raw, 64)
	}
	return doc, nil
}

func formatTS(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64)
}
