package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	EventOrderPlaced     = "order.placed"
	EventStockLow        = "stock.low"
	EventStockScan       = "stock.scan"
	EventSessionsCleanup = "sessions.cleanup"
)

// Publisher appends events to a Redis stream. A nil *Publisher drops events.
type Publisher struct {
	client *redis.Client
	stream string
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

// Publish adds an entry whose "type" field is eventType; fields are stored
// as flat stream values.
func (p *Publisher) Publish(ctx context.Context, eventType string, fields map[string]any) error {
	if p == nil || p.client == nil {
		return nil
	}

	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["type"] = eventType

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", eventType, err)
	}
	return nil
}
