package service

import "context"

// EventPublisher hands domain events to the worker stream.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, fields map[string]any) error
}
