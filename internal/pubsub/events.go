// Package pubsub provides a generic publish/subscribe event system used to fan
// panel lifecycle and log events out to the host.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened. Each producer declares its own values.
type EventType string

// Event is a published occurrence with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
