// Package pubsub provides a generic publish/subscribe event broker used to
// fan discovery and log events out to subscribers.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// PluggedEvent announces a newly discovered implementation.
	PluggedEvent EventType = "plugged"
	// RescanEvent announces that a source re-enumerated its backing store.
	RescanEvent EventType = "rescan"
	// LoggedEvent carries a rendered log entry.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	ID        string // unique per publish, for correlation in logs
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
