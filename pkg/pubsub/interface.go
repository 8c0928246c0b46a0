package pubsub

import (
	"context"
	"encoding/json"
	"time"
)

// Event is one delivery published on the bus.
type Event struct {
	Type      string          `json:"type"`
	Origin    string          `json:"origin"`
	Target    string          `json:"target,omitempty"`
	Exclude   string          `json:"exclude,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time. payload must
// already be an encoded frame.
func NewEvent(deliveryType, origin string, payload []byte) *Event {
	return &Event{
		Type:      deliveryType,
		Origin:    origin,
		Payload:   json.RawMessage(payload),
		Timestamp: time.Now(),
	}
}

// Publisher publishes events to the bus.
type Publisher interface {
	Publish(ctx context.Context, channel string, event *Event) error
}

// Subscriber subscribes to events from the bus.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan *Event, error)
	Unsubscribe(ctx context.Context, channel string) error
}

// PubSub combines Publisher and Subscriber.
type PubSub interface {
	Publisher
	Subscriber
	Close() error
}
