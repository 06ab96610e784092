// Package events provides the domain event infrastructure.
// Domain events are facts raised inside an aggregate; they stay internal
// to the process and are distinct from the integration messages that
// cross context boundaries on the message bus.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType is the discriminating tag for a domain event kind.
// Publishers dispatch on this closed set of tags rather than on
// runtime type inspection alone.
type EventType string

func (t EventType) String() string { return string(t) }

// Event represents a domain event that occurred in the system.
// Events are immutable facts about something that happened.
type Event interface {
	// EventID returns the unique identifier for this event instance.
	EventID() string
	// EventType returns the tag for the event kind (e.g., "orders.OrderPlaced").
	EventType() EventType
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// BaseEvent provides common event fields. Embed this in concrete event types.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateId }

// Publisher translates domain events into outbound integration messages.
// It is called after the aggregate mutation has been persisted.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}
