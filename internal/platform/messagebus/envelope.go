package messagebus

import (
	"time"

	"github.com/google/uuid"
)

// Message is the envelope delivered to subscribers. It is built by the
// bus on publish, never by producers, and is immutable once built. It has
// no identity beyond MessageID and is not persisted.
type Message struct {
	MessageID     string    `json:"messageId"`
	Topic         string    `json:"topic"`
	Timestamp     time.Time `json:"timestamp"`
	Payload       any       `json:"payload"`
	CorrelationID string    `json:"correlationId"`
}

// Correlated is implemented by payloads that carry a natural correlation
// key (typically the order id). The bus uses it when present; otherwise
// each message gets a fresh correlation id.
type Correlated interface {
	CorrelationKey() string
}

func newMessage(topic string, payload any) Message {
	correlationID := ""
	if c, ok := payload.(Correlated); ok {
		correlationID = c.CorrelationKey()
	}
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	return Message{
		MessageID:     uuid.New().String(),
		Topic:         topic,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
		CorrelationID: correlationID,
	}
}
