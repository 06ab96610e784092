// Package messagebus provides the in-process integration message bus used
// for communication between bounded contexts. Delivery is asynchronous,
// at-most-once, unordered, and best-effort: a deliberate single-process
// simulation of eventual consistency. For production, this would be
// replaced with Google Cloud Pub/Sub, RabbitMQ, Kafka, or a similar
// service by adopting the outbox pattern.
package messagebus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handler handles messages for a subscribed topic.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// HandlerFunc is an adapter to use ordinary functions as message handlers.
type HandlerFunc func(ctx context.Context, msg Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Publisher publishes integration messages on a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Subscriber registers handlers for a topic.
type Subscriber interface {
	Subscribe(topic string, handler Handler) error
}

// Bus implements a topic-keyed publish/subscribe router.
//
// Publish returns once dispatch is scheduled, never once delivery
// completes: each registered handler runs in its own goroutine, so a
// publisher's own call stack can never be re-entered by a downstream
// handler. A topic with no subscribers silently drops the message. An
// error or panic escaping a handler is logged and discarded; there is no
// retry and no dead-letter queue.
//
// The subscription table is built once at process start and treated as
// read-only afterwards.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
	tracer   trace.Tracer
}

func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
		tracer:   otel.Tracer("platform/messagebus"),
	}
}

// Subscribe implements Subscriber. Multiple handlers per topic are
// allowed; each receives its own copy of the same envelope. There is no
// unsubscribe.
func (b *Bus) Subscribe(topic string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("nil handler for topic %s", topic)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
	b.logger.Debug("subscribed to topic", slog.String("topic", topic))

	return nil
}

// Publish implements Publisher. The envelope is built here, one dispatch
// goroutine is started per handler in subscription order, and the call
// returns without waiting on any of them. Completion order across
// handlers and topics is not guaranteed.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	msg := newMessage(topic, payload)

	b.logger.Debug("publishing message",
		slog.String("topic", topic),
		slog.String("message_id", msg.MessageID),
		slog.String("correlation_id", msg.CorrelationID),
		slog.Int("handler_count", len(handlers)))

	if len(handlers) == 0 {
		// Fire-and-forget: no subscribers means the message is dropped.
		return nil
	}

	// Deliveries must outlive the publisher's request context; there is
	// no cancellation primitive for in-flight handler tasks.
	ctx = context.WithoutCancel(ctx)

	for _, handler := range handlers {
		go b.dispatch(ctx, handler, msg)
	}

	return nil
}

// dispatch is the per-handler delivery boundary: the last line of defense
// against escaping errors and panics.
func (b *Bus) dispatch(ctx context.Context, handler Handler, msg Message) {
	ctx, span := b.tracer.Start(ctx, "messagebus.deliver",
		trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
			attribute.String("messaging.message_id", msg.MessageID),
			attribute.String("messaging.correlation_id", msg.CorrelationID),
		))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("message handler panicked",
				slog.String("topic", msg.Topic),
				slog.String("message_id", msg.MessageID),
				slog.String("correlation_id", msg.CorrelationID),
				slog.Any("panic", r))
		}
	}()

	if err := handler.Handle(ctx, msg); err != nil {
		span.RecordError(err)
		b.logger.Error("message handler failed, message dropped",
			slog.String("topic", msg.Topic),
			slog.String("message_id", msg.MessageID),
			slog.String("correlation_id", msg.CorrelationID),
			slog.Any("error", err))
	}
}

// Compile-time interface checks.
var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
)
