package messagebus_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
)

type recordingHandler struct {
	mu       sync.Mutex
	messages []messagebus.Message
	err      error
}

func (h *recordingHandler) Handle(_ context.Context, msg messagebus.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

func (h *recordingHandler) last() messagebus.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.messages[len(h.messages)-1]
}

type correlatedPayload struct {
	OrderID string
}

func (p correlatedPayload) CorrelationKey() string { return p.OrderID }

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := messagebus.New(nil)

	// No subscribers: the message is dropped, not an error.
	err := bus.Publish(context.Background(), "order.placed", "payload")
	assert.NoError(t, err)
}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := messagebus.New(nil)

	first := &recordingHandler{}
	second := &recordingHandler{}
	require.NoError(t, bus.Subscribe("order.placed", first))
	require.NoError(t, bus.Subscribe("order.placed", second))

	err := bus.Publish(context.Background(), "order.placed", "payload")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return first.count() == 1 && second.count() == 1
	}, time.Second, 5*time.Millisecond)

	// Both handlers see the same envelope.
	assert.Equal(t, first.last().MessageID, second.last().MessageID)
	assert.Equal(t, "order.placed", first.last().Topic)
}

func TestBus_TopicIsolation(t *testing.T) {
	bus := messagebus.New(nil)

	placed := &recordingHandler{}
	paid := &recordingHandler{}
	require.NoError(t, bus.Subscribe("order.placed", placed))
	require.NoError(t, bus.Subscribe("order.paid", paid))

	require.NoError(t, bus.Publish(context.Background(), "order.placed", "payload"))

	require.Eventually(t, func() bool {
		return placed.count() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, paid.count())
}

func TestBus_HandlerErrorDoesNotAffectOthers(t *testing.T) {
	bus := messagebus.New(nil)

	failing := &recordingHandler{err: errors.New("boom")}
	healthy := &recordingHandler{}
	require.NoError(t, bus.Subscribe("order.placed", failing))
	require.NoError(t, bus.Subscribe("order.placed", healthy))

	err := bus.Publish(context.Background(), "order.placed", "payload")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return healthy.count() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	bus := messagebus.New(nil)

	require.NoError(t, bus.Subscribe("order.placed", messagebus.HandlerFunc(
		func(context.Context, messagebus.Message) error {
			panic("handler exploded")
		})))
	healthy := &recordingHandler{}
	require.NoError(t, bus.Subscribe("order.placed", healthy))

	require.NoError(t, bus.Publish(context.Background(), "order.placed", "payload"))

	require.Eventually(t, func() bool {
		return healthy.count() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestBus_PublishReturnsBeforeDelivery(t *testing.T) {
	bus := messagebus.New(nil)

	release := make(chan struct{})
	delivered := make(chan struct{})
	require.NoError(t, bus.Subscribe("order.placed", messagebus.HandlerFunc(
		func(context.Context, messagebus.Message) error {
			<-release
			close(delivered)
			return nil
		})))

	err := bus.Publish(context.Background(), "order.placed", "payload")
	require.NoError(t, err)

	// Publish returned while the handler is still blocked.
	select {
	case <-delivered:
		t.Fatal("delivery completed before the handler was released")
	default:
	}

	close(release)
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestBus_DeliveryOutlivesPublisherContext(t *testing.T) {
	bus := messagebus.New(nil)

	handler := &recordingHandler{}
	started := make(chan struct{})
	require.NoError(t, bus.Subscribe("order.placed", messagebus.HandlerFunc(
		func(ctx context.Context, msg messagebus.Message) error {
			<-started
			if err := ctx.Err(); err != nil {
				return err
			}
			return handler.Handle(ctx, msg)
		})))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, "order.placed", "payload"))

	// Cancelling the publisher's context must not cancel the delivery.
	cancel()
	close(started)

	require.Eventually(t, func() bool {
		return handler.count() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestBus_CorrelationIDFromPayload(t *testing.T) {
	bus := messagebus.New(nil)

	handler := &recordingHandler{}
	require.NoError(t, bus.Subscribe("order.placed", handler))

	require.NoError(t, bus.Publish(context.Background(), "order.placed",
		correlatedPayload{OrderID: "order-42"}))

	require.Eventually(t, func() bool {
		return handler.count() == 1
	}, time.Second, 5*time.Millisecond)

	msg := handler.last()
	assert.Equal(t, "order-42", msg.CorrelationID)
	assert.NotEmpty(t, msg.MessageID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestBus_FreshCorrelationIDWithoutKey(t *testing.T) {
	bus := messagebus.New(nil)

	handler := &recordingHandler{}
	require.NoError(t, bus.Subscribe("order.placed", handler))

	require.NoError(t, bus.Publish(context.Background(), "order.placed", "plain"))

	require.Eventually(t, func() bool {
		return handler.count() == 1
	}, time.Second, 5*time.Millisecond)

	assert.NotEmpty(t, handler.last().CorrelationID)
}

func TestBus_SubscribeNilHandler(t *testing.T) {
	bus := messagebus.New(nil)
	assert.Error(t, bus.Subscribe("order.placed", nil))
}
