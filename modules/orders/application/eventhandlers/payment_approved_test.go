package eventhandlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/eventhandlers"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/events"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/messaging"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// --- Mocks ---

type mockOrderRepository struct {
	findByIDFn     func(ctx context.Context, id types.OrderID) (*domain.Order, error)
	findByCartIDFn func(ctx context.Context, id types.CartID) (*domain.Order, error)
	saveFn         func(ctx context.Context, order *domain.Order) error
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockOrderRepository) FindByCartID(ctx context.Context, id types.CartID) (*domain.Order, error) {
	return m.findByCartIDFn(ctx, id)
}

func (m *mockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return m.saveFn(ctx, order)
}

type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.Event) error {
	m.published = append(m.published, evts...)
	return nil
}

func newPendingOrder(t *testing.T) *domain.Order {
	t.Helper()

	product, err := domain.NewProductSnapshot("prod-keyboard", "Keyboard", "", "SKU-1")
	require.NoError(t, err)
	quantity, err := domain.NewQuantity(2)
	require.NoError(t, err)
	addr, err := domain.NewShippingAddress("1 Main St", "Springfield", "IL", "62701", "US")
	require.NoError(t, err)

	order, err := domain.NewOrder(
		types.NewCartID(),
		types.NewCustomerID(),
		[]domain.OrderItem{{
			Product:      product,
			Quantity:     quantity,
			UnitPrice:    types.MustNewMoney(2499, "USD"),
			ItemDiscount: types.MustNewMoney(0, "USD"),
		}},
		addr,
		types.MustNewMoney(0, "USD"),
	)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func paymentMessage(orderID, paymentID string) messagebus.Message {
	return messagebus.Message{
		MessageID: "msg-1",
		Topic:     messaging.TopicPaymentApproved,
		Payload: messaging.PaymentApprovedPayload{
			OrderID:   orderID,
			PaymentID: paymentID,
			Amount:    4998,
			Currency:  "USD",
		},
		CorrelationID: orderID,
	}
}

// --- Tests ---

func TestPaymentApprovedHandler_MarksOrderPaid(t *testing.T) {
	order := newPendingOrder(t)

	var saved *domain.Order
	repo := &mockOrderRepository{
		findByIDFn: func(_ context.Context, id types.OrderID) (*domain.Order, error) {
			assert.Equal(t, order.ID(), id)
			return order, nil
		},
		saveFn: func(_ context.Context, o *domain.Order) error {
			saved = o
			return nil
		},
	}
	publisher := &mockEventPublisher{}
	handler := eventhandlers.NewPaymentApprovedHandler(repo, publisher, nil)

	err := handler.Handle(context.Background(), paymentMessage(order.ID().String(), "payment-1"))
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, domain.StatusPaid, saved.Status())
	assert.Equal(t, "payment-1", saved.PaymentID())

	require.Len(t, publisher.published, 1)
	assert.Equal(t, domain.OrderPaidEventType, publisher.published[0].EventType())
}

func TestPaymentApprovedHandler_OrderNotFound(t *testing.T) {
	repo := &mockOrderRepository{
		findByIDFn: func(context.Context, types.OrderID) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	}
	publisher := &mockEventPublisher{}
	handler := eventhandlers.NewPaymentApprovedHandler(repo, publisher, nil)

	// Unknown order: the message is dropped without error.
	err := handler.Handle(context.Background(), paymentMessage(types.NewOrderID().String(), "payment-1"))

	assert.NoError(t, err)
	assert.Empty(t, publisher.published)
}

func TestPaymentApprovedHandler_Replay(t *testing.T) {
	order := newPendingOrder(t)
	require.NoError(t, order.MarkAsPaid("payment-1"))
	order.ClearDomainEvents()

	saves := 0
	repo := &mockOrderRepository{
		findByIDFn: func(context.Context, types.OrderID) (*domain.Order, error) {
			return order, nil
		},
		saveFn: func(context.Context, *domain.Order) error {
			saves++
			return nil
		},
	}
	publisher := &mockEventPublisher{}
	handler := eventhandlers.NewPaymentApprovedHandler(repo, publisher, nil)

	err := handler.Handle(context.Background(), paymentMessage(order.ID().String(), "payment-1"))
	require.NoError(t, err)

	// Replay saves the unchanged order and publishes nothing.
	assert.Equal(t, 1, saves)
	assert.Empty(t, publisher.published)
	assert.Equal(t, domain.StatusPaid, order.Status())
}

func TestPaymentApprovedHandler_CancelledOrder(t *testing.T) {
	order := newPendingOrder(t)
	require.NoError(t, order.Cancel("changed mind"))
	order.ClearDomainEvents()

	repo := &mockOrderRepository{
		findByIDFn: func(context.Context, types.OrderID) (*domain.Order, error) {
			return order, nil
		},
		saveFn: func(context.Context, *domain.Order) error {
			t.Fatal("rejected command must not save")
			return nil
		},
	}
	publisher := &mockEventPublisher{}
	handler := eventhandlers.NewPaymentApprovedHandler(repo, publisher, nil)

	err := handler.Handle(context.Background(), paymentMessage(order.ID().String(), "payment-late"))

	// The error surfaces to the bus, which logs and drops the message.
	assert.True(t, domain.IsInvalidTransition(err))
	assert.Equal(t, domain.StatusCancelled, order.Status())
	assert.Empty(t, publisher.published)
}

func TestPaymentApprovedHandler_UnexpectedPayload(t *testing.T) {
	handler := eventhandlers.NewPaymentApprovedHandler(nil, nil, nil)

	err := handler.Handle(context.Background(), messagebus.Message{
		Topic:   messaging.TopicPaymentApproved,
		Payload: "not a payment",
	})
	assert.Error(t, err)
}
