// Package payments simulates the payments bounded context. It observes
// the orders context exclusively through integration messages: it
// approves a payment for every placed order and refunds it when an order
// is cancelled after payment.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/messaging"
)

// Config holds the module configuration.
type Config struct {
	Bus    *messagebus.Bus
	Logger *slog.Logger
}

// Module is the public API for the payments bounded context.
type Module struct {
	store  *Store
	bus    messagebus.Publisher
	logger *slog.Logger
}

// New creates the payments module and subscribes it on the bus.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "payments")

	m := &Module{
		store:  NewStore(),
		bus:    cfg.Bus,
		logger: logger,
	}

	if err := cfg.Bus.Subscribe(messaging.TopicOrderPlaced, messagebus.HandlerFunc(m.handleOrderPlaced)); err != nil {
		logger.Error("failed to subscribe to order.placed", slog.Any("error", err))
	}
	if err := cfg.Bus.Subscribe(messaging.TopicOrderCancelled, messagebus.HandlerFunc(m.handleOrderCancelled)); err != nil {
		logger.Error("failed to subscribe to order.cancelled", slog.Any("error", err))
	}

	return m
}

// PaymentByOrderID exposes the context's record of a payment.
func (m *Module) PaymentByOrderID(orderID string) (Payment, bool) {
	return m.store.FindByOrderID(orderID)
}

// handleOrderPlaced simulates payment approval for a placed order. A
// duplicated delivery re-publishes the already-recorded payment id; the
// order aggregate's ledger turns the second application into a no-op.
func (m *Module) handleOrderPlaced(ctx context.Context, msg messagebus.Message) error {
	payload, ok := msg.Payload.(messaging.OrderPlacedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type on %s: %T", msg.Topic, msg.Payload)
	}

	payment, exists := m.store.FindByOrderID(payload.OrderID)
	if !exists {
		payment = Payment{
			ID:        "payment-" + uuid.New().String(),
			OrderID:   payload.OrderID,
			Amount:    payload.TotalAmount,
			Currency:  payload.Currency,
			Status:    StatusApproved,
			CreatedAt: time.Now().UTC(),
		}
		m.store.Save(&payment)
		m.logger.Info("payment approved",
			slog.String("order_id", payload.OrderID),
			slog.String("payment_id", payment.ID))
	} else {
		m.logger.Debug("order already has a payment, re-announcing",
			slog.String("order_id", payload.OrderID),
			slog.String("payment_id", payment.ID))
	}

	return m.bus.Publish(ctx, messaging.TopicPaymentApproved, messaging.PaymentApprovedPayload{
		OrderID:   payment.OrderID,
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Timestamp: time.Now().UTC(),
	})
}

// handleOrderCancelled refunds the payment when the cancelled order had
// already been paid. The pre-cancellation status on the message is what
// lets this context branch without querying the orders context.
func (m *Module) handleOrderCancelled(ctx context.Context, msg messagebus.Message) error {
	payload, ok := msg.Payload.(messaging.OrderCancelledPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type on %s: %T", msg.Topic, msg.Payload)
	}

	switch payload.PreviousStatus {
	case "PAID", "STOCK_RESERVED":
		if m.store.markRefunded(payload.OrderID) {
			m.logger.Info("payment refunded",
				slog.String("order_id", payload.OrderID),
				slog.String("reason", payload.Reason))
		} else {
			m.logger.Warn("no payment on record for cancelled paid order",
				slog.String("order_id", payload.OrderID))
		}
	default:
		m.logger.Debug("order cancelled before payment, nothing to refund",
			slog.String("order_id", payload.OrderID),
			slog.String("previous_status", payload.PreviousStatus))
	}

	return nil
}
