// Package inventory simulates the inventory bounded context. It learns
// an order's items from order.placed, reserves stock when the order is
// paid, and releases the reservation when a stock-reserved order is
// cancelled.
package inventory

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

// Module is the public API for the inventory bounded context.
type Module struct {
	store  *Store
	bus    messagebus.Publisher
	logger *slog.Logger
}

// New creates the inventory module and subscribes it on the bus.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "inventory")

	m := &Module{
		store:  NewStore(),
		bus:    cfg.Bus,
		logger: logger,
	}

	if err := cfg.Bus.Subscribe(messaging.TopicOrderPlaced, messagebus.HandlerFunc(m.handleOrderPlaced)); err != nil {
		logger.Error("failed to subscribe to order.placed", slog.Any("error", err))
	}
	if err := cfg.Bus.Subscribe(messaging.TopicOrderPaid, messagebus.HandlerFunc(m.handleOrderPaid)); err != nil {
		logger.Error("failed to subscribe to order.paid", slog.Any("error", err))
	}
	if err := cfg.Bus.Subscribe(messaging.TopicOrderCancelled, messagebus.HandlerFunc(m.handleOrderCancelled)); err != nil {
		logger.Error("failed to subscribe to order.cancelled", slog.Any("error", err))
	}

	return m
}

// ReservationByOrderID exposes the context's record of a reservation.
func (m *Module) ReservationByOrderID(orderID string) (Reservation, bool) {
	return m.store.ReservationByOrderID(orderID)
}

// handleOrderPlaced captures the item list for later reservation.
func (m *Module) handleOrderPlaced(ctx context.Context, msg messagebus.Message) error {
	payload, ok := msg.Payload.(messaging.OrderPlacedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type on %s: %T", msg.Topic, msg.Payload)
	}

	items := make([]messaging.StockItemPayload, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, messaging.StockItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	m.store.RecordItems(payload.OrderID, items)

	return nil
}

// handleOrderPaid reserves stock for a paid order. A duplicated delivery
// re-publishes the already-recorded reservation id.
func (m *Module) handleOrderPaid(ctx context.Context, msg messagebus.Message) error {
	payload, ok := msg.Payload.(messaging.OrderPaidPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type on %s: %T", msg.Topic, msg.Payload)
	}

	reservation, exists := m.store.ReservationByOrderID(payload.OrderID)
	if !exists {
		items, known := m.store.ItemsForOrder(payload.OrderID)
		if !known {
			// order.paid beat order.placed here, or order.placed was
			// lost. There is no retry; log and drop.
			m.logger.Warn("no items known for paid order, dropping message",
				slog.String("order_id", payload.OrderID),
				slog.String("message_id", msg.MessageID))
			return nil
		}

		reservation = Reservation{
			ID:        "reservation-" + uuid.New().String(),
			OrderID:   payload.OrderID,
			Items:     items,
			CreatedAt: time.Now().UTC(),
		}
		m.store.SaveReservation(&reservation)
		m.logger.Info("stock reserved",
			slog.String("order_id", payload.OrderID),
			slog.String("reservation_id", reservation.ID))
	} else {
		m.logger.Debug("order already has a reservation, re-announcing",
			slog.String("order_id", payload.OrderID),
			slog.String("reservation_id", reservation.ID))
	}

	return m.bus.Publish(ctx, messaging.TopicStockReserved, messaging.StockReservedPayload{
		OrderID:       reservation.OrderID,
		ReservationID: reservation.ID,
		Items:         reservation.Items,
		Timestamp:     time.Now().UTC(),
	})
}

// handleOrderCancelled releases the reservation when the cancelled order
// had reached STOCK_RESERVED; earlier cancellations have nothing to
// release.
func (m *Module) handleOrderCancelled(ctx context.Context, msg messagebus.Message) error {
	payload, ok := msg.Payload.(messaging.OrderCancelledPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type on %s: %T", msg.Topic, msg.Payload)
	}

	if payload.PreviousStatus != "STOCK_RESERVED" {
		m.logger.Debug("order cancelled before stock reservation, nothing to release",
			slog.String("order_id", payload.OrderID),
			slog.String("previous_status", payload.PreviousStatus))
		return nil
	}

	if m.store.markReleased(payload.OrderID) {
		m.logger.Info("stock reservation released",
			slog.String("order_id", payload.OrderID),
			slog.String("reason", payload.Reason))
	} else {
		m.logger.Warn("no reservation on record for cancelled order",
			slog.String("order_id", payload.OrderID))
	}

	return nil
}
