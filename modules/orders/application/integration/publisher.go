// Package integration translates the orders context's internal domain
// events into integration messages on the bus.
package integration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/events"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/messaging"
)

// EventPublisher maps domain events to topics. The mapping is data-only:
//
//	OrderPlaced    → order.placed
//	OrderPaid      → order.paid
//	OrderCancelled → order.cancelled
//
// Event kinds outside the table (e.g. OrderStockReserved) are silently
// ignored, so internal-only events never require a publisher change.
// Publish is called after the aggregate mutation has been saved.
type EventPublisher struct {
	bus    messagebus.Publisher
	logger *slog.Logger
}

func NewEventPublisher(bus messagebus.Publisher, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{bus: bus, logger: logger}
}

// Publish implements events.Publisher.
func (p *EventPublisher) Publish(ctx context.Context, evts ...events.Event) error {
	for _, event := range evts {
		topic, payload, ok := p.mapEvent(event)
		if !ok {
			p.logger.Debug("no integration mapping for event, skipping",
				slog.String("event_type", event.EventType().String()),
				slog.String("event_id", event.EventID()))
			continue
		}

		if err := p.bus.Publish(ctx, topic, payload); err != nil {
			return fmt.Errorf("publishing %s: %w", topic, err)
		}
	}
	return nil
}

func (p *EventPublisher) mapEvent(event events.Event) (string, any, bool) {
	switch e := event.(type) {
	case domain.OrderPlacedEvent:
		return messaging.TopicOrderPlaced, orderPlacedPayload(e), true
	case domain.OrderPaidEvent:
		return messaging.TopicOrderPaid, messaging.OrderPaidPayload{
			OrderID:   e.OrderID,
			PaymentID: e.PaymentID,
			Amount:    e.Amount,
			Currency:  e.Currency,
			Timestamp: e.OccurredAt(),
		}, true
	case domain.OrderCancelledEvent:
		return messaging.TopicOrderCancelled, messaging.OrderCancelledPayload{
			OrderID:        e.OrderID,
			Reason:         e.Reason,
			PreviousStatus: e.PreviousStatus.String(),
			Timestamp:      e.OccurredAt(),
		}, true
	default:
		return "", nil, false
	}
}

func orderPlacedPayload(e domain.OrderPlacedEvent) messaging.OrderPlacedPayload {
	order := e.Order

	items := make([]messaging.ItemPayload, 0, len(order.Items()))
	for _, item := range order.Items() {
		items = append(items, messaging.ItemPayload{
			ProductID:    item.Product.ProductID(),
			Name:         item.Product.Name(),
			SKU:          item.Product.SKU(),
			Quantity:     item.Quantity.Value(),
			UnitPrice:    item.UnitPrice.Amount(),
			ItemDiscount: item.ItemDiscount.Amount(),
		})
	}

	addr := order.ShippingAddress()

	return messaging.OrderPlacedPayload{
		OrderID:     order.ID().String(),
		CustomerID:  order.CustomerID().String(),
		CartID:      order.CartID().String(),
		Items:       items,
		TotalAmount: order.Total().Amount(),
		Currency:    order.Total().Currency(),
		ShippingAddress: messaging.AddressPayload{
			Street:  addr.Street(),
			City:    addr.City(),
			State:   addr.State(),
			ZipCode: addr.ZipCode(),
			Country: addr.Country(),
		},
		Timestamp: e.OccurredAt(),
	}
}

// Compile-time interface check.
var _ events.Publisher = (*EventPublisher)(nil)
