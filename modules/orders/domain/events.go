package domain

import (
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/events"
)

// The closed set of domain event kinds raised by the Order aggregate.
// OrderStockReserved is internal only: it has no integration mapping.
const (
	OrderPlacedEventType        events.EventType = "orders.OrderPlaced"
	OrderPaidEventType          events.EventType = "orders.OrderPaid"
	OrderCancelledEventType     events.EventType = "orders.OrderCancelled"
	OrderStockReservedEventType events.EventType = "orders.OrderStockReserved"
)

// OrderPlacedEvent is raised when a cart is converted into an order.
type OrderPlacedEvent struct {
	events.BaseEvent
	Order *Order
}

func NewOrderPlacedEvent(order *Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		BaseEvent: events.NewBaseEvent(OrderPlacedEventType, order.ID().String()),
		Order:     order,
	}
}

// OrderPaidEvent is raised the first time a payment id is applied.
type OrderPaidEvent struct {
	events.BaseEvent
	OrderID   string
	PaymentID string
	Amount    int64
	Currency  string
}

func NewOrderPaidEvent(order *Order) OrderPaidEvent {
	return OrderPaidEvent{
		BaseEvent: events.NewBaseEvent(OrderPaidEventType, order.ID().String()),
		OrderID:   order.ID().String(),
		PaymentID: order.PaymentID(),
		Amount:    order.Total().Amount(),
		Currency:  order.Total().Currency(),
	}
}

// OrderCancelledEvent is raised when an order is cancelled. It carries
// the pre-cancellation status for downstream compensation decisions.
type OrderCancelledEvent struct {
	events.BaseEvent
	OrderID        string
	Reason         string
	PreviousStatus Status
}

func NewOrderCancelledEvent(order *Order, previous Status, reason string) OrderCancelledEvent {
	return OrderCancelledEvent{
		BaseEvent:      events.NewBaseEvent(OrderCancelledEventType, order.ID().String()),
		OrderID:        order.ID().String(),
		Reason:         reason,
		PreviousStatus: previous,
	}
}

// OrderStockReservedEvent is raised the first time a reservation id is
// applied. It stays inside the orders context.
type OrderStockReservedEvent struct {
	events.BaseEvent
	OrderID       string
	ReservationID string
}

func NewOrderStockReservedEvent(order *Order, reservationID string) OrderStockReservedEvent {
	return OrderStockReservedEvent{
		BaseEvent:     events.NewBaseEvent(OrderStockReservedEventType, order.ID().String()),
		OrderID:       order.ID().String(),
		ReservationID: reservationID,
	}
}
