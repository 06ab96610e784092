package messaging

import "time"

// Payloads are JSON-serializable primitives only. Each payload that
// references an order implements CorrelationKey so the bus can correlate
// messages belonging to the same order flow.

// ItemPayload is a line item as it appears on the wire.
type ItemPayload struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unitPrice"`
	ItemDiscount int64  `json:"itemDiscount"`
}

// StockItemPayload identifies a quantity of a product for stock topics.
type StockItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddressPayload is the shipping address as it appears on the wire.
type AddressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderPlacedPayload is published on order.placed.
type OrderPlacedPayload struct {
	OrderID         string         `json:"orderId"`
	CustomerID      string         `json:"customerId"`
	CartID          string         `json:"cartId"`
	Items           []ItemPayload  `json:"items"`
	TotalAmount     int64          `json:"totalAmount"`
	Currency        string         `json:"currency"`
	ShippingAddress AddressPayload `json:"shippingAddress"`
	Timestamp       time.Time      `json:"timestamp"`
}

func (p OrderPlacedPayload) CorrelationKey() string { return p.OrderID }

// OrderPaidPayload is published on order.paid.
type OrderPaidPayload struct {
	OrderID   string    `json:"orderId"`
	PaymentID string    `json:"paymentId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

func (p OrderPaidPayload) CorrelationKey() string { return p.OrderID }

// OrderCancelledPayload is published on order.cancelled. PreviousStatus
// carries the pre-cancellation state so downstream consumers can decide
// whether compensating action (refund, stock release) is needed without
// querying the order again.
type OrderCancelledPayload struct {
	OrderID        string    `json:"orderId"`
	Reason         string    `json:"reason"`
	PreviousStatus string    `json:"previousStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

func (p OrderCancelledPayload) CorrelationKey() string { return p.OrderID }

// PaymentApprovedPayload is published on payment.approved by the payments
// context once a payment for the order has been approved.
type PaymentApprovedPayload struct {
	OrderID   string    `json:"orderId"`
	PaymentID string    `json:"paymentId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

func (p PaymentApprovedPayload) CorrelationKey() string { return p.OrderID }

// StockReservedPayload is published on stock.reserved by the inventory
// context once stock for the order has been set aside.
type StockReservedPayload struct {
	OrderID       string             `json:"orderId"`
	ReservationID string             `json:"reservationId"`
	Items         []StockItemPayload `json:"items"`
	Timestamp     time.Time          `json:"timestamp"`
}

func (p StockReservedPayload) CorrelationKey() string { return p.OrderID }
