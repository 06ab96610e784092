// Package domain contains business entities and rules for orders.
//
// The Order aggregate is the unit of consistency for the whole flow: it
// owns the state machine and the idempotency ledgers, so duplicated or
// out-of-order integration messages can be turned into commands without
// corrupting state. Handlers deliberately do not deduplicate; the
// aggregate does.
package domain

import (
	"sort"
	"time"

	shareddomain "github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// Order is the aggregate root for the orders bounded context.
type Order struct {
	shareddomain.AggregateRoot

	id         types.OrderID
	cartID     types.CartID
	customerID types.CustomerID

	items           []OrderItem
	shippingAddress ShippingAddress
	orderDiscount   Money
	total           Money

	status             Status
	paymentID          string
	cancellationReason string

	// Idempotency ledgers: append-only sets of externally-generated
	// operation ids already applied to this order. A replayed message
	// whose id is on the ledger is a safe no-op.
	processedPaymentIDs     map[string]struct{}
	processedReservationIDs map[string]struct{}

	createdAt time.Time
}

// NewOrder creates an order from a converted cart. The item list must be
// non-empty; it is immutable afterwards, so the invariant holds for the
// aggregate's lifetime. Raises OrderPlaced.
func NewOrder(
	cartID types.CartID,
	customerID types.CustomerID,
	items []OrderItem,
	shippingAddress ShippingAddress,
	orderDiscount Money,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrOrderEmpty
	}

	total, err := computeTotal(items, orderDiscount)
	if err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}

	order := &Order{
		id:                      types.NewOrderID(),
		cartID:                  cartID,
		customerID:              customerID,
		items:                   items,
		shippingAddress:         shippingAddress,
		orderDiscount:           orderDiscount,
		total:                   total,
		status:                  StatusAwaitingPayment,
		processedPaymentIDs:     make(map[string]struct{}),
		processedReservationIDs: make(map[string]struct{}),
		createdAt:               time.Now().UTC(),
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))
	return order, nil
}

// Reconstitute rebuilds an order from persistence. The ledgers are part
// of the persisted state; they are never reconstructed from elsewhere.
func Reconstitute(
	id types.OrderID,
	cartID types.CartID,
	customerID types.CustomerID,
	items []OrderItem,
	shippingAddress ShippingAddress,
	orderDiscount Money,
	total Money,
	status Status,
	paymentID string,
	cancellationReason string,
	processedPaymentIDs []string,
	processedReservationIDs []string,
	createdAt time.Time,
) *Order {
	return &Order{
		id:                      id,
		cartID:                  cartID,
		customerID:              customerID,
		items:                   items,
		shippingAddress:         shippingAddress,
		orderDiscount:           orderDiscount,
		total:                   total,
		status:                  status,
		paymentID:               paymentID,
		cancellationReason:      cancellationReason,
		processedPaymentIDs:     toSet(processedPaymentIDs),
		processedReservationIDs: toSet(processedReservationIDs),
		createdAt:               createdAt,
	}
}

// Getters

func (o *Order) ID() types.OrderID                { return o.id }
func (o *Order) CartID() types.CartID             { return o.cartID }
func (o *Order) CustomerID() types.CustomerID     { return o.customerID }
func (o *Order) Items() []OrderItem               { return o.items }
func (o *Order) ShippingAddress() ShippingAddress { return o.shippingAddress }
func (o *Order) OrderDiscount() Money             { return o.orderDiscount }
func (o *Order) Total() Money                     { return o.total }
func (o *Order) Status() Status                   { return o.status }
func (o *Order) PaymentID() string                { return o.paymentID }
func (o *Order) CancellationReason() string       { return o.cancellationReason }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }

// HasProcessedPayment reports whether paymentID is on the payment ledger.
func (o *Order) HasProcessedPayment(paymentID string) bool {
	_, ok := o.processedPaymentIDs[paymentID]
	return ok
}

// HasProcessedReservation reports whether reservationID is on the
// reservation ledger.
func (o *Order) HasProcessedReservation(reservationID string) bool {
	_, ok := o.processedReservationIDs[reservationID]
	return ok
}

// ProcessedPaymentIDs returns a sorted copy of the payment ledger.
func (o *Order) ProcessedPaymentIDs() []string {
	return fromSet(o.processedPaymentIDs)
}

// ProcessedReservationIDs returns a sorted copy of the reservation ledger.
func (o *Order) ProcessedReservationIDs() []string {
	return fromSet(o.processedReservationIDs)
}

// Business methods

// MarkAsPaid records an approved payment. A payment id already on the
// ledger is a no-op replay: the order stays as-is and no event is raised.
// Valid only from AWAITING_PAYMENT; a payment arriving after cancellation
// is rejected and the order remains CANCELLED. Raises OrderPaid on the
// first application.
func (o *Order) MarkAsPaid(paymentID string) error {
	if paymentID == "" {
		return ErrPaymentIDRequired
	}

	if o.HasProcessedPayment(paymentID) {
		return nil
	}

	if o.status != StatusAwaitingPayment {
		return &InvalidTransitionError{Command: "mark as paid", Status: o.status}
	}

	o.status = StatusPaid
	o.paymentID = paymentID
	o.processedPaymentIDs[paymentID] = struct{}{}
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// ReserveStock records a stock reservation, guarded by the reservation
// ledger the same way MarkAsPaid is guarded by the payment ledger. Valid
// only from PAID — a reservation arriving before payment or after
// cancellation is rejected. Raises OrderStockReserved on the first
// application.
func (o *Order) ReserveStock(reservationID string) error {
	if reservationID == "" {
		return ErrReservationIDRequired
	}

	if o.HasProcessedReservation(reservationID) {
		return nil
	}

	if o.status != StatusPaid {
		return &InvalidTransitionError{Command: "reserve stock", Status: o.status}
	}

	o.status = StatusStockReserved
	o.processedReservationIDs[reservationID] = struct{}{}
	o.AddDomainEvent(NewOrderStockReservedEvent(o, reservationID))
	return nil
}

// Cancel cancels the order from any state. Cancelling an already
// cancelled order is an idempotent no-op. The pre-cancellation status is
// captured on the event so downstream consumers can branch on it.
func (o *Order) Cancel(reason string) error {
	if o.status == StatusCancelled {
		return nil
	}

	previous := o.status
	o.status = StatusCancelled
	o.cancellationReason = reason
	o.AddDomainEvent(NewOrderCancelledEvent(o, previous, reason))
	return nil
}

func computeTotal(items []OrderItem, orderDiscount Money) (Money, error) {
	subtotal, err := items[0].Subtotal()
	if err != nil {
		return Money{}, err
	}
	for _, item := range items[1:] {
		s, err := item.Subtotal()
		if err != nil {
			return Money{}, err
		}
		subtotal, err = subtotal.Add(s)
		if err != nil {
			return Money{}, err
		}
	}
	if orderDiscount.IsZero() {
		return subtotal, nil
	}
	return subtotal.Subtract(orderDiscount)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func fromSet(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
