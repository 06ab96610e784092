// Package messaging defines the public integration contracts exchanged
// between bounded contexts on the message bus. Modules import topics and
// payload shapes from here, NOT from another module's domain packages.
package messaging

// Topics published and consumed across contexts.
const (
	TopicOrderPlaced     = "order.placed"
	TopicOrderPaid       = "order.paid"
	TopicOrderCancelled  = "order.cancelled"
	TopicPaymentApproved = "payment.approved"
	TopicStockReserved   = "stock.reserved"
)
