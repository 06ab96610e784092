package domain

// Status represents the order status. Transitions are monotonic
// (AWAITING_PAYMENT → PAID → STOCK_RESERVED) except for the universal
// escape into CANCELLED.
type Status string

const (
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusPaid            Status = "PAID"
	StatusStockReserved   Status = "STOCK_RESERVED"
	StatusCancelled       Status = "CANCELLED"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusAwaitingPayment, StatusPaid, StatusStockReserved, StatusCancelled:
		return true
	default:
		return false
	}
}
