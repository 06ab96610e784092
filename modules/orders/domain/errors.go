package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderEmpty            = errors.New("order must have at least one item")
	ErrNegativeTotal         = errors.New("order total cannot be negative")
	ErrPaymentIDRequired     = errors.New("payment ID is required")
	ErrReservationIDRequired = errors.New("reservation ID is required")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrProductIDRequired     = errors.New("product ID is required")
	ErrProductNameRequired   = errors.New("product name is required")
	ErrAddressIncomplete     = errors.New("shipping address is incomplete")
)

// InvalidTransitionError indicates a command incompatible with the order's
// current status, including a conflicting non-idempotent replay. The order
// is left unchanged.
type InvalidTransitionError struct {
	Command string
	Status  Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s order in status %s", e.Command, e.Status)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
