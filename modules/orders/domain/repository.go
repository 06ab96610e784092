package domain

import (
	"context"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// OrderRepository defines persistence operations for orders. The
// idempotency ledgers are saved and loaded with the aggregate.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id types.OrderID) (*Order, error)
	// FindByCartID returns the order created from the given cart, if any.
	// It makes checkout re-entrant: converting the same cart twice yields
	// the already-created order.
	FindByCartID(ctx context.Context, cartID types.CartID) (*Order, error)
}
