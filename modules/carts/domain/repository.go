package domain

import (
	"context"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// CartRepository defines persistence operations for carts.
type CartRepository interface {
	Save(ctx context.Context, cart *Cart) error
	FindByID(ctx context.Context, id types.CartID) (*Cart, error)
}
