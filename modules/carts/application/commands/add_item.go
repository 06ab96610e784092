package commands

import (
	"context"
	"fmt"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// AddItemCommand adds quantity of a product to a cart.
type AddItemCommand struct {
	CartID    string
	ProductID string
	Quantity  int
}

type AddItemHandler struct {
	repo domain.CartRepository
}

func NewAddItemHandler(repo domain.CartRepository) *AddItemHandler {
	return &AddItemHandler{repo: repo}
}

func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) error {
	cartID, err := types.ParseCartID(cmd.CartID)
	if err != nil {
		return fmt.Errorf("invalid cart ID: %w", err)
	}

	cart, err := h.repo.FindByID(ctx, cartID)
	if err != nil {
		return fmt.Errorf("finding cart: %w", err)
	}

	if err := cart.AddItem(cmd.ProductID, cmd.Quantity); err != nil {
		return err
	}

	if err := h.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}

	return nil
}
