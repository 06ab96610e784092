// Package commands contains write use cases for the carts module.
package commands

import (
	"context"
	"fmt"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// CreateCartCommand creates a new cart for a customer.
type CreateCartCommand struct {
	CustomerID string
}

type CreateCartHandler struct {
	repo domain.CartRepository
}

func NewCreateCartHandler(repo domain.CartRepository) *CreateCartHandler {
	return &CreateCartHandler{repo: repo}
}

func (h *CreateCartHandler) Handle(ctx context.Context, cmd CreateCartCommand) (string, error) {
	customerID, err := types.ParseCustomerID(cmd.CustomerID)
	if err != nil {
		return "", fmt.Errorf("invalid customer ID: %w", err)
	}

	cart := domain.NewCart(customerID)
	if err := h.repo.Save(ctx, cart); err != nil {
		return "", fmt.Errorf("saving cart: %w", err)
	}

	return cart.ID().String(), nil
}
