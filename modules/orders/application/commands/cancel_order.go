package commands

import (
	"context"
	"fmt"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/events"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// CancelOrderCommand cancels an order with a reason.
type CancelOrderCommand struct {
	OrderID string
	Reason  string
}

type CancelOrderHandler struct {
	repo      domain.OrderRepository
	publisher events.Publisher
}

func NewCancelOrderHandler(repo domain.OrderRepository, publisher events.Publisher) *CancelOrderHandler {
	return &CancelOrderHandler{
		repo:      repo,
		publisher: publisher,
	}
}

// Handle executes the cancel order use case. Cancellation may be injected
// at any point of the flow; the published order.cancelled carries the
// pre-cancellation status for downstream compensation.
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	orderID, err := types.ParseOrderID(cmd.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}

	order, err := h.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("finding order: %w", err)
	}

	if err := order.Cancel(cmd.Reason); err != nil {
		return err
	}

	if err := h.repo.Save(ctx, order); err != nil {
		return fmt.Errorf("saving order: %w", err)
	}

	if err := h.publisher.Publish(ctx, order.PopDomainEvents()...); err != nil {
		return fmt.Errorf("publishing events: %w", err)
	}

	return nil
}
