package eventhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/events"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/messaging"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// StockReservedHandler applies stock reservations to orders.
// Subscribed to stock.reserved.
type StockReservedHandler struct {
	repo      domain.OrderRepository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewStockReservedHandler(repo domain.OrderRepository, publisher events.Publisher, logger *slog.Logger) *StockReservedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockReservedHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *StockReservedHandler) Handle(ctx context.Context, msg messagebus.Message) error {
	payload, ok := msg.Payload.(messaging.StockReservedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type on %s: %T", msg.Topic, msg.Payload)
	}

	orderID, err := types.ParseOrderID(payload.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order ID in payload: %w", err)
	}

	order, err := h.repo.FindByID(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		h.logger.Warn("order not found for stock reservation, dropping message",
			slog.String("order_id", payload.OrderID),
			slog.String("message_id", msg.MessageID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding order: %w", err)
	}

	if err := order.ReserveStock(payload.ReservationID); err != nil {
		return err
	}

	if err := h.repo.Save(ctx, order); err != nil {
		return fmt.Errorf("saving order: %w", err)
	}

	evts := order.PopDomainEvents()
	if len(evts) == 0 {
		h.logger.Debug("reservation already processed, replay ignored",
			slog.String("order_id", payload.OrderID),
			slog.String("reservation_id", payload.ReservationID))
		return nil
	}

	if err := h.publisher.Publish(ctx, evts...); err != nil {
		return fmt.Errorf("publishing events: %w", err)
	}

	return nil
}
