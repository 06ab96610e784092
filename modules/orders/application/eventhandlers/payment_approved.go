// Package eventhandlers contains the orders context's subscribers to
// integration messages from other contexts. Each handler loads the
// aggregate, issues exactly one command, and saves. Handlers do NOT
// deduplicate: idempotency lives in the aggregate's ledgers, so a
// duplicated or stale delivery is handled in one place. A command failure
// propagates to the bus's delivery boundary, where it is logged and the
// message is dropped.
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

// PaymentApprovedHandler applies approved payments to orders.
// Subscribed to payment.approved.
type PaymentApprovedHandler struct {
	repo      domain.OrderRepository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewPaymentApprovedHandler(repo domain.OrderRepository, publisher events.Publisher, logger *slog.Logger) *PaymentApprovedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentApprovedHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *PaymentApprovedHandler) Handle(ctx context.Context, msg messagebus.Message) error {
	payload, ok := msg.Payload.(messaging.PaymentApprovedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type on %s: %T", msg.Topic, msg.Payload)
	}

	orderID, err := types.ParseOrderID(payload.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order ID in payload: %w", err)
	}

	order, err := h.repo.FindByID(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		// No retry exists; the message is dropped after logging.
		h.logger.Warn("order not found for approved payment, dropping message",
			slog.String("order_id", payload.OrderID),
			slog.String("message_id", msg.MessageID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding order: %w", err)
	}

	if err := order.MarkAsPaid(payload.PaymentID); err != nil {
		return err
	}

	if err := h.repo.Save(ctx, order); err != nil {
		return fmt.Errorf("saving order: %w", err)
	}

	evts := order.PopDomainEvents()
	if len(evts) == 0 {
		h.logger.Debug("payment already processed, replay ignored",
			slog.String("order_id", payload.OrderID),
			slog.String("payment_id", payload.PaymentID))
		return nil
	}

	if err := h.publisher.Publish(ctx, evts...); err != nil {
		return fmt.Errorf("publishing events: %w", err)
	}

	return nil
}
