// Package commands contains write use cases for the orders module.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	cartsdomain "github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/ports"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/events"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// CheckoutCommand converts a cart into an order.
type CheckoutCommand struct {
	CartID  string
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

type CheckoutHandler struct {
	orders    domain.OrderRepository
	carts     cartsdomain.CartRepository
	pricing   ports.PricingGateway
	catalog   ports.CatalogGateway
	publisher events.Publisher
	logger    *slog.Logger
}

func NewCheckoutHandler(
	orders domain.OrderRepository,
	carts cartsdomain.CartRepository,
	pricing ports.PricingGateway,
	catalog ports.CatalogGateway,
	publisher events.Publisher,
	logger *slog.Logger,
) *CheckoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutHandler{
		orders:    orders,
		carts:     carts,
		pricing:   pricing,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the checkout use case: price the cart, snapshot the
// catalog data, create the order, lock the cart, and publish order.placed
// after the order has been saved. Re-checking-out an already converted
// cart returns the existing order id instead of creating a second order.
func (h *CheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (string, error) {
	cartID, err := types.ParseCartID(cmd.CartID)
	if err != nil {
		return "", fmt.Errorf("invalid cart ID: %w", err)
	}

	if existing, err := h.orders.FindByCartID(ctx, cartID); err == nil {
		h.logger.Info("cart already converted, returning existing order",
			slog.String("cart_id", cartID.String()),
			slog.String("order_id", existing.ID().String()))
		return existing.ID().String(), nil
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return "", fmt.Errorf("looking up order for cart: %w", err)
	}

	cart, err := h.carts.FindByID(ctx, cartID)
	if err != nil {
		return "", fmt.Errorf("finding cart: %w", err)
	}
	if cart.IsConverted() {
		return "", cartsdomain.ErrCartConverted
	}

	address, err := domain.NewShippingAddress(cmd.Street, cmd.City, cmd.State, cmd.ZipCode, cmd.Country)
	if err != nil {
		return "", err
	}

	items, orderDiscount, err := h.buildItems(ctx, cart.Items())
	if err != nil {
		return "", err
	}

	order, err := domain.NewOrder(cartID, cart.CustomerID(), items, address, orderDiscount)
	if err != nil {
		return "", err
	}

	if err := h.orders.Save(ctx, order); err != nil {
		return "", fmt.Errorf("saving order: %w", err)
	}

	if err := cart.MarkConverted(); err != nil {
		return "", err
	}
	if err := h.carts.Save(ctx, cart); err != nil {
		return "", fmt.Errorf("saving cart: %w", err)
	}

	if err := h.publisher.Publish(ctx, order.PopDomainEvents()...); err != nil {
		return "", fmt.Errorf("publishing events: %w", err)
	}

	return order.ID().String(), nil
}

// buildItems turns cart lines into order items: one pricing call for the
// whole cart, then concurrent catalog lookups for the snapshots.
func (h *CheckoutHandler) buildItems(ctx context.Context, cartItems []cartsdomain.CartItem) ([]domain.OrderItem, domain.Money, error) {
	request := make([]ports.PricingRequestItem, 0, len(cartItems))
	for _, item := range cartItems {
		request = append(request, ports.PricingRequestItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	pricing, err := h.pricing.CalculatePricing(ctx, request)
	if err != nil {
		return nil, domain.Money{}, err
	}

	pricedByProduct := make(map[string]ports.PricedItem, len(pricing.Items))
	for _, priced := range pricing.Items {
		pricedByProduct[priced.ProductID] = priced
	}

	snapshots := make([]ports.ProductData, len(cartItems))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range cartItems {
		g.Go(func() error {
			data, err := h.catalog.GetProductData(gctx, item.ProductID)
			if err != nil {
				return err
			}
			snapshots[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.Money{}, err
	}

	items := make([]domain.OrderItem, 0, len(cartItems))
	for i, cartItem := range cartItems {
		priced, ok := pricedByProduct[cartItem.ProductID]
		if !ok {
			return nil, domain.Money{}, &ports.GatewayError{
				Gateway: "pricing",
				Err:     fmt.Errorf("no price returned for product %s", cartItem.ProductID),
			}
		}

		snapshot, err := domain.NewProductSnapshot(
			cartItem.ProductID,
			snapshots[i].Name,
			snapshots[i].Description,
			snapshots[i].SKU,
		)
		if err != nil {
			return nil, domain.Money{}, err
		}

		quantity, err := domain.NewQuantity(cartItem.Quantity)
		if err != nil {
			return nil, domain.Money{}, err
		}

		items = append(items, domain.OrderItem{
			Product:      snapshot,
			Quantity:     quantity,
			UnitPrice:    types.MustNewMoney(priced.UnitPrice, pricing.Currency),
			ItemDiscount: types.MustNewMoney(priced.ItemDiscount, pricing.Currency),
		})
	}

	return items, types.MustNewMoney(pricing.OrderDiscount, pricing.Currency), nil
}
