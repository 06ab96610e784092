// Package orders provides order management functionality.
// This is the public API for the orders bounded context.
package orders

import (
	"log/slog"
	"net/http"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
	cartsdomain "github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/commands"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/eventhandlers"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/integration"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/ports"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/queries"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	httphandler "github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/infrastructure/http"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/messaging"
)

// Module is the public API for the orders bounded context.
// External communication: HTTP API (RegisterRoutes).
// Cross-context communication: integration messages (subscribed internally).
type Module interface {
	// RegisterRoutes registers the module's HTTP routes to the given mux.
	RegisterRoutes(mux *http.ServeMux)
}

// Config holds the module configuration.
type Config struct {
	Repository     domain.OrderRepository
	CartRepository cartsdomain.CartRepository
	Pricing        ports.PricingGateway
	Catalog        ports.CatalogGateway
	Bus            *messagebus.Bus
	Logger         *slog.Logger
}

type module struct {
	checkoutHandler    *commands.CheckoutHandler
	cancelOrderHandler *commands.CancelOrderHandler
	getOrderHandler    *queries.GetOrderHandler
}

// New creates a new orders module and subscribes its integration
// handlers on the bus.
func New(cfg Config) Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "orders")

	publisher := integration.NewEventPublisher(cfg.Bus, logger)

	checkoutHandler := commands.NewCheckoutHandler(cfg.Repository, cfg.CartRepository, cfg.Pricing, cfg.Catalog, publisher, logger)
	cancelOrderHandler := commands.NewCancelOrderHandler(cfg.Repository, publisher)
	getOrderHandler := queries.NewGetOrderHandler(cfg.Repository)

	// Subscribe to integration messages from other contexts.
	paymentApproved := eventhandlers.NewPaymentApprovedHandler(cfg.Repository, publisher, logger)
	if err := cfg.Bus.Subscribe(messaging.TopicPaymentApproved, paymentApproved); err != nil {
		logger.Error("failed to subscribe to payment.approved", slog.Any("error", err))
	}

	stockReserved := eventhandlers.NewStockReservedHandler(cfg.Repository, publisher, logger)
	if err := cfg.Bus.Subscribe(messaging.TopicStockReserved, stockReserved); err != nil {
		logger.Error("failed to subscribe to stock.reserved", slog.Any("error", err))
	}

	return &module{
		checkoutHandler:    checkoutHandler,
		cancelOrderHandler: cancelOrderHandler,
		getOrderHandler:    getOrderHandler,
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux) {
	httphandler.RegisterRoutes(mux, m.checkoutHandler, m.cancelOrderHandler, m.getOrderHandler)
}
