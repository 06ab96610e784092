// Command server runs the order processing backend: carts, orders,
// payments and inventory wired over an in-process message bus.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/config"
	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/httpserver"
	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
	platformspanner "github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/spanner"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts"
	cartsdomain "github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	cartspersistence "github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/infrastructure/persistence"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/inventory"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/ports"
	ordersdomain "github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/infrastructure/gateway"
	orderspersistence "github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/infrastructure/persistence"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/payments"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := messagebus.New(logger)

	orderRepo, cleanup, err := newOrderRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	cartRepo := newCartRepository()
	pricing, catalog := newGateways(cfg, logger)

	cartsModule := carts.New(carts.Config{Repository: cartRepo})
	ordersModule := orders.New(orders.Config{
		Repository:     orderRepo,
		CartRepository: cartRepo,
		Pricing:        pricing,
		Catalog:        catalog,
		Bus:            bus,
		Logger:         logger,
	})
	payments.New(payments.Config{Bus: bus, Logger: logger})
	inventory.New(inventory.Config{Bus: bus, Logger: logger})

	mux := http.NewServeMux()
	cartsModule.RegisterRoutes(mux)
	ordersModule.RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	handler := httpserver.Middleware(mux,
		httpserver.Recovery(logger),
		httpserver.Logging(logger),
	)

	server := httpserver.New(httpserver.Config{
		Host: cfg.HTTPHost,
		Port: cfg.HTTPPort,
	}, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newOrderRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (ordersdomain.OrderRepository, func(), error) {
	if !cfg.UseSpanner() {
		logger.Info("using in-memory order repository")
		return orderspersistence.NewInMemoryRepository(), func() {}, nil
	}

	client, err := platformspanner.NewClient(ctx, cfg.Spanner())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using spanner order repository", slog.String("database", cfg.Spanner().DSN()))
	return orderspersistence.NewSpannerRepository(client), client.Close, nil
}

func newCartRepository() cartsdomain.CartRepository {
	return cartspersistence.NewInMemoryRepository()
}

func newGateways(cfg config.Config, logger *slog.Logger) (ports.PricingGateway, ports.CatalogGateway) {
	products := gateway.DefaultProducts()

	var pricing ports.PricingGateway = gateway.NewStaticPricingGateway(products, "USD")
	if cfg.PricingBaseURL != "" {
		logger.Info("using HTTP pricing gateway", slog.String("base_url", cfg.PricingBaseURL))
		pricing = gateway.NewHTTPPricingGateway(cfg.PricingBaseURL)
	}

	var catalog ports.CatalogGateway = gateway.NewStaticCatalogGateway(products)
	if cfg.CatalogBaseURL != "" {
		logger.Info("using HTTP catalog gateway", slog.String("base_url", cfg.CatalogBaseURL))
		catalog = gateway.NewHTTPCatalogGateway(cfg.CatalogBaseURL)
	}

	return pricing, catalog
}
