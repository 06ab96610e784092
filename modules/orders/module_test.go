package orders_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/messagebus"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts"
	cartspersistence "github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/infrastructure/persistence"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/inventory"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/infrastructure/gateway"
	orderspersistence "github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/infrastructure/persistence"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/payments"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/messaging"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// backend wires all four contexts over one bus, the way cmd/server does,
// and exposes the HTTP surface through httptest.
type backend struct {
	server    *httptest.Server
	bus       *messagebus.Bus
	orders    *orderspersistence.InMemoryRepository
	payments  *payments.Module
	inventory *inventory.Module
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := messagebus.New(logger)
	orderRepo := orderspersistence.NewInMemoryRepository()
	cartRepo := cartspersistence.NewInMemoryRepository()
	products := gateway.DefaultProducts()

	cartsModule := carts.New(carts.Config{Repository: cartRepo})
	ordersModule := orders.New(orders.Config{
		Repository:     orderRepo,
		CartRepository: cartRepo,
		Pricing:        gateway.NewStaticPricingGateway(products, "USD"),
		Catalog:        gateway.NewStaticCatalogGateway(products),
		Bus:            bus,
		Logger:         logger,
	})
	paymentsModule := payments.New(payments.Config{Bus: bus, Logger: logger})
	inventoryModule := inventory.New(inventory.Config{Bus: bus, Logger: logger})

	mux := http.NewServeMux()
	cartsModule.RegisterRoutes(mux)
	ordersModule.RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &backend{
		server:    server,
		bus:       bus,
		orders:    orderRepo,
		payments:  paymentsModule,
		inventory: inventoryModule,
	}
}

func (b *backend) post(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(b.server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, data
}

func (b *backend) getOrder(t *testing.T, orderID string) map[string]any {
	t.Helper()

	resp, err := http.Get(b.server.URL + "/orders/" + orderID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func (b *backend) orderStatus(t *testing.T, orderID string) string {
	t.Helper()
	status, _ := b.getOrder(t, orderID)["status"].(string)
	return status
}

func (b *backend) createCart(t *testing.T, items map[string]int) string {
	t.Helper()

	resp, data := b.post(t, "/carts", map[string]string{
		"customerId": types.NewCustomerID().String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &created))

	for productID, quantity := range items {
		resp, data := b.post(t, "/carts/"+created.ID+"/items", map[string]any{
			"productId": productID,
			"quantity":  quantity,
		})
		require.Equal(t, http.StatusNoContent, resp.StatusCode, string(data))
	}
	return created.ID
}

func (b *backend) checkout(t *testing.T, cartID string) string {
	t.Helper()

	resp, data := b.post(t, "/carts/"+cartID+"/checkout", map[string]string{
		"street":  "1 Main St",
		"city":    "Springfield",
		"state":   "IL",
		"zipCode": "62701",
		"country": "US",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var created struct {
		OrderID string `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	return created.OrderID
}

const (
	settleTimeout = 3 * time.Second
	settleTick    = 10 * time.Millisecond
)

func TestCheckoutToStockReserved(t *testing.T) {
	b := newBackend(t)

	cartID := b.createCart(t, map[string]int{"prod-keyboard": 2})
	orderID := b.checkout(t, cartID)

	// order.placed → payment.approved → order.paid → stock.reserved
	// settles asynchronously into STOCK_RESERVED.
	require.Eventually(t, func() bool {
		return b.orderStatus(t, orderID) == "STOCK_RESERVED"
	}, settleTimeout, settleTick)

	view := b.getOrder(t, orderID)
	assert.Equal(t, float64(4998), view["totalAmount"])
	assert.Equal(t, "USD", view["currency"])

	paymentID, _ := view["paymentId"].(string)
	assert.True(t, strings.HasPrefix(paymentID, "payment-"), "paymentId %q", paymentID)

	payment, ok := b.payments.PaymentByOrderID(orderID)
	require.True(t, ok)
	assert.Equal(t, paymentID, payment.ID)
	assert.Equal(t, int64(4998), payment.Amount)

	reservation, ok := b.inventory.ReservationByOrderID(orderID)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(reservation.ID, "reservation-"))
	assert.False(t, reservation.Released)
}

func TestCancelBeforePaymentWins(t *testing.T) {
	// No payments context: nothing ever approves a payment, so the
	// cancellation is guaranteed to land first.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := messagebus.New(logger)
	orderRepo := orderspersistence.NewInMemoryRepository()
	cartRepo := cartspersistence.NewInMemoryRepository()
	products := gateway.DefaultProducts()

	cartsModule := carts.New(carts.Config{Repository: cartRepo})
	ordersModule := orders.New(orders.Config{
		Repository:     orderRepo,
		CartRepository: cartRepo,
		Pricing:        gateway.NewStaticPricingGateway(products, "USD"),
		Catalog:        gateway.NewStaticCatalogGateway(products),
		Bus:            bus,
		Logger:         logger,
	})

	mux := http.NewServeMux()
	cartsModule.RegisterRoutes(mux)
	ordersModule.RegisterRoutes(mux)
	isolated := &backend{server: httptest.NewServer(mux)}
	t.Cleanup(isolated.server.Close)

	cartID := isolated.createCart(t, map[string]int{"prod-mouse": 1})
	orderID := isolated.checkout(t, cartID)

	resp, data := isolated.post(t, "/orders/"+orderID+"/cancel", map[string]string{
		"reason": "changed my mind",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(data))

	view := isolated.getOrder(t, orderID)
	assert.Equal(t, "CANCELLED", view["status"])
	assert.Equal(t, "changed my mind", view["cancellationReason"])
	assert.Nil(t, view["paymentId"])

	// A payment arriving after cancellation is rejected and dropped;
	// the order stays CANCELLED.
	require.NoError(t, bus.Publish(context.Background(), messaging.TopicPaymentApproved,
		messaging.PaymentApprovedPayload{
			OrderID:   orderID,
			PaymentID: "payment-late",
			Amount:    1899,
			Currency:  "USD",
		}))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "CANCELLED", isolated.orderStatus(t, orderID))
}

func TestCancelAfterStockReservedRefundsAndReleases(t *testing.T) {
	b := newBackend(t)

	cartID := b.createCart(t, map[string]int{"prod-monitor": 1})
	orderID := b.checkout(t, cartID)

	require.Eventually(t, func() bool {
		return b.orderStatus(t, orderID) == "STOCK_RESERVED"
	}, settleTimeout, settleTick)

	resp, data := b.post(t, "/orders/"+orderID+"/cancel", map[string]string{
		"reason": "damaged in warehouse",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(data))
	assert.Equal(t, "CANCELLED", b.orderStatus(t, orderID))

	// Compensation: the payment is refunded and the reservation released.
	require.Eventually(t, func() bool {
		payment, ok := b.payments.PaymentByOrderID(orderID)
		if !ok || payment.Status != payments.StatusRefunded {
			return false
		}
		reservation, ok := b.inventory.ReservationByOrderID(orderID)
		return ok && reservation.Released
	}, settleTimeout, settleTick)
}

func TestDuplicatePaymentMessageIsIgnored(t *testing.T) {
	b := newBackend(t)

	cartID := b.createCart(t, map[string]int{"prod-keyboard": 2})
	orderID := b.checkout(t, cartID)

	require.Eventually(t, func() bool {
		return b.orderStatus(t, orderID) == "STOCK_RESERVED"
	}, settleTimeout, settleTick)

	payment, ok := b.payments.PaymentByOrderID(orderID)
	require.True(t, ok)

	// Redeliver the same approval. The ledger absorbs it: no state
	// change, no second order.paid.
	require.NoError(t, b.bus.Publish(context.Background(), messaging.TopicPaymentApproved,
		messaging.PaymentApprovedPayload{
			OrderID:   orderID,
			PaymentID: payment.ID,
			Amount:    payment.Amount,
			Currency:  payment.Currency,
		}))

	time.Sleep(100 * time.Millisecond)

	view := b.getOrder(t, orderID)
	assert.Equal(t, "STOCK_RESERVED", view["status"])
	assert.Equal(t, payment.ID, view["paymentId"])
}

func TestDuplicateOrderPlacedReusesPayment(t *testing.T) {
	b := newBackend(t)

	cartID := b.createCart(t, map[string]int{"prod-mouse": 3})
	orderID := b.checkout(t, cartID)

	require.Eventually(t, func() bool {
		_, ok := b.payments.PaymentByOrderID(orderID)
		return ok
	}, settleTimeout, settleTick)

	first, _ := b.payments.PaymentByOrderID(orderID)

	// A redelivered order.placed must not mint a second payment id.
	require.NoError(t, b.bus.Publish(context.Background(), messaging.TopicOrderPlaced,
		messaging.OrderPlacedPayload{
			OrderID:     orderID,
			TotalAmount: first.Amount,
			Currency:    first.Currency,
			Items:       []messaging.ItemPayload{{ProductID: "prod-mouse", Quantity: 3}},
		}))

	time.Sleep(100 * time.Millisecond)

	second, ok := b.payments.PaymentByOrderID(orderID)
	require.True(t, ok)
	assert.Equal(t, first.ID, second.ID)
}

func TestCheckoutIsIdempotentOverHTTP(t *testing.T) {
	b := newBackend(t)

	cartID := b.createCart(t, map[string]int{"prod-keyboard": 1})
	first := b.checkout(t, cartID)
	second := b.checkout(t, cartID)

	assert.Equal(t, first, second)
}

func TestGetOrder_NotFound(t *testing.T) {
	b := newBackend(t)

	resp, err := http.Get(b.server.URL + fmt.Sprintf("/orders/%s", "2b1a8f0e-1111-4222-8333-444455556666"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
