// Package http provides HTTP handlers for the orders module.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	cartsdomain "github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/commands"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/ports"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/queries"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

type Handler struct {
	checkout    *commands.CheckoutHandler
	cancelOrder *commands.CancelOrderHandler
	getOrder    *queries.GetOrderHandler
}

// RegisterRoutes registers the orders module routes to the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	checkout *commands.CheckoutHandler,
	cancelOrder *commands.CancelOrderHandler,
	getOrder *queries.GetOrderHandler,
) {
	h := &Handler{
		checkout:    checkout,
		cancelOrder: cancelOrder,
		getOrder:    getOrder,
	}

	mux.HandleFunc("POST /carts/{id}/checkout", h.handleCheckout)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("POST /orders/{id}/cancel", h.handleCancelOrder)
}

// Request/Response DTOs

type checkoutRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type checkoutResponse struct {
	OrderID string `json:"orderId"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handlers

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("id")
	if cartID == "" {
		writeError(w, http.StatusBadRequest, "cart ID is required")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.CheckoutCommand{
		CartID:  cartID,
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	}

	orderID, err := h.checkout.Handle(r.Context(), cmd)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{OrderID: orderID})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "order ID is required")
		return
	}

	order, err := h.getOrder.Handle(r.Context(), queries.GetOrderQuery{OrderID: id})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "order ID is required")
		return
	}

	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.CancelOrderCommand{OrderID: id, Reason: req.Reason}
	if err := h.cancelOrder.Handle(r.Context(), cmd); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helpers

func handleError(w http.ResponseWriter, err error) {
	var gatewayErr *ports.GatewayError
	var transitionErr *domain.InvalidTransitionError

	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, cartsdomain.ErrCartNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &transitionErr), errors.Is(err, cartsdomain.ErrCartConverted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &gatewayErr):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, domain.ErrOrderEmpty),
		errors.Is(err, domain.ErrAddressIncomplete), errors.Is(err, cartsdomain.ErrCartEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
