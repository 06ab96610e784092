// Package http provides HTTP handlers for the carts module.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/application/commands"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

type Handler struct {
	createCart *commands.CreateCartHandler
	addItem    *commands.AddItemHandler
}

// RegisterRoutes registers the carts module routes to the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	createCart *commands.CreateCartHandler,
	addItem *commands.AddItemHandler,
) {
	h := &Handler{
		createCart: createCart,
		addItem:    addItem,
	}

	mux.HandleFunc("POST /carts", h.handleCreateCart)
	mux.HandleFunc("POST /carts/{id}/items", h.handleAddItem)
}

type createCartRequest struct {
	CustomerID string `json:"customerId"`
}

type createCartResponse struct {
	ID string `json:"id"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.createCart.Handle(r.Context(), commands.CreateCartCommand{CustomerID: req.CustomerID})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createCartResponse{ID: id})
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("id")
	if cartID == "" {
		writeError(w, http.StatusBadRequest, "cart ID is required")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.AddItemCommand{
		CartID:    cartID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}

	if err := h.addItem.Handle(r.Context(), cmd); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCartConverted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrProductIDRequired),
		errors.Is(err, domain.ErrTooManyItems),
		errors.Is(err, domain.ErrQuantityCapExceeded):
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
