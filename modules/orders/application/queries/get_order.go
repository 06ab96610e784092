// Package queries contains read use cases for the orders module.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// GetOrderQuery fetches one order by id.
type GetOrderQuery struct {
	OrderID string
}

// OrderView is the read model returned to callers.
type OrderView struct {
	ID                 string          `json:"id"`
	CartID             string          `json:"cartId"`
	CustomerID         string          `json:"customerId"`
	Status             string          `json:"status"`
	Items              []OrderItemView `json:"items"`
	OrderDiscount      int64           `json:"orderDiscount"`
	TotalAmount        int64           `json:"totalAmount"`
	Currency           string          `json:"currency"`
	PaymentID          string          `json:"paymentId,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

type OrderItemView struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unitPrice"`
	ItemDiscount int64  `json:"itemDiscount"`
}

type GetOrderHandler struct {
	repo domain.OrderRepository
}

func NewGetOrderHandler(repo domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

func (h *GetOrderHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	orderID, err := types.ParseOrderID(query.OrderID)
	if err != nil {
		return OrderView{}, fmt.Errorf("invalid order ID: %w", err)
	}

	order, err := h.repo.FindByID(ctx, orderID)
	if err != nil {
		return OrderView{}, err
	}

	return toView(order), nil
}

func toView(order *domain.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items()))
	for _, item := range order.Items() {
		items = append(items, OrderItemView{
			ProductID:    item.Product.ProductID(),
			Name:         item.Product.Name(),
			SKU:          item.Product.SKU(),
			Quantity:     item.Quantity.Value(),
			UnitPrice:    item.UnitPrice.Amount(),
			ItemDiscount: item.ItemDiscount.Amount(),
		})
	}

	return OrderView{
		ID:                 order.ID().String(),
		CartID:             order.CartID().String(),
		CustomerID:         order.CustomerID().String(),
		Status:             order.Status().String(),
		Items:              items,
		OrderDiscount:      order.OrderDiscount().Amount(),
		TotalAmount:        order.Total().Amount(),
		Currency:           order.Total().Currency(),
		PaymentID:          order.PaymentID(),
		CancellationReason: order.CancellationReason(),
		CreatedAt:          order.CreatedAt(),
	}
}
