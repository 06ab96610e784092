// Package persistence implements repository interfaces for orders.
package persistence

import (
	"context"
	"sync"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// InMemoryRepository implements OrderRepository using in-memory storage.
// There is no cross-handler lock: two in-flight messages for the same
// order will independently load, mutate, and save; the aggregate's
// ledgers prevent double side effects, the classic lost-update race on
// other fields is an accepted hazard of the single-process design.
type InMemoryRepository struct {
	mu       sync.RWMutex
	orders   map[string]*domain.Order
	byCartID map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders:   make(map[string]*domain.Order),
		byCartID: make(map[string]string),
	}
}

func (r *InMemoryRepository) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID().String()] = order
	r.byCartID[order.CartID().String()] = order.ID().String()
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id.String()]
	if !exists {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *InMemoryRepository) FindByCartID(ctx context.Context, cartID types.CartID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderID, exists := r.byCartID[cartID.String()]
	if !exists {
		return nil, domain.ErrOrderNotFound
	}
	return r.orders[orderID], nil
}

// Compile-time interface check.
var _ domain.OrderRepository = (*InMemoryRepository)(nil)
