// Package persistence implements repository interfaces for carts.
package persistence

import (
	"context"
	"sync"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// InMemoryRepository implements CartRepository using in-memory storage.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		carts: make(map[string]*domain.Cart),
	}
}

func (r *InMemoryRepository) Save(ctx context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.ID().String()] = cart
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id types.CartID) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, exists := r.carts[id.String()]
	if !exists {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

// Compile-time interface check.
var _ domain.CartRepository = (*InMemoryRepository)(nil)
