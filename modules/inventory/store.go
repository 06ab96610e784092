package inventory

import (
	"sync"
	"time"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/messaging"
)

// Reservation is the inventory context's record of stock set aside for
// an order.
type Reservation struct {
	ID        string
	OrderID   string
	Items     []messaging.StockItemPayload
	Released  bool
	CreatedAt time.Time
}

// Store is the in-memory state of the inventory context: the item lists
// it learned from order.placed and the reservations it has made.
type Store struct {
	mu                   sync.RWMutex
	itemsByOrderID       map[string][]messaging.StockItemPayload
	reservationByOrderID map[string]*Reservation
}

func NewStore() *Store {
	return &Store{
		itemsByOrderID:       make(map[string][]messaging.StockItemPayload),
		reservationByOrderID: make(map[string]*Reservation),
	}
}

func (s *Store) RecordItems(orderID string, items []messaging.StockItemPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemsByOrderID[orderID] = items
}

func (s *Store) ItemsForOrder(orderID string) ([]messaging.StockItemPayload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.itemsByOrderID[orderID]
	return items, ok
}

func (s *Store) SaveReservation(r *Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservationByOrderID[r.OrderID] = r
}

func (s *Store) ReservationByOrderID(orderID string) (Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservationByOrderID[orderID]
	if !ok {
		return Reservation{}, false
	}
	return *r, true
}

func (s *Store) markReleased(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservationByOrderID[orderID]
	if !ok {
		return false
	}
	r.Released = true
	return true
}
