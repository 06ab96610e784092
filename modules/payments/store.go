package payments

import (
	"sync"
	"time"
)

// Status of a simulated payment.
type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusRefunded Status = "REFUNDED"
)

// Payment is the payments context's own record of a charge. It is keyed
// by order so that a duplicated order.placed delivery finds and reuses
// the existing payment id instead of charging twice.
type Payment struct {
	ID        string
	OrderID   string
	Amount    int64
	Currency  string
	Status    Status
	CreatedAt time.Time
}

// Store is the in-memory payment ledger of the payments context.
type Store struct {
	mu        sync.RWMutex
	byOrderID map[string]*Payment
}

func NewStore() *Store {
	return &Store{byOrderID: make(map[string]*Payment)}
}

func (s *Store) Save(p *Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byOrderID[p.OrderID] = p
}

func (s *Store) FindByOrderID(orderID string) (Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byOrderID[orderID]
	if !ok {
		return Payment{}, false
	}
	return *p, true
}

func (s *Store) markRefunded(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byOrderID[orderID]
	if !ok {
		return false
	}
	p.Status = StatusRefunded
	return true
}
