// Package types provides shared value objects and type definitions
// used across multiple modules (Shared Kernel pattern).
package types

import (
	"github.com/google/uuid"
)

// OrderID represents a unique identifier for an order.
// Using a distinct type prevents mixing up different ID types.
type OrderID struct {
	value string
}

func NewOrderID() OrderID {
	return OrderID{value: uuid.New().String()}
}

func ParseOrderID(s string) (OrderID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return OrderID{}, ErrInvalidID
	}
	return OrderID{value: s}, nil
}

func (id OrderID) String() string { return id.value }
func (id OrderID) IsZero() bool   { return id.value == "" }

// CartID represents a unique identifier for a shopping cart.
type CartID struct {
	value string
}

func NewCartID() CartID {
	return CartID{value: uuid.New().String()}
}

func ParseCartID(s string) (CartID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return CartID{}, ErrInvalidID
	}
	return CartID{value: s}, nil
}

func (id CartID) String() string { return id.value }
func (id CartID) IsZero() bool   { return id.value == "" }

// CustomerID represents a unique identifier for a customer.
// Customers are managed outside this system; here they are opaque references.
type CustomerID struct {
	value string
}

func NewCustomerID() CustomerID {
	return CustomerID{value: uuid.New().String()}
}

func ParseCustomerID(s string) (CustomerID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return CustomerID{}, ErrInvalidID
	}
	return CustomerID{value: s}, nil
}

func (id CustomerID) String() string { return id.value }
func (id CustomerID) IsZero() bool   { return id.value == "" }
