// Package domain contains business entities and rules for shopping carts.
// Carts are the upstream producers of orders: the invariants here (item
// caps, conversion lock) bound the initial data an order is created with.
package domain

import (
	"time"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

const (
	// MaxItems caps the number of distinct products in a cart.
	MaxItems = 20
	// MaxQuantityPerItem caps the quantity of a single product.
	MaxQuantityPerItem = 10
)

// CartItem is a product reference with a quantity. Pricing and catalog
// data are resolved at checkout, not stored on the cart.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart is the aggregate root for the carts bounded context.
type Cart struct {
	id         types.CartID
	customerID types.CustomerID
	items      []CartItem
	converted  bool
	createdAt  time.Time
}

// NewCart creates an empty cart for a customer.
func NewCart(customerID types.CustomerID) *Cart {
	return &Cart{
		id:         types.NewCartID(),
		customerID: customerID,
		items:      make([]CartItem, 0),
		createdAt:  time.Now().UTC(),
	}
}

// Reconstitute rebuilds a cart from persistence.
func Reconstitute(
	id types.CartID,
	customerID types.CustomerID,
	items []CartItem,
	converted bool,
	createdAt time.Time,
) *Cart {
	return &Cart{
		id:         id,
		customerID: customerID,
		items:      items,
		converted:  converted,
		createdAt:  createdAt,
	}
}

// Getters

func (c *Cart) ID() types.CartID             { return c.id }
func (c *Cart) CustomerID() types.CustomerID { return c.customerID }
func (c *Cart) Items() []CartItem            { return c.items }
func (c *Cart) IsConverted() bool            { return c.converted }
func (c *Cart) CreatedAt() time.Time         { return c.createdAt }

// Business methods

// AddItem adds quantity of a product, merging with an existing line.
// Rejected once the cart has been converted.
func (c *Cart) AddItem(productID string, quantity int) error {
	if c.converted {
		return ErrCartConverted
	}
	if productID == "" {
		return ErrProductIDRequired
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i, item := range c.items {
		if item.ProductID == productID {
			if item.Quantity+quantity > MaxQuantityPerItem {
				return ErrQuantityCapExceeded
			}
			c.items[i].Quantity += quantity
			return nil
		}
	}

	if len(c.items) >= MaxItems {
		return ErrTooManyItems
	}
	if quantity > MaxQuantityPerItem {
		return ErrQuantityCapExceeded
	}

	c.items = append(c.items, CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

// MarkConverted locks the cart after its order has been created. A cart
// converts at most once.
func (c *Cart) MarkConverted() error {
	if c.converted {
		return ErrCartConverted
	}
	if len(c.items) == 0 {
		return ErrCartEmpty
	}

	c.converted = true
	return nil
}
