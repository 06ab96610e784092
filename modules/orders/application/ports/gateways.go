// Package ports defines the outbound collaborator contracts of the orders
// context. The gateways form an anti-corruption layer: they translate the
// external pricing and catalog services into the domain's own vocabulary.
package ports

import (
	"context"
	"fmt"
	"time"
)

// GatewayTimeout is the bound within which a gateway call must complete.
const GatewayTimeout = 2 * time.Second

// PricingRequestItem identifies a quantity of a product to be priced.
type PricingRequestItem struct {
	ProductID string
	Quantity  int
}

// PricedItem is the pricing service's answer for one line item.
// Amounts are in the smallest currency unit.
type PricedItem struct {
	ProductID    string
	UnitPrice    int64
	ItemDiscount int64
}

// PricingResult is the full pricing breakdown for a checkout.
type PricingResult struct {
	Items         []PricedItem
	OrderDiscount int64
	OrderTotal    int64
	Currency      string
}

// PricingGateway calculates prices and discounts for a set of items.
// Implementations must complete within GatewayTimeout or fail.
type PricingGateway interface {
	CalculatePricing(ctx context.Context, items []PricingRequestItem) (PricingResult, error)
}

// ProductData is the catalog's description of a product.
type ProductData struct {
	Name        string
	Description string
	SKU         string
}

// CatalogGateway looks up product data for snapshots.
// Implementations must complete within GatewayTimeout or fail.
type CatalogGateway interface {
	GetProductData(ctx context.Context, productID string) (ProductData, error)
}

// GatewayError indicates a collaborator failure or timeout.
type GatewayError struct {
	Gateway string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s gateway unavailable: %v", e.Gateway, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
