package gateway

import (
	"context"
	"fmt"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/ports"
)

// StaticProduct is one entry of the built-in product table.
type StaticProduct struct {
	Name        string
	Description string
	SKU         string
	UnitPrice   int64
}

// DefaultProducts is a small fixed catalog for local runs.
func DefaultProducts() map[string]StaticProduct {
	return map[string]StaticProduct{
		"prod-keyboard": {Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", SKU: "KB-TKL-BRN", UnitPrice: 2499},
		"prod-mouse":    {Name: "Wireless Mouse", Description: "Ergonomic, 6 buttons", SKU: "MS-ERG-6B", UnitPrice: 1899},
		"prod-monitor":  {Name: "27in Monitor", Description: "QHD IPS panel", SKU: "MN-27-QHD", UnitPrice: 24900},
	}
}

// StaticPricingGateway prices items from a fixed table, with no
// discounts. Used when no pricing service is configured, and in tests.
type StaticPricingGateway struct {
	products map[string]StaticProduct
	currency string
}

func NewStaticPricingGateway(products map[string]StaticProduct, currency string) *StaticPricingGateway {
	return &StaticPricingGateway{products: products, currency: currency}
}

func (g *StaticPricingGateway) CalculatePricing(ctx context.Context, items []ports.PricingRequestItem) (ports.PricingResult, error) {
	result := ports.PricingResult{Currency: g.currency}
	for _, item := range items {
		product, ok := g.products[item.ProductID]
		if !ok {
			return ports.PricingResult{}, &ports.GatewayError{
				Gateway: "pricing",
				Err:     fmt.Errorf("unknown product %s", item.ProductID),
			}
		}
		result.Items = append(result.Items, ports.PricedItem{
			ProductID: item.ProductID,
			UnitPrice: product.UnitPrice,
		})
		result.OrderTotal += product.UnitPrice * int64(item.Quantity)
	}
	return result, nil
}

// StaticCatalogGateway serves product data from the same fixed table.
type StaticCatalogGateway struct {
	products map[string]StaticProduct
}

func NewStaticCatalogGateway(products map[string]StaticProduct) *StaticCatalogGateway {
	return &StaticCatalogGateway{products: products}
}

func (g *StaticCatalogGateway) GetProductData(ctx context.Context, productID string) (ports.ProductData, error) {
	product, ok := g.products[productID]
	if !ok {
		return ports.ProductData{}, &ports.GatewayError{
			Gateway: "catalog",
			Err:     fmt.Errorf("unknown product %s", productID),
		}
	}
	return ports.ProductData{
		Name:        product.Name,
		Description: product.Description,
		SKU:         product.SKU,
	}, nil
}

// Compile-time interface checks.
var (
	_ ports.PricingGateway = (*StaticPricingGateway)(nil)
	_ ports.CatalogGateway = (*StaticCatalogGateway)(nil)
)
