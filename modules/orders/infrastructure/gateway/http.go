// Package gateway implements the pricing and catalog ports against the
// external services, plus static variants for local runs and tests.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/orders/application/ports"
)

// HTTPPricingGateway calls the external pricing service. Every call is
// bounded by the configured timeout; a slow or failing service surfaces
// as a GatewayError.
type HTTPPricingGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPricingGateway(baseURL string) *HTTPPricingGateway {
	return &HTTPPricingGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: ports.GatewayTimeout},
	}
}

type pricingRequest struct {
	Items []pricingRequestItem `json:"items"`
}

type pricingRequestItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type pricingResponse struct {
	Items []struct {
		ProductID    string `json:"productId"`
		UnitPrice    int64  `json:"unitPrice"`
		ItemDiscount int64  `json:"itemDiscount"`
	} `json:"items"`
	OrderDiscount int64  `json:"orderDiscount"`
	OrderTotal    int64  `json:"orderTotal"`
	Currency      string `json:"currency"`
}

func (g *HTTPPricingGateway) CalculatePricing(ctx context.Context, items []ports.PricingRequestItem) (ports.PricingResult, error) {
	ctx, cancel := context.WithTimeout(ctx, ports.GatewayTimeout)
	defer cancel()

	request := pricingRequest{Items: make([]pricingRequestItem, 0, len(items))}
	for _, item := range items {
		request.Items = append(request.Items, pricingRequestItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	body, err := json.Marshal(request)
	if err != nil {
		return ports.PricingResult{}, fmt.Errorf("encoding pricing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/pricing", bytes.NewReader(body))
	if err != nil {
		return ports.PricingResult{}, fmt.Errorf("building pricing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.PricingResult{}, &ports.GatewayError{Gateway: "pricing", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.PricingResult{}, &ports.GatewayError{
			Gateway: "pricing",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var decoded pricingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.PricingResult{}, &ports.GatewayError{Gateway: "pricing", Err: err}
	}

	result := ports.PricingResult{
		Items:         make([]ports.PricedItem, 0, len(decoded.Items)),
		OrderDiscount: decoded.OrderDiscount,
		OrderTotal:    decoded.OrderTotal,
		Currency:      decoded.Currency,
	}
	for _, item := range decoded.Items {
		result.Items = append(result.Items, ports.PricedItem{
			ProductID:    item.ProductID,
			UnitPrice:    item.UnitPrice,
			ItemDiscount: item.ItemDiscount,
		})
	}
	return result, nil
}

// HTTPCatalogGateway calls the external catalog service.
type HTTPCatalogGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCatalogGateway(baseURL string) *HTTPCatalogGateway {
	return &HTTPCatalogGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: ports.GatewayTimeout},
	}
}

func (g *HTTPCatalogGateway) GetProductData(ctx context.Context, productID string) (ports.ProductData, error) {
	ctx, cancel := context.WithTimeout(ctx, ports.GatewayTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/products/"+productID, nil)
	if err != nil {
		return ports.ProductData{}, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.ProductData{}, &ports.GatewayError{Gateway: "catalog", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.ProductData{}, &ports.GatewayError{
			Gateway: "catalog",
			Err:     fmt.Errorf("unexpected status %d for product %s", resp.StatusCode, productID),
		}
	}

	var data struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		SKU         string `json:"sku"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return ports.ProductData{}, &ports.GatewayError{Gateway: "catalog", Err: err}
	}

	return ports.ProductData{
		Name:        data.Name,
		Description: data.Description,
		SKU:         data.SKU,
	}, nil
}

// Compile-time interface checks.
var (
	_ ports.PricingGateway = (*HTTPPricingGateway)(nil)
	_ ports.CatalogGateway = (*HTTPCatalogGateway)(nil)
)
