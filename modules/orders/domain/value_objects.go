package domain

import (
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

// Money is re-exported from the shared kernel for convenience.
type Money = types.Money

// ProductSnapshot captures the catalog data of a product as it was at
// checkout time. Orders keep the snapshot rather than a live catalog
// reference so later catalog edits never change a placed order.
type ProductSnapshot struct {
	productID   string
	name        string
	description string
	sku         string
}

func NewProductSnapshot(productID, name, description, sku string) (ProductSnapshot, error) {
	if productID == "" {
		return ProductSnapshot{}, ErrProductIDRequired
	}
	if name == "" {
		return ProductSnapshot{}, ErrProductNameRequired
	}
	return ProductSnapshot{
		productID:   productID,
		name:        name,
		description: description,
		sku:         sku,
	}, nil
}

func (p ProductSnapshot) ProductID() string   { return p.productID }
func (p ProductSnapshot) Name() string        { return p.name }
func (p ProductSnapshot) Description() string { return p.description }
func (p ProductSnapshot) SKU() string         { return p.sku }

// Quantity is a positive item count.
type Quantity struct {
	value int
}

func NewQuantity(value int) (Quantity, error) {
	if value <= 0 {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{value: value}, nil
}

func (q Quantity) Value() int { return q.value }

// ShippingAddress is the destination for an order.
type ShippingAddress struct {
	street  string
	city    string
	state   string
	zipCode string
	country string
}

func NewShippingAddress(street, city, state, zipCode, country string) (ShippingAddress, error) {
	if street == "" || city == "" || zipCode == "" || country == "" {
		return ShippingAddress{}, ErrAddressIncomplete
	}
	return ShippingAddress{
		street:  street,
		city:    city,
		state:   state,
		zipCode: zipCode,
		country: country,
	}, nil
}

func (a ShippingAddress) Street() string  { return a.street }
func (a ShippingAddress) City() string    { return a.city }
func (a ShippingAddress) State() string   { return a.state }
func (a ShippingAddress) ZipCode() string { return a.zipCode }
func (a ShippingAddress) Country() string { return a.country }

// OrderItem is a line item in an order. Items are immutable after the
// order is created.
type OrderItem struct {
	Product      ProductSnapshot
	Quantity     Quantity
	UnitPrice    Money
	ItemDiscount Money
}

// Subtotal returns quantity × unit price minus the item discount.
func (i OrderItem) Subtotal() (Money, error) {
	gross := i.UnitPrice.Multiply(int64(i.Quantity.Value()))
	return gross.Subtract(i.ItemDiscount)
}
