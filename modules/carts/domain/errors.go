package domain

import "errors"

var (
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartConverted       = errors.New("cart has already been converted to an order")
	ErrCartEmpty           = errors.New("cart has no items")
	ErrTooManyItems        = errors.New("cart item limit reached")
	ErrQuantityCapExceeded = errors.New("item quantity cap exceeded")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrProductIDRequired   = errors.New("product ID is required")
)
