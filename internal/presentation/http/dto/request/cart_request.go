package request

import "github.com/google/uuid"

// CreateCartRequest creates a new cart for a customer or session
type CreateCartRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
	SessionID  *string    `json:"session_id"`
	Currency   string     `json:"currency"`
}

// AddCartItemRequest adds a product to a cart
type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItemRequest changes a line's quantity. Zero or negative
// removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// MergeCartsRequest folds a guest cart into a customer's cart
type MergeCartsRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// ApplyCouponRequest applies a coupon code to a cart
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}
