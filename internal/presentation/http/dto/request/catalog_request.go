package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest registers a product
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	Sku               string          `json:"sku" binding:"required"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
	TrackInventory    *bool           `json:"track_inventory"`
	AllowBackorder    bool            `json:"allow_backorder"`
}

// UpdateProductRequest updates mutable product fields
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	TrackInventory    *bool            `json:"track_inventory"`
	AllowBackorder    *bool            `json:"allow_backorder"`
	IsActive          *bool            `json:"is_active"`
}

// CreateCustomerRequest registers a customer
type CreateCustomerRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CreateCouponRequest registers a coupon
type CreateCouponRequest struct {
	Code                  string           `json:"code" binding:"required"`
	Description           *string          `json:"description"`
	Type                  string           `json:"type" binding:"required"`
	Value                 decimal.Decimal  `json:"value" binding:"required"`
	MinimumOrderAmount    *decimal.Decimal `json:"minimum_order_amount"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximum_discount_amount"`
	UsageLimit            *int             `json:"usage_limit"`
	UsageLimitPerCustomer *int             `json:"usage_limit_per_customer"`
	StartsAt              *time.Time       `json:"starts_at"`
	ExpiresAt             *time.Time       `json:"expires_at"`
}

// UpdateCouponRequest updates mutable coupon fields
type UpdateCouponRequest struct {
	Description           *string          `json:"description"`
	Value                 *decimal.Decimal `json:"value"`
	MinimumOrderAmount    *decimal.Decimal `json:"minimum_order_amount"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximum_discount_amount"`
	UsageLimit            *int             `json:"usage_limit"`
	IsActive              *bool            `json:"is_active"`
	ExpiresAt             *time.Time       `json:"expires_at"`
}

// AdjustStockRequest applies a signed stock change
type AdjustStockRequest struct {
	Quantity  int     `json:"quantity" binding:"required"`
	Type      string  `json:"type" binding:"required"`
	VariantID *string `json:"variant_id"`
	Reason    *string `json:"reason"`
	Reference *string `json:"reference"`
}

// RestockRequest adds received stock
type RestockRequest struct {
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	VariantID *string `json:"variant_id"`
	Reason    *string `json:"reason"`
}
