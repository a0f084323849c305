package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is a shipping or billing address payload
type Address struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// CheckoutRequest converts a cart into an order
type CheckoutRequest struct {
	CartID          uuid.UUID       `json:"cart_id" binding:"required"`
	CustomerID      uuid.UUID       `json:"customer_id" binding:"required"`
	ShippingAmount  decimal.Decimal `json:"shipping_amount"`
	ShippingAddress *Address        `json:"shipping_address"`
	BillingAddress  *Address        `json:"billing_address"`
	Notes           *string         `json:"notes"`
}

// OrderItemRequest is an item in a direct order
type OrderItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest creates an order directly from items
type CreateOrderRequest struct {
	CustomerID      uuid.UUID          `json:"customer_id" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1"`
	ShippingAmount  decimal.Decimal    `json:"shipping_amount"`
	ShippingAddress *Address           `json:"shipping_address"`
	BillingAddress  *Address           `json:"billing_address"`
	CouponCode      *string            `json:"coupon_code"`
	Notes           *string            `json:"notes"`
}

// TransitionRequest moves an order to a new status
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// ShipOrderRequest marks an order shipped
type ShipOrderRequest struct {
	TrackingNumber *string `json:"tracking_number"`
}

// LinkPaymentRecordRequest attaches an accounting payment record
type LinkPaymentRecordRequest struct {
	PaymentRecordID string `json:"payment_record_id" binding:"required"`
}
