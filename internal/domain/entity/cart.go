package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart represents a mutable pre-order basket. Totals are recomputed on
// every mutation and always satisfy total = subtotal + tax - discount.
type Cart struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SessionID      *string         `gorm:"size:100;index" json:"session_id,omitempty"`
	Currency       string          `gorm:"size:3;not null" json:"currency"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2)" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2)" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2)" json:"total"`
	CouponCode     *string         `gorm:"size:50" json:"coupon_code,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new cart
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

// IsExpired reports whether the cart is past its expiry timestamp
func (c *Cart) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// FindItem returns the line for a product+variant pair, or nil
func (c *Cart) FindItem(productID uuid.UUID, variantID *uuid.UUID) *CartItem {
	for i := range c.Items {
		item := &c.Items[i]
		if item.ProductID != productID {
			continue
		}
		if (item.VariantID == nil) != (variantID == nil) {
			continue
		}
		if item.VariantID == nil || *item.VariantID == *variantID {
			return item
		}
	}
	return nil
}

// CartItem represents a line in a cart, owned exclusively by it
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID *uuid.UUID      `gorm:"type:uuid" json:"variant_id,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new cart item
func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}
