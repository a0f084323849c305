package entity

import (
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon represents a discount code with validity rules and a usage ledger
type Coupon struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Code                  string           `gorm:"size:50;unique;not null" json:"code"`
	Description           *string          `gorm:"size:200" json:"description,omitempty"`
	Type                  enum.CouponType  `gorm:"size:20;not null" json:"type"`
	Value                 decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"value"`
	MinimumOrderAmount    *decimal.Decimal `gorm:"type:decimal(18,2)" json:"minimum_order_amount,omitempty"`
	MaximumDiscountAmount *decimal.Decimal `gorm:"type:decimal(18,2)" json:"maximum_discount_amount,omitempty"`
	UsageLimit            *int             `json:"usage_limit,omitempty"`
	UsageLimitPerCustomer *int             `json:"usage_limit_per_customer,omitempty"`
	UsageCount            int              `gorm:"default:0" json:"usage_count"`
	IsActive              bool             `gorm:"default:true" json:"is_active"`
	StartsAt              *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt             *time.Time       `json:"expires_at,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new coupon
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}
