package entity

import (
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment represents a single payment attempt against an order.
// Refunds are separate payments with a negated amount.
type Payment struct {
	ID               uuid.UUID                     `gorm:"type:uuid;primary_key" json:"id"`
	OrderID          uuid.UUID                     `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount           decimal.Decimal               `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency         string                        `gorm:"size:3;not null" json:"currency"`
	Method           enum.PaymentMethod            `gorm:"size:30;not null" json:"method"`
	Status           enum.PaymentTransactionStatus `gorm:"size:20;not null" json:"status"`
	TransactionID    *string                       `gorm:"size:200" json:"transaction_id,omitempty"`
	GatewayReference *string                       `gorm:"size:200" json:"gateway_reference,omitempty"`
	ErrorMessage     *string                       `gorm:"size:500" json:"error_message,omitempty"`
	CreatedAt        time.Time                     `json:"created_at"`
	ProcessedAt      *time.Time                    `json:"processed_at,omitempty"`

	// Relationships
	Order *Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
