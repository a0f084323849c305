package entity

import (
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryMovement is an immutable audit record of a stock change.
// For every movement, QuantityAfter = QuantityBefore + Quantity, and
// the product's live stock equals the latest movement's QuantityAfter.
type InventoryMovement struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID      *uuid.UUID        `gorm:"type:uuid" json:"variant_id,omitempty"`
	Type           enum.MovementType `gorm:"size:20;not null" json:"type"`
	Quantity       int               `gorm:"not null" json:"quantity"`
	QuantityBefore int               `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int               `gorm:"not null" json:"quantity_after"`
	Reason         *string           `gorm:"size:500" json:"reason,omitempty"`
	Reference      *string           `gorm:"size:100" json:"reference,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new movement
func (m *InventoryMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryMovement model
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
