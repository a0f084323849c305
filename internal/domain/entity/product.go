package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable product with tracked stock
type Product struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name              string          `gorm:"size:200;not null" json:"name"`
	Sku               string          `gorm:"size:50;unique;not null" json:"sku"`
	Price             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	StockQuantity     int             `gorm:"default:0" json:"stock_quantity"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
	TrackInventory    bool            `gorm:"default:true" json:"track_inventory"`
	AllowBackorder    bool            `gorm:"default:false" json:"allow_backorder"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductVariant represents a variant of a product with its own stock
type ProductVariant struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Sku           string          `gorm:"size:50;unique;not null" json:"sku"`
	Name          string          `gorm:"size:200" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new variant
func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}
