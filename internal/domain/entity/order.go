package entity

import (
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a sales order moving through the fulfillment lifecycle.
// Totals always satisfy total = subtotal + tax + shipping - discount.
type Order struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber    string             `gorm:"size:50;unique;not null" json:"order_number"`
	CustomerID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status         enum.OrderStatus   `gorm:"size:20;not null" json:"status"`
	PaymentStatus  enum.PaymentStatus `gorm:"size:20;not null" json:"payment_status"`
	Subtotal       decimal.Decimal    `gorm:"type:decimal(18,2)" json:"subtotal"`
	TaxAmount      decimal.Decimal    `gorm:"type:decimal(18,2)" json:"tax_amount"`
	ShippingAmount decimal.Decimal    `gorm:"type:decimal(18,2)" json:"shipping_amount"`
	DiscountAmount decimal.Decimal    `gorm:"type:decimal(18,2)" json:"discount_amount"`
	Total          decimal.Decimal    `gorm:"type:decimal(18,2)" json:"total"`
	Currency       string             `gorm:"size:3;not null" json:"currency"`
	Notes          *string            `gorm:"size:500" json:"notes,omitempty"`
	InternalNotes  *string            `gorm:"size:500" json:"internal_notes,omitempty"`

	// Shipping address snapshot
	ShippingName       *string `gorm:"size:200" json:"shipping_name,omitempty"`
	ShippingAddress    *string `gorm:"size:500" json:"shipping_address,omitempty"`
	ShippingCity       *string `gorm:"size:100" json:"shipping_city,omitempty"`
	ShippingPostalCode *string `gorm:"size:20" json:"shipping_postal_code,omitempty"`
	ShippingCountry    *string `gorm:"size:100" json:"shipping_country,omitempty"`
	ShippingPhone      *string `gorm:"size:50" json:"shipping_phone,omitempty"`

	// Billing address snapshot
	BillingName       *string `gorm:"size:200" json:"billing_name,omitempty"`
	BillingAddress    *string `gorm:"size:500" json:"billing_address,omitempty"`
	BillingCity       *string `gorm:"size:100" json:"billing_city,omitempty"`
	BillingPostalCode *string `gorm:"size:20" json:"billing_postal_code,omitempty"`
	BillingCountry    *string `gorm:"size:100" json:"billing_country,omitempty"`

	TrackingNumber   *string `gorm:"size:100" json:"tracking_number,omitempty"`
	InvoiceNumber    *string `gorm:"size:100" json:"invoice_number,omitempty"`
	PaymentRecordIDs *string `gorm:"size:2000" json:"-"` // JSON array of accounting payment record ids

	ShippedAt   *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer  *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments  []Payment       `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	Documents []OrderDocument `gorm:"foreignKey:OrderID" json:"documents,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line item in an order. The product snapshot
// (name, sku, unit price) is immutable after creation.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID   *uuid.UUID      `gorm:"type:uuid" json:"variant_id,omitempty"`
	ProductName string          `gorm:"size:200;not null" json:"product_name"`
	Sku         string          `gorm:"size:50" json:"sku"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,2)" json:"tax_amount"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderDocument references a generated PDF stored in object storage
type OrderDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	DocumentType string    `gorm:"size:50" json:"document_type"`
	State        string    `gorm:"size:50" json:"state"`
	PdfURL       string    `gorm:"size:2000" json:"pdf_url"`
	TemplateID   *string   `gorm:"size:100" json:"template_id,omitempty"`
	TemplateKey  *string   `gorm:"size:100" json:"template_key,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// BeforeCreate generates a UUID before creating a new order document
func (d *OrderDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderDocument model
func (OrderDocument) TableName() string {
	return "order_documents"
}
