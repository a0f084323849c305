package port

import (
	"context"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Template describes a document template registered for an order state.
type Template struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	State    string `json:"state"`
	MimeType string `json:"mime_type"`
	Active   bool   `json:"active"`
	// SendEmail marks customer-facing templates whose documents are
	// mailed out; merchant-internal ones stay quiet.
	SendEmail bool `json:"send_email"`
}

// TemplatesAdapter talks to the external templating service.
type TemplatesAdapter interface {
	// ListTemplatesByState returns the templates configured for the
	// company and order state key, possibly empty.
	ListTemplatesByState(ctx context.Context, companyID, state string) ([]Template, error)
	// RenderPDF renders the template against the order payload and
	// returns the raw PDF bytes.
	RenderPDF(ctx context.Context, templateID string, order *entity.Order) ([]byte, error)
}

// StorageAdapter persists rendered documents and hands back a shareable URL.
type StorageAdapter interface {
	// UploadPDF stores the document under the company bucket and returns
	// a presigned download URL.
	UploadPDF(ctx context.Context, companyID, objectKey string, pdf []byte) (string, error)
}

// InvoiceLineItem is one position of an invoice draft sent to accounting.
type InvoiceLineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceDraft is the accounting payload built from a paid order.
type InvoiceDraft struct {
	OrderID       uuid.UUID         `json:"order_id"`
	OrderNumber   string            `json:"order_number"`
	CustomerID    uuid.UUID         `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	Currency      string            `json:"currency"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxAmount     decimal.Decimal   `json:"tax_amount"`
	Shipping      decimal.Decimal   `json:"shipping_amount"`
	Discount      decimal.Decimal   `json:"discount_amount"`
	Total         decimal.Decimal   `json:"total"`
	IssuedAt      time.Time         `json:"issued_at"`
	LineItems     []InvoiceLineItem `json:"line_items"`
}

// InvoiceResult is what accounting returns for a created invoice.
type InvoiceResult struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
}

// AccountingAdapter talks to the external accounting service.
type AccountingAdapter interface {
	CreateInvoice(ctx context.Context, draft *InvoiceDraft) (*InvoiceResult, error)
	// ConfirmPaymentRecord marks the payment as settled on the
	// accounting side.
	ConfirmPaymentRecord(ctx context.Context, paymentRecordID string) error
	// GetTotalPaid returns the settled amount accounting has on file
	// for the invoice.
	GetTotalPaid(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

// EmailMessage is an outbound notification.
type EmailMessage struct {
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}

// NotificationAdapter delivers customer-facing notifications.
type NotificationAdapter interface {
	SendEmail(ctx context.Context, msg *EmailMessage) error
}

// PaymentGateway charges and refunds against an external processor. The
// default implementation simulates the gateway deterministically.
type PaymentGateway interface {
	// Charge attempts to capture the amount, returning a gateway
	// reference on success.
	Charge(ctx context.Context, payment *entity.Payment) (string, error)
	// Refund pushes a negative settlement for the original transaction.
	Refund(ctx context.Context, payment *entity.Payment, originalReference string) (string, error)
}
