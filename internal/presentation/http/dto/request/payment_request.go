package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest registers a pending payment against an order
type CreatePaymentRequest struct {
	OrderID       uuid.UUID       `json:"order_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	TransactionID *string         `json:"transaction_id"`
}

// VoidPaymentRequest cancels a payment that has not completed
type VoidPaymentRequest struct {
	Reason *string `json:"reason"`
}

// RefundPaymentRequest refunds a completed payment, fully when amount
// is omitted
type RefundPaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason *string          `json:"reason"`
}
