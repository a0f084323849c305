package repository

import (
	"context"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
	// SumCompletedByOrderID returns the signed sum of all completed
	// payment amounts for the order, refunds included
	SumCompletedByOrderID(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	OrderID    *uuid.UUID
	Status     *enum.PaymentTransactionStatus
	Method     *enum.PaymentMethod
}
