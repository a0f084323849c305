package repository

import (
	"context"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error)
	// LastOrderNumberForPrefix returns the highest order number starting
	// with the given day prefix, or "" when the day has no orders yet
	LastOrderNumberForPrefix(ctx context.Context, prefix string) (string, error)
	TotalRevenue(ctx context.Context, from, to *time.Time) (string, error)
	CountOrders(ctx context.Context, from, to *time.Time) (int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// OrderDocumentRepository defines the interface for order document records
type OrderDocumentRepository interface {
	Create(ctx context.Context, document *entity.OrderDocument) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderDocument, error)
	// Exists reports whether a document was already generated for the
	// order + template key + state combination
	Exists(ctx context.Context, orderID uuid.UUID, templateKey, state string) (bool, error)
}
