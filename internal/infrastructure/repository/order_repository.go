package repository

import (
	"context"
	"errors"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Payments").
		Preload("Documents").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		First(&order, "order_number = ?", orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).
		Omit("Customer", "Items", "Payments", "Documents").
		Save(order).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Order{}, "id = ?", id).Error
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if params.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := params.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	params.Pagination.Validate()
	err := query.
		Preload("Items").
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) LastOrderNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return order.OrderNumber, err
}

func (r *orderRepository) TotalRevenue(ctx context.Context, from, to *time.Time) (string, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status != ?", "Cancelled")
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var revenue *string
	err := query.Select("SUM(total)").Scan(&revenue).Error
	if err != nil || revenue == nil {
		return "", err
	}
	return *revenue, nil
}

func (r *orderRepository) CountOrders(ctx context.Context, from, to *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status != ?", "Cancelled")
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

type orderDocumentRepository struct {
	db *gorm.DB
}

// NewOrderDocumentRepository creates a new order document repository
func NewOrderDocumentRepository(db *gorm.DB) domainRepo.OrderDocumentRepository {
	return &orderDocumentRepository{db: db}
}

func (r *orderDocumentRepository) Create(ctx context.Context, document *entity.OrderDocument) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *orderDocumentRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderDocument, error) {
	var documents []entity.OrderDocument
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("generated_at DESC").
		Find(&documents).Error
	return documents, err
}

func (r *orderDocumentRepository) Exists(ctx context.Context, orderID uuid.UUID, templateKey, state string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.OrderDocument{}).
		Where("order_id = ? AND template_key = ? AND state = ?", orderID, templateKey, state).
		Count(&count).Error
	return count > 0, err
}
