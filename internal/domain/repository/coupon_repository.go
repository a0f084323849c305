package repository

import (
	"context"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/google/uuid"
)

// CouponRepository defines the interface for coupon data operations
type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)
	// GetByCode matches the code case-insensitively
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	Update(ctx context.Context, coupon *entity.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Coupon, error)
	ListActive(ctx context.Context) ([]entity.Coupon, error)
	// IncrementUsage atomically bumps the usage counter
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
