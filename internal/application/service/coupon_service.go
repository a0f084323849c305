package service

import (
	"context"
	"strings"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CouponService handles coupon administration and discount computation
type CouponService struct {
	couponRepo repository.CouponRepository
	logger     *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo repository.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		logger:     logger,
	}
}

// CreateCouponInput represents the create coupon input
type CreateCouponInput struct {
	Code                  string
	Description           *string
	Type                  enum.CouponType
	Value                 decimal.Decimal
	MinimumOrderAmount    *decimal.Decimal
	MaximumDiscountAmount *decimal.Decimal
	UsageLimit            *int
	UsageLimitPerCustomer *int
	StartsAt              *time.Time
	ExpiresAt             *time.Time
}

// CreateCoupon registers a new coupon code
func (s *CouponService) CreateCoupon(ctx context.Context, input *CreateCouponInput) (*entity.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, apperror.NewBadRequestError("Coupon code is required")
	}
	if input.Value.IsNegative() || input.Value.IsZero() {
		return nil, apperror.NewBadRequestError("Coupon value must be positive")
	}
	if input.Type == enum.CouponTypePercentage && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperror.NewBadRequestError("Percentage value cannot exceed 100")
	}

	existing, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Coupon code already exists")
	}

	coupon := &entity.Coupon{
		Code:                  code,
		Description:           input.Description,
		Type:                  input.Type,
		Value:                 input.Value,
		MinimumOrderAmount:    input.MinimumOrderAmount,
		MaximumDiscountAmount: input.MaximumDiscountAmount,
		UsageLimit:            input.UsageLimit,
		UsageLimitPerCustomer: input.UsageLimitPerCustomer,
		IsActive:              true,
		StartsAt:              input.StartsAt,
		ExpiresAt:             input.ExpiresAt,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetCoupon retrieves a coupon by ID
func (s *CouponService) GetCoupon(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperror.NewNotFoundError("Coupon")
	}
	return coupon, nil
}

// ListCoupons lists all coupons
func (s *CouponService) ListCoupons(ctx context.Context, activeOnly bool) ([]entity.Coupon, error) {
	if activeOnly {
		return s.couponRepo.ListActive(ctx)
	}
	return s.couponRepo.List(ctx)
}

// UpdateCouponInput represents the update coupon input
type UpdateCouponInput struct {
	Description           *string
	Value                 *decimal.Decimal
	MinimumOrderAmount    *decimal.Decimal
	MaximumDiscountAmount *decimal.Decimal
	UsageLimit            *int
	IsActive              *bool
	ExpiresAt             *time.Time
}

// UpdateCoupon updates mutable coupon fields
func (s *CouponService) UpdateCoupon(ctx context.Context, id uuid.UUID, input *UpdateCouponInput) (*entity.Coupon, error) {
	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		coupon.Description = input.Description
	}
	if input.Value != nil {
		if input.Value.IsNegative() || input.Value.IsZero() {
			return nil, apperror.NewBadRequestError("Coupon value must be positive")
		}
		coupon.Value = *input.Value
	}
	if input.MinimumOrderAmount != nil {
		coupon.MinimumOrderAmount = input.MinimumOrderAmount
	}
	if input.MaximumDiscountAmount != nil {
		coupon.MaximumDiscountAmount = input.MaximumDiscountAmount
	}
	if input.UsageLimit != nil {
		coupon.UsageLimit = input.UsageLimit
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = input.ExpiresAt
	}

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// DeleteCoupon removes a coupon
func (s *CouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return apperror.NewNotFoundError("Coupon")
	}
	return s.couponRepo.Delete(ctx, id)
}

// ValidateCoupon checks a code against its validity rules for the given
// subtotal and returns the coupon when usable
func (s *CouponService) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*entity.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperror.ErrInvalidCoupon
	}
	if !coupon.IsActive {
		return nil, apperror.ErrInvalidCoupon
	}

	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, apperror.ErrInvalidCoupon
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, apperror.ErrInvalidCoupon
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return nil, apperror.ErrInvalidCoupon
	}
	if coupon.MinimumOrderAmount != nil && subtotal.LessThan(*coupon.MinimumOrderAmount) {
		return nil, apperror.NewBadRequestError("Order subtotal below coupon minimum")
	}

	return coupon, nil
}

// ComputeDiscount returns the discount amount the coupon grants for the
// given subtotal. The result never exceeds the subtotal.
func (s *CouponService) ComputeDiscount(coupon *entity.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch coupon.Type {
	case enum.CouponTypePercentage:
		discount = subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100)).Round(2)
	case enum.CouponTypeFixedAmount:
		discount = coupon.Value
	default:
		return decimal.Zero
	}

	if coupon.MaximumDiscountAmount != nil && discount.GreaterThan(*coupon.MaximumDiscountAmount) {
		discount = *coupon.MaximumDiscountAmount
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount.Round(2)
}

// RedeemCoupon records one use of the coupon. Called once per order
// that was created with the coupon applied.
func (s *CouponService) RedeemCoupon(ctx context.Context, code string) error {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if coupon == nil {
		return apperror.NewNotFoundError("Coupon")
	}
	if err := s.couponRepo.IncrementUsage(ctx, coupon.ID); err != nil {
		return err
	}
	s.logger.Debug("coupon redeemed", zap.String("code", coupon.Code))
	return nil
}
