package service

import (
	"context"
	"testing"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCouponUppercasesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	coupon, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code:  "summer10",
		Type:  enum.CouponTypePercentage,
		Value: dec("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", coupon.Code)
	assert.True(t, coupon.IsActive)

	_, err = env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code:  "SUMMER10",
		Type:  enum.CouponTypePercentage,
		Value: dec("20"),
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestCreateCouponRejectsBadPercentage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.couponSvc.CreateCoupon(context.Background(), &CreateCouponInput{
		Code:  "TOO-MUCH",
		Type:  enum.CouponTypePercentage,
		Value: dec("150"),
	})
	require.Error(t, err)
}

func TestValidateCouponWindows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	_, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "NOT-YET", Type: enum.CouponTypePercentage, Value: dec("10"), StartsAt: &future,
	})
	require.NoError(t, err)
	_, err = env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "GONE", Type: enum.CouponTypePercentage, Value: dec("10"), ExpiresAt: &past,
	})
	require.NoError(t, err)

	_, err = env.couponSvc.ValidateCoupon(ctx, "NOT-YET", dec("100"))
	assert.ErrorIs(t, err, apperror.ErrInvalidCoupon)

	_, err = env.couponSvc.ValidateCoupon(ctx, "GONE", dec("100"))
	assert.ErrorIs(t, err, apperror.ErrInvalidCoupon)

	_, err = env.couponSvc.ValidateCoupon(ctx, "NEVER-MADE", dec("100"))
	assert.ErrorIs(t, err, apperror.ErrInvalidCoupon)
}

func TestValidateCouponMinimumSubtotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	minimum := dec("50.00")
	_, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "BIGCART", Type: enum.CouponTypePercentage, Value: dec("10"),
		MinimumOrderAmount: &minimum,
	})
	require.NoError(t, err)

	_, err = env.couponSvc.ValidateCoupon(ctx, "BIGCART", dec("30.00"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrInvalidCoupon)
	assert.Contains(t, apperror.GetAppError(err).Message, "minimum")

	coupon, err := env.couponSvc.ValidateCoupon(ctx, "BIGCART", dec("60.00"))
	require.NoError(t, err)
	assert.Equal(t, "BIGCART", coupon.Code)
}

func TestValidateCouponUsageLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	limit := 1
	_, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "ONCE", Type: enum.CouponTypePercentage, Value: dec("10"), UsageLimit: &limit,
	})
	require.NoError(t, err)

	_, err = env.couponSvc.ValidateCoupon(ctx, "ONCE", dec("100"))
	require.NoError(t, err)

	require.NoError(t, env.couponSvc.RedeemCoupon(ctx, "ONCE"))

	_, err = env.couponSvc.ValidateCoupon(ctx, "ONCE", dec("100"))
	assert.ErrorIs(t, err, apperror.ErrInvalidCoupon)
}

func TestComputeDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	maxDiscount := dec("15.00")
	percentage, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "PCT20", Type: enum.CouponTypePercentage, Value: dec("20"),
		MaximumDiscountAmount: &maxDiscount,
	})
	require.NoError(t, err)

	fixed, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "FLAT25", Type: enum.CouponTypeFixedAmount, Value: dec("25.00"),
	})
	require.NoError(t, err)

	// 20% of 50 = 10, under the cap
	assert.True(t, env.couponSvc.ComputeDiscount(percentage, dec("50.00")).Equal(dec("10.00")))
	// 20% of 200 = 40, capped at 15
	assert.True(t, env.couponSvc.ComputeDiscount(percentage, dec("200.00")).Equal(dec("15.00")))
	// fixed discount never exceeds the subtotal
	assert.True(t, env.couponSvc.ComputeDiscount(fixed, dec("10.00")).Equal(dec("10.00")))
	assert.True(t, env.couponSvc.ComputeDiscount(fixed, dec("100.00")).Equal(dec("25.00")))
}

func TestInactiveCouponRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	coupon, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "PAUSED", Type: enum.CouponTypePercentage, Value: dec("10"),
	})
	require.NoError(t, err)

	inactive := false
	_, err = env.couponSvc.UpdateCoupon(ctx, coupon.ID, &UpdateCouponInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.couponSvc.ValidateCoupon(ctx, "PAUSED", dec("100"))
	assert.ErrorIs(t, err, apperror.ErrInvalidCoupon)
}
