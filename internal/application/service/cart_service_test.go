package service

import (
	"context"
	"testing"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCartRequiresOwner(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.cartSvc.CreateCart(context.Background(), &CreateCartInput{})
	require.Error(t, err)

	session := "sess-1"
	cart, err := env.cartSvc.CreateCart(context.Background(), &CreateCartInput{SessionID: &session})
	require.NoError(t, err)
	assert.Equal(t, "EUR", cart.Currency)
	assert.NotNil(t, cart.ExpiresAt)
}

func TestAddItemComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	cart := env.seedCart(t, customer.ID)

	updated, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.True(t, updated.Subtotal.Equal(dec("100.00")), "subtotal %s", updated.Subtotal)
	assert.True(t, updated.TaxAmount.Equal(dec("19.00")), "tax %s", updated.TaxAmount)
	assert.True(t, updated.Total.Equal(dec("119.00")), "total %s", updated.Total)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	cart := env.seedCart(t, customer.ID)

	_, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	updated, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.True(t, updated.Items[0].Total.Equal(dec("150.00")))
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 3)
	cart := env.seedCart(t, customer.ID)

	_, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	// 2 already in the cart, 2 more exceeds the 3 on hand
	_, err = env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "Insufficient stock")
}

func TestAddItemAllowsBackorder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 1)
	product.AllowBackorder = true
	require.NoError(t, env.products.Update(ctx, product))
	cart := env.seedCart(t, customer.ID)

	updated, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Items[0].Quantity)
}

func TestUpdateItemQuantityZeroRemovesLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	cart := env.seedCart(t, customer.ID)

	updated, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err = env.cartSvc.UpdateItemQuantity(ctx, cart.ID, updated.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.True(t, updated.Total.IsZero())
}

func TestUpdateItemQuantityNegativeRemovesLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	cart := env.seedCart(t, customer.ID)

	updated, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err = env.cartSvc.UpdateItemQuantity(ctx, cart.ID, updated.Items[0].ID, -3)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.True(t, updated.Total.IsZero())
}

func TestGetOrCreateCartReusesLiveCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)

	first, err := env.cartSvc.GetOrCreateCart(ctx, &CreateCartInput{CustomerID: &customer.ID})
	require.NoError(t, err)
	second, err := env.cartSvc.GetOrCreateCart(ctx, &CreateCartInput{CustomerID: &customer.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same customer keeps one cart")

	session := "sess-42"
	guest, err := env.cartSvc.GetOrCreateCart(ctx, &CreateCartInput{SessionID: &session})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, guest.ID)
	again, err := env.cartSvc.GetOrCreateCart(ctx, &CreateCartInput{SessionID: &session})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, again.ID)
}

func TestMergeCartsRetargetsGuestCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)

	session := "sess-7"
	guest, err := env.cartSvc.GetOrCreateCart(ctx, &CreateCartInput{SessionID: &session})
	require.NoError(t, err)
	_, err = env.cartSvc.AddItem(ctx, guest.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	merged, err := env.cartSvc.MergeCarts(ctx, guest.ID, customer.ID)
	require.NoError(t, err)

	assert.Equal(t, guest.ID, merged.ID, "no customer cart, guest cart re-targeted")
	require.NotNil(t, merged.CustomerID)
	assert.Equal(t, customer.ID, *merged.CustomerID)
	assert.Nil(t, merged.SessionID)
}

func TestMergeCartsCombinesLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	lamp := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	chair := env.seedProduct(t, "Office Chair", "120.00", 100)

	target := env.seedCart(t, customer.ID)
	_, err := env.cartSvc.AddItem(ctx, target.ID, &AddItemInput{ProductID: lamp.ID, Quantity: 1})
	require.NoError(t, err)

	session := "sess-9"
	guest, err := env.cartSvc.GetOrCreateCart(ctx, &CreateCartInput{SessionID: &session})
	require.NoError(t, err)
	_, err = env.cartSvc.AddItem(ctx, guest.ID, &AddItemInput{ProductID: lamp.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.cartSvc.AddItem(ctx, guest.ID, &AddItemInput{ProductID: chair.ID, Quantity: 1})
	require.NoError(t, err)

	merged, err := env.cartSvc.MergeCarts(ctx, guest.ID, customer.ID)
	require.NoError(t, err)

	assert.Equal(t, target.ID, merged.ID)
	require.Len(t, merged.Items, 2)
	lampLine := merged.FindItem(lamp.ID, nil)
	require.NotNil(t, lampLine)
	assert.Equal(t, 3, lampLine.Quantity, "quantities summed by product")
	// 3x50 + 1x120 = 270, tax 51.30
	assert.True(t, merged.Total.Equal(dec("321.30")), "total %s", merged.Total)

	_, err = env.cartSvc.GetCart(ctx, guest.ID)
	require.Error(t, err, "guest cart discarded")
}

func TestApplyCouponAdjustsTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	cart := env.seedCart(t, customer.ID)

	_, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code:  "ten-off",
		Type:  enum.CouponTypeFixedAmount,
		Value: dec("10.00"),
	})
	require.NoError(t, err)

	_, err = env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err := env.cartSvc.ApplyCoupon(ctx, cart.ID, "TEN-OFF")
	require.NoError(t, err)

	assert.True(t, updated.Subtotal.Equal(dec("100.00")))
	assert.True(t, updated.TaxAmount.Equal(dec("19.00")))
	assert.True(t, updated.DiscountAmount.Equal(dec("10.00")))
	assert.True(t, updated.Total.Equal(dec("109.00")), "total %s", updated.Total)

	updated, err = env.cartSvc.RemoveCoupon(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, updated.DiscountAmount.IsZero())
	assert.True(t, updated.Total.Equal(dec("119.00")))
}

func TestApplyCouponToEmptyCartFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	cart := env.seedCart(t, customer.ID)

	_, err := env.cartSvc.ApplyCoupon(ctx, cart.ID, "ANY")
	require.Error(t, err)
}

func TestTotalNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	product := env.seedProduct(t, "Sticker", "1.00", 100)
	cart := env.seedCart(t, customer.ID)

	_, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code:  "HUGE",
		Type:  enum.CouponTypeFixedAmount,
		Value: dec("500.00"),
	})
	require.NoError(t, err)

	_, err = env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := env.cartSvc.ApplyCoupon(ctx, cart.ID, "HUGE")
	require.NoError(t, err)
	assert.False(t, updated.Total.IsNegative(), "total %s", updated.Total)
}

func TestExpiredCartNotServed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	cart := env.seedCart(t, customer.ID)

	past := time.Now().Add(-time.Hour)
	cart.ExpiresAt = &past
	require.NoError(t, env.carts.Update(ctx, cart))

	_, err := env.cartSvc.GetCart(ctx, cart.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCleanupExpiredCarts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)

	fresh := env.seedCart(t, customer.ID)
	stale := env.seedCart(t, customer.ID)
	past := time.Now().Add(-time.Hour)
	stale.ExpiresAt = &past
	require.NoError(t, env.carts.Update(ctx, stale))

	removed, err := env.cartSvc.CleanupExpiredCarts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	var remaining *entity.Cart
	remaining, err = env.carts.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, remaining)

	remaining, err = env.carts.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, remaining)
}
