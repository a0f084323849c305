package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkout seeds a customer with a two-unit cart of the product and
// converts it into an order
func checkout(t *testing.T, env *testEnv, product *entity.Product) *entity.Order {
	t.Helper()
	ctx := context.Background()
	customer := env.seedCustomer(t)
	cart := env.seedCart(t, customer.ID)
	_, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := env.orderSvc.CreateFromCart(ctx, &CheckoutInput{
		CartID:     cart.ID,
		CustomerID: customer.ID,
	})
	require.NoError(t, err)
	return order
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)

	order := checkout(t, env, product)

	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.Equal(t, enum.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.Subtotal.Equal(dec("100.00")))
	assert.True(t, order.TaxAmount.Equal(dec("19.00")))
	assert.True(t, order.Total.Equal(dec("119.00")), "total %s", order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Desk Lamp", order.Items[0].ProductName)

	prefix := "ORD-" + time.Now().Format("20060102") + "-"
	assert.Equal(t, prefix+"0001", order.OrderNumber)

	// stock reserved
	stored, err := env.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.StockQuantity)

	// document generation queued for the pending state
	jobs := env.drainJobs(t)
	require.Len(t, jobs, 1)
	assert.Equal(t, enum.JobTypeGenerateDocuments, jobs[0].Type)
	assert.Equal(t, "pending", jobs[0].State)
}

func TestOrderNumbersIncrementWithinDay(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)

	first := checkout(t, env, product)
	second := checkout(t, env, product)

	prefix := "ORD-" + time.Now().Format("20060102") + "-"
	assert.Equal(t, prefix+"0001", first.OrderNumber)
	assert.Equal(t, prefix+"0002", second.OrderNumber)
}

func TestCheckoutDestroysCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	customer := env.seedCustomer(t)
	cart := env.seedCart(t, customer.ID)
	_, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = env.orderSvc.CreateFromCart(ctx, &CheckoutInput{CartID: cart.ID, CustomerID: customer.ID})
	require.NoError(t, err)

	stored, err := env.carts.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t)
	cart := env.seedCart(t, customer.ID)

	_, err := env.orderSvc.CreateFromCart(ctx, &CheckoutInput{CartID: cart.ID, CustomerID: customer.ID})
	require.Error(t, err)
}

func TestCheckoutReleasesStockWhenReservationFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plenty := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	scarce := env.seedProduct(t, "Rare Bulb", "5.00", 10)
	customer := env.seedCustomer(t)
	cart := env.seedCart(t, customer.ID)

	_, err := env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: plenty.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: scarce.ID, Quantity: 4})
	require.NoError(t, err)

	// stock drops out from under the cart before checkout
	scarceStored, err := env.products.GetByID(ctx, scarce.ID)
	require.NoError(t, err)
	scarceStored.StockQuantity = 1
	require.NoError(t, env.products.Update(ctx, scarceStored))

	_, err = env.orderSvc.CreateFromCart(ctx, &CheckoutInput{CartID: cart.ID, CustomerID: customer.ID})
	require.Error(t, err)

	plentyStored, err := env.products.GetByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, plentyStored.StockQuantity, "reserved stock returned")
}

func TestCheckoutWithCoupon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	customer := env.seedCustomer(t)
	cart := env.seedCart(t, customer.ID)

	_, err := env.couponSvc.CreateCoupon(ctx, &CreateCouponInput{
		Code: "TEN", Type: enum.CouponTypeFixedAmount, Value: dec("10.00"),
	})
	require.NoError(t, err)

	_, err = env.cartSvc.AddItem(ctx, cart.ID, &AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.cartSvc.ApplyCoupon(ctx, cart.ID, "TEN")
	require.NoError(t, err)

	order, err := env.orderSvc.CreateFromCart(ctx, &CheckoutInput{CartID: cart.ID, CustomerID: customer.ID})
	require.NoError(t, err)

	assert.True(t, order.DiscountAmount.Equal(dec("10.00")))
	assert.True(t, order.Total.Equal(dec("109.00")), "total %s", order.Total)

	coupon, err := env.coupons.GetByCode(ctx, "TEN")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsageCount)
}

func TestCreateOrderFromItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	customer := env.seedCustomer(t)

	order, err := env.orderSvc.CreateOrder(ctx, &CreateOrderInput{
		CustomerID:     customer.ID,
		Items:          []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
		ShippingAmount: dec("4.90"),
	})
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(dec("150.00")))
	assert.True(t, order.ShippingAmount.Equal(dec("4.90")))
	// 150 + 28.50 tax + 4.90 shipping
	assert.True(t, order.Total.Equal(dec("183.40")), "total %s", order.Total)
}

func TestFreeShippingThresholdWaivesShipping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.orderSvc.shopCfg.FreeShippingFrom = 100
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	customer := env.seedCustomer(t)

	order, err := env.orderSvc.CreateOrder(ctx, &CreateOrderInput{
		CustomerID:     customer.ID,
		Items:          []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
		ShippingAmount: dec("4.90"),
	})
	require.NoError(t, err)

	assert.True(t, order.ShippingAmount.IsZero())
	// 150 + 28.50 tax, shipping waived
	assert.True(t, order.Total.Equal(dec("178.50")), "total %s", order.Total)
}

func TestTransitionTableEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	// Pending cannot ship directly
	_, err := env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusShipped)
	require.Error(t, err)

	_, err = env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusConfirmed)
	require.NoError(t, err)
	_, err = env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusShipped)
	require.NoError(t, err)
	updated, err := env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusDelivered, updated.Status)
	assert.NotNil(t, updated.ShippedAt)
	assert.NotNil(t, updated.DeliveredAt)

	// Delivered is terminal
	_, err = env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusCancelled)
	require.Error(t, err)
}

func TestTransitionEnqueuesDocumentJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)
	env.drainJobs(t) // drop the pending-state job

	_, err := env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusConfirmed)
	require.NoError(t, err)

	jobs := env.drainJobs(t)
	require.Len(t, jobs, 2)

	byType := map[enum.JobType]port.Job{}
	for _, job := range jobs {
		byType[job.Type] = job
	}
	docs, ok := byType[enum.JobTypeGenerateDocuments]
	require.True(t, ok)
	assert.Equal(t, "confirmed", docs.State)
	_, ok = byType[enum.JobTypeCreateInvoice]
	require.True(t, ok, "first confirmation enqueues invoice creation")
}

func TestShipOrderStoresTrackingNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	_, err := env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusConfirmed)
	require.NoError(t, err)

	tracking := "DHL-123"
	shipped, err := env.orderSvc.ShipOrder(ctx, order.ID, &tracking)
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusShipped, shipped.Status)
	require.NotNil(t, shipped.TrackingNumber)
	assert.Equal(t, "DHL-123", *shipped.TrackingNumber)
}

func TestCancelReturnsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	order := checkout(t, env, product)

	stored, err := env.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 8, stored.StockQuantity)

	cancelled, err := env.orderSvc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)

	stored, err = env.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.StockQuantity)

	// already cancelled
	_, err = env.orderSvc.CancelOrder(ctx, order.ID)
	require.Error(t, err)
}

func TestDeleteOrderReturnsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	order := checkout(t, env, product)

	require.NoError(t, env.orderSvc.DeleteOrder(ctx, order.ID))

	stored, err := env.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.StockQuantity)

	_, err = env.orderSvc.GetOrder(ctx, order.ID)
	require.Error(t, err)
}

func TestDeleteShippedOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	order := checkout(t, env, product)

	_, err := env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusConfirmed)
	require.NoError(t, err)
	_, err = env.orderSvc.TransitionStatus(ctx, order.ID, enum.OrderStatusShipped)
	require.NoError(t, err)

	err = env.orderSvc.DeleteOrder(ctx, order.ID)
	require.Error(t, err)
}

func TestDeleteCancelledOrderKeepsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 10)
	order := checkout(t, env, product)

	_, err := env.orderSvc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, env.orderSvc.DeleteOrder(ctx, order.ID))

	stored, err := env.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.StockQuantity, "cancellation already returned the stock")
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)
	env.drainJobs(t)

	require.NoError(t, env.orderSvc.MarkPaid(ctx, order.ID))

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, enum.OrderStatusConfirmed, updated.Status)

	jobs := env.drainJobs(t)
	assert.Len(t, jobs, 2, "invoice plus confirmed documents")

	// second call changes nothing and enqueues nothing
	require.NoError(t, env.orderSvc.MarkPaid(ctx, order.ID))
	assert.Empty(t, env.drainJobs(t))
}

func TestGetOrderByNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	found, err := env.orderSvc.GetOrderByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = env.orderSvc.GetOrderByNumber(ctx, "ORD-19700101-0001")
	require.Error(t, err)
}

func TestRevenueStatsExcludeCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)

	kept := checkout(t, env, product)
	dropped := checkout(t, env, product)
	_, err := env.orderSvc.CancelOrder(ctx, dropped.ID)
	require.NoError(t, err)

	stats, err := env.orderSvc.GetRevenueStats(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Orders)
	assert.True(t, stats.Revenue.Equal(kept.Total), fmt.Sprintf("revenue %s", stats.Revenue))
}
