package service

import (
	"context"
	"testing"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pay creates a payment and charges it in one step
func pay(t *testing.T, env *testEnv, orderID uuid.UUID, amount decimal.Decimal, method enum.PaymentMethod, txID *string) (*entity.Payment, error) {
	t.Helper()
	created, err := env.paymentSvc.CreatePayment(context.Background(), &CreatePaymentInput{
		OrderID:       orderID,
		Amount:        amount,
		Method:        method,
		TransactionID: txID,
	})
	if err != nil {
		return nil, err
	}
	return env.paymentSvc.ProcessPayment(context.Background(), created.ID)
}

func TestCreatePaymentStartsPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	payment, err := env.paymentSvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: order.ID,
		Amount:  order.Total,
		Method:  enum.PaymentMethodCreditCard,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentTransactionPending, payment.Status)
	assert.Nil(t, payment.GatewayReference, "gateway untouched before processing")

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPending, updated.PaymentStatus, "creating does not settle")
}

func TestProcessPaymentRequiresPendingStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	payment, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err)
	require.Equal(t, enum.PaymentTransactionCompleted, payment.Status)

	_, err = env.paymentSvc.ProcessPayment(ctx, payment.ID)
	require.Error(t, err, "completed payments cannot be charged again")
}

func TestFullPaymentMarksOrderPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)
	env.drainJobs(t)

	payment, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentTransactionCompleted, payment.Status)
	require.NotNil(t, payment.GatewayReference)
	assert.NotNil(t, payment.ProcessedAt)

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, enum.OrderStatusConfirmed, updated.Status)

	jobs := env.drainJobs(t)
	require.Len(t, jobs, 2, "invoice and confirmed-state documents")
}

func TestPartialPaymentsSettleInSteps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product) // total 119.00

	_, err := pay(t, env, order.ID, dec("19.00"), enum.PaymentMethodBankTransfer, nil)
	require.NoError(t, err)

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, updated.PaymentStatus)
	assert.Equal(t, enum.OrderStatusPending, updated.Status)

	_, err = pay(t, env, order.ID, dec("100.00"), enum.PaymentMethodBankTransfer, nil)
	require.NoError(t, err)

	updated, err = env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, enum.OrderStatusConfirmed, updated.Status)
}

func TestOverpaymentRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	_, err := env.paymentSvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: order.ID,
		Amount:  order.Total.Add(dec("0.01")),
		Method:  enum.PaymentMethodCreditCard,
	})
	require.Error(t, err)
}

func TestProcessRejectsWhenOutstandingShrank(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	// two full payments created while nothing was settled yet
	first, err := env.paymentSvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: order.ID, Amount: order.Total, Method: enum.PaymentMethodCreditCard,
	})
	require.NoError(t, err)
	second, err := env.paymentSvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: order.ID, Amount: order.Total, Method: enum.PaymentMethodCreditCard,
	})
	require.NoError(t, err)

	_, err = env.paymentSvc.ProcessPayment(ctx, first.ID)
	require.NoError(t, err)
	_, err = env.paymentSvc.ProcessPayment(ctx, second.ID)
	require.Error(t, err, "the order is already settled")
}

func TestDeclinedChargeRecordsFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)
	env.gateway.decline = true

	payment, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err, "a decline is a recorded outcome, not an error")

	assert.Equal(t, enum.PaymentTransactionFailed, payment.Status)
	require.NotNil(t, payment.ErrorMessage)
	assert.Contains(t, *payment.ErrorMessage, "declined")

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPending, updated.PaymentStatus)
}

func TestPaymentAgainstCancelledOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)
	_, err := env.orderSvc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = env.paymentSvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: order.ID, Amount: dec("10.00"), Method: enum.PaymentMethodCash,
	})
	require.Error(t, err)
}

func TestPartialRefund(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product) // total 119.00

	payment, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err)

	amount := dec("50.00")
	refund, err := env.paymentSvc.RefundPayment(ctx, &RefundPaymentInput{
		PaymentID: payment.ID,
		Amount:    &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentTransactionCompleted, refund.Status)
	assert.True(t, refund.Amount.Equal(dec("-50.00")), "refund amount %s", refund.Amount)

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPartiallyRefunded, updated.PaymentStatus)
}

func TestFullRefundFlipsOrderToRefunded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	payment, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err)

	refund, err := env.paymentSvc.RefundPayment(ctx, &RefundPaymentInput{PaymentID: payment.ID})
	require.NoError(t, err)
	assert.True(t, refund.Amount.Equal(order.Total.Neg()))

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusRefunded, updated.PaymentStatus)
}

func TestRefundNeverExceedsRefundable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	txID := "TX-1"
	payment, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, &txID)
	require.NoError(t, err)

	amount := dec("100.00")
	_, err = env.paymentSvc.RefundPayment(ctx, &RefundPaymentInput{PaymentID: payment.ID, Amount: &amount})
	require.NoError(t, err)

	// only 19.00 remains refundable
	second := dec("20.00")
	_, err = env.paymentSvc.RefundPayment(ctx, &RefundPaymentInput{PaymentID: payment.ID, Amount: &second})
	require.Error(t, err)

	rest := dec("19.00")
	_, err = env.paymentSvc.RefundPayment(ctx, &RefundPaymentInput{PaymentID: payment.ID, Amount: &rest})
	require.NoError(t, err)
}

func TestRefundOfRefundRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	payment, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err)

	refund, err := env.paymentSvc.RefundPayment(ctx, &RefundPaymentInput{PaymentID: payment.ID})
	require.NoError(t, err)

	_, err = env.paymentSvc.RefundPayment(ctx, &RefundPaymentInput{PaymentID: refund.ID})
	require.Error(t, err)
}

func TestVoidRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	pending, err := env.paymentSvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: order.ID,
		Amount:  dec("10.00"),
		Method:  enum.PaymentMethodInvoice,
	})
	require.NoError(t, err)

	reason := "customer chose another method"
	voided, err := env.paymentSvc.VoidPayment(ctx, pending.ID, &reason)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentTransactionCancelled, voided.Status)
	require.NotNil(t, voided.ErrorMessage)
	assert.Equal(t, reason, *voided.ErrorMessage)

	_, err = env.paymentSvc.ProcessPayment(ctx, voided.ID)
	require.Error(t, err, "a voided payment cannot be charged")

	// completed payments cannot be voided
	completed, err := pay(t, env, order.ID, order.Total, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err)
	_, err = env.paymentSvc.VoidPayment(ctx, completed.ID, nil)
	require.Error(t, err)
}

func TestListPaymentsByOrderOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	_, err := pay(t, env, order.ID, dec("19.00"), enum.PaymentMethodBankTransfer, nil)
	require.NoError(t, err)
	_, err = pay(t, env, order.ID, dec("100.00"), enum.PaymentMethodBankTransfer, nil)
	require.NoError(t, err)

	payments, err := env.paymentSvc.ListPaymentsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].Amount.Equal(dec("19.00")))
	assert.True(t, payments[1].Amount.Equal(dec("100.00")))
}
