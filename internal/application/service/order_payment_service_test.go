package service

import (
	"context"
	"testing"

	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkPaymentRecordDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	require.NoError(t, env.linkSvc.LinkPaymentRecord(ctx, order.ID, "rec-1"))
	require.NoError(t, env.linkSvc.LinkPaymentRecord(ctx, order.ID, "rec-2"))
	require.NoError(t, env.linkSvc.LinkPaymentRecord(ctx, order.ID, "rec-1"))

	records, err := env.linkSvc.LinkedPaymentRecords(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"rec-1", "rec-2"}, records)
}

func TestConfirmPaymentRecordRequiresLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	err := env.linkSvc.ConfirmPaymentRecord(ctx, order.ID, "rec-unknown")
	require.Error(t, err)
	assert.Empty(t, env.accounting.confirmed)
}

func TestConfirmPaymentRecordReconcilesPaidOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	// accounting already has the invoice and full settlement on file
	invoiceNumber := "INV-9001"
	stored, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	stored.InvoiceNumber = &invoiceNumber
	require.NoError(t, env.orders.Update(ctx, stored))
	env.accounting.totalPaid = order.Total

	require.NoError(t, env.linkSvc.LinkPaymentRecord(ctx, order.ID, "rec-1"))
	require.NoError(t, env.linkSvc.ConfirmPaymentRecord(ctx, order.ID, "rec-1"))

	assert.Equal(t, []string{"rec-1"}, env.accounting.confirmed)

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, enum.OrderStatusConfirmed, updated.Status)
}

func TestReconcilePartialSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	invoiceNumber := "INV-9002"
	stored, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	stored.InvoiceNumber = &invoiceNumber
	require.NoError(t, env.orders.Update(ctx, stored))
	env.accounting.totalPaid = dec("19.00")

	require.NoError(t, env.linkSvc.Reconcile(ctx, order.ID))

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, updated.PaymentStatus)
}

func TestReconcileWithoutInvoiceIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	require.NoError(t, env.linkSvc.Reconcile(ctx, order.ID))

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPending, updated.PaymentStatus)
}
