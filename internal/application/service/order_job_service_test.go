package service

import (
	"context"
	"errors"
	"testing"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func documentJob(orderID uuid.UUID, state string) port.Job {
	return port.Job{
		ID:      uuid.New(),
		OrderID: orderID,
		Type:    enum.JobTypeGenerateDocuments,
		State:   state,
	}
}

func invoiceJob(orderID uuid.UUID) port.Job {
	return port.Job{
		ID:      uuid.New(),
		OrderID: orderID,
		Type:    enum.JobTypeCreateInvoice,
		State:   "confirmed",
	}
}

func TestGenerateDocumentsRendersActiveTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	env.templates.addTemplate("pending", port.Template{ID: "t1", Key: "order-confirmation", Name: "Order Confirmation", Active: true, SendEmail: true})
	env.templates.addTemplate("pending", port.Template{ID: "t2", Key: "delivery-note", Name: "Delivery Note", Active: true, SendEmail: true})
	env.templates.addTemplate("pending", port.Template{ID: "t3", Key: "legacy", Name: "Legacy", Active: false})

	require.NoError(t, env.jobSvc.Execute(ctx, documentJob(order.ID, "pending")))

	documents, err := env.documents.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, documents, 2, "inactive template skipped")
	assert.Len(t, env.storage.uploads, 2)
	assert.Len(t, env.notification.sent, 2, "customer notified per document")
}

func TestGenerateDocumentsSkipsEmailForInternalTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	env.templates.addTemplate("pending", port.Template{ID: "t1", Key: "order-confirmation", Name: "Order Confirmation", Active: true, SendEmail: true})
	env.templates.addTemplate("pending", port.Template{ID: "t2", Key: "pick-list", Name: "Pick List", Active: true})

	require.NoError(t, env.jobSvc.Execute(ctx, documentJob(order.ID, "pending")))

	documents, err := env.documents.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, documents, 2, "both documents generated")
	require.Len(t, env.notification.sent, 1, "only the flagged template is mailed")
	assert.Contains(t, env.notification.sent[0].Subject, "Order Confirmation")
}

func TestGenerateDocumentsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	env.templates.addTemplate("pending", port.Template{ID: "t1", Key: "order-confirmation", Name: "Order Confirmation", Active: true})

	require.NoError(t, env.jobSvc.Execute(ctx, documentJob(order.ID, "pending")))
	require.NoError(t, env.jobSvc.Execute(ctx, documentJob(order.ID, "pending")))

	documents, err := env.documents.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, documents, 1)
	assert.Equal(t, 1, env.templates.renderCalls)
}

func TestGenerateDocumentsSkipsEmptyPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	env.templates.addTemplate("pending", port.Template{ID: "t1", Key: "order-confirmation", Name: "Order Confirmation", Active: true})
	env.templates.emptyPDF = true

	require.NoError(t, env.jobSvc.Execute(ctx, documentJob(order.ID, "pending")))

	documents, err := env.documents.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, documents)
	assert.Empty(t, env.storage.uploads)
}

func TestGenerateDocumentsMissingOrderSwallowed(t *testing.T) {
	env := newTestEnv(t)

	err := env.jobSvc.Execute(context.Background(), documentJob(uuid.New(), "pending"))
	require.NoError(t, err, "a vanished order must not trigger retries")
}

func TestGenerateDocumentsRenderFailureRetriable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	env.templates.addTemplate("pending", port.Template{ID: "t1", Key: "order-confirmation", Name: "Order Confirmation", Active: true})
	env.templates.renderErr = errors.New("templating service unavailable")

	err := env.jobSvc.Execute(ctx, documentJob(order.ID, "pending"))
	require.Error(t, err)
}

func TestCreateInvoiceStoresNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	require.NoError(t, env.jobSvc.Execute(ctx, invoiceJob(order.ID)))

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.InvoiceNumber)
	assert.Equal(t, "INV-0001", *updated.InvoiceNumber)
}

func TestCreateInvoiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Desk Lamp", "50.00", 100)
	order := checkout(t, env, product)

	require.NoError(t, env.jobSvc.Execute(ctx, invoiceJob(order.ID)))
	require.NoError(t, env.jobSvc.Execute(ctx, invoiceJob(order.ID)))

	assert.Equal(t, 1, env.accounting.invoices)

	updated, err := env.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", *updated.InvoiceNumber)
}

func TestUnknownJobTypeFails(t *testing.T) {
	env := newTestEnv(t)

	err := env.jobSvc.Execute(context.Background(), port.Job{
		ID:      uuid.New(),
		OrderID: uuid.New(),
		Type:    enum.JobType("Reindex"),
	})
	require.Error(t, err)
}
