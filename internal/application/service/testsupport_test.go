package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/config"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/infrastructure/memory"
	"github.com/denisokoth/shopcore-api/internal/infrastructure/queue"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires every service against in-memory repositories and fake
// external adapters.
type testEnv struct {
	products  *memory.ProductRepository
	customers *memory.CustomerRepository
	coupons   *memory.CouponRepository
	carts     *memory.CartRepository
	orders    *memory.OrderRepository
	documents *memory.OrderDocumentRepository
	payments  *memory.PaymentRepository
	movements *memory.InventoryRepository
	audits    *memory.AuditRepository
	queue     *queue.MemoryQueue

	templates    *fakeTemplates
	storage      *fakeStorage
	accounting   *fakeAccounting
	notification *fakeNotification
	gateway      *fakeGateway

	cartSvc      *CartService
	couponSvc    *CouponService
	inventorySvc *InventoryService
	orderSvc     *OrderService
	paymentSvc   *PaymentService
	jobSvc       *OrderJobService
	linkSvc      *OrderPaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	shopCfg := config.ShopConfig{
		DefaultCurrency:     "EUR",
		TaxRate:             0.19,
		CartExpirationHours: 72,
		LowStockThreshold:   10,
		CompanyID:           "1",
	}

	env := &testEnv{
		products:     memory.NewProductRepository(),
		customers:    memory.NewCustomerRepository(),
		coupons:      memory.NewCouponRepository(),
		carts:        memory.NewCartRepository(),
		documents:    memory.NewOrderDocumentRepository(),
		payments:     memory.NewPaymentRepository(),
		movements:    memory.NewInventoryRepository(),
		audits:       memory.NewAuditRepository(),
		queue:        queue.NewMemoryQueue(),
		templates:    &fakeTemplates{},
		storage:      &fakeStorage{},
		accounting:   &fakeAccounting{},
		notification: &fakeNotification{},
		gateway:      &fakeGateway{},
	}
	env.orders = memory.NewOrderRepository(env.customers, env.documents, env.payments)

	auditSvc := NewAuditService(env.audits, logger)
	env.couponSvc = NewCouponService(env.coupons, logger)
	env.cartSvc = NewCartService(env.carts, env.products, env.couponSvc, shopCfg, logger)
	env.inventorySvc = NewInventoryService(env.movements, env.products, shopCfg, logger)
	env.orderSvc = NewOrderService(
		env.orders, env.customers, env.products, env.documents,
		env.cartSvc, env.couponSvc, env.inventorySvc, auditSvc,
		env.queue, shopCfg, logger,
	)
	env.paymentSvc = NewPaymentService(env.payments, env.orders, env.orderSvc, env.gateway, auditSvc, logger)
	env.linkSvc = NewOrderPaymentService(env.orders, env.orderSvc, env.accounting, logger)
	env.jobSvc = NewOrderJobService(
		env.orders, env.documents,
		env.templates, env.storage, env.accounting, env.notification,
		shopCfg, logger,
	)
	return env
}

func (e *testEnv) seedProduct(t *testing.T, name string, price string, stock int) *entity.Product {
	t.Helper()
	product := &entity.Product{
		Name:           name,
		Sku:            "SKU-" + uuid.NewString()[:8],
		Price:          dec(price),
		StockQuantity:  stock,
		TrackInventory: true,
		IsActive:       true,
	}
	require.NoError(t, e.products.Create(context.Background(), product))
	return product
}

func (e *testEnv) seedCustomer(t *testing.T) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     uuid.NewString()[:8] + "@example.com",
	}
	require.NoError(t, e.customers.Create(context.Background(), customer))
	return customer
}

func (e *testEnv) seedCart(t *testing.T, customerID uuid.UUID) *entity.Cart {
	t.Helper()
	cart, err := e.cartSvc.CreateCart(context.Background(), &CreateCartInput{CustomerID: &customerID})
	require.NoError(t, err)
	return cart
}

// drainJobs pops every waiting job and returns them in order
func (e *testEnv) drainJobs(t *testing.T) []port.Job {
	t.Helper()
	var jobs []port.Job
	for {
		job, err := e.queue.Dequeue(context.Background())
		require.NoError(t, err)
		if job == nil {
			return jobs
		}
		jobs = append(jobs, *job)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeTemplates struct {
	mu          sync.Mutex
	byState     map[string][]port.Template
	renderCalls int
	renderErr   error
	emptyPDF    bool
}

func (f *fakeTemplates) addTemplate(state string, tpl port.Template) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byState == nil {
		f.byState = make(map[string][]port.Template)
	}
	tpl.State = state
	f.byState[state] = append(f.byState[state], tpl)
}

func (f *fakeTemplates) ListTemplatesByState(ctx context.Context, companyID, state string) ([]port.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byState[state], nil
}

func (f *fakeTemplates) RenderPDF(ctx context.Context, templateID string, order *entity.Order) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderCalls++
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	if f.emptyPDF {
		return nil, nil
	}
	return []byte("%PDF-1.4 " + templateID), nil
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (f *fakeStorage) UploadPDF(ctx context.Context, companyID, objectKey string, pdf []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, objectKey)
	return "https://storage.local/" + companyID + "/" + objectKey, nil
}

type fakeAccounting struct {
	mu        sync.Mutex
	invoices  int
	confirmed []string
	totalPaid decimal.Decimal
	createErr error
}

func (f *fakeAccounting) CreateInvoice(ctx context.Context, draft *port.InvoiceDraft) (*port.InvoiceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.invoices++
	number := fmt.Sprintf("INV-%04d", f.invoices)
	return &port.InvoiceResult{InvoiceID: number, InvoiceNumber: number}, nil
}

func (f *fakeAccounting) ConfirmPaymentRecord(ctx context.Context, paymentRecordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, paymentRecordID)
	return nil
}

func (f *fakeAccounting) GetTotalPaid(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalPaid, nil
}

type fakeNotification struct {
	mu   sync.Mutex
	sent []port.EmailMessage
}

func (f *fakeNotification) SendEmail(ctx context.Context, msg *port.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *msg)
	return nil
}

// fakeGateway approves every charge unless told to decline
type fakeGateway struct {
	mu      sync.Mutex
	decline bool
	charges int
	refunds int
}

func (f *fakeGateway) Charge(ctx context.Context, payment *entity.Payment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decline {
		return "", errors.New("card declined")
	}
	f.charges++
	return fmt.Sprintf("PAY-%04d", f.charges), nil
}

func (f *fakeGateway) Refund(ctx context.Context, payment *entity.Payment, originalReference string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if originalReference == "" {
		return "", errors.New("missing original reference")
	}
	f.refunds++
	return "REF-" + originalReference, nil
}
