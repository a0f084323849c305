package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRepository is an in-memory order store
type OrderRepository struct {
	mu        sync.RWMutex
	orders    map[uuid.UUID]*entity.Order
	customers *CustomerRepository
	documents *OrderDocumentRepository
	payments  *PaymentRepository
}

// NewOrderRepository creates an empty in-memory order repository. The
// optional sibling repositories feed the GetWithDetails preloads.
func NewOrderRepository(customers *CustomerRepository, documents *OrderDocumentRepository, payments *PaymentRepository) *OrderRepository {
	return &OrderRepository{
		orders:    make(map[uuid.UUID]*entity.Order),
		customers: customers,
		documents: documents,
		payments:  payments,
	}
}

var _ domainRepo.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Customer = nil
	stored.Payments = nil
	stored.Documents = nil
	stored.Items = append([]entity.OrderItem(nil), order.Items...)
	r.orders[order.ID] = &stored
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := r.copyOrder(order)
	return copied, nil
}

func (r *OrderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.RLock()
	order, ok := r.orders[id]
	if !ok {
		r.mu.RUnlock()
		return nil, nil
	}
	copied := r.copyOrder(order)
	r.mu.RUnlock()

	if r.customers != nil {
		customer, err := r.customers.GetByID(ctx, copied.CustomerID)
		if err != nil {
			return nil, err
		}
		copied.Customer = customer
	}
	if r.documents != nil {
		documents, err := r.documents.ListByOrderID(ctx, id)
		if err != nil {
			return nil, err
		}
		copied.Documents = documents
	}
	if r.payments != nil {
		payments, err := r.payments.ListByOrderID(ctx, id)
		if err != nil {
			return nil, err
		}
		copied.Payments = payments
	}
	return copied, nil
}

func (r *OrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return r.copyOrder(order), nil
		}
	}
	return nil, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orders[order.ID]
	if !ok {
		return nil
	}
	order.UpdatedAt = time.Now()
	stored := *order
	stored.Customer = nil
	stored.Payments = nil
	stored.Documents = nil
	if len(order.Items) > 0 {
		stored.Items = append([]entity.OrderItem(nil), order.Items...)
	} else {
		stored.Items = existing.Items
	}
	r.orders[order.ID] = &stored
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *OrderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.Order
	for _, order := range r.orders {
		if params.Status != nil && order.Status != *params.Status {
			continue
		}
		if params.CustomerID != nil && order.CustomerID != *params.CustomerID {
			continue
		}
		if params.Search != "" && !strings.Contains(
			strings.ToLower(order.OrderNumber), strings.ToLower(params.Search)) {
			continue
		}
		if params.StartDate != nil && order.CreatedAt.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && order.CreatedAt.After(*params.EndDate) {
			continue
		}
		matched = append(matched, *r.copyOrder(order))
	}

	sortByCreatedAt(matched, func(o entity.Order) time.Time { return o.CreatedAt })
	total := int64(len(matched))

	params.Pagination.Validate()
	start := params.Pagination.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Pagination.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			out = append(out, *r.copyOrder(order))
		}
	}
	sortByCreatedAt(out, func(o entity.Order) time.Time { return o.CreatedAt })
	return out, nil
}

func (r *OrderRepository) LastOrderNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	last := ""
	for _, order := range r.orders {
		if strings.HasPrefix(order.OrderNumber, prefix) && order.OrderNumber > last {
			last = order.OrderNumber
		}
	}
	return last, nil
}

func (r *OrderRepository) TotalRevenue(ctx context.Context, from, to *time.Time) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := ""
	total := decimal.Zero
	for _, order := range r.orders {
		if order.Status.String() == "Cancelled" {
			continue
		}
		if from != nil && order.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && order.CreatedAt.After(*to) {
			continue
		}
		total = total.Add(order.Total)
		sum = total.String()
	}
	return sum, nil
}

func (r *OrderRepository) CountOrders(ctx context.Context, from, to *time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, order := range r.orders {
		if order.Status.String() == "Cancelled" {
			continue
		}
		if from != nil && order.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && order.CreatedAt.After(*to) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *OrderRepository) copyOrder(order *entity.Order) *entity.Order {
	copied := *order
	copied.Items = append([]entity.OrderItem(nil), order.Items...)
	return &copied
}

// OrderDocumentRepository is an in-memory document record store
type OrderDocumentRepository struct {
	mu        sync.RWMutex
	documents []entity.OrderDocument
}

// NewOrderDocumentRepository creates an empty in-memory document repository
func NewOrderDocumentRepository() *OrderDocumentRepository {
	return &OrderDocumentRepository{}
}

var _ domainRepo.OrderDocumentRepository = (*OrderDocumentRepository)(nil)

func (r *OrderDocumentRepository) Create(ctx context.Context, document *entity.OrderDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	r.documents = append(r.documents, *document)
	return nil
}

func (r *OrderDocumentRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.OrderDocument
	for _, document := range r.documents {
		if document.OrderID == orderID {
			out = append(out, document)
		}
	}
	return out, nil
}

func (r *OrderDocumentRepository) Exists(ctx context.Context, orderID uuid.UUID, templateKey, state string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, document := range r.documents {
		if document.OrderID == orderID && document.State == state &&
			document.TemplateKey != nil && *document.TemplateKey == templateKey {
			return true, nil
		}
	}
	return false, nil
}
