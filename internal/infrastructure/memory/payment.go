package memory

import (
	"context"
	"sync"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository is an in-memory payment store
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*entity.Payment
	order    []uuid.UUID
}

// NewPaymentRepository creates an empty in-memory payment repository
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[uuid.UUID]*entity.Payment)}
}

var _ domainRepo.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	stored := *payment
	stored.Order = nil
	r.payments[payment.ID] = &stored
	r.order = append(r.order, payment.ID)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *payment
	return &copied, nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[payment.ID]; !ok {
		return nil
	}
	stored := *payment
	stored.Order = nil
	r.payments[payment.ID] = &stored
	return nil
}

func (r *PaymentRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Payment
	for _, id := range r.order {
		if payment, ok := r.payments[id]; ok && payment.OrderID == orderID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (r *PaymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.Payment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.Payment
	for _, id := range r.order {
		payment, ok := r.payments[id]
		if !ok {
			continue
		}
		if params.OrderID != nil && payment.OrderID != *params.OrderID {
			continue
		}
		if params.Status != nil && payment.Status != *params.Status {
			continue
		}
		if params.Method != nil && payment.Method != *params.Method {
			continue
		}
		matched = append(matched, *payment)
	}

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

func (r *PaymentRepository) SumCompletedByOrderID(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, payment := range r.payments {
		if payment.OrderID == orderID && payment.Status == enum.PaymentTransactionCompleted {
			sum = sum.Add(payment.Amount)
		}
	}
	return sum, nil
}
