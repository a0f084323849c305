package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository is an in-memory customer store
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]*entity.Customer
}

// NewCustomerRepository creates an empty in-memory customer repository
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[uuid.UUID]*entity.Customer)}
}

var _ domainRepo.CustomerRepository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = time.Now()
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.customers {
		if strings.EqualFold(customer.Email, email) {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return nil
	}
	customer.UpdatedAt = time.Now()
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.Customer
	for _, customer := range r.customers {
		if search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(customer.FirstName), needle) &&
				!strings.Contains(strings.ToLower(customer.LastName), needle) &&
				!strings.Contains(strings.ToLower(customer.Email), needle) {
				continue
			}
		}
		matched = append(matched, *customer)
	}

	total := int64(len(matched))
	params.Validate()
	start := params.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
