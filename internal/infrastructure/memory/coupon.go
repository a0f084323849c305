package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
)

// CouponRepository is an in-memory coupon store
type CouponRepository struct {
	mu      sync.RWMutex
	coupons map[uuid.UUID]*entity.Coupon
}

// NewCouponRepository creates an empty in-memory coupon repository
func NewCouponRepository() *CouponRepository {
	return &CouponRepository{coupons: make(map[uuid.UUID]*entity.Coupon)}
}

var _ domainRepo.CouponRepository = (*CouponRepository)(nil)

func (r *CouponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	coupon.CreatedAt = time.Now()
	stored := *coupon
	r.coupons[coupon.ID] = &stored
	return nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	coupon, ok := r.coupons[id]
	if !ok {
		return nil, nil
	}
	copied := *coupon
	return &copied, nil
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, coupon := range r.coupons {
		if strings.EqualFold(coupon.Code, code) {
			copied := *coupon
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *CouponRepository) Update(ctx context.Context, coupon *entity.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[coupon.ID]; !ok {
		return nil
	}
	coupon.UpdatedAt = time.Now()
	stored := *coupon
	r.coupons[coupon.ID] = &stored
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.coupons, id)
	return nil
}

func (r *CouponRepository) List(ctx context.Context) ([]entity.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Coupon, 0, len(r.coupons))
	for _, coupon := range r.coupons {
		out = append(out, *coupon)
	}
	sortByCreatedAt(out, func(c entity.Coupon) time.Time { return c.CreatedAt })
	return out, nil
}

func (r *CouponRepository) ListActive(ctx context.Context) ([]entity.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Coupon
	for _, coupon := range r.coupons {
		if coupon.IsActive {
			out = append(out, *coupon)
		}
	}
	sortByCreatedAt(out, func(c entity.Coupon) time.Time { return c.CreatedAt })
	return out, nil
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if coupon, ok := r.coupons[id]; ok {
		coupon.UsageCount++
	}
	return nil
}
