package memory

import (
	"context"
	"sync"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
)

// ProductRepository is an in-memory product store
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*entity.Product
	variants map[uuid.UUID]*entity.ProductVariant
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[uuid.UUID]*entity.Product),
		variants: make(map[uuid.UUID]*entity.ProductVariant),
	}
}

var _ domainRepo.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	stored := *product
	stored.Variants = nil
	r.products[product.ID] = &stored
	for i := range product.Variants {
		variant := product.Variants[i]
		if variant.ID == uuid.Nil {
			variant.ID = uuid.New()
			product.Variants[i].ID = variant.ID
		}
		variant.ProductID = product.ID
		r.variants[variant.ID] = &variant
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	for _, variant := range r.variants {
		if variant.ProductID == id {
			copied.Variants = append(copied.Variants, *variant)
		}
	}
	return &copied, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *ProductRepository) GetVariant(ctx context.Context, variantID uuid.UUID) (*entity.ProductVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	variant, ok := r.variants[variantID]
	if !ok {
		return nil, nil
	}
	copied := *variant
	return &copied, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return nil
	}
	product.UpdatedAt = time.Now()
	stored := *product
	stored.Variants = nil
	r.products[product.ID] = &stored
	return nil
}

func (r *ProductRepository) UpdateVariant(ctx context.Context, variant *entity.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.variants[variant.ID]; !ok {
		return nil
	}
	variant.UpdatedAt = time.Now()
	stored := *variant
	r.variants[variant.ID] = &stored
	return nil
}

func (r *ProductRepository) ListLowStock(ctx context.Context, defaultThreshold int) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Product
	for _, product := range r.products {
		if !product.TrackInventory {
			continue
		}
		threshold := defaultThreshold
		if product.LowStockThreshold != nil {
			threshold = *product.LowStockThreshold
		}
		if product.StockQuantity <= threshold {
			out = append(out, *product)
		}
	}
	return out, nil
}
