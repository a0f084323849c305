package memory

import (
	"context"
	"sync"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
)

// InventoryRepository is an in-memory movement ledger
type InventoryRepository struct {
	mu        sync.RWMutex
	movements []entity.InventoryMovement
}

// NewInventoryRepository creates an empty in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

var _ domainRepo.InventoryRepository = (*InventoryRepository)(nil)

func (r *InventoryRepository) CreateMovement(ctx context.Context, movement *entity.InventoryMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	movement.CreatedAt = time.Now()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *InventoryRepository) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]entity.InventoryMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.InventoryMovement
	// Newest first
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *InventoryRepository) LatestMovement(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*entity.InventoryMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if m.ProductID != productID {
			continue
		}
		if (m.VariantID == nil) != (variantID == nil) {
			continue
		}
		if m.VariantID == nil || *m.VariantID == *variantID {
			copied := m
			return &copied, nil
		}
	}
	return nil, nil
}
