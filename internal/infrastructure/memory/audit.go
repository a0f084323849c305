package memory

import (
	"context"
	"sync"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
)

// AuditRepository is an in-memory audit log
type AuditRepository struct {
	mu   sync.RWMutex
	logs []entity.AuditLog
}

// NewAuditRepository creates an empty in-memory audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

var _ domainRepo.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]entity.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.AuditLog
	for _, log := range r.logs {
		if log.EntityType == entityType && log.EntityID == entityID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *AuditRepository) List(ctx context.Context, params *pagination.PaginationParams, entityType string) ([]entity.AuditLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.AuditLog
	for _, log := range r.logs {
		if entityType != "" && log.EntityType != entityType {
			continue
		}
		matched = append(matched, log)
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
