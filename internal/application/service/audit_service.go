package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService records lifecycle mutations. Failures to write an audit
// entry are logged but never fail the calling operation.
type AuditService struct {
	auditRepo repository.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record writes an audit entry with optional before/after snapshots
func (s *AuditService) Record(ctx context.Context, entityType string, entityID uuid.UUID, action string, oldValues, newValues any, description string) {
	log := &entity.AuditLog{
		EntityID:   entityID,
		EntityType: entityType,
		Action:     action,
		Timestamp:  time.Now(),
	}
	if description != "" {
		log.Description = &description
	}
	if oldValues != nil {
		if data, err := json.Marshal(oldValues); err == nil {
			str := string(data)
			log.OldValues = &str
		}
	}
	if newValues != nil {
		if data, err := json.Marshal(newValues); err == nil {
			str := string(data)
			log.NewValues = &str
		}
	}

	if err := s.auditRepo.Create(ctx, log); err != nil {
		s.logger.Error("failed to write audit entry",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.String("action", action),
			zap.Error(err))
	}
}

// ListByEntity returns the audit trail for one entity
func (s *AuditService) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]entity.AuditLog, error) {
	return s.auditRepo.ListByEntity(ctx, entityType, entityID)
}

// List returns audit entries, optionally filtered by entity type
func (s *AuditService) List(ctx context.Context, params *pagination.PaginationParams, entityType string) (*pagination.PaginatedResult[entity.AuditLog], error) {
	params.Validate()
	logs, total, err := s.auditRepo.List(ctx, params, entityType)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(logs, pag), nil
}
