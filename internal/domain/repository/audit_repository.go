package repository

import (
	"context"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
)

// AuditRepository defines the interface for audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]entity.AuditLog, error)
	List(ctx context.Context, params *pagination.PaginationParams, entityType string) ([]entity.AuditLog, int64, error)
}
