package repository

import (
	"context"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/google/uuid"
)

// InventoryRepository defines the interface for inventory movement operations
type InventoryRepository interface {
	CreateMovement(ctx context.Context, movement *entity.InventoryMovement) error
	ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]entity.InventoryMovement, error)
	LatestMovement(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*entity.InventoryMovement, error)
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetVariant(ctx context.Context, variantID uuid.UUID) (*entity.ProductVariant, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateVariant(ctx context.Context, variant *entity.ProductVariant) error
	ListLowStock(ctx context.Context, defaultThreshold int) ([]entity.Product, error)
}
