package service

import (
	"context"

	"github.com/denisokoth/shopcore-api/internal/config"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LowStockHook is invoked when an adjustment leaves a product at or
// below its low-stock threshold
type LowStockHook func(product *entity.Product, stock int)

// InventoryService moves stock and keeps the movement ledger. Every
// stock change goes through AdjustStock so the ledger stays complete.
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	shopCfg       config.ShopConfig
	logger        *zap.Logger
	lowStockHook  LowStockHook
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	shopCfg config.ShopConfig,
	logger *zap.Logger,
) *InventoryService {
	s := &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		shopCfg:       shopCfg,
		logger:        logger,
	}
	s.lowStockHook = func(product *entity.Product, stock int) {
		logger.Warn("product stock below threshold",
			zap.String("product_id", product.ID.String()),
			zap.String("sku", product.Sku),
			zap.Int("stock", stock))
	}
	return s
}

// SetLowStockHook replaces the default low-stock observer
func (s *InventoryService) SetLowStockHook(hook LowStockHook) {
	if hook != nil {
		s.lowStockHook = hook
	}
}

// AdjustStockInput represents a stock adjustment request
type AdjustStockInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int // signed, negative decrements
	Type      enum.MovementType
	Reason    *string
	Reference *string
}

// AdjustStock applies a signed stock change and writes the movement
// record. A decrement below zero fails without writing anything unless
// the product allows backorders.
func (s *InventoryService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.InventoryMovement, error) {
	if input.Quantity == 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be zero")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if !product.TrackInventory {
		return nil, apperror.NewBadRequestError("Product does not track inventory")
	}

	var variant *entity.ProductVariant
	before := product.StockQuantity
	if input.VariantID != nil {
		variant, err = s.productRepo.GetVariant(ctx, *input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != product.ID {
			return nil, apperror.NewNotFoundError("Product variant")
		}
		before = variant.StockQuantity
	}

	after := before + input.Quantity
	if after < 0 && !product.AllowBackorder {
		return nil, apperror.NewInsufficientStockError(product.Name)
	}

	movement := &entity.InventoryMovement{
		ProductID:      product.ID,
		VariantID:      input.VariantID,
		Type:           input.Type,
		Quantity:       input.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         input.Reason,
		Reference:      input.Reference,
	}

	if variant != nil {
		variant.StockQuantity = after
		if err := s.productRepo.UpdateVariant(ctx, variant); err != nil {
			return nil, err
		}
	} else {
		product.StockQuantity = after
		if err := s.productRepo.Update(ctx, product); err != nil {
			return nil, err
		}
	}

	if err := s.inventoryRepo.CreateMovement(ctx, movement); err != nil {
		return nil, err
	}

	// Low stock is evaluated on product-level quantities only.
	if input.VariantID == nil && s.isLowStock(product, after) {
		s.lowStockHook(product, after)
	}

	return movement, nil
}

// Reserve decrements stock for an order line. It is a sale movement
// referencing the order number.
func (s *InventoryService) Reserve(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int, orderNumber string) (*entity.InventoryMovement, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be positive")
	}
	return s.AdjustStock(ctx, &AdjustStockInput{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  -quantity,
		Type:      enum.MovementTypeSale,
		Reference: &orderNumber,
	})
}

// Release returns stock reserved for a cancelled order line
func (s *InventoryService) Release(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int, orderNumber string) (*entity.InventoryMovement, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be positive")
	}
	return s.AdjustStock(ctx, &AdjustStockInput{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		Type:      enum.MovementTypeReturn,
		Reference: &orderNumber,
	})
}

// Restock adds received stock
func (s *InventoryService) Restock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int, reason *string) (*entity.InventoryMovement, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be positive")
	}
	return s.AdjustStock(ctx, &AdjustStockInput{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		Type:      enum.MovementTypeRestock,
		Reason:    reason,
	})
}

// ListMovements returns the movement history for a product, newest first
func (s *InventoryService) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]entity.InventoryMovement, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.inventoryRepo.ListMovements(ctx, productID, limit)
}

// ListLowStock returns tracked products at or below their threshold
func (s *InventoryService) ListLowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.ListLowStock(ctx, s.shopCfg.LowStockThreshold)
}

func (s *InventoryService) isLowStock(product *entity.Product, stock int) bool {
	threshold := s.shopCfg.LowStockThreshold
	if product.LowStockThreshold != nil {
		threshold = *product.LowStockThreshold
	}
	return stock <= threshold
}
