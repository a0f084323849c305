package repository

import (
	"context"
	"errors"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) domainRepo.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	var cart entity.Cart
	err := r.db.WithContext(ctx).Preload("Items").First(&cart, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	var cart entity.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		First(&cart, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepository) GetBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error) {
	var cart entity.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		First(&cart, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepository) Update(ctx context.Context, cart *entity.Cart) error {
	return r.db.WithContext(ctx).Omit("Items").Save(cart).Error
}

func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&entity.Cart{ID: id}).Error
}

func (r *cartRepository) AddItem(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepository) UpdateItem(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.CartItem{}, "id = ?", itemID).Error
}

func (r *cartRepository) RemoveItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.CartItem{}, "cart_id = ?", cartID).Error
}

func (r *cartRepository) GetItem(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error) {
	var item entity.CartItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *cartRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	// Items first so nothing is orphaned when a cart row goes
	err := r.db.WithContext(ctx).
		Where("cart_id IN (?)", r.db.Model(&entity.Cart{}).Select("id").
			Where("expires_at IS NOT NULL AND expires_at < ?", before)).
		Delete(&entity.CartItem{}).Error
	if err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", before).
		Delete(&entity.Cart{})
	return result.RowsAffected, result.Error
}
