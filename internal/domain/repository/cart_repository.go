package repository

import (
	"context"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/google/uuid"
)

// CartRepository defines the interface for cart data operations
type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error)
	GetBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error)
	Update(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddItem(ctx context.Context, item *entity.CartItem) error
	UpdateItem(ctx context.Context, item *entity.CartItem) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	RemoveItems(ctx context.Context, cartID uuid.UUID) error
	GetItem(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
