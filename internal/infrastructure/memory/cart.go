package memory

import (
	"context"
	"sync"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
)

// CartRepository is an in-memory cart store for tests and local runs
type CartRepository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*entity.Cart
	items map[uuid.UUID]*entity.CartItem
}

// NewCartRepository creates an empty in-memory cart repository
func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: make(map[uuid.UUID]*entity.Cart),
		items: make(map[uuid.UUID]*entity.CartItem),
	}
}

var _ domainRepo.CartRepository = (*CartRepository)(nil)

func (r *CartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	cart.CreatedAt = time.Now()
	stored := *cart
	stored.Items = nil
	r.carts[cart.ID] = &stored
	return nil
}

func (r *CartRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, nil
	}
	return r.withItems(cart), nil
}

func (r *CartRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *entity.Cart
	for _, cart := range r.carts {
		if cart.CustomerID != nil && *cart.CustomerID == customerID {
			if latest == nil || cart.CreatedAt.After(latest.CreatedAt) {
				latest = cart
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	return r.withItems(latest), nil
}

func (r *CartRepository) GetBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *entity.Cart
	for _, cart := range r.carts {
		if cart.SessionID != nil && *cart.SessionID == sessionID {
			if latest == nil || cart.CreatedAt.After(latest.CreatedAt) {
				latest = cart
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	return r.withItems(latest), nil
}

func (r *CartRepository) Update(ctx context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[cart.ID]; !ok {
		return nil
	}
	cart.UpdatedAt = time.Now()
	stored := *cart
	stored.Items = nil
	r.carts[cart.ID] = &stored
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	for itemID, item := range r.items {
		if item.CartID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *CartRepository) AddItem(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *CartRepository) UpdateItem(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return nil
	}
	item.UpdatedAt = time.Now()
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, itemID)
	return nil
}

func (r *CartRepository) RemoveItems(ctx context.Context, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for itemID, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *CartRepository) GetItem(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *CartRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, cart := range r.carts {
		if cart.ExpiresAt != nil && cart.ExpiresAt.Before(before) {
			delete(r.carts, id)
			for itemID, item := range r.items {
				if item.CartID == id {
					delete(r.items, itemID)
				}
			}
			removed++
		}
	}
	return removed, nil
}

// withItems returns a copy of the cart with its items attached, sorted
// by creation time. Callers must hold at least the read lock.
func (r *CartRepository) withItems(cart *entity.Cart) *entity.Cart {
	copied := *cart
	copied.Items = nil
	for _, item := range r.items {
		if item.CartID == cart.ID {
			copied.Items = append(copied.Items, *item)
		}
	}
	sortByCreatedAt(copied.Items, func(i entity.CartItem) time.Time { return i.CreatedAt })
	return &copied
}
