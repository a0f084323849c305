package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	domainRepo "github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedCartRepository decorates a cart repository with a Redis read
// cache. Cache misses and Redis failures fall through to the inner
// repository, so the cache is never load-bearing.
type cachedCartRepository struct {
	inner  domainRepo.CartRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCartRepository wraps a cart repository with Redis caching
func NewCachedCartRepository(inner domainRepo.CartRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) domainRepo.CartRepository {
	return &cachedCartRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cartCacheKey(id uuid.UUID) string {
	return "cart:" + id.String()
}

func (r *cachedCartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	if err := r.inner.Create(ctx, cart); err != nil {
		return err
	}
	r.store(ctx, cart)
	return nil
}

func (r *cachedCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	if cached := r.load(ctx, id); cached != nil {
		return cached, nil
	}

	cart, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		r.store(ctx, cart)
	}
	return cart, nil
}

// Owner lookups always hit the database; only the id key is cached
func (r *cachedCartRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	cart, err := r.inner.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		r.store(ctx, cart)
	}
	return cart, nil
}

func (r *cachedCartRepository) GetBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error) {
	cart, err := r.inner.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		r.store(ctx, cart)
	}
	return cart, nil
}

func (r *cachedCartRepository) Update(ctx context.Context, cart *entity.Cart) error {
	if err := r.inner.Update(ctx, cart); err != nil {
		return err
	}
	// The entity passed in may carry stale items, re-read before caching
	fresh, err := r.inner.GetByID(ctx, cart.ID)
	if err == nil && fresh != nil {
		r.store(ctx, fresh)
	}
	return nil
}

func (r *cachedCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedCartRepository) AddItem(ctx context.Context, item *entity.CartItem) error {
	if err := r.inner.AddItem(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.CartID)
	return nil
}

func (r *cachedCartRepository) UpdateItem(ctx context.Context, item *entity.CartItem) error {
	if err := r.inner.UpdateItem(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.CartID)
	return nil
}

func (r *cachedCartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := r.inner.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := r.inner.RemoveItem(ctx, itemID); err != nil {
		return err
	}
	if item != nil {
		r.invalidate(ctx, item.CartID)
	}
	return nil
}

func (r *cachedCartRepository) RemoveItems(ctx context.Context, cartID uuid.UUID) error {
	if err := r.inner.RemoveItems(ctx, cartID); err != nil {
		return err
	}
	r.invalidate(ctx, cartID)
	return nil
}

func (r *cachedCartRepository) GetItem(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error) {
	return r.inner.GetItem(ctx, itemID)
}

func (r *cachedCartRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	// Cached entries expire on their own TTL
	return r.inner.DeleteExpired(ctx, before)
}

func (r *cachedCartRepository) load(ctx context.Context, id uuid.UUID) *entity.Cart {
	data, err := r.client.Get(ctx, cartCacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Debug("cart cache read failed", zap.Error(err))
		}
		return nil
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		r.invalidate(ctx, id)
		return nil
	}
	if cart.IsExpired(time.Now()) {
		r.invalidate(ctx, id)
		return nil
	}
	return &cart
}

func (r *cachedCartRepository) store(ctx context.Context, cart *entity.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, cartCacheKey(cart.ID), data, r.ttl).Err(); err != nil {
		r.logger.Debug("cart cache write failed", zap.Error(err))
	}
}

func (r *cachedCartRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.client.Del(ctx, cartCacheKey(id)).Err(); err != nil {
		r.logger.Debug("cart cache invalidation failed", zap.Error(err))
	}
}
