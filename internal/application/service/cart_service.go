package service

import (
	"context"
	"time"

	"github.com/denisokoth/shopcore-api/internal/config"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService handles cart lifecycle and pricing
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	coupons     *CouponService
	shopCfg     config.ShopConfig
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	coupons *CouponService,
	shopCfg config.ShopConfig,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		coupons:     coupons,
		shopCfg:     shopCfg,
		logger:      logger,
	}
}

// CreateCartInput represents the create cart input
type CreateCartInput struct {
	CustomerID *uuid.UUID
	SessionID  *string
	Currency   string
}

// CreateCart creates an empty cart for a customer or anonymous session
func (s *CartService) CreateCart(ctx context.Context, input *CreateCartInput) (*entity.Cart, error) {
	if input.CustomerID == nil && (input.SessionID == nil || *input.SessionID == "") {
		return nil, apperror.NewBadRequestError("Either customer_id or session_id is required")
	}

	currency := input.Currency
	if currency == "" {
		currency = s.shopCfg.DefaultCurrency
	}

	expiresAt := time.Now().Add(time.Duration(s.shopCfg.CartExpirationHours) * time.Hour)
	cart := &entity.Cart{
		CustomerID:     input.CustomerID,
		SessionID:      input.SessionID,
		Currency:       currency,
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
		ExpiresAt:      &expiresAt,
	}

	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetOrCreateCart returns the owner's live cart, creating one only when
// none exists. Customer lookup wins over session lookup.
func (s *CartService) GetOrCreateCart(ctx context.Context, input *CreateCartInput) (*entity.Cart, error) {
	if input.CustomerID == nil && (input.SessionID == nil || *input.SessionID == "") {
		return nil, apperror.NewBadRequestError("Either customer_id or session_id is required")
	}

	var cart *entity.Cart
	var err error
	if input.CustomerID != nil {
		cart, err = s.cartRepo.GetByCustomerID(ctx, *input.CustomerID)
	} else {
		cart, err = s.cartRepo.GetBySessionID(ctx, *input.SessionID)
	}
	if err != nil {
		return nil, err
	}
	if cart != nil && !cart.IsExpired(time.Now()) {
		return cart, nil
	}

	return s.CreateCart(ctx, input)
}

// MergeCarts folds a guest cart into the customer's cart after login.
// Without an existing customer cart the guest cart is re-targeted to
// the customer; otherwise lines are combined by product and variant,
// summing quantities, and the guest cart is discarded.
func (s *CartService) MergeCarts(ctx context.Context, sourceCartID, customerID uuid.UUID) (*entity.Cart, error) {
	source, err := s.GetCart(ctx, sourceCartID)
	if err != nil {
		return nil, err
	}

	target, err := s.cartRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if target != nil && target.IsExpired(time.Now()) {
		target = nil
	}

	if target == nil {
		source.CustomerID = &customerID
		source.SessionID = nil
		if err := s.cartRepo.Update(ctx, source); err != nil {
			return nil, err
		}
		return source, nil
	}
	if target.ID == source.ID {
		return target, nil
	}

	for _, line := range source.Items {
		if existing := target.FindItem(line.ProductID, line.VariantID); existing != nil {
			existing.Quantity += line.Quantity
			existing.Total = existing.UnitPrice.Mul(decimal.NewFromInt(int64(existing.Quantity))).Round(2)
			if err := s.cartRepo.UpdateItem(ctx, existing); err != nil {
				return nil, err
			}
		} else {
			item := &entity.CartItem{
				CartID:    target.ID,
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Total:     line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
			}
			if err := s.cartRepo.AddItem(ctx, item); err != nil {
				return nil, err
			}
		}
	}

	if err := s.cartRepo.Delete(ctx, source.ID); err != nil {
		return nil, err
	}

	s.logger.Info("merged carts",
		zap.String("source_cart_id", source.ID.String()),
		zap.String("target_cart_id", target.ID.String()))

	return s.recalculate(ctx, target.ID)
}

// GetCart retrieves a cart by ID
func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if cart.IsExpired(time.Now()) {
		return nil, apperror.NewNotFoundError("Cart")
	}
	return cart, nil
}

// GetCartByCustomer retrieves the active cart for a customer
func (s *CartService) GetCartByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsExpired(time.Now()) {
		return nil, apperror.NewNotFoundError("Cart")
	}
	return cart, nil
}

// GetCartBySession retrieves the active cart for an anonymous session
func (s *CartService) GetCartBySession(ctx context.Context, sessionID string) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsExpired(time.Now()) {
		return nil, apperror.NewNotFoundError("Cart")
	}
	return cart, nil
}

// AddItemInput represents the add item input
type AddItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// AddItem adds a product to the cart, merging quantity into an existing
// line for the same product and variant
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, input *AddItemInput) (*entity.Cart, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be positive")
	}

	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperror.NewNotFoundError("Product")
	}

	unitPrice := product.Price
	available := product.StockQuantity
	if input.VariantID != nil {
		variant, err := s.productRepo.GetVariant(ctx, *input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != product.ID {
			return nil, apperror.NewNotFoundError("Product variant")
		}
		if !variant.Price.IsZero() {
			unitPrice = variant.Price
		}
		available = variant.StockQuantity
	}

	requested := input.Quantity
	if existing := cart.FindItem(input.ProductID, input.VariantID); existing != nil {
		requested += existing.Quantity
	}
	if product.TrackInventory && !product.AllowBackorder && requested > available {
		return nil, apperror.NewInsufficientStockError(product.Name)
	}

	if existing := cart.FindItem(input.ProductID, input.VariantID); existing != nil {
		existing.Quantity += input.Quantity
		existing.UnitPrice = unitPrice
		existing.Total = unitPrice.Mul(decimal.NewFromInt(int64(existing.Quantity))).Round(2)
		if err := s.cartRepo.UpdateItem(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		item := &entity.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  input.Quantity,
			UnitPrice: unitPrice,
			Total:     unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2),
		}
		if err := s.cartRepo.AddItem(ctx, item); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, *item)
	}

	return s.recalculate(ctx, cart.ID)
}

// UpdateItemQuantity sets a line's quantity. Zero or negative removes
// the line instead of erroring.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CartID != cart.ID {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	if quantity <= 0 {
		if err := s.cartRepo.RemoveItem(ctx, itemID); err != nil {
			return nil, err
		}
	} else {
		item.Quantity = quantity
		item.Total = item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
		if err := s.cartRepo.UpdateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.recalculate(ctx, cart.ID)
}

// RemoveItem removes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CartID != cart.ID {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	if err := s.cartRepo.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}

	return s.recalculate(ctx, cart.ID)
}

// ClearCart removes all lines and the applied coupon
func (s *CartService) ClearCart(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItems(ctx, cart.ID); err != nil {
		return nil, err
	}

	cart.Items = nil
	cart.CouponCode = nil
	cart.Subtotal = decimal.Zero
	cart.TaxAmount = decimal.Zero
	cart.DiscountAmount = decimal.Zero
	cart.Total = decimal.Zero
	if err := s.cartRepo.Update(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// DeleteCart removes a cart entirely
func (s *CartService) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return err
	}
	if cart == nil {
		return apperror.NewNotFoundError("Cart")
	}
	return s.cartRepo.Delete(ctx, cartID)
}

// ApplyCoupon validates and applies a coupon code to the cart
func (s *CartService) ApplyCoupon(ctx context.Context, cartID uuid.UUID, code string) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cannot apply a coupon to an empty cart")
	}

	subtotal := s.subtotalOf(cart)
	coupon, err := s.coupons.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}

	cart.CouponCode = &coupon.Code
	if err := s.cartRepo.Update(ctx, cart); err != nil {
		return nil, err
	}

	return s.recalculate(ctx, cart.ID)
}

// RemoveCoupon removes the applied coupon from the cart
func (s *CartService) RemoveCoupon(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.CouponCode = nil
	if err := s.cartRepo.Update(ctx, cart); err != nil {
		return nil, err
	}

	return s.recalculate(ctx, cart.ID)
}

// CleanupExpiredCarts deletes carts past their expiry timestamp and
// returns the number removed
func (s *CartService) CleanupExpiredCarts(ctx context.Context) (int64, error) {
	removed, err := s.cartRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("removed expired carts", zap.Int64("count", removed))
	}
	return removed, nil
}

func (s *CartService) subtotalOf(cart *entity.Cart) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.Total)
	}
	return subtotal.Round(2)
}

// recalculate reloads the cart and recomputes subtotal, tax, discount
// and total. An applied coupon that no longer validates is dropped
// silently so a shrinking cart never gets stuck.
func (s *CartService) recalculate(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}

	subtotal := s.subtotalOf(cart)
	tax := subtotal.Mul(decimal.NewFromFloat(s.shopCfg.TaxRate)).Round(2)

	discount := decimal.Zero
	if cart.CouponCode != nil {
		coupon, err := s.coupons.ValidateCoupon(ctx, *cart.CouponCode, subtotal)
		if err != nil {
			cart.CouponCode = nil
		} else {
			discount = s.coupons.ComputeDiscount(coupon, subtotal)
		}
	}

	cart.Subtotal = subtotal
	cart.TaxAmount = tax
	cart.DiscountAmount = discount
	cart.Total = subtotal.Add(tax).Sub(discount).Round(2)
	if cart.Total.IsNegative() {
		cart.Total = decimal.Zero
	}

	if err := s.cartRepo.Update(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
