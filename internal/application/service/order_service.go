package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/config"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService drives orders through the fulfillment lifecycle
type OrderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	documentRepo repository.OrderDocumentRepository
	carts        *CartService
	coupons      *CouponService
	inventory    *InventoryService
	audit        *AuditService
	queue        port.JobQueue
	shopCfg      config.ShopConfig
	logger       *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	documentRepo repository.OrderDocumentRepository,
	carts *CartService,
	coupons *CouponService,
	inventory *InventoryService,
	audit *AuditService,
	queue port.JobQueue,
	shopCfg config.ShopConfig,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		documentRepo: documentRepo,
		carts:        carts,
		coupons:      coupons,
		inventory:    inventory,
		audit:        audit,
		queue:        queue,
		shopCfg:      shopCfg,
		logger:       logger,
	}
}

// AddressInput is a shipping or billing address snapshot
type AddressInput struct {
	Name       string
	Address    string
	City       string
	PostalCode string
	Country    string
	Phone      string
}

// CreateOrderInput represents the direct create order input
type CreateOrderInput struct {
	CustomerID      uuid.UUID
	Items           []OrderItemInput
	ShippingAmount  decimal.Decimal
	ShippingAddress *AddressInput
	BillingAddress  *AddressInput
	CouponCode      *string
	Notes           *string
}

// OrderItemInput represents an item in a direct order
type OrderItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// CheckoutInput represents the checkout-from-cart input
type CheckoutInput struct {
	CartID          uuid.UUID
	CustomerID      uuid.UUID
	ShippingAmount  decimal.Decimal
	ShippingAddress *AddressInput
	BillingAddress  *AddressInput
	Notes           *string
}

// CreateFromCart converts a cart into a pending order. Stock is
// reserved per line, the coupon use is recorded and the cart is
// destroyed on success.
func (s *OrderService) CreateFromCart(ctx context.Context, input *CheckoutInput) (*entity.Order, error) {
	cart, err := s.carts.GetCart(ctx, input.CartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cannot checkout an empty cart")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	// Reserve stock line by line, releasing already reserved lines
	// when one fails so nothing leaks.
	type reserved struct {
		productID uuid.UUID
		variantID *uuid.UUID
		quantity  int
	}
	var reservations []reserved
	release := func() {
		for _, r := range reservations {
			if _, err := s.inventory.Release(ctx, r.productID, r.variantID, r.quantity, orderNumber); err != nil {
				s.logger.Error("failed to release reserved stock",
					zap.String("product_id", r.productID.String()),
					zap.Error(err))
			}
		}
	}

	taxRate := decimal.NewFromFloat(s.shopCfg.TaxRate)
	items := make([]entity.OrderItem, 0, len(cart.Items))
	subtotal := decimal.Zero

	for _, line := range cart.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			release()
			return nil, err
		}
		if product == nil {
			release()
			return nil, apperror.NewNotFoundError("Product")
		}

		if product.TrackInventory {
			if _, err := s.inventory.Reserve(ctx, line.ProductID, line.VariantID, line.Quantity, orderNumber); err != nil {
				release()
				return nil, err
			}
			reservations = append(reservations, reserved{line.ProductID, line.VariantID, line.Quantity})
		}

		sku := product.Sku
		if line.VariantID != nil {
			if variant, err := s.productRepo.GetVariant(ctx, *line.VariantID); err == nil && variant != nil {
				sku = variant.Sku
			}
		}

		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		lineTax := lineTotal.Mul(taxRate).Round(2)
		subtotal = subtotal.Add(lineTotal)

		items = append(items, entity.OrderItem{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: product.Name,
			Sku:         sku,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TaxAmount:   lineTax,
			Total:       lineTotal,
		})
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	shipping := input.ShippingAmount.Round(2)
	if shipping.IsNegative() {
		release()
		return nil, apperror.NewBadRequestError("Shipping amount cannot be negative")
	}
	if s.shopCfg.FreeShippingFrom > 0 &&
		subtotal.GreaterThanOrEqual(decimal.NewFromFloat(s.shopCfg.FreeShippingFrom)) {
		shipping = decimal.Zero
	}

	discount := decimal.Zero
	if cart.CouponCode != nil {
		coupon, err := s.coupons.ValidateCoupon(ctx, *cart.CouponCode, subtotal)
		if err == nil {
			discount = s.coupons.ComputeDiscount(coupon, subtotal)
		}
	}

	order := &entity.Order{
		OrderNumber:    orderNumber,
		CustomerID:     customer.ID,
		Status:         enum.OrderStatusPending,
		PaymentStatus:  enum.PaymentStatusPending,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingAmount: shipping,
		DiscountAmount: discount,
		Total:          subtotal.Add(tax).Add(shipping).Sub(discount).Round(2),
		Currency:       cart.Currency,
		Notes:          input.Notes,
		Items:          items,
	}
	applyAddresses(order, input.ShippingAddress, input.BillingAddress)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		release()
		return nil, err
	}

	if cart.CouponCode != nil && discount.IsPositive() {
		if err := s.coupons.RedeemCoupon(ctx, *cart.CouponCode); err != nil {
			s.logger.Warn("failed to record coupon use",
				zap.String("code", *cart.CouponCode), zap.Error(err))
		}
	}

	if err := s.carts.DeleteCart(ctx, cart.ID); err != nil {
		s.logger.Warn("failed to delete cart after checkout",
			zap.String("cart_id", cart.ID.String()), zap.Error(err))
	}

	s.audit.Record(ctx, "order", order.ID, "created", nil,
		map[string]string{"order_number": order.OrderNumber, "status": order.Status.String()},
		"Order created from cart "+cart.ID.String())

	s.enqueueJob(ctx, order.ID, enum.JobTypeGenerateDocuments, order.Status.StateKey())

	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", customer.ID.String()),
		zap.String("total", order.Total.String()))

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// CreateOrder creates an order directly from item inputs
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Order requires at least one item")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	// Stage the items through a transient cart so pricing and coupon
	// rules stay in one place.
	cart, err := s.carts.CreateCart(ctx, &CreateCartInput{CustomerID: &input.CustomerID})
	if err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		if _, err := s.carts.AddItem(ctx, cart.ID, &AddItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}); err != nil {
			_ = s.carts.DeleteCart(ctx, cart.ID)
			return nil, err
		}
	}
	if input.CouponCode != nil {
		if _, err := s.carts.ApplyCoupon(ctx, cart.ID, *input.CouponCode); err != nil {
			_ = s.carts.DeleteCart(ctx, cart.ID)
			return nil, err
		}
	}

	return s.CreateFromCart(ctx, &CheckoutInput{
		CartID:          cart.ID,
		CustomerID:      input.CustomerID,
		ShippingAmount:  input.ShippingAmount,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Notes:           input.Notes,
	})
}

// GetOrder retrieves an order with its items, payments and documents
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// GetOrderByNumber retrieves an order by its order number
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering and pagination
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListOrdersByCustomer lists a customer's orders, newest first
func (s *OrderService) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

// TransitionStatus moves the order to the target status when the
// transition table allows it. Each successful transition writes an
// audit entry and enqueues document generation for the new state.
func (s *OrderService) TransitionStatus(ctx context.Context, orderID uuid.UUID, target enum.OrderStatus) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if target == enum.OrderStatusCancelled {
		return s.cancel(ctx, order)
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, apperror.NewInvalidStateError(
			fmt.Sprintf("Cannot transition order from %s to %s", order.Status, target))
	}

	previous := order.Status
	order.Status = target
	now := time.Now()
	switch target {
	case enum.OrderStatusShipped:
		order.ShippedAt = &now
	case enum.OrderStatusDelivered:
		order.DeliveredAt = &now
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "order", order.ID, "status_changed",
		map[string]string{"status": previous.String()},
		map[string]string{"status": target.String()},
		"")

	s.enqueueJob(ctx, order.ID, enum.JobTypeGenerateDocuments, target.StateKey())
	if target == enum.OrderStatusConfirmed && previous != enum.OrderStatusConfirmed {
		s.enqueueJob(ctx, order.ID, enum.JobTypeCreateInvoice, target.StateKey())
	}

	s.logger.Info("order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", previous.String()),
		zap.String("to", target.String()))

	return order, nil
}

// ShipOrder marks the order shipped with an optional tracking number
func (s *OrderService) ShipOrder(ctx context.Context, orderID uuid.UUID, trackingNumber *string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if trackingNumber != nil && *trackingNumber != "" {
		order.TrackingNumber = trackingNumber
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return nil, err
		}
	}
	return s.TransitionStatus(ctx, orderID, enum.OrderStatusShipped)
}

// CancelOrder cancels an order and returns reserved stock
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.cancel(ctx, order)
}

func (s *OrderService) cancel(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if !order.Status.CanTransitionTo(enum.OrderStatusCancelled) {
		return nil, apperror.NewInvalidStateError(
			fmt.Sprintf("Cannot cancel order in status %s", order.Status))
	}

	if err := s.releaseItems(ctx, order); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = enum.OrderStatusCancelled
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "order", order.ID, "cancelled",
		map[string]string{"status": previous.String()},
		map[string]string{"status": order.Status.String()},
		"")

	s.enqueueJob(ctx, order.ID, enum.JobTypeGenerateDocuments, enum.OrderStatusCancelled.StateKey())

	s.logger.Info("order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.String("previous_status", previous.String()))

	return order, nil
}

// releaseItems returns reserved stock for every tracked line
func (s *OrderService) releaseItems(ctx context.Context, order *entity.Order) error {
	for _, item := range order.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.TrackInventory {
			continue
		}
		if _, err := s.inventory.Release(ctx, item.ProductID, item.VariantID, item.Quantity, order.OrderNumber); err != nil {
			return err
		}
	}
	return nil
}

// DeleteOrder removes an order entirely. Shipped and delivered orders
// cannot be deleted. Reserved stock is returned unless the order was
// already cancelled.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusShipped || order.Status == enum.OrderStatusDelivered {
		return apperror.NewInvalidStateError(
			fmt.Sprintf("Cannot delete order in status %s", order.Status))
	}

	if order.Status != enum.OrderStatusCancelled {
		if err := s.releaseItems(ctx, order); err != nil {
			return err
		}
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.audit.Record(ctx, "order", order.ID, "deleted",
		map[string]string{"status": order.Status.String()}, nil, "")

	s.logger.Info("order deleted",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()))
	return nil
}

// MarkPaid records that the order became fully paid. The first call
// flips payment status to Paid, confirms the order and enqueues invoice
// creation; repeat calls are no-ops.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.PaymentStatus == enum.PaymentStatusPaid {
		return nil
	}

	previous := order.PaymentStatus
	order.PaymentStatus = enum.PaymentStatusPaid
	confirmed := false
	if order.Status.CanTransitionTo(enum.OrderStatusConfirmed) {
		order.Status = enum.OrderStatusConfirmed
		confirmed = true
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	s.audit.Record(ctx, "order", order.ID, "paid",
		map[string]string{"payment_status": previous.String()},
		map[string]string{"payment_status": order.PaymentStatus.String()},
		"")

	s.enqueueJob(ctx, order.ID, enum.JobTypeCreateInvoice, enum.OrderStatusConfirmed.StateKey())
	if confirmed {
		s.enqueueJob(ctx, order.ID, enum.JobTypeGenerateDocuments, enum.OrderStatusConfirmed.StateKey())
	}
	return nil
}

// SetPaymentStatus updates the payment axis without side effects
func (s *OrderService) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status enum.PaymentStatus) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.PaymentStatus == status {
		return nil
	}
	order.PaymentStatus = status
	return s.orderRepo.Update(ctx, order)
}

// ListDocuments returns the generated documents for an order
func (s *OrderService) ListDocuments(ctx context.Context, orderID uuid.UUID) ([]entity.OrderDocument, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.documentRepo.ListByOrderID(ctx, orderID)
}

// RevenueStats aggregates revenue and order counts for a period
type RevenueStats struct {
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// GetRevenueStats returns total revenue and order count for a period
func (s *OrderService) GetRevenueStats(ctx context.Context, from, to *time.Time) (*RevenueStats, error) {
	revenueStr, err := s.orderRepo.TotalRevenue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	if revenueStr != "" {
		revenue, err = decimal.NewFromString(revenueStr)
		if err != nil {
			return nil, err
		}
	}

	count, err := s.orderRepo.CountOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &RevenueStats{Revenue: revenue.Round(2), Orders: count}, nil
}

// nextOrderNumber builds the next ORD-YYYYMMDD-NNNN number for today
func (s *OrderService) nextOrderNumber(ctx context.Context) (string, error) {
	prefix := "ORD-" + time.Now().Format("20060102") + "-"
	last, err := s.orderRepo.LastOrderNumberForPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		tail := strings.TrimPrefix(last, prefix)
		if n, err := strconv.Atoi(tail); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *OrderService) enqueueJob(ctx context.Context, orderID uuid.UUID, jobType enum.JobType, state string) {
	job := port.Job{
		ID:         uuid.New(),
		OrderID:    orderID,
		Type:       jobType,
		State:      state,
		EnqueuedAt: time.Now(),
	}
	accepted, err := s.queue.Enqueue(ctx, job)
	if err != nil {
		s.logger.Error("failed to enqueue job",
			zap.String("order_id", orderID.String()),
			zap.String("type", jobType.String()),
			zap.Error(err))
		return
	}
	if !accepted {
		s.logger.Debug("duplicate job skipped",
			zap.String("order_id", orderID.String()),
			zap.String("type", jobType.String()),
			zap.String("state", state))
	}
}

func applyAddresses(order *entity.Order, shipping, billing *AddressInput) {
	if shipping != nil {
		order.ShippingName = strPtr(shipping.Name)
		order.ShippingAddress = strPtr(shipping.Address)
		order.ShippingCity = strPtr(shipping.City)
		order.ShippingPostalCode = strPtr(shipping.PostalCode)
		order.ShippingCountry = strPtr(shipping.Country)
		order.ShippingPhone = strPtr(shipping.Phone)
	}
	if billing != nil {
		order.BillingName = strPtr(billing.Name)
		order.BillingAddress = strPtr(billing.Address)
		order.BillingCity = strPtr(billing.City)
		order.BillingPostalCode = strPtr(billing.PostalCode)
		order.BillingCountry = strPtr(billing.Country)
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
