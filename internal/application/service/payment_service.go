package service

import (
	"context"
	"fmt"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService processes payments, refunds and voids against orders.
// Refunds are stored as separate payments carrying a negated amount, so
// the signed sum of completed payments is always the net settled value.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	orders      *OrderService
	gateway     port.PaymentGateway
	audit       *AuditService
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	orders *OrderService,
	gateway port.PaymentGateway,
	audit *AuditService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		orders:      orders,
		gateway:     gateway,
		audit:       audit,
		logger:      logger,
	}
}

// CreatePaymentInput represents the create payment input
type CreatePaymentInput struct {
	OrderID       uuid.UUID
	Amount        decimal.Decimal
	Method        enum.PaymentMethod
	TransactionID *string
}

// CreatePayment registers a pending payment against the order without
// touching the gateway. ProcessPayment advances it.
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}

	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewInvalidStateError("Cannot pay a cancelled order")
	}

	if err := s.checkOutstanding(ctx, order, input.Amount); err != nil {
		return nil, err
	}

	payment := &entity.Payment{
		OrderID:       order.ID,
		Amount:        input.Amount.Round(2),
		Currency:      order.Currency,
		Method:        input.Method,
		Status:        enum.PaymentTransactionPending,
		TransactionID: input.TransactionID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment created",
		zap.String("order_number", order.OrderNumber),
		zap.String("amount", payment.Amount.String()))
	return payment, nil
}

// ProcessPayment charges a pending payment through the gateway. A
// completed charge that settles the full total marks the order paid and
// confirms it.
func (s *PaymentService) ProcessPayment(ctx context.Context, paymentID uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	if payment.Status != enum.PaymentTransactionPending {
		return nil, apperror.NewInvalidStateError(
			fmt.Sprintf("Cannot process a payment in status %s", payment.Status))
	}

	order, err := s.orderRepo.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewInvalidStateError("Cannot pay a cancelled order")
	}
	if err := s.checkOutstanding(ctx, order, payment.Amount); err != nil {
		return nil, err
	}

	payment.Status = enum.PaymentTransactionProcessing
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	reference, err := s.gateway.Charge(ctx, payment)
	now := time.Now()
	payment.ProcessedAt = &now
	if err != nil {
		msg := err.Error()
		payment.Status = enum.PaymentTransactionFailed
		payment.ErrorMessage = &msg
		if updateErr := s.paymentRepo.Update(ctx, payment); updateErr != nil {
			return nil, updateErr
		}
		s.logger.Warn("payment failed",
			zap.String("order_number", order.OrderNumber),
			zap.String("amount", payment.Amount.String()),
			zap.Error(err))
		return payment, nil
	}

	payment.Status = enum.PaymentTransactionCompleted
	payment.GatewayReference = &reference
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "payment", payment.ID, "completed", nil,
		map[string]string{"order_id": order.ID.String(), "amount": payment.Amount.String()},
		"")

	if err := s.refreshOrderPaymentStatus(ctx, order.ID); err != nil {
		return nil, err
	}

	s.logger.Info("payment completed",
		zap.String("order_number", order.OrderNumber),
		zap.String("amount", payment.Amount.String()),
		zap.String("method", payment.Method.String()))

	return payment, nil
}

// RefundPaymentInput represents the refund input. A nil amount refunds
// the full original payment.
type RefundPaymentInput struct {
	PaymentID uuid.UUID
	Amount    *decimal.Decimal
	Reason    *string
}

// RefundPayment issues a full or partial refund for a completed
// payment. The refund is a new payment with a negated amount.
func (s *PaymentService) RefundPayment(ctx context.Context, input *RefundPaymentInput) (*entity.Payment, error) {
	original, err := s.paymentRepo.GetByID(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	if original.Status != enum.PaymentTransactionCompleted {
		return nil, apperror.NewInvalidStateError("Only completed payments can be refunded")
	}
	if original.Amount.IsNegative() {
		return nil, apperror.NewInvalidStateError("Cannot refund a refund")
	}

	amount := original.Amount
	if input.Amount != nil {
		amount = input.Amount.Round(2)
	}
	if !amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Refund amount must be positive")
	}

	refundedSoFar, err := s.refundedAmount(ctx, original)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(original.Amount.Sub(refundedSoFar)) {
		return nil, apperror.NewBadRequestError("Refund exceeds refundable amount")
	}

	refTransactionID := refReference(original.TransactionID)
	refund := &entity.Payment{
		OrderID:       original.OrderID,
		Amount:        amount.Neg(),
		Currency:      original.Currency,
		Method:        original.Method,
		Status:        enum.PaymentTransactionProcessing,
		TransactionID: refTransactionID,
		ErrorMessage:  input.Reason,
	}
	if err := s.paymentRepo.Create(ctx, refund); err != nil {
		return nil, err
	}

	originalRef := ""
	if original.GatewayReference != nil {
		originalRef = *original.GatewayReference
	}
	reference, err := s.gateway.Refund(ctx, refund, originalRef)
	now := time.Now()
	refund.ProcessedAt = &now
	if err != nil {
		msg := err.Error()
		refund.Status = enum.PaymentTransactionFailed
		refund.ErrorMessage = &msg
		if updateErr := s.paymentRepo.Update(ctx, refund); updateErr != nil {
			return nil, updateErr
		}
		return refund, nil
	}

	refund.Status = enum.PaymentTransactionCompleted
	refund.GatewayReference = &reference
	if err := s.paymentRepo.Update(ctx, refund); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "payment", refund.ID, "refunded", nil,
		map[string]string{
			"original_payment_id": original.ID.String(),
			"amount":              refund.Amount.String(),
		}, "")

	if err := s.refreshOrderPaymentStatus(ctx, original.OrderID); err != nil {
		return nil, err
	}

	s.logger.Info("payment refunded",
		zap.String("payment_id", original.ID.String()),
		zap.String("amount", amount.String()))

	return refund, nil
}

// VoidPayment cancels a payment that has not completed, recording the
// reason when one is given
func (s *PaymentService) VoidPayment(ctx context.Context, paymentID uuid.UUID, reason *string) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	if !payment.Status.IsVoidable() {
		return nil, apperror.NewInvalidStateError(
			fmt.Sprintf("Cannot void a payment in status %s", payment.Status))
	}

	payment.Status = enum.PaymentTransactionCancelled
	payment.ErrorMessage = reason
	now := time.Now()
	payment.ProcessedAt = &now
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	voided := map[string]string{}
	if reason != nil {
		voided["reason"] = *reason
	}
	s.audit.Record(ctx, "payment", payment.ID, "voided", nil, voided, "")
	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPaymentsByOrder returns all payments of an order, oldest first
func (s *PaymentService) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.paymentRepo.ListByOrderID(ctx, orderID)
}

// checkOutstanding rejects an amount above what is still owed on the
// order
func (s *PaymentService) checkOutstanding(ctx context.Context, order *entity.Order, amount decimal.Decimal) error {
	settled, err := s.paymentRepo.SumCompletedByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	outstanding := order.Total.Sub(settled)
	if amount.GreaterThan(outstanding) {
		return apperror.NewBadRequestError(
			fmt.Sprintf("Payment of %s exceeds outstanding amount %s", amount, outstanding))
	}
	return nil
}

// refreshOrderPaymentStatus recomputes the order's payment axis from
// the signed sum of completed payments. Reaching the full total for the
// first time fires the paid trigger on the order service.
func (s *PaymentService) refreshOrderPaymentStatus(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	settled, err := s.paymentRepo.SumCompletedByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	hadPayments := order.PaymentStatus != enum.PaymentStatusPending

	switch {
	case settled.GreaterThanOrEqual(order.Total) && order.Total.IsPositive():
		return s.orders.MarkPaid(ctx, orderID)
	case settled.IsPositive():
		status := enum.PaymentStatusPartiallyPaid
		if wasPaid(order.PaymentStatus) {
			status = enum.PaymentStatusPartiallyRefunded
		}
		return s.orders.SetPaymentStatus(ctx, orderID, status)
	case settled.IsZero() && hadPayments && wasPaid(order.PaymentStatus):
		return s.orders.SetPaymentStatus(ctx, orderID, enum.PaymentStatusRefunded)
	default:
		return nil
	}
}

// refundedAmount sums prior refunds issued against the original payment
func (s *PaymentService) refundedAmount(ctx context.Context, original *entity.Payment) (decimal.Decimal, error) {
	payments, err := s.paymentRepo.ListByOrderID(ctx, original.OrderID)
	if err != nil {
		return decimal.Zero, err
	}

	wanted := refReference(original.TransactionID)
	total := decimal.Zero
	for _, p := range payments {
		if p.Status != enum.PaymentTransactionCompleted || !p.Amount.IsNegative() {
			continue
		}
		// Without a transaction id on the original, any completed
		// refund on the order counts against it.
		if wanted == nil || (p.TransactionID != nil && *p.TransactionID == *wanted) {
			total = total.Add(p.Amount.Neg())
		}
	}
	return total, nil
}

func wasPaid(status enum.PaymentStatus) bool {
	return status == enum.PaymentStatusPaid ||
		status == enum.PaymentStatusPartiallyRefunded ||
		status == enum.PaymentStatusRefunded
}

func refReference(transactionID *string) *string {
	if transactionID == nil {
		return nil
	}
	ref := "REF-" + *transactionID
	return &ref
}
