package service

import (
	"context"
	"encoding/json"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderPaymentService links accounting payment records to orders and
// reconciles the order's payment status with what accounting reports.
type OrderPaymentService struct {
	orderRepo  repository.OrderRepository
	orders     *OrderService
	accounting port.AccountingAdapter
	logger     *zap.Logger
}

// NewOrderPaymentService creates a new order payment service
func NewOrderPaymentService(
	orderRepo repository.OrderRepository,
	orders *OrderService,
	accounting port.AccountingAdapter,
	logger *zap.Logger,
) *OrderPaymentService {
	return &OrderPaymentService{
		orderRepo:  orderRepo,
		orders:     orders,
		accounting: accounting,
		logger:     logger,
	}
}

// LinkPaymentRecord attaches an accounting payment record id to the order
func (s *OrderPaymentService) LinkPaymentRecord(ctx context.Context, orderID uuid.UUID, paymentRecordID string) error {
	if paymentRecordID == "" {
		return apperror.NewBadRequestError("Payment record id is required")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	records := decodeRecordIDs(order.PaymentRecordIDs)
	for _, id := range records {
		if id == paymentRecordID {
			return nil
		}
	}
	records = append(records, paymentRecordID)

	encoded, err := encodeRecordIDs(records)
	if err != nil {
		return err
	}
	order.PaymentRecordIDs = encoded
	return s.orderRepo.Update(ctx, order)
}

// LinkedPaymentRecords returns the accounting payment record ids
// attached to the order
func (s *OrderPaymentService) LinkedPaymentRecords(ctx context.Context, orderID uuid.UUID) ([]string, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return decodeRecordIDs(order.PaymentRecordIDs), nil
}

// ConfirmPaymentRecord confirms the record on the accounting side and
// reconciles the order's payment status against the settled total
func (s *OrderPaymentService) ConfirmPaymentRecord(ctx context.Context, orderID uuid.UUID, paymentRecordID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	records := decodeRecordIDs(order.PaymentRecordIDs)
	linked := false
	for _, id := range records {
		if id == paymentRecordID {
			linked = true
			break
		}
	}
	if !linked {
		return apperror.NewNotFoundError("Payment record")
	}

	if err := s.accounting.ConfirmPaymentRecord(ctx, paymentRecordID); err != nil {
		return err
	}

	return s.Reconcile(ctx, orderID)
}

// Reconcile pulls the settled total from accounting and updates the
// order's payment status accordingly. Orders without an invoice are
// left untouched.
func (s *OrderPaymentService) Reconcile(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.InvoiceNumber == nil {
		return nil
	}

	paid, err := s.accounting.GetTotalPaid(ctx, *order.InvoiceNumber)
	if err != nil {
		return err
	}

	switch {
	case paid.GreaterThanOrEqual(order.Total) && order.Total.IsPositive():
		return s.orders.MarkPaid(ctx, orderID)
	case paid.IsPositive():
		return s.orders.SetPaymentStatus(ctx, orderID, enum.PaymentStatusPartiallyPaid)
	default:
		return nil
	}
}

func decodeRecordIDs(encoded *string) []string {
	if encoded == nil || *encoded == "" {
		return nil
	}
	var records []string
	if err := json.Unmarshal([]byte(*encoded), &records); err != nil {
		return nil
	}
	return records
}

func encodeRecordIDs(records []string) (*string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	encoded := string(data)
	return &encoded, nil
}
