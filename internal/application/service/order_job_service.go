package service

import (
	"context"
	"fmt"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/config"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"go.uber.org/zap"
)

// OrderJobService executes queued order jobs. Executors are idempotent
// so a retried or duplicated job never produces a second invoice or
// document.
type OrderJobService struct {
	orderRepo    repository.OrderRepository
	documentRepo repository.OrderDocumentRepository
	templates    port.TemplatesAdapter
	storage      port.StorageAdapter
	accounting   port.AccountingAdapter
	notification port.NotificationAdapter
	shopCfg      config.ShopConfig
	logger       *zap.Logger
}

// NewOrderJobService creates a new order job service
func NewOrderJobService(
	orderRepo repository.OrderRepository,
	documentRepo repository.OrderDocumentRepository,
	templates port.TemplatesAdapter,
	storage port.StorageAdapter,
	accounting port.AccountingAdapter,
	notification port.NotificationAdapter,
	shopCfg config.ShopConfig,
	logger *zap.Logger,
) *OrderJobService {
	return &OrderJobService{
		orderRepo:    orderRepo,
		documentRepo: documentRepo,
		templates:    templates,
		storage:      storage,
		accounting:   accounting,
		notification: notification,
		shopCfg:      shopCfg,
		logger:       logger,
	}
}

// Execute runs a single job to completion
func (s *OrderJobService) Execute(ctx context.Context, job port.Job) error {
	switch job.Type {
	case enum.JobTypeGenerateDocuments:
		return s.generateDocuments(ctx, job)
	case enum.JobTypeCreateInvoice:
		return s.createInvoice(ctx, job)
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}

// generateDocuments renders every active template registered for the
// order state, uploads the PDFs and records the documents. The customer
// is mailed only for templates flagged for email. Templates that
// already produced a document for this order and state are skipped.
func (s *OrderJobService) generateDocuments(ctx context.Context, job port.Job) error {
	order, err := s.orderRepo.GetWithDetails(ctx, job.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		// The order is gone, retrying will never succeed
		s.logger.Warn("skipping document job for missing order",
			zap.String("order_id", job.OrderID.String()))
		return nil
	}

	templates, err := s.templates.ListTemplatesByState(ctx, s.shopCfg.CompanyID, job.State)
	if err != nil {
		return fmt.Errorf("list templates for state %q: %w", job.State, err)
	}

	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}

		exists, err := s.documentRepo.Exists(ctx, order.ID, tpl.Key, job.State)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		pdf, err := s.templates.RenderPDF(ctx, tpl.ID, order)
		if err != nil {
			return fmt.Errorf("render template %s: %w", tpl.Key, err)
		}
		if len(pdf) == 0 {
			s.logger.Warn("template rendered an empty document, skipping",
				zap.String("order_number", order.OrderNumber),
				zap.String("template_key", tpl.Key))
			continue
		}

		objectKey := fmt.Sprintf("orders/%s/%s-%d.pdf", order.ID, tpl.Key, time.Now().UnixNano())
		url, err := s.storage.UploadPDF(ctx, s.shopCfg.CompanyID, objectKey, pdf)
		if err != nil {
			return fmt.Errorf("upload document %s: %w", tpl.Key, err)
		}

		templateID := tpl.ID
		templateKey := tpl.Key
		document := &entity.OrderDocument{
			OrderID:      order.ID,
			DocumentType: tpl.Name,
			State:        job.State,
			PdfURL:       url,
			TemplateID:   &templateID,
			TemplateKey:  &templateKey,
			GeneratedAt:  time.Now(),
		}
		if err := s.documentRepo.Create(ctx, document); err != nil {
			return err
		}

		if tpl.SendEmail {
			s.notifyDocument(ctx, order, tpl.Name, url)
		}

		s.logger.Info("order document generated",
			zap.String("order_number", order.OrderNumber),
			zap.String("template_key", tpl.Key),
			zap.String("state", job.State))
	}

	return nil
}

// createInvoice pushes an invoice draft to accounting and stores the
// returned invoice number. Orders that already carry one are skipped.
func (s *OrderJobService) createInvoice(ctx context.Context, job port.Job) error {
	order, err := s.orderRepo.GetWithDetails(ctx, job.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		s.logger.Warn("skipping invoice job for missing order",
			zap.String("order_id", job.OrderID.String()))
		return nil
	}
	if order.InvoiceNumber != nil {
		return nil
	}

	draft := &port.InvoiceDraft{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Currency:    order.Currency,
		Subtotal:    order.Subtotal,
		TaxAmount:   order.TaxAmount,
		Shipping:    order.ShippingAmount,
		Discount:    order.DiscountAmount,
		Total:       order.Total,
		IssuedAt:    time.Now(),
	}
	if order.Customer != nil {
		draft.CustomerName = order.Customer.FullName()
		draft.CustomerEmail = order.Customer.Email
	}
	for _, item := range order.Items {
		draft.LineItems = append(draft.LineItems, port.InvoiceLineItem{
			Description: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxAmount:   item.TaxAmount,
			Total:       item.Total,
		})
	}

	result, err := s.accounting.CreateInvoice(ctx, draft)
	if err != nil {
		return fmt.Errorf("create invoice for order %s: %w", order.OrderNumber, err)
	}

	order.InvoiceNumber = &result.InvoiceNumber
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	s.logger.Info("invoice created",
		zap.String("order_number", order.OrderNumber),
		zap.String("invoice_number", result.InvoiceNumber))

	return nil
}

// notifyDocument emails the customer a link to a generated document.
// Notification failures are logged, never retried.
func (s *OrderJobService) notifyDocument(ctx context.Context, order *entity.Order, documentName, url string) {
	if order.Customer == nil || order.Customer.Email == "" {
		return
	}

	err := s.notification.SendEmail(ctx, &port.EmailMessage{
		To:       order.Customer.Email,
		Subject:  fmt.Sprintf("%s for order %s", documentName, order.OrderNumber),
		Template: "order-document",
		Data: map[string]string{
			"customer_name": order.Customer.FullName(),
			"order_number":  order.OrderNumber,
			"document_name": documentName,
			"document_url":  url,
		},
	})
	if err != nil {
		s.logger.Warn("failed to send document notification",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}
