package handler

import (
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/service"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/dto/request"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService        *service.OrderService
	orderPaymentService *service.OrderPaymentService
	auditService        *service.AuditService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	orderService *service.OrderService,
	orderPaymentService *service.OrderPaymentService,
	auditService *service.AuditService,
) *OrderHandler {
	return &OrderHandler{
		orderService:        orderService,
		orderPaymentService: orderPaymentService,
		auditService:        auditService,
	}
}

// Checkout handles converting a cart into an order
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.CreateFromCart(c.Request.Context(), &service.CheckoutInput{
		CartID:          req.CartID,
		CustomerID:      req.CustomerID,
		ShippingAmount:  req.ShippingAmount,
		ShippingAddress: addressInput(req.ShippingAddress),
		BillingAddress:  addressInput(req.BillingAddress),
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Create handles creating an order directly from items
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		CustomerID:      req.CustomerID,
		Items:           items,
		ShippingAmount:  req.ShippingAmount,
		ShippingAddress: addressInput(req.ShippingAddress),
		BillingAddress:  addressInput(req.BillingAddress),
		CouponCode:      req.CouponCode,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles retrieving an order with its details
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// GetByNumber handles retrieving an order by its order number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles listing orders with filters
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if raw := c.Query("status"); raw != "" {
		status, err := enum.ParseOrderStatus(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Status = &status
	}
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}
	if from, to, err := dateRangeFromQuery(c); err != nil {
		response.BadRequest(c, err.Error())
		return
	} else {
		params.StartDate = from
		params.EndDate = to
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// ListByCustomer handles listing a customer's orders
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	orders, err := h.orderService.ListOrdersByCustomer(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders retrieved successfully", orders)
}

// Transition handles moving an order to a new status
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	target, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.TransitionStatus(c.Request.Context(), id, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Ship handles marking an order shipped
func (h *OrderHandler) Ship(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.ShipOrder(c.Request.Context(), id, req.TrackingNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order shipped successfully", order)
}

// Cancel handles cancelling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}

// Delete handles removing an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListDocuments handles listing an order's generated documents
func (h *OrderHandler) ListDocuments(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	documents, err := h.orderService.ListDocuments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order documents retrieved successfully", documents)
}

// LinkPaymentRecord handles attaching an accounting payment record
func (h *OrderHandler) LinkPaymentRecord(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.LinkPaymentRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.orderPaymentService.LinkPaymentRecord(c.Request.Context(), id, req.PaymentRecordID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment record linked successfully", nil)
}

// ListPaymentRecords handles listing linked accounting payment records
func (h *OrderHandler) ListPaymentRecords(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	records, err := h.orderPaymentService.LinkedPaymentRecords(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment records retrieved successfully", records)
}

// ConfirmPaymentRecord handles confirming a linked payment record and
// reconciling the order's payment status
func (h *OrderHandler) ConfirmPaymentRecord(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	recordID := c.Param("recordId")
	if recordID == "" {
		response.BadRequest(c, "Payment record ID is required")
		return
	}

	if err := h.orderPaymentService.ConfirmPaymentRecord(c.Request.Context(), id, recordID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment record confirmed successfully", nil)
}

// RevenueStats handles the revenue summary endpoint
func (h *OrderHandler) RevenueStats(c *gin.Context) {
	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stats, err := h.orderService.GetRevenueStats(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Revenue stats retrieved successfully", stats)
}

// AuditTrail handles listing an order's audit history
func (h *OrderHandler) AuditTrail(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	logs, err := h.auditService.ListByEntity(c.Request.Context(), "order", id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Audit trail retrieved successfully", logs)
}

// addressInput converts an address payload to the service input
func addressInput(addr *request.Address) *service.AddressInput {
	if addr == nil {
		return nil
	}
	return &service.AddressInput{
		Name:       addr.Name,
		Address:    addr.Address,
		City:       addr.City,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
		Phone:      addr.Phone,
	}
}

// dateRangeFromQuery parses optional from/to date query parameters
func dateRangeFromQuery(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, err
		}
		// inclusive end of day
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
