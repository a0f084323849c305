package handler

import (
	"strconv"

	"github.com/denisokoth/shopcore-api/internal/application/service"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/dto/request"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles stock movement HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// AdjustStock handles a signed stock adjustment for a product
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	movementType, err := enum.ParseMovementType(req.Type)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	variantID, ok := parseVariantID(req.VariantID)
	if !ok {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	movement, err := h.inventoryService.AdjustStock(c.Request.Context(), &service.AdjustStockInput{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  req.Quantity,
		Type:      movementType,
		Reason:    req.Reason,
		Reference: req.Reference,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", movement)
}

// Restock handles adding received stock to a product
func (h *InventoryHandler) Restock(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	variantID, ok := parseVariantID(req.VariantID)
	if !ok {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	movement, err := h.inventoryService.Restock(c.Request.Context(), productID, variantID, req.Quantity, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock restocked successfully", movement)
}

// ListMovements handles listing the movement ledger for a product
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), productID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory movements retrieved successfully", movements)
}

// ListLowStock handles listing products at or below their threshold
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	products, err := h.inventoryService.ListLowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// parseVariantID parses an optional variant ID from a request body
func parseVariantID(raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
