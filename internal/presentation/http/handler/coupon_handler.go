package handler

import (
	"github.com/denisokoth/shopcore-api/internal/application/service"
	"github.com/denisokoth/shopcore-api/internal/domain/enum"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/dto/request"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CouponHandler handles coupon-related HTTP requests
type CouponHandler struct {
	couponService *service.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// Create handles creating a coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req request.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	couponType, err := enum.ParseCouponType(req.Type)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), &service.CreateCouponInput{
		Code:                  req.Code,
		Description:           req.Description,
		Type:                  couponType,
		Value:                 req.Value,
		MinimumOrderAmount:    req.MinimumOrderAmount,
		MaximumDiscountAmount: req.MaximumDiscountAmount,
		UsageLimit:            req.UsageLimit,
		UsageLimitPerCustomer: req.UsageLimitPerCustomer,
		StartsAt:              req.StartsAt,
		ExpiresAt:             req.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Coupon created successfully", coupon)
}

// Get handles retrieving a coupon by ID
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	coupon, err := h.couponService.GetCoupon(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon retrieved successfully", coupon)
}

// List handles listing coupons
func (h *CouponHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	coupons, err := h.couponService.ListCoupons(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupons retrieved successfully", coupons)
}

// Update handles updating a coupon
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	var req request.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), id, &service.UpdateCouponInput{
		Description:           req.Description,
		Value:                 req.Value,
		MinimumOrderAmount:    req.MinimumOrderAmount,
		MaximumDiscountAmount: req.MaximumDiscountAmount,
		UsageLimit:            req.UsageLimit,
		IsActive:              req.IsActive,
		ExpiresAt:             req.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon updated successfully", coupon)
}

// Delete handles deleting a coupon
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.DeleteCoupon(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
