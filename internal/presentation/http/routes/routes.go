package routes

import (
	"github.com/denisokoth/shopcore-api/internal/config"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/handler"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Cart      *handler.CartHandler
	Catalog   *handler.CatalogHandler
	Coupon    *handler.CouponHandler
	Inventory *handler.InventoryHandler
	Order     *handler.OrderHandler
	Payment   *handler.PaymentHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg    *config.Config
	Logger *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(middleware.PrometheusMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		rateLimiter := middleware.NewIPRateLimiter(
			deps.Cfg.RateLimit.Requests,
			deps.Cfg.RateLimit.Duration,
		)
		v1.Use(rateLimiter.Middleware())

		registerCatalogRoutes(v1, h)
		registerCouponRoutes(v1, h)
		registerCartRoutes(v1, h)
		registerOrderRoutes(v1, h)
		registerPaymentRoutes(v1, h)
	}

	return router
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.POST("", h.Catalog.CreateProduct)
		products.GET("/:id", h.Catalog.GetProduct)
		products.PUT("/:id", h.Catalog.UpdateProduct)
		// Stock movement
		products.POST("/:id/stock/adjust", h.Inventory.AdjustStock)
		products.POST("/:id/stock/restock", h.Inventory.Restock)
		products.GET("/:id/stock/movements", h.Inventory.ListMovements)
	}
	v1.GET("/inventory/low-stock", h.Inventory.ListLowStock)

	customers := v1.Group("/customers")
	{
		customers.POST("", h.Catalog.CreateCustomer)
		customers.GET("", h.Catalog.ListCustomers)
		customers.GET("/:id", h.Catalog.GetCustomer)
		customers.GET("/:id/orders", h.Order.ListByCustomer)
		customers.GET("/:id/cart", h.Cart.GetByCustomer)
	}
}

func registerCouponRoutes(v1 *gin.RouterGroup, h *Handlers) {
	coupons := v1.Group("/coupons")
	{
		coupons.POST("", h.Coupon.Create)
		coupons.GET("", h.Coupon.List)
		coupons.GET("/:id", h.Coupon.Get)
		coupons.PUT("/:id", h.Coupon.Update)
		coupons.DELETE("/:id", h.Coupon.Delete)
	}
}

func registerCartRoutes(v1 *gin.RouterGroup, h *Handlers) {
	carts := v1.Group("/carts")
	{
		carts.POST("", h.Cart.Create)
		carts.GET("/:id", h.Cart.Get)
		carts.DELETE("/:id", h.Cart.Delete)
		carts.POST("/:id/items", h.Cart.AddItem)
		carts.PUT("/:id/items/:itemId", h.Cart.UpdateItem)
		carts.DELETE("/:id/items/:itemId", h.Cart.RemoveItem)
		carts.DELETE("/:id/items", h.Cart.Clear)
		carts.POST("/:id/merge", h.Cart.Merge)
		carts.POST("/:id/coupon", h.Cart.ApplyCoupon)
		carts.DELETE("/:id/coupon", h.Cart.RemoveCoupon)
	}
	v1.GET("/sessions/:sessionId/cart", h.Cart.GetBySession)
}

func registerOrderRoutes(v1 *gin.RouterGroup, h *Handlers) {
	orders := v1.Group("/orders")
	{
		orders.POST("/checkout", h.Order.Checkout)
		orders.POST("", h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/stats/revenue", h.Order.RevenueStats)
		orders.GET("/number/:orderNumber", h.Order.GetByNumber)
		orders.GET("/:id", h.Order.Get)
		orders.DELETE("/:id", h.Order.Delete)
		orders.POST("/:id/transition", h.Order.Transition)
		orders.POST("/:id/ship", h.Order.Ship)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.GET("/:id/documents", h.Order.ListDocuments)
		orders.GET("/:id/audit", h.Order.AuditTrail)
		orders.GET("/:id/payments", h.Payment.ListByOrder)
		// Accounting payment records
		orders.POST("/:id/payment-records", h.Order.LinkPaymentRecord)
		orders.GET("/:id/payment-records", h.Order.ListPaymentRecords)
		orders.POST("/:id/payment-records/:recordId/confirm", h.Order.ConfirmPaymentRecord)
	}
}

func registerPaymentRoutes(v1 *gin.RouterGroup, h *Handlers) {
	payments := v1.Group("/payments")
	{
		payments.POST("", h.Payment.Create)
		payments.GET("/:id", h.Payment.Get)
		payments.POST("/:id/process", h.Payment.Process)
		payments.POST("/:id/refund", h.Payment.Refund)
		payments.POST("/:id/void", h.Payment.Void)
	}
}
