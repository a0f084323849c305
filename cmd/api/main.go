package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/application/service"
	"github.com/denisokoth/shopcore-api/internal/config"
	"github.com/denisokoth/shopcore-api/internal/infrastructure/client"
	"github.com/denisokoth/shopcore-api/internal/infrastructure/database"
	infraRepo "github.com/denisokoth/shopcore-api/internal/infrastructure/repository"
	"github.com/denisokoth/shopcore-api/internal/infrastructure/queue"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/handler"
	"github.com/denisokoth/shopcore-api/internal/presentation/http/routes"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	productRepo := infraRepo.NewProductRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	couponRepo := infraRepo.NewCouponRepository(db)
	inventoryRepo := infraRepo.NewInventoryRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	documentRepo := infraRepo.NewOrderDocumentRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	auditRepo := infraRepo.NewAuditRepository(db)

	cartRepo := infraRepo.NewCartRepository(db)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cartRepo = infraRepo.NewCachedCartRepository(cartRepo, redisClient, cfg.Redis.CartTTL, logger)
		logger.Info("cart cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Job queue
	var jobQueue port.JobQueue
	switch cfg.Jobs.Driver {
	case "amqp":
		amqpQueue, err := queue.NewAMQPQueue(cfg.AMQP.URL, cfg.Jobs.QueueName)
		if err != nil {
			logger.Fatal("failed to connect to message broker", zap.Error(err))
		}
		jobQueue = amqpQueue
		logger.Info("using amqp job queue", zap.String("queue", cfg.Jobs.QueueName))
	default:
		jobQueue = queue.NewMemoryQueue()
		logger.Info("using in-memory job queue")
	}
	defer jobQueue.Close()

	// External service clients
	templatesClient := client.NewTemplatesClient(cfg.Services.TemplatesURL, cfg.Services.Timeout)
	accountingClient := client.NewAccountingClient(cfg.Services.AccountingURL, cfg.Services.Timeout)
	notificationClient := client.NewNotificationClient(cfg.Services.NotificationURL, cfg.Services.Timeout)
	gateway := client.NewSimulatedGateway()

	storage, err := client.NewMinioStorage(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.Minio.BucketPrefix,
	)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	// Services
	auditService := service.NewAuditService(auditRepo, logger)
	couponService := service.NewCouponService(couponRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, couponService, cfg.Shop, logger)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo, cfg.Shop, logger)
	catalogService := service.NewCatalogService(productRepo, customerRepo)
	orderService := service.NewOrderService(
		orderRepo, customerRepo, productRepo, documentRepo,
		cartService, couponService, inventoryService, auditService,
		jobQueue, cfg.Shop, logger,
	)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, orderService, gateway, auditService, logger)
	orderPaymentService := service.NewOrderPaymentService(orderRepo, orderService, accountingClient, logger)
	jobService := service.NewOrderJobService(
		orderRepo, documentRepo,
		templatesClient, storage, accountingClient, notificationClient,
		cfg.Shop, logger,
	)

	// Background worker for document and invoice jobs
	worker := queue.NewWorker(jobQueue, jobService, cfg.Jobs.PollInterval, cfg.Jobs.MaxRetries, logger)
	go worker.Run(ctx)

	// Periodic expired cart sweep
	go runCartSweep(ctx, cartService, cfg.Shop.CartSweepInterval, logger)

	// HTTP layer
	handlers := &routes.Handlers{
		Cart:      handler.NewCartHandler(cartService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Coupon:    handler.NewCouponHandler(couponService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Order:     handler.NewOrderHandler(orderService, orderPaymentService, auditService),
		Payment:   handler.NewPaymentHandler(paymentService),
	}
	router := routes.Setup(handlers, &routes.Deps{Cfg: cfg, Logger: logger})

	server := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	// Let in-flight jobs finish before the queue closes
	worker.Drain(shutdownCtx)
}

// runCartSweep periodically deletes expired carts
func runCartSweep(ctx context.Context, carts *service.CartService, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := carts.CleanupExpiredCarts(ctx)
			if err != nil {
				logger.Error("cart sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("expired carts removed", zap.Int64("count", removed))
			}
		}
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.Env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
