package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/stockledger-api/internal/application/service"
	"github.com/sangkips/stockledger-api/internal/config"
	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/infrastructure/database"
	"github.com/sangkips/stockledger-api/internal/infrastructure/events"
	"github.com/sangkips/stockledger-api/internal/infrastructure/jobs"
	"github.com/sangkips/stockledger-api/internal/infrastructure/repository"
	"github.com/sangkips/stockledger-api/internal/infrastructure/storage"
	"github.com/sangkips/stockledger-api/internal/presentation/http/handler"
	"github.com/sangkips/stockledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/stockledger-api/internal/presentation/http/routes"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.Format == "json" || cfg.App.IsProduction(),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	photos, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}
	uploadsDir := ""
	if local, ok := photos.(*storage.LocalPhotoStore); ok {
		uploadsDir = local.Root()
	}

	publisher := events.New(cfg.Kafka, log)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := newIdempotencyRepository(ctx, cfg, db, log)

	// Initialize services
	inventoryService := service.NewInventoryService(productRepo, publisher, log)
	transactionService := service.NewTransactionService(
		repository.NewTransactor(db), inventoryService, saleRepo, purchaseRepo, publisher, cfg.Ledger, log,
	)
	productService := service.NewProductService(productRepo, photos, log)
	paymentService := service.NewPaymentService(paymentRepo)
	summaryService := service.NewSummaryService(productRepo, saleRepo, purchaseRepo, analyticsRepo, cfg.Ledger.LowStockThreshold)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.SchedulePurge(cfg.Idempotency.PurgeSpec, idempotencyRepo); err != nil {
		log.Fatalf("Invalid IDEMPOTENCY_PURGE_CRON %q: %v", cfg.Idempotency.PurgeSpec, err)
	}
	scheduler.Start()

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:     handler.NewProductHandler(productService, inventoryService, cfg.Ledger.LowStockThreshold),
		Transaction: handler.NewTransactionHandler(transactionService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Summary:     handler.NewSummaryHandler(summaryService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		UploadsDir:      uploadsDir,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting %s server on port %s (env %s)", cfg.App.Name, port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	scheduler.Stop()
	rateLimiter.Close()
	if err := publisher.Close(); err != nil {
		log.WithError(err).Error("Failed to flush ledger events")
	}
	if gcs, ok := photos.(*storage.GCSPhotoStore); ok {
		_ = gcs.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newIdempotencyRepository prefers Redis when REDIS_ADDR is set and reachable
func newIdempotencyRepository(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logrus.Logger) domainRepo.IdempotencyRepository {
	if cfg.Redis.Addr == "" {
		return repository.NewIdempotencyRepository(db)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, storing idempotency keys in the database")
		_ = rdb.Close()
		return repository.NewIdempotencyRepository(db)
	}

	log.Info("Storing idempotency keys in Redis")
	return repository.NewRedisIdempotencyRepository(rdb)
}
