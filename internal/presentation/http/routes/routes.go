package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockledger-api/internal/config"
	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/presentation/http/handler"
	"github.com/sangkips/stockledger-api/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product     *handler.ProductHandler
	Transaction *handler.TransactionHandler
	Payment     *handler.PaymentHandler
	Summary     *handler.SummaryHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             *logrus.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	// UploadsDir is served under the storage public URL when photos are stored locally
	UploadsDir string
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.UploadsDir != "" && strings.HasPrefix(deps.Cfg.Storage.PublicURL, "/") {
		router.Static(deps.Cfg.Storage.PublicURL, deps.UploadsDir)
	}

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	if deps.IdempotencyRepo != nil {
		v1.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Idempotency.TTL,
			Log:  deps.Log,
		}))
	}

	registerProductRoutes(v1, h)
	registerTransactionRoutes(v1, h)
	registerPaymentRoutes(v1, h)
	v1.GET("/summary", h.Summary.Get)

	return router
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/search", h.Product.Search)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.POST("/import", h.Product.Import)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.POST("/:id/stock", h.Product.AdjustStock)
	}
}

func registerTransactionRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sales := v1.Group("/sales")
	{
		sales.GET("", h.Transaction.ListSales)
		sales.POST("", h.Transaction.RecordSale)
		sales.GET("/:id", h.Transaction.GetSale)
	}

	purchases := v1.Group("/purchases")
	{
		purchases.GET("", h.Transaction.ListPurchases)
		purchases.POST("", h.Transaction.RecordPurchase)
		purchases.GET("/:id", h.Transaction.GetPurchase)
	}
}

func registerPaymentRoutes(v1 *gin.RouterGroup, h *Handlers) {
	payments := v1.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.POST("", h.Payment.Record)
		payments.GET("/:id", h.Payment.Get)
	}
}
