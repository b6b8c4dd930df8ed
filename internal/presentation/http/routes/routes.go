package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sheba-pos/outlet-gateway/internal/config"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/handler"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Voucher      *handler.VoucherHandler
	OfficeReturn *handler.OfficeReturnHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	Log *logrus.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Per-outlet rate limiter
		rateLimiter := middleware.NewOutletRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		idempotency := middleware.Idempotency(middleware.NewMemoryIdempotencyStore(24 * time.Hour))

		v1.POST("/vouchers", idempotency, h.Voucher.Submit)

		officeReturns := v1.Group("/office-returns")
		{
			officeReturns.POST("/sessions", h.OfficeReturn.CreateSession)
			officeReturns.GET("/sessions/:id/search", h.OfficeReturn.Search)
			officeReturns.PUT("/sessions/:id/entries/:barcode", h.OfficeReturn.SetQuantity)
			officeReturns.POST("/sessions/:id/entries/:barcode/submit", idempotency, h.OfficeReturn.SubmitRow)
		}
	}

	return router
}
