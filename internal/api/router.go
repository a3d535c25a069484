package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/api/handlers"
	"github.com/givespark/checkout-api/internal/api/middleware"
	"github.com/givespark/checkout-api/internal/config"
	"github.com/givespark/checkout-api/internal/ratelimit"
	"github.com/givespark/checkout-api/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, limiter ratelimit.Limiter, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public checkout (rate limited, no auth)
		checkoutRoutes := v1.Group("")
		checkoutRoutes.Use(middleware.RateLimitMiddleware(limiter, logger))
		checkoutRoutes.Use(middleware.IdempotencyMiddleware(repos, logger))
		{
			checkoutRoutes.POST("/checkout", handlers.HandleCheckout(cfg, repos, logger))
		}

		// Admin routes
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminAuthMiddleware(cfg.API.AdminKeyHash, logger))
		{
			adminRoutes.GET("/orders/:id", handlers.HandleGetOrder(repos, logger))
		}
	}

	return router
}

// corsMiddleware allows checkout from any storefront origin and echoes
// the permissive preflight.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, content-type, idempotency-key")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
