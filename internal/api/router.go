package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/api/handlers"
	"github.com/stitchline/orderapi/internal/api/middleware"
	"github.com/stitchline/orderapi/internal/cache"
	"github.com/stitchline/orderapi/internal/config"
	"github.com/stitchline/orderapi/internal/events"
	"github.com/stitchline/orderapi/internal/payment"
	"github.com/stitchline/orderapi/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, gateway payment.Gateway, c cache.Cache, producer *events.Producer, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Storefront routes (public)
		v1.POST("/payments", handlers.HandleCreatePaymentIntent(repos, gateway, logger))
		v1.POST("/orders", handlers.HandleCheckout(repos, gateway, producer, logger))
		v1.GET("/orders/track/:trackingNumber", handlers.HandleTrackOrder(repos, c, logger))

		// Admin routes
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminAuth(cfg, logger))
		{
			adminRoutes.GET("/orders", handlers.HandleListOrders(repos, producer, logger))
			adminRoutes.GET("/orders/stats", handlers.HandleOrderStats(repos, c, logger))
			adminRoutes.PUT("/orders/:id", handlers.HandleUpdateOrderStatus(repos, producer, c, logger))
			adminRoutes.GET("/reconciliations", handlers.HandleListReconciliations(repos, logger))
		}
	}

	return router
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
