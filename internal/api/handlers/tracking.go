package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/cache"
	"github.com/stitchline/orderapi/internal/repository"
	"github.com/stitchline/orderapi/internal/service"
	"github.com/stitchline/orderapi/pkg/errors"
)

// HandleTrackOrder handles GET /v1/orders/track/:trackingNumber
func HandleTrackOrder(repos *repository.Repositories, c cache.Cache, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		trackingNumber := ctx.Param("trackingNumber")

		trackingService := service.NewTrackingService(repos, c, logger)
		view, err := trackingService.Track(ctx.Request.Context(), trackingNumber)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				ctx.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error":   "order not found, please check your order number and try again",
				})
				return
			}
			logger.Error("Failed to track order", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": view})
	}
}

// HandleOrderStats handles GET /v1/admin/orders/stats
func HandleOrderStats(repos *repository.Repositories, c cache.Cache, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		trackingService := service.NewTrackingService(repos, c, logger)
		counts, err := trackingService.Stats(ctx.Request.Context())
		if err != nil {
			logger.Error("Failed to get order stats", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": counts})
	}
}
