package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/events"
	"github.com/stitchline/orderapi/internal/payment"
	"github.com/stitchline/orderapi/internal/repository"
	"github.com/stitchline/orderapi/internal/service"
	"github.com/stitchline/orderapi/pkg/errors"
)

// CheckoutResponse represents the checkout response
type CheckoutResponse struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	Subtotal    float64 `json:"subtotal"`
	Shipping    float64 `json:"shipping"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// HandleCheckout handles POST /v1/orders
func HandleCheckout(repos *repository.Repositories, gateway payment.Gateway, producer *events.Producer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		checkoutService := service.NewCheckoutService(repos, gateway, producer, logger)
		order, err := checkoutService.Checkout(c.Request.Context(), req)
		if err != nil {
			switch err.(type) {
			case *errors.ErrValidation:
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			case *errors.ErrPaymentFailed:
				c.JSON(http.StatusPaymentRequired, gin.H{"success": false, "error": err.Error()})
			case *errors.ErrReconciliationRequired:
				// Payment captured, order not saved. Surface the manual
				// follow-up message verbatim.
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			default:
				logger.Error("Checkout failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create order"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data": CheckoutResponse{
				OrderID:     order.ID.String(),
				OrderNumber: order.OrderNumber,
				Status:      string(order.Status),
				Subtotal:    order.Subtotal,
				Shipping:    order.Shipping,
				Tax:         order.Tax,
				Total:       order.Total,
			},
		})
	}
}

// HandleCreatePaymentIntent handles POST /v1/payments
func HandleCreatePaymentIntent(repos *repository.Repositories, gateway payment.Gateway, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.PaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		checkoutService := service.NewCheckoutService(repos, gateway, nil, logger)
		intent, err := checkoutService.BeginOnlinePayment(c.Request.Context(), req)
		if err != nil {
			if _, ok := err.(*errors.ErrPaymentFailed); ok {
				c.JSON(http.StatusPaymentRequired, gin.H{"success": false, "error": err.Error()})
				return
			}
			logger.Error("Failed to create payment intent", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create payment"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": intent})
	}
}
