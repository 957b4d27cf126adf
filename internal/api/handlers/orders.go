package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/cache"
	"github.com/stitchline/orderapi/internal/domain"
	"github.com/stitchline/orderapi/internal/events"
	"github.com/stitchline/orderapi/internal/repository"
	"github.com/stitchline/orderapi/internal/service"
	"github.com/stitchline/orderapi/pkg/errors"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// UpdateOrderStatusRequest represents the admin status update request
type UpdateOrderStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location,omitempty"`
	Details  string `json:"details,omitempty"`
}

// OrderResponse represents the admin order response
type OrderResponse struct {
	ID                string                 `json:"id"`
	OrderNumber       string                 `json:"order_number"`
	Status            domain.OrderStatus     `json:"status"`
	Customer          domain.CustomerInfo    `json:"customer"`
	Items             []domain.OrderItem     `json:"items"`
	Subtotal          float64                `json:"subtotal"`
	Shipping          float64                `json:"shipping"`
	Tax               float64                `json:"tax"`
	Total             float64                `json:"total"`
	PaymentMethod     domain.PaymentMethod   `json:"payment_method"`
	CurrentLocation   string                 `json:"current_location"`
	EstimatedDelivery string                 `json:"estimated_delivery"`
	TrackingHistory   []domain.TrackingEntry `json:"tracking_history"`
	CreatedAt         string                 `json:"created_at"`
	UpdatedAt         string                 `json:"updated_at"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:                order.ID.String(),
		OrderNumber:       order.OrderNumber,
		Status:            order.Status,
		Customer:          order.Customer,
		Items:             order.Items,
		Subtotal:          order.Subtotal,
		Shipping:          order.Shipping,
		Tax:               order.Tax,
		Total:             order.Total,
		PaymentMethod:     order.PaymentMethod,
		CurrentLocation:   order.CurrentLocation,
		EstimatedDelivery: order.EstimatedDelivery.Format(timeFormat),
		TrackingHistory:   order.TrackingHistory,
		CreatedAt:         order.CreatedAt.Format(timeFormat),
		UpdatedAt:         order.UpdatedAt.Format(timeFormat),
	}
}

// HandleListOrders handles GET /v1/admin/orders
func HandleListOrders(repos *repository.Repositories, producer *events.Producer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		statusStr := c.Query("status")
		limitStr := c.DefaultQuery("limit", "50")
		offsetStr := c.DefaultQuery("offset", "0")

		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			limit = 50
		}

		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			offset = 0
		}

		var status domain.OrderStatus
		if statusStr != "" {
			status = domain.OrderStatus(statusStr)
			if !status.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
				return
			}
		}

		orderService := service.NewOrderService(repos, producer, nil, logger)
		orders, err := orderService.ListOrders(c.Request.Context(), status, limit, offset)
		if err != nil {
			logger.Error("Failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		orderResponses := make([]OrderResponse, len(orders))
		for i, order := range orders {
			orderResponses[i] = toOrderResponse(order)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    orderResponses,
			"limit":   limit,
			"offset":  offset,
		})
	}
}

// HandleUpdateOrderStatus handles PUT /v1/admin/orders/:id
func HandleUpdateOrderStatus(repos *repository.Repositories, producer *events.Producer, store cache.Cache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderIDStr := c.Param("id")
		orderID, err := uuid.Parse(orderIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order ID"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orderService := service.NewOrderService(repos, producer, store, logger)
		order, err := orderService.UpdateStatus(c.Request.Context(), orderID, domain.OrderStatus(req.Status), req.Location, req.Details)
		if err != nil {
			switch err.(type) {
			case *errors.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			case *errors.ErrValidation, *errors.ErrInvalidStateTransition:
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			default:
				logger.Error("Failed to update order status", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update order"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "order status updated",
			"data": gin.H{
				"id":     order.ID.String(),
				"status": order.Status,
			},
		})
	}
}
