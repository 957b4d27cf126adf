package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/repository"
)

// ReconciliationResponse represents an open reconciliation record in
// the admin view
type ReconciliationResponse struct {
	ID             string  `json:"id"`
	OrderNumber    string  `json:"order_number"`
	GatewayOrderID string  `json:"gateway_order_id"`
	PaymentID      string  `json:"payment_id"`
	Amount         float64 `json:"amount"`
	CustomerEmail  string  `json:"customer_email"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

// HandleListReconciliations handles GET /v1/admin/reconciliations.
// It lists payments that were captured at the gateway but whose order
// could not be saved, so support can resolve them manually.
func HandleListReconciliations(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		records, err := repos.Reconciliation.ListOpen(c.Request.Context(), limit, offset)
		if err != nil {
			logger.Error("Failed to list reconciliations", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		responses := make([]ReconciliationResponse, len(records))
		for i, record := range records {
			responses[i] = ReconciliationResponse{
				ID:             record.ID.String(),
				OrderNumber:    record.OrderNumber,
				GatewayOrderID: record.GatewayOrderID,
				PaymentID:      record.PaymentID,
				Amount:         record.Amount,
				CustomerEmail:  record.CustomerEmail,
				Status:         record.Status,
				CreatedAt:      record.CreatedAt.Format(timeFormat),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    responses,
			"limit":   limit,
			"offset":  offset,
		})
	}
}
