package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stitchline/orderapi/internal/config"
)

// AdminAuth guards the admin routes with a bearer API key compared
// against the bcrypt hash in the config.
func AdminAuth(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
			})
			return
		}

		apiKey := strings.TrimPrefix(header, "Bearer ")
		if err := bcrypt.CompareHashAndPassword([]byte(cfg.Admin.APIKeyHash), []byte(apiKey)); err != nil {
			logger.Warn("Admin auth failed", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
			})
			return
		}

		c.Next()
	}
}
