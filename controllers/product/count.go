package productcontroller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CountSource interface {
	ProductCount(ctx context.Context) (map[string]interface{}, int, error)
	BaseURL() string
	HasAPIToken() bool
}

// GET /api/product/count
func ProductCount(source CountSource, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, total, err := source.ProductCount(c.Request.Context())
		if err != nil {
			logger.Error("❌ Failed to fetch product count", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to fetch product count",
				"message": err.Error(),
				"debug": gin.H{
					"apiUrl":   source.BaseURL(),
					"hasToken": source.HasAPIToken(),
					"hint":     "Make sure API_URL is set and the backend API is running",
				},
				"totalProducts": 0,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"data":          data,
			"totalProducts": total,
		})
	}
}
