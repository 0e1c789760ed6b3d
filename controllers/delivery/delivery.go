package deliveryControllers

import (
	"net/http"
	"strings"

	"github.com/InfinitechAdCorp/izakayaadmin/delivery"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/gin-gonic/gin"
)

type FeeRequest struct {
	City string `json:"city"`
}

// POST /api/delivery-fee quotes a fee once, without debouncing. It always
// answers 200; lookups that fail fall back to the base fee.
func DeliveryFee(resolver *delivery.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input FeeRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		city := strings.TrimSpace(input.City)
		result := resolver.Resolve(c.Request.Context(), city, middleware.BearerToken(c))
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"city":         city,
				"delivery_fee": result.Fee,
				"from_backend": result.FromBackend,
			},
		})
	}
}
