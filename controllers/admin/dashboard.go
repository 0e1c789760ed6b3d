package adminController

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DashboardSource interface {
	DashboardAnalytics(ctx context.Context) (map[string]interface{}, error)
	ReservationCount(ctx context.Context) (int, error)
}

// fallbackDashboard keeps the dashboard renderable when the backend is down.
func fallbackDashboard() gin.H {
	return gin.H{
		"keyMetrics": gin.H{
			"totalRevenue":      0,
			"totalOrders":       0,
			"averageOrderValue": 0,
			"totalCustomers":    0,
			"growthRate":        0,
		},
		"revenueData":       []interface{}{},
		"orderStatusData":   []interface{}{},
		"paymentMethodData": []interface{}{},
		"popularProducts":   []interface{}{},
		"categoryData":      []interface{}{},
		"totalReservations": 0,
	}
}

// GET /api/dashboard and /admin/dashboard
func Dashboard(source DashboardSource, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			analytics         map[string]interface{}
			totalReservations int
		)

		g, ctx := errgroup.WithContext(c.Request.Context())
		g.Go(func() error {
			var err error
			analytics, err = source.DashboardAnalytics(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			totalReservations, err = source.ReservationCount(ctx)
			return err
		})

		if err := g.Wait(); err != nil {
			logger.Error("❌ Failed to fetch dashboard analytics", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to fetch analytics data",
				"message": err.Error(),
				"data":    fallbackDashboard(),
			})
			return
		}

		data := gin.H{}
		for k, v := range analytics {
			data[k] = v
		}
		data["totalReservations"] = totalReservations

		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}
