package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupHealthRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		status := gin.H{
			"status":             "healthy",
			"service":            "izakaya-admin",
			"backend_configured": d.Client.BaseURL() != "",
			"open_checkouts":     d.Sessions.Len(),
			"order_feed_clients": d.Feed.Len(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := d.Publisher.HealthCheck(ctx); err != nil {
			d.Logger.Warn("Kafka health check failed", zap.Error(err))
			status["kafka"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["kafka"] = "healthy"
		c.JSON(http.StatusOK, status)
	})
}
