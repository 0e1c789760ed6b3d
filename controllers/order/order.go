package orderControllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/InfinitechAdCorp/izakayaadmin/controllers/respond"
	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const statusAll = "all"

type OrderLister interface {
	ListOrders(ctx context.Context, token string, query url.Values) ([]json.RawMessage, error)
}

type Forwarder interface {
	Forward(ctx context.Context, method, path, auth string, body []byte) (*upstream.Response, error)
}

// orderStatus reads order_status from a raw order. Orders without one are pending.
func orderStatus(raw json.RawMessage) models.OrderStatus {
	var o struct {
		OrderStatus string `json:"order_status"`
	}
	if err := json.Unmarshal(raw, &o); err != nil || o.OrderStatus == "" {
		return models.OrderStatusPending
	}
	return models.OrderStatus(o.OrderStatus)
}

// GET /api/orders lists the user's order history, optionally filtered by status.
func ListOrders(client OrderLister, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.BearerToken(c)
		if token == "" {
			respond.Error(c, errs.NewAuthRequired(), errs.MsgAuthRequired)
			return
		}

		filter := c.DefaultQuery("status", statusAll)
		if filter != statusAll {
			status, ok := models.ParseOrderStatus(filter)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
				return
			}
			filter = string(status)
		}

		query := url.Values{}
		for _, key := range []string{"page", "per_page"} {
			if v := c.Query(key); v != "" {
				query.Set(key, v)
			}
		}

		orders, err := client.ListOrders(c.Request.Context(), token, query)
		if err != nil {
			logger.Warn("Failed to fetch orders", zap.Error(err))
			respond.Error(c, err, "Failed to fetch orders")
			return
		}

		counts := map[string]int{statusAll: len(orders)}
		filtered := make([]json.RawMessage, 0, len(orders))
		for _, raw := range orders {
			status := string(orderStatus(raw))
			counts[status]++
			if filter == statusAll || status == filter {
				filtered = append(filtered, raw)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    filtered,
			"counts":  counts,
			"status":  filter,
		})
	}
}

// POST /api/orders relays an order the client assembled itself.
func CreateOrder(client Forwarder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		resp, err := client.Forward(c.Request.Context(), http.MethodPost, "/api/orders", c.GetHeader("Authorization"), body)
		if err != nil {
			logger.Error("Order passthrough failed", zap.Error(err))
			respond.Error(c, err, errs.MsgOrderFailed)
			return
		}
		respond.Passthrough(c, resp)
	}
}
