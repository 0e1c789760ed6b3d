package routes

import (
	orderControllers "github.com/InfinitechAdCorp/izakayaadmin/controllers/order"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/api/orders")
	{
		// Order history of the logged-in user
		orders.GET("", orderControllers.ListOrders(d.Client, d.Logger))

		// Relay an order the client assembled itself
		orders.POST("", orderControllers.CreateOrder(d.Client, d.Logger))
	}
}
