package routes

import (
	adminController "github.com/InfinitechAdCorp/izakayaadmin/controllers/admin"
	orderControllers "github.com/InfinitechAdCorp/izakayaadmin/controllers/order"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires the auth_token cookie.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdminCookie("/"))
	{
		adminGroup.GET("/dashboard", adminController.Dashboard(d.Client, d.Logger))

		// websocket endpoint for orders placed through checkout
		adminGroup.GET("/orders/ws", orderControllers.OrderWebSocketHandler(d.Feed, d.Logger))
	}
}
