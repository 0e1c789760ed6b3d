package routes

import (
	cartControllers "github.com/InfinitechAdCorp/izakayaadmin/controllers/cart"
	checkoutControllers "github.com/InfinitechAdCorp/izakayaadmin/controllers/checkout"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/gin-gonic/gin"
)

// SetupSessionRoutes registers the cart and checkout, keyed by the session token.
func SetupSessionRoutes(r *gin.Engine, d Deps) {
	carts := &cartControllers.Handlers{
		Carts:        d.Carts,
		ImageBaseURL: d.ImageBaseURL,
		Logger:       d.Logger,
	}
	checkouts := &checkoutControllers.Handlers{
		Carts:        d.Carts,
		Sessions:     d.Sessions,
		Orchestrator: d.Orchestrator,
		Orders:       d.Client,
		Logger:       d.Logger,
	}

	sessionGroup := r.Group("/api")
	sessionGroup.Use(middleware.RequireSession(d.Issuer))
	{
		// ─────────── Cart ───────────
		sessionGroup.GET("/cart", carts.GetCart)
		sessionGroup.DELETE("/cart", carts.ClearCart)
		sessionGroup.POST("/cart/items", carts.AddItem)
		sessionGroup.PUT("/cart/items/:id", carts.UpdateQuantity)
		sessionGroup.DELETE("/cart/items/:id", carts.RemoveItem)
		sessionGroup.GET("/cart/ws", carts.CartWebSocket)

		// ─────────── Checkout ───────────
		sessionGroup.GET("/checkout", checkouts.GetCheckout)
		sessionGroup.PUT("/checkout", checkouts.UpdateCheckout)
		sessionGroup.DELETE("/checkout", checkouts.DiscardCheckout)
		sessionGroup.POST("/checkout/prefill", checkouts.Prefill)
		sessionGroup.POST("/checkout/receipt", checkouts.AttachReceipt)
		sessionGroup.DELETE("/checkout/receipt", checkouts.RemoveReceipt)
		sessionGroup.POST("/checkout/submit", checkouts.Submit)
	}
}
