package routes

import (
	"github.com/InfinitechAdCorp/izakayaadmin/auth"
	"github.com/InfinitechAdCorp/izakayaadmin/captcha"
	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/checkout"
	"github.com/InfinitechAdCorp/izakayaadmin/delivery"
	"github.com/InfinitechAdCorp/izakayaadmin/events"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps carries everything the handlers are built from.
type Deps struct {
	Client       *upstream.Client
	Captcha      *captcha.Verifier
	Issuer       *auth.Issuer
	Carts        *cart.Registry
	Sessions     *checkout.Sessions
	Orchestrator *checkout.Orchestrator
	Resolver     *delivery.Resolver
	Publisher    events.Publisher
	Feed         *events.Hub
	ImageBaseURL string
	Logger       *zap.Logger
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Health and public session bootstrap
	SetupHealthRoutes(r, d)
	SetupAuthRoutes(r, d)

	// 2️⃣ Session-scoped cart and checkout
	SetupSessionRoutes(r, d)

	// 3️⃣ Backend proxies
	SetupProxyRoutes(r, d)
	SetupOrderRoutes(r, d)

	// 4️⃣ Admin pages (cookie-protected)
	SetupAdminRoutes(r, d)
}
